package isa

import "testing"

func TestEncodeDecodeRoundTripADD(t *testing.T) {
	tbl := NewTable()
	bi := tbl.LookupBasic("add")[0]
	word := bi.Encode([]int32{8, 9, 10}) // $t0,$t1,$t2 -> rd=8,rs=9,rt=10
	got, gotOps, ok := tbl.DecodeWord(word)
	if !ok {
		t.Fatalf("decode failed for word %#x", word)
	}
	if got.ID != ADD {
		t.Fatalf("decoded %v, want ADD", got.Mnemonic)
	}
	if len(gotOps) != 3 || gotOps[0] != 8 || gotOps[1] != 9 || gotOps[2] != 10 {
		t.Fatalf("decoded operands %v, want [8 9 10]", gotOps)
	}
}

func TestEncodeDecodeAddiSignExtend(t *testing.T) {
	tbl := NewTable()
	bi := tbl.LookupBasic("addi")[0]
	word := bi.Encode([]int32{8, 9, -1})
	_, ops, ok := tbl.DecodeWord(word)
	if !ok {
		t.Fatalf("decode failed")
	}
	if ops[2] != -1 {
		t.Fatalf("got imm %d, want -1", ops[2])
	}
}

func TestDecodeDistinguishesBltzBgez(t *testing.T) {
	tbl := NewTable()
	bltz := tbl.LookupBasic("bltz")[0]
	word := bltz.Encode([]int32{8, 4})
	bi, _, ok := tbl.DecodeWord(word)
	if !ok || bi.ID != BLTZ {
		t.Fatalf("expected BLTZ, got %v ok=%v", bi, ok)
	}
	bgez := tbl.LookupBasic("bgez")[0]
	word2 := bgez.Encode([]int32{8, 4})
	bi2, _, ok2 := tbl.DecodeWord(word2)
	if !ok2 || bi2.ID != BGEZ {
		t.Fatalf("expected BGEZ, got %v ok=%v", bi2, ok2)
	}
	if word == word2 {
		t.Fatalf("bltz and bgez encoded identically: %#x", word)
	}
}

func TestDecodeMfc0Mtc0(t *testing.T) {
	tbl := NewTable()
	mfc0 := tbl.LookupBasic("mfc0")[0]
	word := mfc0.Encode([]int32{8, 12}) // $t0, $12
	bi, ops, ok := tbl.DecodeWord(word)
	if !ok || bi.ID != MFC0 {
		t.Fatalf("expected MFC0, got %v ok=%v", bi, ok)
	}
	if ops[0] != 8 || ops[1] != 12 {
		t.Fatalf("got ops %v, want [8 12]", ops)
	}
}

func TestBestBasicMatchLui(t *testing.T) {
	tbl := NewTable()
	given := []CandidateOperand{{IsGPR: true}, {Kind: OpImm16U}}
	bi := tbl.BestBasicMatch("lui", given)
	if bi == nil || bi.ID != LUI {
		t.Fatalf("expected LUI match, got %v", bi)
	}
}

func TestBestExtendedMatchLiPicksNarrowestTemplate(t *testing.T) {
	tbl := NewTable()
	narrow := []CandidateOperand{{IsGPR: true}, {Kind: OpImm16S}}
	ei := tbl.BestExtendedMatch("li", narrow)
	if ei == nil || len(ei.StandardTemplate) != 1 {
		t.Fatalf("expected single-line li template for 16-bit constant, got %v", ei)
	}

	wide := []CandidateOperand{{IsGPR: true}, {Kind: OpImm32}}
	ei2 := tbl.BestExtendedMatch("li", wide)
	if ei2 == nil || len(ei2.StandardTemplate) != 2 {
		t.Fatalf("expected two-line li template for 32-bit constant, got %v", ei2)
	}
}

func TestMatchCostRejectsRegisterForImmediate(t *testing.T) {
	given := []CandidateOperand{{IsGPR: true}, {IsGPR: true}, {IsGPR: true}}
	if c := MatchCost([]OperandType{OpGPR, OpGPR, OpImm16S}, given); c != -1 {
		t.Fatalf("expected incompatible match, got cost %d", c)
	}
}

func TestJAndJalEncodeTargetField(t *testing.T) {
	tbl := NewTable()
	j := tbl.LookupBasic("j")[0]
	word := j.Encode([]int32{0x00400100})
	bi, ops, ok := tbl.DecodeWord(word)
	if !ok || bi.ID != J {
		t.Fatalf("expected J, got %v ok=%v", bi, ok)
	}
	if ops[0] != 0x00400100 {
		t.Fatalf("got target %#x, want 0x00400100", ops[0])
	}
}
