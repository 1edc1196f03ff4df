package token

import (
	"testing"

	"github.com/myaltaccountsthis/mars-red/isa"
)

func TestTokenizeBasicInstructionLine(t *testing.T) {
	tz := NewTokenizer(isa.Default)
	toks := tz.TokenizeLine("t.s", 0, "    add $t0, $t1, $t2   # comment")
	var kinds []Kind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	want := []Kind{OPERATOR, REGISTER_NAME, DELIMITER, REGISTER_NAME, DELIMITER, REGISTER_NAME, COMMENT}
	if len(kinds) != len(want) {
		t.Fatalf("got %v kinds, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("token %d: got %v, want %v", i, kinds[i], want[i])
		}
	}
	if toks[0].Text != "add" {
		t.Fatalf("got mnemonic %q", toks[0].Text)
	}
	if toks[1].Value != 8 {
		t.Fatalf("got $t0 -> %d, want 8", toks[1].Value)
	}
}

func TestTokenizeLabelDirectiveAndMemoryOperand(t *testing.T) {
	tz := NewTokenizer(isa.Default)
	toks := tz.TokenizeLine("t.s", 1, "loop: lw $t0, -4($sp)")
	if toks[0].Kind != IDENTIFIER || toks[1].Kind != COLON {
		t.Fatalf("expected label+colon, got %v %v", toks[0].Kind, toks[1].Kind)
	}
	if toks[2].Kind != OPERATOR || toks[2].Text != "lw" {
		t.Fatalf("expected lw operator, got %v", toks[2])
	}
	foundImm, foundParen := false, false
	for _, tok := range toks {
		if tok.Kind == INTEGER_16S && tok.Value == -4 {
			foundImm = true
		}
		if tok.Kind == LEFT_PAREN {
			foundParen = true
		}
	}
	if !foundImm || !foundParen {
		t.Fatalf("missing expected tokens in %v", toks)
	}
}

func TestTokenizeDirectiveAndString(t *testing.T) {
	tz := NewTokenizer(isa.Default)
	toks := tz.TokenizeLine("t.s", 2, `.asciiz "hi\n"`)
	if toks[0].Kind != DIRECTIVE || toks[0].Text != ".asciiz" {
		t.Fatalf("expected .asciiz directive, got %v", toks[0])
	}
	if toks[1].Kind != STRING || toks[1].Str != "hi\n" {
		t.Fatalf("expected decoded string, got %q", toks[1].Str)
	}
}

func TestTokenizeHexAndOctalIntegers(t *testing.T) {
	tz := NewTokenizer(isa.Default)
	toks := tz.TokenizeLine("t.s", 3, ".word 0x10, 010, 100000")
	var vals []int64
	var kinds []Kind
	for _, tok := range toks {
		switch tok.Kind {
		case INTEGER_5, INTEGER_16S, INTEGER_16U, INTEGER_32:
			vals = append(vals, tok.Value)
			kinds = append(kinds, tok.Kind)
		}
	}
	if len(vals) != 3 || vals[0] != 0x10 || vals[1] != 010 || vals[2] != 100000 {
		t.Fatalf("got values %v", vals)
	}
	if kinds[0] != INTEGER_5 {
		t.Fatalf("expected hex literal 0x10 to classify as INTEGER_5, got %v", kinds[0])
	}
}

func TestTokenizeUnknownCharacterIsError(t *testing.T) {
	tz := NewTokenizer(isa.Default)
	toks := tz.TokenizeLine("t.s", 4, "add $t0, $t1, @")
	last := toks[len(toks)-1]
	if last.Kind != ERROR {
		t.Fatalf("expected trailing ERROR token, got %v", last)
	}
}
