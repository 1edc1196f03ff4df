/*
 * mars-red - Extended (pseudo) instruction table.
 *
 * Copyright 2026, mars-red contributors
 */

package isa

// registerExtendedInstructions declares every pseudo-instruction this
// assembler recognizes. Template lines use %1.."%N" placeholders for
// operands in declaration order, %hi(%N)/%lo(%N) splitting a 32-bit
// constant or label operand, and a literal "nop" trailing line that
// the expander drops when delayed-branch simulation is disabled
// (§4.6's compaction rule) — "b" is the one pseudo-op here that
// exercises it, matching the historical SPIM convention of pairing an
// unconditional branch with an explicit delay-slot nop.
func registerExtendedInstructions(t *Table) {
	t.addExtended(&ExtendedInstruction{
		Mnemonic: "la", Operands: []OperandType{OpGPR, OpJumpLabel},
		StandardTemplate: []string{"lui %1,%hi(%2)", "ori %1,%1,%lo(%2)"},
		CompactTemplate:  []string{"ori %1,$zero,%2"},
	})
	t.addExtended(&ExtendedInstruction{
		Mnemonic: "li", Operands: []OperandType{OpGPR, OpImm16S},
		StandardTemplate: []string{"addiu %1,$zero,%2"},
	})
	t.addExtended(&ExtendedInstruction{
		Mnemonic: "li", Operands: []OperandType{OpGPR, OpImm16U},
		StandardTemplate: []string{"ori %1,$zero,%2"},
	})
	t.addExtended(&ExtendedInstruction{
		Mnemonic: "li", Operands: []OperandType{OpGPR, OpImm32},
		StandardTemplate: []string{"lui %1,%hi(%2)", "ori %1,%1,%lo(%2)"},
		CompactTemplate:  []string{"ori %1,$zero,%2"},
	})
	t.addExtended(&ExtendedInstruction{
		Mnemonic: "move", Operands: []OperandType{OpGPR, OpGPR},
		StandardTemplate: []string{"or %1,%2,$zero"},
	})
	t.addExtended(&ExtendedInstruction{
		Mnemonic: "nop", Operands: nil,
		StandardTemplate: []string{"sll $zero,$zero,0"},
	})
	t.addExtended(&ExtendedInstruction{
		Mnemonic: "not", Operands: []OperandType{OpGPR, OpGPR},
		StandardTemplate: []string{"nor %1,%2,$zero"},
	})
	t.addExtended(&ExtendedInstruction{
		Mnemonic: "b", Operands: []OperandType{OpBranchLabel},
		StandardTemplate: []string{"beq $zero,$zero,%1", "nop"},
	})
	t.addExtended(&ExtendedInstruction{
		Mnemonic: "abs", Operands: []OperandType{OpGPR, OpGPR},
		StandardTemplate: []string{"sra $at,%2,31", "xor %1,%2,$at", "subu %1,%1,$at"},
	})
	t.addExtended(&ExtendedInstruction{
		Mnemonic: "subi", Operands: []OperandType{OpGPR, OpGPR, OpImm16S},
		StandardTemplate: []string{"addi %1,%2,-%3"},
	})
	t.addExtended(&ExtendedInstruction{
		Mnemonic: "rem", Operands: []OperandType{OpGPR, OpGPR, OpGPR},
		StandardTemplate: []string{"div %2,%3", "mfhi %1"},
	})
	t.addExtended(&ExtendedInstruction{
		Mnemonic: "remu", Operands: []OperandType{OpGPR, OpGPR, OpGPR},
		StandardTemplate: []string{"divu %2,%3", "mfhi %1"},
	})
	t.addExtended(&ExtendedInstruction{
		Mnemonic: "blt", Operands: []OperandType{OpGPR, OpGPR, OpBranchLabel},
		StandardTemplate: []string{"slt $at,%1,%2", "bne $at,$zero,%3"},
	})
	t.addExtended(&ExtendedInstruction{
		Mnemonic: "bge", Operands: []OperandType{OpGPR, OpGPR, OpBranchLabel},
		StandardTemplate: []string{"slt $at,%1,%2", "beq $at,$zero,%3"},
	})
	t.addExtended(&ExtendedInstruction{
		Mnemonic: "ble", Operands: []OperandType{OpGPR, OpGPR, OpBranchLabel},
		StandardTemplate: []string{"slt $at,%2,%1", "beq $at,$zero,%3"},
	})
	t.addExtended(&ExtendedInstruction{
		Mnemonic: "bgt", Operands: []OperandType{OpGPR, OpGPR, OpBranchLabel},
		StandardTemplate: []string{"slt $at,%2,%1", "bne $at,$zero,%3"},
	})
	t.addExtended(&ExtendedInstruction{
		Mnemonic: "beqz", Operands: []OperandType{OpGPR, OpBranchLabel},
		StandardTemplate: []string{"beq %1,$zero,%2"},
	})
	t.addExtended(&ExtendedInstruction{
		Mnemonic: "bnez", Operands: []OperandType{OpGPR, OpBranchLabel},
		StandardTemplate: []string{"bne %1,$zero,%2"},
	})
}
