/*
 * mars-red - Basic instruction table: coprocessor-0 move, trap family.
 *
 * Copyright 2026, mars-red contributors
 */

package isa

// registerSystemInstructions adds mfc0/mtc0/eret and the
// compare-and-trap family. mfc0/mtc0 reuse the generic field encoder:
// the COP0 "move" sub-opcode happens to sit in exactly the bits the
// rs field would occupy, so FixedRS stands in for it without a custom
// coder.
func registerSystemInstructions(t *Table) {
	cop0Ops := []OperandType{OpGPR, OpImm5} // rt = gpr, rd = cop0 register number
	cop0Fields := []Field{FieldRT, FieldRD}

	mfc0 := &BasicInstruction{ID: MFC0, Mnemonic: "mfc0", Example: "mfc0 $t0,$12",
		Format: FormatI, Opcode: 0x10, HasFixedRS: true, FixedRS: 0x00,
		Operands: cop0Ops, OperandFields: cop0Fields}
	finishGeneric(t, mfc0)

	mtc0 := &BasicInstruction{ID: MTC0, Mnemonic: "mtc0", Example: "mtc0 $t0,$12",
		Format: FormatI, Opcode: 0x10, HasFixedRS: true, FixedRS: 0x04,
		Operands: cop0Ops, OperandFields: cop0Fields}
	finishGeneric(t, mtc0)

	eret := &BasicInstruction{ID: ERET, Mnemonic: "eret", Example: "eret",
		Format: FormatR, Opcode: 0x10, Funct: 0x18, HasFixedRS: true, FixedRS: 0x10}
	finishGeneric(t, eret)

	trapPair := []OperandType{OpGPR, OpGPR}
	trapFields := []Field{FieldRS, FieldRT}
	finishGeneric(t, rType(TEQ, "teq", "teq $t0,$t1", 0x34, trapPair, trapFields))
	finishGeneric(t, rType(TNE, "tne", "tne $t0,$t1", 0x36, trapPair, trapFields))
	finishGeneric(t, rType(TGE, "tge", "tge $t0,$t1", 0x30, trapPair, trapFields))
	finishGeneric(t, rType(TLT, "tlt", "tlt $t0,$t1", 0x32, trapPair, trapFields))

	teqi := &BasicInstruction{ID: TEQI, Mnemonic: "teqi", Example: "teqi $t0,0",
		Format: FormatI, Opcode: 0x01, HasFixedRT: true, FixedRT: 0x0c,
		Operands: []OperandType{OpGPR, OpImm16S}, OperandFields: []Field{FieldRS, FieldImm}}
	finishGeneric(t, teqi)
}
