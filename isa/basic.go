/*
 * mars-red - Basic instruction table: integer, memory, branch, jump.
 *
 * Copyright 2026, mars-red contributors
 */

package isa

// InstrID values for every basic instruction declared in this file
// and in basic_fp.go / basic_system.go. Grouped the way the teacher
// groups its op_* constants by functional area rather than
// alphabetically.
const (
	ADD InstrID = iota
	ADDU
	ADDI
	ADDIU
	SUB
	SUBU
	AND
	ANDI
	OR
	ORI
	XOR
	XORI
	NOR
	SLT
	SLTU
	SLTI
	SLTIU
	SLL
	SRL
	SRA
	SLLV
	SRLV
	SRAV
	LUI

	LW
	LH
	LHU
	LB
	LBU
	SW
	SH
	SB

	BEQ
	BNE
	BLEZ
	BGTZ
	BLTZ
	BGEZ
	J
	JAL
	JR
	JALR
	JALR1 // one-operand form, implicit $ra link register

	MULT
	MULTU
	DIV
	DIVU
	MFHI
	MFLO
	MTHI
	MTLO

	SYSCALL
	BREAK
	MFC0
	MTC0
	ERET

	TEQ
	TNE
	TGE
	TLT
	TEQI

	ADDS
	SUBS
	MULS
	DIVS
	MOVS
	MTC1
	MFC1
	CVTWS
	CVTSW
	CEQS
	CLTS
	BC1T
	BC1F
	LWC1
	SWC1

	ADDD
	SUBD
	MULD
	DIVD
	MOVD
	CVTWD
	CVTDW
	CEQD
	CLTD
	LDC1
	SDC1
)

func rType(id InstrID, mnemonic, example string, funct uint32, ops []OperandType, fields []Field) *BasicInstruction {
	return &BasicInstruction{
		ID: id, Mnemonic: mnemonic, Example: example,
		Format: FormatR, Funct: funct, Operands: ops, OperandFields: fields,
	}
}

func iType(id InstrID, mnemonic, example string, opcode uint32, ops []OperandType, fields []Field) *BasicInstruction {
	return &BasicInstruction{
		ID: id, Mnemonic: mnemonic, Example: example,
		Format: FormatI, Opcode: opcode, Operands: ops, OperandFields: fields,
	}
}

// registerBasicInstructions populates t with every instruction in this
// file, plus (from basic_fp.go / basic_system.go) the COP0/COP1/trap
// families, which use the same generic field encoder.
func registerBasicInstructions(t *Table) {
	alu := []Field{FieldRD, FieldRS, FieldRT}
	aluI := []Field{FieldRT, FieldRS, FieldImm}
	gprGprGpr := []OperandType{OpGPR, OpGPR, OpGPR}
	gprGprImmS := []OperandType{OpGPR, OpGPR, OpImm16S}
	gprGprImmU := []OperandType{OpGPR, OpGPR, OpImm16U}

	finishGeneric(t, rType(ADD, "add", "add $t0,$t1,$t2", 0x20, gprGprGpr, alu))
	finishGeneric(t, rType(ADDU, "addu", "addu $t0,$t1,$t2", 0x21, gprGprGpr, alu))
	finishGeneric(t, iType(ADDI, "addi", "addi $t0,$t1,-100", 0x08, gprGprImmS, aluI))
	finishGeneric(t, iType(ADDIU, "addiu", "addiu $t0,$t1,-100", 0x09, gprGprImmS, aluI))
	finishGeneric(t, rType(SUB, "sub", "sub $t0,$t1,$t2", 0x22, gprGprGpr, alu))
	finishGeneric(t, rType(SUBU, "subu", "subu $t0,$t1,$t2", 0x23, gprGprGpr, alu))
	finishGeneric(t, rType(AND, "and", "and $t0,$t1,$t2", 0x24, gprGprGpr, alu))
	finishGeneric(t, iType(ANDI, "andi", "andi $t0,$t1,100", 0x0c, gprGprImmU, aluI))
	finishGeneric(t, rType(OR, "or", "or $t0,$t1,$t2", 0x25, gprGprGpr, alu))
	finishGeneric(t, iType(ORI, "ori", "ori $t0,$t1,100", 0x0d, gprGprImmU, aluI))
	finishGeneric(t, rType(XOR, "xor", "xor $t0,$t1,$t2", 0x26, gprGprGpr, alu))
	finishGeneric(t, iType(XORI, "xori", "xori $t0,$t1,100", 0x0e, gprGprImmU, aluI))
	finishGeneric(t, rType(NOR, "nor", "nor $t0,$t1,$t2", 0x27, gprGprGpr, alu))
	finishGeneric(t, rType(SLT, "slt", "slt $t0,$t1,$t2", 0x2a, gprGprGpr, alu))
	finishGeneric(t, rType(SLTU, "sltu", "sltu $t0,$t1,$t2", 0x2b, gprGprGpr, alu))
	finishGeneric(t, iType(SLTI, "slti", "slti $t0,$t1,100", 0x0a, gprGprImmS, aluI))
	finishGeneric(t, iType(SLTIU, "sltiu", "sltiu $t0,$t1,100", 0x0b, gprGprImmU, aluI))

	shift := []Field{FieldRD, FieldRT, FieldShamt}
	gprGprImm5 := []OperandType{OpGPR, OpGPR, OpImm5}
	finishGeneric(t, rType(SLL, "sll", "sll $t0,$t1,4", 0x00, gprGprImm5, shift))
	finishGeneric(t, rType(SRL, "srl", "srl $t0,$t1,4", 0x02, gprGprImm5, shift))
	finishGeneric(t, rType(SRA, "sra", "sra $t0,$t1,4", 0x03, gprGprImm5, shift))

	shiftV := []Field{FieldRD, FieldRT, FieldRS}
	finishGeneric(t, rType(SLLV, "sllv", "sllv $t0,$t1,$t2", 0x04, gprGprGpr, shiftV))
	finishGeneric(t, rType(SRLV, "srlv", "srlv $t0,$t1,$t2", 0x06, gprGprGpr, shiftV))
	finishGeneric(t, rType(SRAV, "srav", "srav $t0,$t1,$t2", 0x07, gprGprGpr, shiftV))

	finishGeneric(t, iType(LUI, "lui", "lui $t0,100", 0x0f, []OperandType{OpGPR, OpImm16U}, []Field{FieldRT, FieldImm}))

	memOps := []OperandType{OpGPR, OpImm16S, OpGPR}
	memFields := []Field{FieldRT, FieldImm, FieldRS}
	finishGeneric(t, iType(LW, "lw", "lw $t0,100($t1)", 0x23, memOps, memFields))
	finishGeneric(t, iType(LH, "lh", "lh $t0,100($t1)", 0x21, memOps, memFields))
	finishGeneric(t, iType(LHU, "lhu", "lhu $t0,100($t1)", 0x25, memOps, memFields))
	finishGeneric(t, iType(LB, "lb", "lb $t0,100($t1)", 0x20, memOps, memFields))
	finishGeneric(t, iType(LBU, "lbu", "lbu $t0,100($t1)", 0x24, memOps, memFields))
	finishGeneric(t, iType(SW, "sw", "sw $t0,100($t1)", 0x2b, memOps, memFields))
	finishGeneric(t, iType(SH, "sh", "sh $t0,100($t1)", 0x29, memOps, memFields))
	finishGeneric(t, iType(SB, "sb", "sb $t0,100($t1)", 0x28, memOps, memFields))

	branchOps := []OperandType{OpGPR, OpGPR, OpBranchLabel}
	branchFields := []Field{FieldRS, FieldRT, FieldImm}
	finishGeneric(t, iType(BEQ, "beq", "beq $t0,$t1,label", 0x04, branchOps, branchFields))
	finishGeneric(t, iType(BNE, "bne", "bne $t0,$t1,label", 0x05, branchOps, branchFields))

	branch1Ops := []OperandType{OpGPR, OpBranchLabel}
	branch1Fields := []Field{FieldRS, FieldImm}
	finishGeneric(t, iType(BLEZ, "blez", "blez $t0,label", 0x06, branch1Ops, branch1Fields))
	finishGeneric(t, iType(BGTZ, "bgtz", "bgtz $t0,label", 0x07, branch1Ops, branch1Fields))

	bltz := iType(BLTZ, "bltz", "bltz $t0,label", 0x01, branch1Ops, branch1Fields)
	bltz.HasFixedRT, bltz.FixedRT = true, 0x00
	finishGeneric(t, bltz)
	bgez := iType(BGEZ, "bgez", "bgez $t0,label", 0x01, branch1Ops, branch1Fields)
	bgez.HasFixedRT, bgez.FixedRT = true, 0x01
	finishGeneric(t, bgez)

	jBI := &BasicInstruction{ID: J, Mnemonic: "j", Example: "j label", Format: FormatJ, Opcode: 0x02,
		Operands: []OperandType{OpJumpLabel}, OperandFields: []Field{FieldTarget}}
	finishGeneric(t, jBI)
	jalBI := &BasicInstruction{ID: JAL, Mnemonic: "jal", Example: "jal label", Format: FormatJ, Opcode: 0x03,
		Operands: []OperandType{OpJumpLabel}, OperandFields: []Field{FieldTarget}}
	finishGeneric(t, jalBI)

	finishGeneric(t, rType(JR, "jr", "jr $t0", 0x08, []OperandType{OpGPR}, []Field{FieldRS}))
	finishGeneric(t, rType(JALR, "jalr", "jalr $t0,$t1", 0x09, gprGprGpr[:2], []Field{FieldRD, FieldRS}))
	// The one-operand form links through $ra, so its word carries rd=31
	// and decodes to the same effect under either jalr entry.
	jalr1 := rType(JALR1, "jalr", "jalr $t1", 0x09, []OperandType{OpGPR}, []Field{FieldRS})
	jalr1Fields := encodeFields(jalr1)
	jalr1.Encode = func(resolved []int32) uint32 { return jalr1Fields(resolved) | 31<<11 }
	finishGeneric(t, jalr1)

	mulDivPair := []OperandType{OpGPR, OpGPR}
	mulDivFields := []Field{FieldRS, FieldRT}
	finishGeneric(t, rType(MULT, "mult", "mult $t0,$t1", 0x18, mulDivPair, mulDivFields))
	finishGeneric(t, rType(MULTU, "multu", "multu $t0,$t1", 0x19, mulDivPair, mulDivFields))
	finishGeneric(t, rType(DIV, "div", "div $t0,$t1", 0x1a, mulDivPair, mulDivFields))
	finishGeneric(t, rType(DIVU, "divu", "divu $t0,$t1", 0x1b, mulDivPair, mulDivFields))

	finishGeneric(t, rType(MFHI, "mfhi", "mfhi $t0", 0x10, []OperandType{OpGPR}, []Field{FieldRD}))
	finishGeneric(t, rType(MFLO, "mflo", "mflo $t0", 0x12, []OperandType{OpGPR}, []Field{FieldRD}))
	finishGeneric(t, rType(MTHI, "mthi", "mthi $t0", 0x11, []OperandType{OpGPR}, []Field{FieldRS}))
	finishGeneric(t, rType(MTLO, "mtlo", "mtlo $t0", 0x13, []OperandType{OpGPR}, []Field{FieldRS}))

	finishGeneric(t, rType(SYSCALL, "syscall", "syscall", 0x0c, nil, nil))
	finishGeneric(t, rType(BREAK, "break", "break", 0x0d, nil, nil))

	registerSystemInstructions(t)
	registerFPInstructions(t)
}
