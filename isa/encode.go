/*
 * mars-red - Generic field-based encode/decode.
 *
 * Copyright 2026, mars-red contributors
 */

package isa

// maskMatch computes the (mask, match) pair used by DecodeWord, for
// every basic instruction. An instruction that supplies its own Encode
// (jalr's one-operand form) gets its pair here too: it only looks at
// Opcode/Funct/FixedRT/FixedRS, none of which that encoder changes the
// meaning of.
func maskMatch(bi *BasicInstruction) (mask, match uint32) {
	mask = 0xfc000000
	match = bi.Opcode << 26
	if bi.Format == FormatR {
		mask |= 0x3f
		match |= bi.Funct & 0x3f
	}
	if bi.HasFixedRT {
		mask |= 0x001f0000
		match |= (bi.FixedRT & 0x1f) << 16
	}
	if bi.HasFixedRS {
		mask |= 0x03e00000
		match |= (bi.FixedRS & 0x1f) << 21
	}
	return mask, match
}

// encodeFields builds a machine word from resolved operands using the
// generic R/I/J field layout. Used as BasicInstruction.Encode for
// every instruction that does not supply its own Encode.
func encodeFields(bi *BasicInstruction) EncodeFunc {
	return func(resolved []int32) uint32 {
		word := bi.Opcode << 26
		if bi.Format == FormatR {
			word |= bi.Funct & 0x3f
		}
		if bi.HasFixedRT {
			word |= (bi.FixedRT & 0x1f) << 16
		}
		if bi.HasFixedRS {
			word |= (bi.FixedRS & 0x1f) << 21
		}
		for i, f := range bi.OperandFields {
			v := uint32(resolved[i])
			switch f {
			case FieldRS:
				word |= (v & 0x1f) << 21
			case FieldRT:
				word |= (v & 0x1f) << 16
			case FieldRD:
				word |= (v & 0x1f) << 11
			case FieldShamt:
				word |= (v & 0x1f) << 6
			case FieldImm:
				word |= v & 0xffff
			case FieldTarget:
				word |= (v >> 2) & 0x3ffffff
			}
		}
		return word
	}
}

// decodeFields is the inverse of encodeFields.
func decodeFields(bi *BasicInstruction) DecodeFunc {
	return func(word uint32) []int32 {
		ops := make([]int32, len(bi.OperandFields))
		for i, f := range bi.OperandFields {
			switch f {
			case FieldRS:
				ops[i] = int32((word >> 21) & 0x1f)
			case FieldRT:
				ops[i] = int32((word >> 16) & 0x1f)
			case FieldRD:
				ops[i] = int32((word >> 11) & 0x1f)
			case FieldShamt:
				ops[i] = int32((word >> 6) & 0x1f)
			case FieldImm:
				ops[i] = signExtend16(uint16(word & 0xffff))
			case FieldTarget:
				ops[i] = int32((word & 0x3ffffff) << 2)
			}
		}
		return ops
	}
}

func signExtend16(v uint16) int32 {
	return int32(int16(v))
}

// decodeOperands decodes word using bi's Decode function, falling
// back to the generic field decoder when bi declares none.
func decodeOperands(bi *BasicInstruction, word uint32) []int32 {
	if bi.Decode != nil {
		return bi.Decode(word)
	}
	return decodeFields(bi)(word)
}

// finishGeneric fills in Encode/Decode for a BasicInstruction built
// with OperandFields and no custom coder, then registers it.
func finishGeneric(t *Table, bi *BasicInstruction) {
	if bi.Encode == nil {
		bi.Encode = encodeFields(bi)
	}
	if bi.Decode == nil {
		bi.Decode = decodeFields(bi)
	}
	t.addBasic(bi)
}
