/*
 * mars-red - Instruction table: shared types.
 *
 * Copyright 2024, Richard Cornwell
 * Copyright 2026, mars-red contributors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package isa is the declarative MIPS32 instruction table of §4.6: for
// every basic instruction, its mnemonic, operand-type list and an
// (opcode-mask, opcode-match) encoding pattern; for every extended
// (pseudo) instruction, its operand-type list and a standard (and
// optional compact) expansion template. It holds no execute closures
// and no machine state, unlike the teacher's emu/cpu, which bundles
// its opcode table and its execute methods into one package — that
// split exists here because both the assembler (encode) and the
// simulator (decode + execute) need this table, and a simulator
// package cannot be a dependency of the assembler package.
package isa

// Format names the three MIPS32 instruction-word layouts this table
// uses. (There is no separate "S" format as in the teacher's S/370
// table; MIPS has exactly three.)
type Format int

const (
	FormatR Format = iota // op(6) rs(5) rt(5) rd(5) shamt(5) funct(6)
	FormatI                // op(6) rs(5) rt(5) imm(16)
	FormatJ                // op(6) target(26)
)

// Field names a bit-field slot an operand can be placed into when
// encoding, or extracted from when decoding.
type Field int

const (
	FieldNone Field = iota
	FieldRS
	FieldRT
	FieldRD
	FieldShamt
	FieldImm
	FieldTarget
)

// OperandType is the syntactic category of one operand, used both to
// parse source operands and to drive §4.6's operand-matching cost
// function when an overloaded mnemonic (e.g. "li") has more than one
// candidate instruction.
type OperandType int

const (
	OpGPR         OperandType = iota // $t0-style integer register
	OpFPR                            // $f0-style FP register
	OpImm5                           // unsigned 0..31 (shift amount)
	OpImm16S                         // signed 16-bit immediate
	OpImm16U                         // unsigned 16-bit immediate
	OpImm32                          // full 32-bit constant (pseudo only)
	OpBranchLabel                    // PC-relative word displacement to a label
	OpJumpLabel                      // absolute word-aligned target label
	OpFPCond                         // 0..7 condition-flag index
)

// InstrID is a stable enum identifying each basic instruction, used by
// the simulator as the key into its function-pointer dispatch table
// (§9's replacement for per-instruction closures living on the table
// entry itself — mirrors the teacher's [256]func(*stepInfo) table
// keyed by opcode byte, generalized to a named enum since MIPS opcodes
// alone do not uniquely identify an instruction).
type InstrID int

// EncodeFunc builds a 32-bit machine word from resolved operand
// values, in the order BasicInstruction.Operands declares them.
type EncodeFunc func(resolved []int32) uint32

// DecodeFunc extracts resolved operand values from a machine word
// already known to match this instruction's mask/match pair.
type DecodeFunc func(word uint32) []int32

// BasicInstruction is one-to-one with a MIPS machine word, per the
// GLOSSARY.
type BasicInstruction struct {
	ID       InstrID
	Mnemonic string
	Example  string
	Format   Format
	Operands []OperandType

	// OperandFields maps each Operands[i] to the bit-field it occupies.
	// finishGeneric fills a nil Encode/Decode with the generic
	// field-based (en|de)coder in encode.go built from these fields;
	// only jalr's one-operand form supplies its own Encode.
	OperandFields []Field

	Opcode uint32 // 6-bit opcode field
	Funct  uint32 // 6-bit funct field, FormatR only
	// FixedRT/FixedRS pin a field to a constant instead of an operand,
	// for REGIMM-style instructions (bltz/bgez) where the "register"
	// slot in the word is actually a secondary opcode extension.
	FixedRT, FixedRS       uint32
	HasFixedRT, HasFixedRS bool

	Encode EncodeFunc
	Decode DecodeFunc

	Mask, Match uint32 // computed by addBasic(); decode test is (word&Mask)==Match
}

// ExtendedInstruction is one-to-many: an operand-type list and a
// standard (always available) expansion template, plus an optional
// compact template used only under a Compact memory configuration.
// Template lines are plain assembly text with %1.."%N" operand
// placeholders and %hi/%lo wrapping a 32-bit-constant or label
// operand.
type ExtendedInstruction struct {
	Mnemonic        string
	Operands        []OperandType
	StandardTemplate []string
	CompactTemplate  []string // nil if none declared
}

// Table is the full declarative instruction set: basic instructions
// keyed by mnemonic (a mnemonic may have more than one entry, e.g.
// jalr's one- and two-operand forms) and extended instructions keyed
// by mnemonic (again possibly more than one entry, e.g. li's 16- and
// 32-bit-constant forms).
type Table struct {
	basic    map[string][]*BasicInstruction
	extended map[string][]*ExtendedInstruction
	byID     map[InstrID]*BasicInstruction
}

// Default is the instruction table the assembler and simulator use
// unless a caller constructs its own (tests build private tables with
// NewTable, keeping isa free of any process-wide singleton per §9's
// anti-singleton redesign flag).
var Default = NewTable()

// NewTable builds an empty table and populates it with every basic
// and extended instruction this package declares.
func NewTable() *Table {
	t := &Table{
		basic:    make(map[string][]*BasicInstruction),
		extended: make(map[string][]*ExtendedInstruction),
		byID:     make(map[InstrID]*BasicInstruction),
	}
	registerBasicInstructions(t)
	registerExtendedInstructions(t)
	return t
}

func (t *Table) addBasic(bi *BasicInstruction) {
	bi.Mask, bi.Match = maskMatch(bi)
	name := bi.Mnemonic
	t.basic[name] = append(t.basic[name], bi)
	t.byID[bi.ID] = bi
}

func (t *Table) addExtended(ei *ExtendedInstruction) {
	t.extended[ei.Mnemonic] = append(t.extended[ei.Mnemonic], ei)
}

// LookupBasic returns every basic-instruction candidate declared for
// mnemonic (case-sensitive; callers upper-case first).
func (t *Table) LookupBasic(mnemonic string) []*BasicInstruction {
	return t.basic[mnemonic]
}

// LookupExtended returns every extended-instruction candidate declared
// for mnemonic.
func (t *Table) LookupExtended(mnemonic string) []*ExtendedInstruction {
	return t.extended[mnemonic]
}

// IsMnemonic reports whether name names any basic or extended
// instruction, for the tokenizer's classification step 9.
func (t *Table) IsMnemonic(name string) bool {
	if _, ok := t.basic[name]; ok {
		return true
	}
	_, ok := t.extended[name]
	return ok
}

// ByID returns the basic instruction registered under id.
func (t *Table) ByID(id InstrID) *BasicInstruction {
	return t.byID[id]
}

// DecodeWord finds the basic instruction whose mask/match pair
// accepts word, per §4.6 "yields ... the decoder used to decode binary
// back into a basic instruction". Mnemonics are scanned in map order
// and each mnemonic's entries in declaration order. Entries of
// different mnemonics are disjoint, so map order does not affect the
// result; jalr's two forms share one mask/match pair, and a jalr word
// decodes as the two-operand entry, declared first.
func (t *Table) DecodeWord(word uint32) (*BasicInstruction, []int32, bool) {
	for _, list := range t.basic {
		for _, bi := range list {
			if (word & bi.Mask) == bi.Match {
				return bi, decodeOperands(bi, word), true
			}
		}
	}
	return nil, nil, false
}
