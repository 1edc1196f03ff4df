/*
 * mars-red - General purpose register file.
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

// Package register holds the three register files a MIPS32 core
// exposes to the assembler's tokenizer (symbolic names) and to the
// simulator's execute closures (read/write): the 32 general purpose
// registers plus PC/HI/LO, Coprocessor 0's control registers and
// Coprocessor 1's FP register file. Mirrors the teacher's package-level
// struct-plus-functions style rather than a class hierarchy: no
// interfaces are needed because there is exactly one concrete shape
// per file.
package register

// gprNames is the canonical SPIM register name table, index == number.
var gprNames = [32]string{
	"zero", "at", "v0", "v1", "a0", "a1", "a2", "a3",
	"t0", "t1", "t2", "t3", "t4", "t5", "t6", "t7",
	"s0", "s1", "s2", "s3", "s4", "s5", "s6", "s7",
	"t8", "t9", "k0", "k1", "gp", "sp", "fp", "ra",
}

// GPRFile holds the 32 general registers plus PC, HI and LO.
type GPRFile struct {
	r  [32]uint32
	pc uint32
	hi uint32
	lo uint32
}

// LookupGPRName returns the register number for a symbolic name such
// as "t0" or "zero" (without the leading '$').
func LookupGPRName(name string) (int, bool) {
	for i, n := range gprNames {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

// GPRName returns the canonical symbolic name for a register number.
func GPRName(num int) string {
	if num < 0 || num > 31 {
		return ""
	}
	return gprNames[num]
}

// Get reads a general register. Register 0 always reads as 0.
func (f *GPRFile) Get(num int) uint32 {
	if num == 0 {
		return 0
	}
	return f.r[num&0x1f]
}

// Set writes a general register. Writes to register 0 are ignored,
// per §3's invariant that $0 always reads as 0.
func (f *GPRFile) Set(num int, value uint32) {
	if num == 0 {
		return
	}
	f.r[num&0x1f] = value
}

// PC returns the program counter.
func (f *GPRFile) PC() uint32 { return f.pc }

// SetPC sets the program counter.
func (f *GPRFile) SetPC(value uint32) { f.pc = value }

// HI returns the HI multiply/divide result register.
func (f *GPRFile) HI() uint32 { return f.hi }

// SetHI sets the HI register.
func (f *GPRFile) SetHI(value uint32) { f.hi = value }

// LO returns the LO multiply/divide result register.
func (f *GPRFile) LO() uint32 { return f.lo }

// SetLO sets the LO register.
func (f *GPRFile) SetLO(value uint32) { f.lo = value }

// Reset clears every general register, PC, HI and LO to zero.
func (f *GPRFile) Reset() {
	for i := range f.r {
		f.r[i] = 0
	}
	f.pc = 0
	f.hi = 0
	f.lo = 0
}
