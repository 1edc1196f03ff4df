/*
 * mars-red - Coprocessor 0 (system control) register subset.
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

package register

// Coprocessor 0 register numbers this simulator models, per §3/§6.
const (
	CP0BadVAddr = 8
	CP0Status   = 12
	CP0Cause    = 13
	CP0EPC      = 14
)

// Cause register field: exception code occupies bits 2..6.
const (
	CauseCodeShift = 2
	CauseCodeMask  = 0x1f
)

// Exception cause codes, per §6.
const (
	CauseAddressFetch       = 4
	CauseAddressStore       = 5
	CauseSyscall            = 8
	CauseBreakpoint         = 9
	CauseReservedInstr      = 10
	CauseArithmeticOverflow = 12
	CauseTrap               = 13
)

// Status register bit: EXL (exception level), bit 1.
const StatusEXL = 1 << 1

// COP0 models the handful of Coprocessor 0 registers the simulator
// needs: each has a fixed writable mask (0xffffffff unless noted) so
// that mtc0 on a read-only bit silently drops those bits, matching
// the teacher's PutWordMask-style masked-store idiom used for control
// registers.
type COP0 struct {
	regs  [32]uint32
	masks [32]uint32
}

// NewCOP0 builds a COP0 file with every register fully writable
// except BadVAddr, which hardware only ever loads on a fault.
func NewCOP0() *COP0 {
	c := &COP0{}
	for i := range c.masks {
		c.masks[i] = 0xffffffff
	}
	c.masks[CP0BadVAddr] = 0
	return c
}

// Get reads a Coprocessor 0 register by number.
func (c *COP0) Get(num int) uint32 {
	return c.regs[num&0x1f]
}

// Set writes a Coprocessor 0 register, honoring its writable mask.
func (c *COP0) Set(num int, value uint32) {
	n := num & 0x1f
	c.regs[n] = (c.regs[n] &^ c.masks[n]) | (value & c.masks[n])
}

// ForceSet writes a register ignoring its mask; used by the simulator
// itself (not by mtc0) to load BadVAddr/EPC/Cause on a fault.
func (c *COP0) ForceSet(num int, value uint32) {
	c.regs[num&0x1f] = value
}

// Reset clears every Coprocessor 0 register.
func (c *COP0) Reset() {
	for i := range c.regs {
		c.regs[i] = 0
	}
}
