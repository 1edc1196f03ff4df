/*
 * mars-red - Coprocessor 1 (floating point) register file.
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

import (
	"math"

	"github.com/myaltaccountsthis/mars-red/internal/bits"
)

// fpRegName returns the symbolic name "f<n>" of FP register n.
func fpRegName(n int) string {
	return "f" + itoa(n)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	buf := [3]byte{}
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// LookupFPRegName parses "f0".."f31" into a register number.
func LookupFPRegName(name string) (int, bool) {
	if len(name) < 2 || name[0] != 'f' {
		return 0, false
	}
	n := 0
	for _, c := range name[1:] {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	if n > 31 {
		return 0, false
	}
	return n, true
}

// FPRegName returns the canonical "f<n>" name.
func FPRegName(num int) string {
	if num < 0 || num > 31 {
		return ""
	}
	return fpRegName(num)
}

// COP1 models the 32 single-precision FP registers, addressable in
// even/odd pairs as 16 doubles, plus the 8 condition flags described
// in §3. FCSR control/status semantics are out of scope (§1 Non-goals);
// the condition flags are tracked directly as booleans instead.
type COP1 struct {
	r     [32]uint32
	flags [8]bool
}

// NewCOP1 builds a zeroed Coprocessor 1 file.
func NewCOP1() *COP1 {
	return &COP1{}
}

// GetWord reads a single FP register as its raw bit pattern.
func (c *COP1) GetWord(num int) uint32 {
	return c.r[num&0x1f]
}

// SetWord writes a single FP register's raw bit pattern.
func (c *COP1) SetWord(num int, value uint32) {
	c.r[num&0x1f] = value
}

// GetFloat reads a single FP register as a float32.
func (c *COP1) GetFloat(num int) float32 {
	return math.Float32frombits(c.r[num&0x1f])
}

// SetFloat writes a single FP register from a float32.
func (c *COP1) SetFloat(num int, v float32) {
	c.r[num&0x1f] = math.Float32bits(v)
}

// GetDouble reads the even/odd pair starting at num (num must be even
// by convention, but MARS does not enforce it at this layer) as a
// float64, per §3's even/odd-pair double convention.
func (c *COP1) GetDouble(num int) float64 {
	even := c.r[num&0x1e]
	odd := c.r[(num&0x1e)+1]
	return math.Float64frombits(bits.PackDouble(even, odd))
}

// SetDouble writes a float64 across the even/odd pair starting at num.
func (c *COP1) SetDouble(num int, v float64) {
	even, odd := bits.SplitDouble(math.Float64bits(v))
	c.r[num&0x1e] = even
	c.r[(num&0x1e)+1] = odd
}

// Flag reads condition flag i (0..7).
func (c *COP1) Flag(i int) bool {
	return c.flags[i&0x7]
}

// SetFlag sets condition flag i (0..7).
func (c *COP1) SetFlag(i int, v bool) {
	c.flags[i&0x7] = v
}

// Reset clears every FP register and condition flag.
func (c *COP1) Reset() {
	for i := range c.r {
		c.r[i] = 0
	}
	for i := range c.flags {
		c.flags[i] = false
	}
}
