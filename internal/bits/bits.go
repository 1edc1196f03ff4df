/*
 * mars-red - Numeric parsing and bit-packing utilities.
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

// Package bits holds the small numeric helpers shared by the tokenizer,
// directive processor and instruction table: literal parsing, the
// narrowest-integer-kind test and the two-word/double-float packing
// SPIM-compatible assemblers rely on.
package bits

import (
	"strconv"
	"strings"
)

// Width classifies a parsed integer literal into the narrowest kind
// the tokenizer can assign it, matching the INTEGER_5/16/16U/32 token
// kinds of the tokenizer's classification table.
type Width int

const (
	Width5 Width = iota // fits unsigned 0..31
	Width16S            // fits signed 16 bit
	Width16U            // fits unsigned 16 bit, not signed 16 bit
	Width32             // needs the full 32 bits
)

// ParseInteger parses a decimal, 0x-hex or 0-octal literal the way SPIM
// does: hex literals are always taken as a raw 32-bit bit pattern (never
// sign-extended from their apparent width), decimal literals may carry
// a leading '-' and are parsed as a signed 64-bit value before range
// checks are applied.
func ParseInteger(tok string) (value int64, width Width, ok bool) {
	neg := false
	s := tok
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	} else if strings.HasPrefix(s, "+") {
		s = s[1:]
	}
	if s == "" {
		return 0, 0, false
	}

	switch {
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		u, err := strconv.ParseUint(s[2:], 16, 32)
		if err != nil {
			return 0, 0, false
		}
		// Hex literals are always a raw 32-bit pattern; a leading '-'
		// negates that pattern rather than sign-extending a 16-bit hex.
		v := int64(int32(uint32(u)))
		if neg {
			v = -v
		}
		return v, classify(v), true

	case strings.HasPrefix(s, "0") && len(s) > 1 && isOctalBody(s[1:]):
		u, err := strconv.ParseUint(s[1:], 8, 32)
		if err != nil {
			return 0, 0, false
		}
		v := int64(int32(uint32(u)))
		if neg {
			v = -v
		}
		return v, classify(v), true

	default:
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, 0, false
		}
		if neg {
			v = -v
		}
		if v < -(1<<31) || v > (1<<32-1) {
			return 0, 0, false
		}
		return v, classify(v), true
	}
}

func isOctalBody(s string) bool {
	for _, c := range s {
		if c < '0' || c > '7' {
			return false
		}
	}
	return true
}

// classify returns the narrowest Width that can represent v.
func classify(v int64) Width {
	if v >= 0 && v <= 31 {
		return Width5
	}
	if v >= -(1<<15) && v <= (1<<15-1) {
		return Width16S
	}
	if v >= 0 && v <= (1<<16-1) {
		return Width16U
	}
	return Width32
}

// FitsSigned16 reports whether v fits in a sign-extended 16-bit field.
func FitsSigned16(v int64) bool {
	return v >= -(1<<15) && v <= (1<<15-1)
}

// FitsUnsigned16 reports whether v fits in an unsigned 16-bit field.
func FitsUnsigned16(v int64) bool {
	return v >= 0 && v <= (1<<16-1)
}

// FitsUnsigned5 reports whether v fits an unsigned 5-bit field (GPR
// numbers, shift counts).
func FitsUnsigned5(v int64) bool {
	return v >= 0 && v <= 31
}

// SignExtend16 sign-extends a 16-bit field into a 32-bit value.
func SignExtend16(v uint16) int32 {
	return int32(int16(v))
}

// HiLo splits a 32-bit constant into the upper and lower halves used by
// the lui/ori expansion of 32-bit immediates and the la pseudo-op. No
// sign-extension compensation is needed here (unlike a lui/addiu
// pairing) because ori's immediate is zero-extended, so a plain
// shift-and-mask split round-trips through lui+ori exactly.
func HiLo(v uint32) (hi, lo uint16) {
	return uint16(v >> 16), uint16(v & 0xffff)
}

// PackDouble combines two adjacent 32-bit words (even register holds
// the low-order bits on a little-endian host pairing, per MARS's FP
// register convention of storing the low word in the even register)
// into an IEEE-754 double bit pattern.
func PackDouble(even, odd uint32) uint64 {
	return uint64(odd)<<32 | uint64(even)
}

// SplitDouble is the inverse of PackDouble.
func SplitDouble(bits uint64) (even, odd uint32) {
	return uint32(bits), uint32(bits >> 32)
}

// HexString formats v as MARS/SPIM does for register and memory dumps:
// zero padded, lower-case, no leading "0x".
func HexString(v uint32) string {
	s := strconv.FormatUint(uint64(v), 16)
	return strings.Repeat("0", 8-len(s)) + s
}
