/*
 * mars-red - Assembler directive processing.
 *
 * Copyright 2026, mars-red contributors
 */

package asm

import (
	"math"

	"github.com/myaltaccountsthis/mars-red/asm/loc"
	"github.com/myaltaccountsthis/mars-red/asm/symtab"
	"github.com/myaltaccountsthis/mars-red/asm/token"
)

// handleDirective dispatches one ".name ..." line. .eqv, .macro and
// .end_macro never reach here: preprocess consumes them before
// tokenization.
func (a *Assembler) handleDirective(d token.Token, rest []token.Token, ln rawLine) {
	at := a.locFor(ln)
	switch d.Text {
	case ".text":
		a.segment = "text"
		a.setSegmentFromAddrArg(rest, &a.textAddr)
	case ".data":
		a.segment = "data"
		a.setSegmentFromAddrArg(rest, &a.dataAddr)
	case ".ktext":
		a.segment = "ktext"
		a.setSegmentFromAddrArg(rest, &a.ktextAddr)
	case ".kdata":
		a.segment = "kdata"
		a.setSegmentFromAddrArg(rest, &a.kdataAddr)
	case ".extern":
		a.handleExtern(rest, at)
	case ".globl", ".global":
		a.handleGlobl(rest, at)
	case ".align":
		a.handleAlign(rest, at)
	case ".space":
		a.handleSpace(rest, at)
	case ".word":
		a.handleWordList(rest, at, 4)
	case ".half":
		a.handleWordList(rest, at, 2)
	case ".byte":
		a.handleWordList(rest, at, 1)
	case ".float":
		a.handleFloatList(rest, at, 4)
	case ".double":
		a.handleFloatList(rest, at, 8)
	case ".ascii":
		a.handleAscii(rest, false, at)
	case ".asciiz":
		a.handleAscii(rest, true, at)
	case ".set":
		// "noreorder"/"reorder"/"nomacro" etc: accepted and ignored, as
		// these only affect optimizations this assembler never performs.
	case ".include":
		a.diags.Errorf(at, ".include is not supported;concatenate source files before assembling")
	default:
		a.diags.Warnf(at, "unrecognized directive %q ignored", d.Text)
	}
}

func (a *Assembler) setSegmentFromAddrArg(rest []token.Token, cursor *uint32) {
	if len(rest) == 0 {
		return
	}
	switch rest[0].Kind {
	case token.INTEGER_5, token.INTEGER_16S, token.INTEGER_16U, token.INTEGER_32:
		*cursor = uint32(rest[0].Value)
	}
}

func (a *Assembler) handleExtern(rest []token.Token, at loc.Location) {
	if len(rest) < 2 || rest[0].Kind != token.IDENTIFIER {
		a.diags.Errorf(at, ".extern expects a name and a size")
		return
	}
	size := uint32(rest[1].Value)
	if err := a.syms.DefineLocal(rest[0].Text, a.externAddr, true); err != nil {
		a.diags.Errorf(at, "%v", err)
		return
	}
	if err := a.syms.DefineGlobal(rest[0].Text); err != nil {
		a.diags.Errorf(at, "%v", err)
	}
	a.externAddr += size
}

func (a *Assembler) handleGlobl(rest []token.Token, at loc.Location) {
	for _, t := range rest {
		if t.Kind != token.IDENTIFIER {
			continue
		}
		if err := a.syms.DefineGlobal(t.Text); err != nil {
			// Exporting before the label's definition line is common
			// (".globl main" at the top of a file), so this only warns
			// rather than failing the assembly. The label is not
			// promoted when its definition appears later: it stays
			// local to its file.
			a.diags.Warnf(at, "%v", err)
		}
	}
}

func (a *Assembler) handleAlign(rest []token.Token, at loc.Location) {
	if len(rest) == 0 {
		return
	}
	n := rest[0].Value
	if n == 0 {
		a.noAlign = true
		return
	}
	a.noAlign = false
	boundary := uint32(1) << uint(n)
	addr := a.curAddr()
	if rem := addr % boundary; rem != 0 {
		a.setCurAddr(addr + (boundary - rem))
	}
}

func (a *Assembler) handleSpace(rest []token.Token, at loc.Location) {
	if len(rest) == 0 {
		a.diags.Errorf(at, ".space expects a byte count")
		return
	}
	a.advance(uint32(rest[0].Value))
}

func (a *Assembler) autoAlign(size uint32) {
	if a.noAlign || size <= 1 {
		return
	}
	addr := a.curAddr()
	if rem := addr % size; rem != 0 {
		a.setCurAddr(addr + (size - rem))
	}
}

func (a *Assembler) handleWordList(rest []token.Token, at loc.Location, size uint32) {
	groups := splitTopLevelGroups(rest)
	for _, g := range groups {
		if len(g) == 0 {
			continue
		}
		a.autoAlign(size)
		addr := a.curAddr()
		if !a.markOccupied(addr, size, at, "a data item") {
			a.advance(size)
			continue
		}
		if g[0].Kind == token.IDENTIFIER {
			label := g[0].Text
			if sym, ok := a.syms.Lookup(label); ok {
				a.storeInt(addr, size, int64(sym.Address), at)
			} else {
				a.syms.AddPatch(symtab.Patch{Label: label, PatchAddress: addr, DataSize: size})
			}
		} else {
			a.storeInt(addr, size, g[0].Value, at)
		}
		a.advance(size)
	}
}

func (a *Assembler) storeInt(addr, size uint32, v int64, at loc.Location) {
	var err error
	switch size {
	case 1:
		err = a.mem.StoreByte(addr, uint8(v), false)
	case 2:
		err = a.mem.StoreHalfword(addr, uint16(v), false)
	default:
		err = a.mem.StoreWord(addr, uint32(v), false)
	}
	if err != nil {
		a.diags.Errorf(at, "%v", err)
	}
}

func (a *Assembler) handleFloatList(rest []token.Token, at loc.Location, size uint32) {
	groups := splitTopLevelGroups(rest)
	for _, g := range groups {
		if len(g) == 0 {
			continue
		}
		a.autoAlign(size)
		addr := a.curAddr()
		if !a.markOccupied(addr, size, at, "a data item") {
			a.advance(size)
			continue
		}
		var f float64
		if g[0].Kind == token.REAL_NUMBER {
			f = g[0].Real
		} else {
			f = float64(g[0].Value)
		}
		var err error
		if size == 4 {
			err = a.mem.StoreWord(addr, math.Float32bits(float32(f)), false)
		} else {
			err = a.mem.StoreDoubleword(addr, math.Float64bits(f), false)
		}
		if err != nil {
			a.diags.Errorf(at, "%v", err)
		}
		a.advance(size)
	}
}

func (a *Assembler) handleAscii(rest []token.Token, zero bool, at loc.Location) {
	for _, t := range rest {
		if t.Kind != token.STRING {
			continue
		}
		s := t.Str
		if zero {
			s += "\x00"
		}
		addr := a.curAddr()
		if !a.markOccupied(addr, uint32(len(s)), at, "a string literal") {
			a.advance(uint32(len(s)))
			continue
		}
		for i := 0; i < len(s); i++ {
			a.mem.StoreByte(addr+uint32(i), s[i], false)
		}
		a.advance(uint32(len(s)))
	}
}
