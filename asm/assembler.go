/*
 * mars-red - Two-pass-equivalent assembler driver.
 *
 * Copyright 2026, mars-red contributors
 */

// Package asm implements §4: the full assembler pipeline from raw
// source lines to an assembled Program. It runs as a single forward
// scan that assigns addresses and encodes machine words as it goes,
// deferring only genuine forward references to symtab's patch list
// instead of buffering a whole separate address-resolution pass ahead
// of a separate encoding pass — the patch list is what MARS's own
// "two-pass" assembler actually uses forward references for, so a
// second literal pass over the token stream would duplicate work the
// patch list already does. See DESIGN.md for the full rationale.
package asm

import (
	"fmt"

	"github.com/myaltaccountsthis/mars-red/asm/diag"
	"github.com/myaltaccountsthis/mars-red/asm/loc"
	"github.com/myaltaccountsthis/mars-red/asm/macro"
	"github.com/myaltaccountsthis/mars-red/asm/symtab"
	"github.com/myaltaccountsthis/mars-red/asm/token"
	"github.com/myaltaccountsthis/mars-red/internal/bits"
	"github.com/myaltaccountsthis/mars-red/isa"
	"github.com/myaltaccountsthis/mars-red/mem"
)

// SourceFile is one input file's full raw text, split into lines.
type SourceFile struct {
	Name  string
	Lines []string
}

// Options controls assembler behavior that affects code generation,
// per §6's command-line flags.
type Options struct {
	Table         *isa.Table
	MemoryConfig  mem.Config
	Endian        mem.Endian
	DelayedBranch bool // when false, pseudo-op trailing "nop" delay-slot fillers are omitted
	WarnAsError   bool
}

// Assembler holds all state threaded through a single assembly run
// across one or more SourceFiles.
type Assembler struct {
	opts   Options
	table  *isa.Table
	tz     *token.Tokenizer
	mem    *mem.Memory
	syms   *symtab.Table
	macros *macro.Table
	eqv    map[string]string
	diags  *diag.Accumulator

	segment    string // "text", "data", "ktext", "kdata", "extern"
	textAddr   uint32
	dataAddr   uint32
	ktextAddr  uint32
	kdataAddr  uint32
	externAddr uint32
	noAlign    bool

	// everDefined records every label's address for the lifetime of the
	// run, independent of symtab.Table's per-file local-symbol reset,
	// so Finish can still locate an entry-point label (e.g. "main")
	// that was never exported with .globl.
	everDefined map[string]uint32

	// occupied tracks, per byte address, which statement or data item
	// first emitted there this run, so a second emit at the same
	// address (the duplicate-address-is-an-error policy of §4.7) can
	// name the prior occupant instead of silently overwriting it.
	// Forward-reference patches (applyPatch) are exempt: they fix up a
	// placeholder word already accounted for by its original emit.
	occupied map[uint32]occupant
}

// occupant records who first claimed an address, for the duplicate-emit
// diagnostic.
type occupant struct {
	at   loc.Location
	text string
}

// New builds an Assembler ready to assemble one or more files.
func New(opts Options) *Assembler {
	if opts.Table == nil {
		opts.Table = isa.Default
	}
	a := &Assembler{
		opts:        opts,
		table:       opts.Table,
		tz:          token.NewTokenizer(opts.Table),
		mem:         mem.New(opts.MemoryConfig, opts.Endian),
		syms:        symtab.New(),
		macros:      macro.New(),
		eqv:         map[string]string{},
		diags:       &diag.Accumulator{},
		everDefined: map[string]uint32{},
		occupied:    map[uint32]occupant{},
	}
	a.segment = "text"
	a.textAddr = opts.MemoryConfig.TextBase
	a.dataAddr = opts.MemoryConfig.DataBase
	a.ktextAddr = opts.MemoryConfig.KTextBase
	a.kdataAddr = opts.MemoryConfig.KDataBase
	a.externAddr = opts.MemoryConfig.ExternBase
	return a
}

func (a *Assembler) locFor(ln rawLine) loc.Location {
	return loc.Location{Filename: ln.File, Line: ln.Line}
}

// curAddr returns the address the current segment's cursor sits at.
func (a *Assembler) curAddr() uint32 {
	switch a.segment {
	case "data":
		return a.dataAddr
	case "ktext":
		return a.ktextAddr
	case "kdata":
		return a.kdataAddr
	case "extern":
		return a.externAddr
	default:
		return a.textAddr
	}
}

func (a *Assembler) setCurAddr(v uint32) {
	switch a.segment {
	case "data":
		a.dataAddr = v
	case "ktext":
		a.ktextAddr = v
	case "kdata":
		a.kdataAddr = v
	case "extern":
		a.externAddr = v
	default:
		a.textAddr = v
	}
}

func (a *Assembler) advance(n uint32) {
	a.setCurAddr(a.curAddr() + n)
}

func (a *Assembler) isDataSegment() bool {
	return a.segment != "text" && a.segment != "ktext"
}

// markOccupied claims [addr, addr+size) for the statement or data item
// described by desc, erroring out (naming the prior occupant) instead
// of claiming it again if any byte in that range was already claimed
// this run. Called at the point of first emit; applyPatch never calls
// this, since a patch rewrites a word already claimed by its original
// emit rather than occupying a fresh address.
func (a *Assembler) markOccupied(addr, size uint32, at loc.Location, desc string) bool {
	for i := uint32(0); i < size; i++ {
		if prev, ok := a.occupied[addr+i]; ok {
			a.diags.Errorf(at, "duplicate emit at address %#x: already occupied by %s from %s", addr+i, prev.text, prev.at)
			return false
		}
	}
	for i := uint32(0); i < size; i++ {
		a.occupied[addr+i] = occupant{at: at, text: desc}
	}
	return true
}

// AssembleFile runs the full pipeline over one file's text and adds
// its diagnostics to the shared accumulator. Call once per file, in
// link order, then Finish to resolve cross-file forward references.
func (a *Assembler) AssembleFile(f SourceFile) {
	var raw []rawLine
	for i, text := range f.Lines {
		raw = append(raw, rawLine{File: f.Name, Line: i, Text: text})
	}
	expanded := a.preprocess(raw)
	for _, ln := range expanded {
		a.assembleRawLine(ln)
	}
	// Local symbols don't survive into the next file, so any forward
	// reference still local-only at this point is resolved now; what's
	// left over either targets a global defined in a later file, or is
	// genuinely undefined and gets reported once every file is in.
	unresolved, err := a.syms.Resolve(a.applyPatch)
	if err != nil {
		a.diags.Errorf(loc.Location{Filename: f.Name}, "%v", err)
	}
	a.syms.Reset()
	for _, p := range unresolved {
		a.syms.AddPatch(p)
	}
}

// Finish resolves any remaining forward references (now that every
// file has been scanned and every global symbol is known), reporting
// an error for each label that never resolved, and returns the
// completed Program.
func (a *Assembler) Finish(entrySymbol string) *Program {
	unresolved, err := a.syms.Resolve(a.applyPatch)
	if err != nil {
		a.diags.Errorf(loc.Location{}, "%v", err)
	}
	for _, p := range unresolved {
		a.diags.Errorf(loc.Location{}, "undefined symbol %q", p.Label)
	}
	entry := a.opts.MemoryConfig.TextBase
	if sym, ok := a.syms.Lookup(entrySymbol); ok {
		entry = sym.Address
	} else if addr, ok := a.everDefined[entrySymbol]; ok {
		entry = addr
	}
	diags := a.diags.All()
	if a.opts.WarnAsError {
		for i := range diags {
			diags[i].Severity = diag.Error
		}
	}
	return &Program{Memory: a.mem, Symbols: a.syms, EntryPoint: entry, Diagnostics: diags}
}

func (a *Assembler) assembleRawLine(ln rawLine) {
	toks := a.tz.TokenizeLine(ln.File, ln.Line, ln.Text)
	a.assembleTokens(toks, ln, true)
}

// assembleTokens processes one logical line's tokens: optional leading
// label(s), then a directive or instruction. allowLabel is false when
// re-entering for an expanded pseudo-instruction template line, which
// never carries its own label.
func (a *Assembler) assembleTokens(toks []token.Token, ln rawLine, allowLabel bool) {
	toks = stripTrailingComment(toks)
	for allowLabel && len(toks) >= 2 && toks[0].Kind == token.IDENTIFIER && toks[1].Kind == token.COLON {
		name := toks[0].Text
		if err := a.syms.DefineLocal(name, a.curAddr(), a.isDataSegment()); err != nil {
			a.diags.Errorf(a.locFor(ln), "%v", err)
		} else {
			a.everDefined[name] = a.curAddr()
		}
		toks = toks[2:]
	}
	if len(toks) == 0 {
		return
	}
	head := toks[0]
	switch head.Kind {
	case token.DIRECTIVE:
		a.handleDirective(head, toks[1:], ln)
	case token.OPERATOR:
		a.handleInstruction(head, toks[1:], ln)
	case token.COMMENT:
		return
	default:
		a.diags.Errorf(head.Loc, "expected a directive or instruction, found %q", head.Text)
	}
}

func stripTrailingComment(toks []token.Token) []token.Token {
	if n := len(toks); n > 0 && toks[n-1].Kind == token.COMMENT {
		return toks[:n-1]
	}
	return toks
}

func (a *Assembler) handleInstruction(mnemonic token.Token, rest []token.Token, ln rawLine) {
	groups := splitTopLevelGroups(rest)
	if rawCands, ok := tryRawCandidates(groups); ok {
		if ei := a.table.BestExtendedMatch(mnemonic.Text, rawCands); ei != nil {
			a.expandPseudo(ei, groups, ln)
			return
		}
	}
	flat, err := flattenOperands(groups)
	if err != nil {
		a.diags.Errorf(mnemonic.Loc, "%v", err)
		return
	}
	bi := a.table.BestBasicMatch(mnemonic.Text, candidatesOf(flat))
	if bi == nil {
		a.diags.Errorf(mnemonic.Loc, "no instruction form of %q matches the given operands", mnemonic.Text)
		return
	}
	a.encodeBasic(bi, flat, ln)
}

func tryRawCandidates(groups [][]token.Token) ([]isa.CandidateOperand, bool) {
	cands := make([]isa.CandidateOperand, len(groups))
	for i, g := range groups {
		r, err := resolveGroup(g)
		if err != nil {
			return nil, false
		}
		cands[i] = r.cand
	}
	return cands, true
}

func (a *Assembler) encodeBasic(bi *isa.BasicInstruction, ops []resolvedOperand, ln rawLine) {
	instrAddr := a.curAddr()
	resolved := make([]int32, len(ops))
	for i, o := range ops {
		if !o.isLabel {
			resolved[i] = int32(o.value)
			continue
		}
		sym, ok := a.syms.Lookup(o.label)
		if ok {
			resolved[i] = operandValueForLabel(o, sym.Address, instrAddr, bi.Operands[i])
			continue
		}
		resolved[i] = 0
		p := symtab.Patch{Label: o.label, PatchAddress: instrAddr, InstrAddress: instrAddr, Transform: o.transform}
		switch {
		case o.transform != "":
			p.Length = 16
		case bi.Operands[i] == isa.OpBranchLabel:
			p.Length, p.PCRelative = 16, true
		default:
			p.Length = 26
		}
		a.syms.AddPatch(p)
	}
	if !a.markOccupied(instrAddr, 4, a.locFor(ln), bi.Mnemonic) {
		a.advance(4)
		return
	}
	word := bi.Encode(resolved)
	if err := a.mem.StoreAssembled(instrAddr, word, bi); err != nil {
		a.diags.Errorf(a.locFor(ln), "%v", err)
	}
	a.advance(4)
}

func operandValueForLabel(o resolvedOperand, addr, instrAddr uint32, declared isa.OperandType) int32 {
	switch {
	case o.transform == "hi":
		hi, _ := bits.HiLo(addr)
		return int32(hi)
	case o.transform == "lo":
		_, lo := bits.HiLo(addr)
		return int32(lo)
	case declared == isa.OpBranchLabel:
		diff := int32(addr) - int32(instrAddr+4)
		return diff / 4
	default:
		return int32(addr)
	}
}

func (a *Assembler) applyPatch(p symtab.Patch, addr uint32) error {
	if p.DataSize != 0 {
		switch p.DataSize {
		case 1:
			return a.mem.StoreByte(p.PatchAddress, uint8(addr), false)
		case 2:
			return a.mem.StoreHalfword(p.PatchAddress, uint16(addr), false)
		default:
			return a.mem.StoreWord(p.PatchAddress, addr, false)
		}
	}
	return a.mem.PatchWord(p.PatchAddress, func(old uint32) uint32 {
		switch {
		case p.Transform == "hi":
			hi, _ := bits.HiLo(addr)
			return (old &^ 0xffff) | uint32(hi)
		case p.Transform == "lo":
			_, lo := bits.HiLo(addr)
			return (old &^ 0xffff) | uint32(lo)
		case p.PCRelative:
			diff := int32(addr) - int32(p.InstrAddress+4)
			return (old &^ 0xffff) | (uint32(diff/4) & 0xffff)
		default:
			return (old &^ 0x3ffffff) | ((addr >> 2) & 0x3ffffff)
		}
	})
}

func (a *Assembler) expandPseudo(ei *isa.ExtendedInstruction, groups [][]token.Token, ln rawLine) {
	template := ei.StandardTemplate
	if a.opts.MemoryConfig.Compact && ei.CompactTemplate != nil {
		template = ei.CompactTemplate
	}
	texts := make([]string, len(groups))
	for i, g := range groups {
		for _, t := range g {
			texts[i] += t.Text
		}
	}
	for idx, line := range template {
		sub := line
		for i, text := range texts {
			sub = replaceAllPlaceholder(sub, i+1, text)
		}
		if sub == "nop" && idx == len(template)-1 && !a.opts.DelayedBranch {
			continue
		}
		toks := a.tz.TokenizeLine(ln.File, ln.Line, sub)
		a.assembleTokens(toks, ln, false)
	}
}

func replaceAllPlaceholder(s string, n int, value string) string {
	placeholder := fmt.Sprintf("%%%d", n)
	out := ""
	for {
		idx := indexOf(s, placeholder)
		if idx < 0 {
			out += s
			return out
		}
		out += s[:idx] + value
		s = s[idx+len(placeholder):]
	}
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}
