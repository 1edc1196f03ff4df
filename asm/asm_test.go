/*
 * mars-red - End-to-end assembler tests.
 *
 * Copyright 2026, mars-red contributors
 */

package asm

import (
	"testing"

	"github.com/myaltaccountsthis/mars-red/mem"
)

func newTestAssembler() *Assembler {
	return New(Options{MemoryConfig: mem.DefaultConfig, Endian: mem.LittleEndian})
}

func assembleSource(t *testing.T, a *Assembler, name string, lines []string) {
	t.Helper()
	a.AssembleFile(SourceFile{Name: name, Lines: lines})
}

func TestAssembleSimpleProgramNoForwardReferences(t *testing.T) {
	a := newTestAssembler()
	assembleSource(t, a, "p.asm", []string{
		"main:",
		"addi $a0, $zero, 5",
		"add $a1, $a0, $a0",
		"jr $ra",
	})
	prog := a.Finish("main")
	if !prog.Ok() {
		t.Fatalf("unexpected diagnostics: %v", prog.Diagnostics)
	}
	if prog.EntryPoint != mem.DefaultConfig.TextBase {
		t.Fatalf("entry point not resolved correctly: %#x", prog.EntryPoint)
	}
	word, err := prog.Memory.GetWord(mem.DefaultConfig.TextBase, false)
	if err != nil {
		t.Fatalf("GetWord: %v", err)
	}
	if word == 0 {
		t.Fatalf("expected a non-zero encoded instruction at entry")
	}
}

func TestAssembleForwardBranchReferenceResolves(t *testing.T) {
	a := newTestAssembler()
	assembleSource(t, a, "p.asm", []string{
		"main:",
		"beq $zero, $zero, done",
		"addi $a0, $a0, 1",
		"done:",
		"jr $ra",
	})
	prog := a.Finish("main")
	if !prog.Ok() {
		t.Fatalf("unexpected diagnostics: %v", prog.Diagnostics)
	}
	word, err := prog.Memory.GetWord(mem.DefaultConfig.TextBase, false)
	if err != nil {
		t.Fatalf("GetWord: %v", err)
	}
	disp := int32(int16(word & 0xffff))
	if disp != 1 {
		t.Fatalf("expected branch displacement 1 word, got %d (word=%#x)", disp, word)
	}
}

func TestAssembleLoadAddressPseudoExpandsHiLo(t *testing.T) {
	a := newTestAssembler()
	assembleSource(t, a, "p.asm", []string{
		".data",
		"msg: .asciiz \"hi\"",
		".text",
		"main:",
		"la $t0, msg",
		"jr $ra",
	})
	prog := a.Finish("main")
	if !prog.Ok() {
		t.Fatalf("unexpected diagnostics: %v", prog.Diagnostics)
	}
	msgAddr, ok := a.everDefined["msg"]
	if !ok {
		t.Fatalf("msg not defined")
	}
	lui, err := prog.Memory.GetWord(mem.DefaultConfig.TextBase, false)
	if err != nil {
		t.Fatalf("GetWord: %v", err)
	}
	ori, err := prog.Memory.GetWord(mem.DefaultConfig.TextBase+4, false)
	if err != nil {
		t.Fatalf("GetWord: %v", err)
	}
	hi := uint16(lui & 0xffff)
	lo := uint16(ori & 0xffff)
	got := uint32(hi)<<16 | uint32(lo)
	if got != msgAddr {
		t.Fatalf("la did not reconstruct msg's address: got %#x want %#x", got, msgAddr)
	}
}

func TestAssembleUndefinedSymbolIsError(t *testing.T) {
	a := newTestAssembler()
	assembleSource(t, a, "p.asm", []string{
		"main:",
		"j nowhere",
	})
	prog := a.Finish("main")
	if prog.Ok() {
		t.Fatalf("expected an undefined-symbol diagnostic")
	}
}

func TestAssembleDuplicateAddressIsError(t *testing.T) {
	a := newTestAssembler()
	assembleSource(t, a, "p.asm", []string{
		".data",
		".word 1",
	})
	// Force the cursor back to the segment base so the next .word lands
	// on the address the first one already claimed.
	a.dataAddr = mem.DefaultConfig.DataBase
	assembleSource(t, a, "p.asm", []string{
		".word 2",
	})
	prog := a.Finish("main")
	if prog.Ok() {
		t.Fatalf("expected a duplicate-address diagnostic")
	}
}

func TestAssembleMacroExpansion(t *testing.T) {
	a := newTestAssembler()
	assembleSource(t, a, "p.asm", []string{
		".macro increment (%reg)",
		"addi %reg, %reg, 1",
		".end_macro",
		"main:",
		"increment ($a0)",
		"jr $ra",
	})
	prog := a.Finish("main")
	if !prog.Ok() {
		t.Fatalf("unexpected diagnostics: %v", prog.Diagnostics)
	}
	word, err := prog.Memory.GetWord(mem.DefaultConfig.TextBase, false)
	if err != nil {
		t.Fatalf("GetWord: %v", err)
	}
	if word == 0 {
		t.Fatalf("expected the macro body's addi to be encoded")
	}
}
