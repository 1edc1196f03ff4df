/*
 * mars-red - Debugger session state.
 *
 * Copyright 2026, mars-red contributors
 */

// Package debug holds the single piece of state the interactive shell
// (command/reader, command/parser) and the batch CLI both drive: one
// assembled program sitting on top of one sim.Machine. Grounded on the
// teacher's emu/core.Core, which plays the same role for
// command/reader/command/parser in the S/370 build, minus the
// channel/device machinery that build needed and this one does not.
package debug

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/myaltaccountsthis/mars-red/asm/symtab"
	"github.com/myaltaccountsthis/mars-red/register"
	"github.com/myaltaccountsthis/mars-red/sim"
)

// Session is the debugger's view of one assembled program: the
// machine it runs on plus the symbol table needed to resolve names
// typed at the prompt back to addresses.
type Session struct {
	Machine *sim.Machine
	Symbols *symtab.Table
	Entry   uint32
}

func NewSession(m *sim.Machine, syms *symtab.Table, entry uint32) *Session {
	return &Session{Machine: m, Symbols: syms, Entry: entry}
}

// ResolveAddress turns a token typed at the prompt into an address:
// a hex literal (with or without "0x"), a decimal literal, or a
// symbol name, tried in that order.
func (s *Session) ResolveAddress(tok string) (uint32, error) {
	if v, err := strconv.ParseUint(strings.TrimPrefix(tok, "0x"), 16, 32); err == nil {
		return uint32(v), nil
	}
	if v, err := strconv.ParseInt(tok, 10, 32); err == nil {
		return uint32(v), nil
	}
	if sym, ok := s.Symbols.Lookup(tok); ok {
		return sym.Address, nil
	}
	return 0, fmt.Errorf("not an address or known symbol: %s", tok)
}

// ResolveValue parses a register name, a hex/decimal literal, or a
// symbol name down to a 32-bit value suitable for "set"'s right-hand
// side or "print"'s argument.
func (s *Session) ResolveValue(tok string) (uint32, error) {
	if num, ok := register.LookupGPRName(strings.TrimPrefix(tok, "$")); ok {
		return s.Machine.GPR.Get(num), nil
	}
	switch tok {
	case "pc":
		return s.Machine.GPR.PC(), nil
	case "hi":
		return s.Machine.GPR.HI(), nil
	case "lo":
		return s.Machine.GPR.LO(), nil
	}
	return s.ResolveAddress(tok)
}

// SetRegisterOrMemory implements "set": tok names a GPR, pc/hi/lo, or
// an address/symbol to store value into (as a word).
func (s *Session) SetRegisterOrMemory(tok string, value uint32) error {
	if num, ok := register.LookupGPRName(strings.TrimPrefix(tok, "$")); ok {
		s.Machine.GPR.Set(num, value)
		return nil
	}
	switch tok {
	case "pc":
		s.Machine.GPR.SetPC(value)
		return nil
	case "hi":
		s.Machine.GPR.SetHI(value)
		return nil
	case "lo":
		s.Machine.GPR.SetLO(value)
		return nil
	}
	addr, err := s.ResolveAddress(tok)
	if err != nil {
		return err
	}
	return s.Machine.Mem.StoreWord(addr, value, true)
}

// DescribeStep renders a sim.StepResult the way the shell reports it
// after run/step/continue: nothing on KindContinue, an exception
// cause and faulting PC on KindException, an exit code on KindHalt.
func DescribeStep(r sim.StepResult, pc uint32) string {
	switch r.Kind {
	case sim.KindException:
		return fmt.Sprintf("exception: cause=%d pc=0x%08x badvaddr=0x%08x", r.Cause, pc, r.BadVAddr)
	case sim.KindHalt:
		return fmt.Sprintf("halted: exit code %d", r.ExitCode)
	default:
		return ""
	}
}
