/*
 * mars-red - Debugger command table.
 *
 * Copyright 2026, mars-red contributors
 */

package parser

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/myaltaccountsthis/mars-red/debug"
	"github.com/myaltaccountsthis/mars-red/sim"
	"github.com/myaltaccountsthis/mars-red/util/hex"
)

// cmdList mirrors the teacher's command/parser table shape
// (Name/Min/Process/Complete), redirected at the ten simulator
// commands instead of S/370 device commands: run, step, back, break,
// continue, reset, dump, print, set, quit.
var cmdList = []cmd{
	{Name: "run", Min: 1, Process: run},
	{Name: "step", Min: 2, Process: step},
	{Name: "back", Min: 2, Process: back},
	{Name: "break", Min: 3, Process: setBreak},
	{Name: "continue", Min: 1, Process: cont},
	{Name: "reset", Min: 3, Process: reset},
	{Name: "dump", Min: 2, Process: dump},
	{Name: "print", Min: 1, Process: print},
	{Name: "set", Min: 3, Process: set},
	{Name: "quit", Min: 1, Process: quit},
}

// runLoop steps sess.Machine until it halts or pauses (breakpoint or
// step budget), printing a line for every exception or halt the way
// the teacher's cont/start report through core's own logging.
func runLoop(sess *debug.Session) {
	m := sess.Machine
	for m.State() == sim.Running {
		pc := m.GPR.PC()
		r := m.Step()
		if msg := debug.DescribeStep(r, pc); msg != "" {
			fmt.Println(msg)
		}
		if r.Kind == sim.KindHalt {
			return
		}
	}
}

// run (re)starts execution from the program's entry point.
func run(_ *cmdLine, sess *debug.Session) (bool, error) {
	slog.Debug("command run")
	sess.Machine.SetEntryPoint(sess.Entry)
	runLoop(sess)
	return false, nil
}

// continue resumes execution from wherever the machine currently sits
// (after a breakpoint, step, or manual PC edit).
func cont(_ *cmdLine, sess *debug.Session) (bool, error) {
	slog.Debug("command continue")
	if sess.Machine.State() == sim.Paused {
		sess.Machine.SetEntryPoint(sess.Machine.GPR.PC())
	}
	if sess.Machine.State() != sim.Running {
		return false, fmt.Errorf("machine is not running; use run")
	}
	runLoop(sess)
	return false, nil
}

// step executes exactly one instruction.
func step(_ *cmdLine, sess *debug.Session) (bool, error) {
	slog.Debug("command step")
	if sess.Machine.State() == sim.Idle {
		sess.Machine.SetEntryPoint(sess.Entry)
	}
	pc := sess.Machine.GPR.PC()
	r := sess.Machine.Step()
	if msg := debug.DescribeStep(r, pc); msg != "" {
		fmt.Println(msg)
	}
	return false, nil
}

// back undoes the most recent reversible mutation.
func back(_ *cmdLine, sess *debug.Session) (bool, error) {
	slog.Debug("command back")
	if !sess.Machine.StepBack() {
		return false, fmt.Errorf("nothing to step back over")
	}
	return false, nil
}

// break toggles a breakpoint at an address or symbol.
func setBreak(line *cmdLine, sess *debug.Session) (bool, error) {
	slog.Debug("command break")
	tok := line.getWord(false)
	if tok == "" {
		return false, fmt.Errorf("break requires an address or label")
	}
	addr, err := sess.ResolveAddress(tok)
	if err != nil {
		return false, err
	}
	if sess.Machine.HasBreakpoint(addr) {
		sess.Machine.RemoveBreakpoint(addr)
		fmt.Printf("breakpoint cleared at 0x%08x\n", addr)
	} else {
		sess.Machine.AddBreakpoint(addr)
		fmt.Printf("breakpoint set at 0x%08x\n", addr)
	}
	return false, nil
}

// reset reinitializes the machine's registers and back-step log.
func reset(_ *cmdLine, sess *debug.Session) (bool, error) {
	slog.Debug("command reset")
	sess.Machine.Reset()
	return false, nil
}

// dump hex-dumps a memory range: "dump ADDR COUNT".
func dump(line *cmdLine, sess *debug.Session) (bool, error) {
	slog.Debug("command dump")
	startTok := line.getWord(false)
	if startTok == "" {
		return false, fmt.Errorf("dump requires an address")
	}
	addr, err := sess.ResolveAddress(startTok)
	if err != nil {
		return false, err
	}
	count, err := line.getNumber()
	if err != nil {
		count = 1
	}

	var b strings.Builder
	words := make([]uint32, 0, count)
	for i := uint32(0); i < count; i++ {
		w, err := sess.Machine.Mem.GetWord(addr+i*4, false)
		if err != nil {
			return false, err
		}
		words = append(words, w)
	}
	hex.FormatWord(&b, words)
	fmt.Printf("0x%08x: %s\n", addr, strings.TrimRight(b.String(), " "))
	return false, nil
}

// print shows a register, PC/HI/LO, a literal, or the address a symbol
// names: "print $t0", "print pc", "print msg".
func print(line *cmdLine, sess *debug.Session) (bool, error) {
	slog.Debug("command print")
	tok := line.getWord(false)
	if tok == "" {
		return false, fmt.Errorf("print requires a register, address, or label")
	}
	v, err := sess.ResolveValue(tok)
	if err != nil {
		return false, err
	}
	fmt.Printf("%s = 0x%08x (%d)\n", tok, v, int32(v))
	return false, nil
}

// set stores a value into a register or a memory word: "set $t0 5",
// "set 0x10010000 0xdeadbeef".
func set(line *cmdLine, sess *debug.Session) (bool, error) {
	slog.Debug("command set")
	tok := line.getWord(false)
	if tok == "" {
		return false, fmt.Errorf("set requires a register or address")
	}
	valTok := line.getWord(false)
	value, err := parseLiteralOrValue(sess, valTok)
	if err != nil {
		return false, err
	}
	return false, sess.SetRegisterOrMemory(tok, value)
}

func parseLiteralOrValue(sess *debug.Session, tok string) (uint32, error) {
	if v, err := strconv.ParseUint(strings.TrimPrefix(tok, "0x"), 16, 32); err == nil && strings.HasPrefix(tok, "0x") {
		return uint32(v), nil
	}
	if v, err := strconv.ParseInt(tok, 10, 32); err == nil {
		return uint32(v), nil
	}
	return sess.ResolveValue(tok)
}

// quit exits the interactive shell.
func quit(_ *cmdLine, _ *debug.Session) (bool, error) {
	slog.Debug("command quit")
	return true, nil
}
