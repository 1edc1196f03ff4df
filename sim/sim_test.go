/*
 * mars-red - Simulator step/exception/back-step tests.
 *
 * Copyright 2026, mars-red contributors
 */

package sim

import (
	"testing"

	"github.com/myaltaccountsthis/mars-red/isa"
	"github.com/myaltaccountsthis/mars-red/mem"
	"github.com/myaltaccountsthis/mars-red/register"
)

const (
	rZero = 0
	rT0   = 8
	rT1   = 9
	rT2   = 10
	rK0   = 26
)

func newTestMachine(delayedBranching bool) (*Machine, *mem.Memory) {
	m := mem.New(mem.DefaultConfig, mem.LittleEndian)
	mc := NewMachine(m, isa.Default, delayedBranching)
	return mc, m
}

// place assembles one instruction by mnemonic and stores it at addr,
// returning addr+4 for the caller's next placement.
func place(t *testing.T, m *mem.Memory, addr uint32, mnemonic string, ops []int32) uint32 {
	t.Helper()
	cands := isa.Default.LookupBasic(mnemonic)
	if len(cands) == 0 {
		t.Fatalf("no basic instruction named %q", mnemonic)
	}
	bi := cands[0]
	word := bi.Encode(ops)
	if err := m.StoreAssembled(addr, word, bi); err != nil {
		t.Fatalf("StoreAssembled: %v", err)
	}
	return addr + 4
}

func TestStepSimpleArithmetic(t *testing.T) {
	mc, m := newTestMachine(false)
	base := mem.DefaultConfig.TextBase
	addr := base
	addr = place(t, m, addr, "addi", []int32{rT0, rZero, 5})
	addr = place(t, m, addr, "add", []int32{rT1, rT0, rT0})
	_ = place(t, m, addr, "jr", []int32{31})

	mc.SetEntryPoint(base)
	for i := 0; i < 2; i++ {
		if r := mc.Step(); r.Kind != KindContinue {
			t.Fatalf("step %d: unexpected kind %v", i, r.Kind)
		}
	}
	if got := mc.GPR.Get(rT1); got != 10 {
		t.Fatalf("t1 = %d, want 10", got)
	}
}

func TestStepArithmeticOverflowUncaughtTerminates(t *testing.T) {
	mc, m := newTestMachine(false)
	base := mem.DefaultConfig.TextBase
	addr := base
	// t0 = 0x7fffffff (INT_MAX) needs a 32-bit immediate, built with lui/ori.
	addr = place(t, m, addr, "lui", []int32{rT0, 0x7fff})
	addr = place(t, m, addr, "ori", []int32{rT0, rT0, 0xffff})
	_ = place(t, m, addr, "addi", []int32{rT0, rT0, 1})

	mc.SetEntryPoint(base)
	mc.Step() // lui
	mc.Step() // ori -> t0 = 0x7fffffff
	r := mc.Step() // addi overflows
	if r.Kind != KindHalt {
		t.Fatalf("expected Halt on uncaught overflow, got %v", r.Kind)
	}
	if mc.State() != Terminated {
		t.Fatalf("expected Terminated state, got %v", mc.State())
	}
}

func TestStepArithmeticOverflowHandlerResumes(t *testing.T) {
	mc, m := newTestMachine(false)
	base := mem.DefaultConfig.TextBase
	addr := base
	addr = place(t, m, addr, "lui", []int32{rT0, 0x7fff})
	addr = place(t, m, addr, "ori", []int32{rT0, rT0, 0xffff})
	faultAddr := addr
	addr = place(t, m, addr, "addi", []int32{rT0, rT0, 1})
	_ = place(t, m, addr, "addi", []int32{rT1, rZero, 1})

	vaddr := uint32(DefaultExceptionVector)
	vaddr = place(t, m, vaddr, "mfc0", []int32{rK0, int32(register.CP0EPC)})
	vaddr = place(t, m, vaddr, "addi", []int32{rK0, rK0, 4})
	vaddr = place(t, m, vaddr, "mtc0", []int32{rK0, int32(register.CP0EPC)})
	_ = place(t, m, vaddr, "eret", nil)

	mc.SetEntryPoint(base)
	mc.Step() // lui
	mc.Step() // ori
	r := mc.Step() // addi overflows, vectors to the handler
	if r.Kind != KindException {
		t.Fatalf("expected Exception, got %v", r.Kind)
	}
	if mc.CP0.Get(register.CP0EPC) != faultAddr {
		t.Fatalf("EPC = %#x, want %#x", mc.CP0.Get(register.CP0EPC), faultAddr)
	}
	for i := 0; i < 4; i++ { // mfc0, addi, mtc0, eret
		if res := mc.Step(); res.Kind != KindContinue {
			t.Fatalf("handler step %d: unexpected kind %v", i, res.Kind)
		}
	}
	if mc.GPR.PC() != faultAddr+4 {
		t.Fatalf("PC after eret = %#x, want resumption at %#x", mc.GPR.PC(), faultAddr+4)
	}
	mc.Step() // addi $t1, $zero, 1
	if mc.GPR.Get(rT1) != 1 {
		t.Fatalf("execution did not resume past the fault")
	}
}

func TestStepDelayedBranchRunsDelaySlot(t *testing.T) {
	mc, m := newTestMachine(true)
	base := mem.DefaultConfig.TextBase
	addr := base
	addr = place(t, m, addr, "ori", []int32{rT0, rZero, 1})
	addr = place(t, m, addr, "beq", []int32{rT0, rT0, 1}) // to the word after the delay slot
	addr = place(t, m, addr, "addi", []int32{rT0, rT0, 9})
	m.StoreAssembled(addr, 0, nil) // nop landing pad

	mc.SetEntryPoint(base)
	mc.Step() // ori
	mc.Step() // beq schedules the jump
	mc.Step() // delay slot: addi runs anyway
	if got := mc.GPR.Get(rT0); got != 10 {
		t.Fatalf("delayed branching: t0 = %d, want 10 (delay slot executes)", got)
	}
}

func TestStepImmediateBranchSkipsNextInstruction(t *testing.T) {
	mc, m := newTestMachine(false)
	base := mem.DefaultConfig.TextBase
	addr := base
	addr = place(t, m, addr, "ori", []int32{rT0, rZero, 1})
	addr = place(t, m, addr, "beq", []int32{rT0, rT0, 1})
	addr = place(t, m, addr, "addi", []int32{rT0, rT0, 9})
	m.StoreAssembled(addr, 0, nil)

	mc.SetEntryPoint(base)
	mc.Step() // ori
	mc.Step() // beq takes effect immediately, skipping the addi
	if got := mc.GPR.Get(rT0); got != 1 {
		t.Fatalf("immediate branching: t0 = %d, want 1 (addi skipped)", got)
	}
}

func TestStepBackCollapsesMultEffectsSeparatelyFromMflo(t *testing.T) {
	mc, m := newTestMachine(false)
	base := mem.DefaultConfig.TextBase
	addr := base
	addr = place(t, m, addr, "ori", []int32{rT0, rZero, 6})
	addr = place(t, m, addr, "ori", []int32{rT1, rZero, 7})
	addr = place(t, m, addr, "mult", []int32{rT0, rT1})
	_ = place(t, m, addr, "mflo", []int32{rT2})

	mc.SetEntryPoint(base)
	mc.Step() // ori t0
	mc.Step() // ori t1
	mc.Step() // mult
	mc.Step() // mflo
	if mc.GPR.Get(rT2) != 42 {
		t.Fatalf("t2 = %d, want 42", mc.GPR.Get(rT2))
	}

	if !mc.StepBack() {
		t.Fatalf("expected a reversible step")
	}
	if mc.GPR.Get(rT2) != 0 {
		t.Fatalf("first StepBack should undo only mflo's write, t2 = %d", mc.GPR.Get(rT2))
	}
	if mc.GPR.LO() != 42 {
		t.Fatalf("HI/LO should still hold mult's result after undoing mflo alone")
	}

	if !mc.StepBack() {
		t.Fatalf("expected a second reversible step")
	}
	if mc.GPR.LO() != 0 || mc.GPR.HI() != 0 {
		t.Fatalf("second StepBack should undo mult's HI and LO together, got hi=%d lo=%d", mc.GPR.HI(), mc.GPR.LO())
	}
}
