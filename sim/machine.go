/*
 * mars-red - Simulator core: machine state and the fetch/execute step.
 *
 * Copyright 2026, mars-red contributors
 */

// Package sim is the instruction-level interpretive simulator: it
// fetches a decoded word from mem, executes it through the
// function-pointer table dispatch.go builds over isa.InstrID, and
// applies the resulting register/memory/PC mutation. Grounded on the
// teacher's emu/cpu.CycleCPU/execute pair (fetch, decode-length
// extend, table[opcode](step) dispatch), generalized to a map keyed by
// a named enum rather than a byte-indexed array, since InstrID is not
// guaranteed dense the way a raw opcode byte is.
package sim

import (
	"github.com/myaltaccountsthis/mars-red/isa"
	"github.com/myaltaccountsthis/mars-red/mem"
	"github.com/myaltaccountsthis/mars-red/register"
)

// DefaultExceptionVector is the fixed address the simulator redirects
// PC to on any exception, per §6.
const DefaultExceptionVector = 0x80000180

// uncaughtExceptionExitCode is the Halt exit code used when an
// exception fires with nothing assembled at the exception vector.
const uncaughtExceptionExitCode = -1

// State is the simulator interpreter's own state machine, per §4.8.
type State int

const (
	Idle State = iota
	Running
	Paused
	Terminated
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Terminated:
		return "terminated"
	default:
		return "idle"
	}
}

// StepKind is the three-way outcome of one Step call, per §9's
// Result-style replacement for exceptions-as-control-flow.
type StepKind int

const (
	KindContinue StepKind = iota
	KindException
	KindHalt
)

// StepResult reports what Step did.
type StepResult struct {
	Kind     StepKind
	Cause    int
	BadVAddr uint32
	ExitCode int
}

// Machine holds everything one simulated MIPS32 core needs: the three
// register files, the memory it shares with the assembler, the
// instruction table used for both fetch-time decode and dispatch, and
// the interpreter loop's own bookkeeping (delayed-branch scheduling,
// breakpoints, step budget, pending external interrupt, back-step
// log).
type Machine struct {
	GPR register.GPRFile
	CP0 *register.COP0
	CP1 *register.COP1
	Mem *mem.Memory

	Table *isa.Table

	state State

	delayedBranching bool
	pendingJump       bool
	jumpTarget        uint32
	inDelaySlot       bool
	currentPC         uint32

	breakpoints map[uint32]bool
	stepBudget  int // <= 0 means unlimited

	pendingInterrupt      bool
	pendingInterruptCause int

	vector uint32

	backstep *backStepLog
	heapTop  uint32

	syscalls *syscallEnv
}

// NewMachine builds a Machine over an already-assembled mem.Memory.
// delayedBranching selects §4.8's two PC-update disciplines; the
// exception vector is DefaultExceptionVector for every memory
// configuration, and no method changes it.
func NewMachine(m *mem.Memory, table *isa.Table, delayedBranching bool) *Machine {
	mc := &Machine{
		CP0:               register.NewCOP0(),
		CP1:               register.NewCOP1(),
		Mem:               m,
		Table:             table,
		state:             Idle,
		delayedBranching:  delayedBranching,
		breakpoints:       map[uint32]bool{},
		vector:            DefaultExceptionVector,
		backstep:          newBackStepLog(defaultBackStepCapacity),
		syscalls:          newSyscallEnv(),
	}
	m.AddObserver(mc)
	return mc
}

// State returns the interpreter's current state.
func (m *Machine) State() State { return m.state }

// SetEntryPoint positions PC at addr and puts the machine in the
// Running state from any state. run calls it with the entry point;
// continue calls it with the current PC to resume a paused machine.
func (m *Machine) SetEntryPoint(addr uint32) {
	m.GPR.SetPC(addr)
	m.state = Running
}

// SetStepBudget caps the number of Steps before an automatic pause; 0
// or negative means unlimited, per §4.8's breakpoint/step-budget
// PAUSED transition.
func (m *Machine) SetStepBudget(n int) { m.stepBudget = n }

// AddBreakpoint / RemoveBreakpoint / HasBreakpoint manage the address
// set Step checks after every instruction.
func (m *Machine) AddBreakpoint(addr uint32)    { m.breakpoints[addr] = true }
func (m *Machine) RemoveBreakpoint(addr uint32) { delete(m.breakpoints, addr) }
func (m *Machine) HasBreakpoint(addr uint32) bool { return m.breakpoints[addr] }

// PostExternalInterrupt latches a pending external interrupt in the
// single-slot cell §5 describes; a Step already in flight picks it up
// at its next fetch boundary. A second post before the first is
// consumed overwrites the cause, matching the "single volatile cell"
// wording rather than a queue.
func (m *Machine) PostExternalInterrupt(cause int) {
	m.pendingInterrupt = true
	m.pendingInterruptCause = cause
}

func (m *Machine) takePendingInterrupt() (int, bool) {
	if !m.pendingInterrupt {
		return 0, false
	}
	m.pendingInterrupt = false
	return m.pendingInterruptCause, true
}

// Reset reinitializes every register file and the back-step log but
// leaves Mem alone (the caller reassembles or reuses it), per §5's
// "process lifetime, reset() reinitializes" note.
func (m *Machine) Reset() {
	m.GPR.Reset()
	m.CP0.Reset()
	m.CP1.Reset()
	m.backstep.reset()
	m.state = Idle
	m.pendingJump = false
	m.pendingInterrupt = false
}

// decodeAt fetches and decodes the instruction at addr. It prefers
// the cached Statement's Decoded BasicInstruction (set by the
// assembler via StoreAssembled) to skip the linear mask/match scan,
// but always re-derives operand values from the live word so
// self-modified code is never executed against a stale decode.
func (m *Machine) decodeAt(addr uint32) (*isa.BasicInstruction, []int32, error) {
	word, err := m.Mem.GetWord(addr, false)
	if err != nil {
		return nil, nil, err
	}
	if st, serr := m.Mem.FetchStatement(addr, false); serr == nil && st != nil {
		if bi, ok := st.Decoded.(*isa.BasicInstruction); ok && (word&bi.Mask) == bi.Match {
			return bi, bi.Decode(word), nil
		}
	}
	bi, ops, ok := m.Table.DecodeWord(word)
	if !ok {
		return nil, nil, nil
	}
	return bi, ops, nil
}

// Step performs the six-step fetch/execute algorithm of §4.8.
func (m *Machine) Step() StepResult {
	if cause, ok := m.takePendingInterrupt(); ok {
		return m.raiseException(m.GPR.PC(), cause, 0, false)
	}

	pc := m.GPR.PC()
	bi, ops, err := m.decodeAt(pc)
	if err != nil {
		return m.raiseException(pc, register.CauseAddressFetch, pc, true)
	}
	if bi == nil {
		return m.raiseException(pc, register.CauseReservedInstr, 0, false)
	}

	hadJump := m.pendingJump
	target := m.jumpTarget
	m.pendingJump = false
	m.inDelaySlot = hadJump
	m.currentPC = pc

	m.GPR.SetPC(pc + 4)

	fn, ok := dispatch[bi.ID]
	if !ok {
		m.inDelaySlot = false
		return m.raiseException(pc, register.CauseReservedInstr, 0, false)
	}

	result := fn(m, ops, pc)
	m.inDelaySlot = false

	if result.Kind == KindContinue && hadJump {
		m.GPR.SetPC(target)
	}

	if result.Kind == KindHalt {
		m.state = Terminated
		return result
	}
	if result.Kind == KindException {
		return result
	}

	if m.stepBudget > 0 {
		m.stepBudget--
		if m.stepBudget == 0 {
			m.state = Paused
		}
	}
	if m.state == Running && m.breakpoints[m.GPR.PC()] {
		m.state = Paused
	}
	return result
}

// scheduleJump is called by branch/jump executors. In delayed-branch
// mode it latches the target for the instruction that follows (the
// delay slot, already fetched next) to commit once that instruction
// completes cleanly; otherwise it updates PC immediately, per §4.8.
func (m *Machine) scheduleJump(target uint32) {
	if m.delayedBranching {
		m.pendingJump = true
		m.jumpTarget = target
	} else {
		m.GPR.SetPC(target)
	}
}

// raiseException implements §6's fault sequence: EPC/BadVAddr/Cause/
// Status(EXL) are loaded and PC is redirected to the vector. If
// nothing is assembled at the vector, the run terminates rather than
// looping on a fetch fault against empty memory.
func (m *Machine) raiseException(pc uint32, cause int, badVAddr uint32, hasBadVAddr bool) StepResult {
	m.CP0.ForceSet(register.CP0EPC, pc)
	if hasBadVAddr {
		m.CP0.ForceSet(register.CP0BadVAddr, badVAddr)
	}
	c := m.CP0.Get(register.CP0Cause)
	c = (c &^ (uint32(register.CauseCodeMask) << register.CauseCodeShift)) |
		((uint32(cause) & uint32(register.CauseCodeMask)) << register.CauseCodeShift)
	m.CP0.ForceSet(register.CP0Cause, c)
	m.CP0.ForceSet(register.CP0Status, m.CP0.Get(register.CP0Status)|register.StatusEXL)

	m.GPR.SetPC(m.vector)

	if !m.handlerInstalledAtVector() {
		m.state = Terminated
		return StepResult{Kind: KindHalt, Cause: cause, BadVAddr: badVAddr, ExitCode: uncaughtExceptionExitCode}
	}
	return StepResult{Kind: KindException, Cause: cause, BadVAddr: badVAddr}
}

func (m *Machine) handlerInstalledAtVector() bool {
	word, err := m.Mem.GetWord(m.vector, false)
	if err != nil {
		return false
	}
	return word != 0
}

// OnStore implements mem.Observer: every memory mutation made while
// the machine is executing (not during assembly, which never attaches
// this observer) is folded into the back-step log tagged with the
// instruction address that caused it.
func (m *Machine) OnStore(addr uint32, size int, oldValue, newValue uint32, notify bool) {
	if !notify {
		return
	}
	m.backstep.recordMem(m.currentPC, m.inDelaySlot, addr, size, oldValue)
}
