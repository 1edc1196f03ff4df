/*
 * mars-red - Execute closures: syscall, break, COP0 move, trap family.
 *
 * Copyright 2026, mars-red contributors
 */

package sim

import (
	"github.com/myaltaccountsthis/mars-red/isa"
	"github.com/myaltaccountsthis/mars-red/register"
)

func registerSystemExec(d map[isa.InstrID]execFunc) {
	d[isa.SYSCALL] = func(m *Machine, ops []int32, pc uint32) StepResult {
		return m.dispatchSyscall(pc)
	}
	d[isa.BREAK] = func(m *Machine, ops []int32, pc uint32) StepResult {
		return m.raiseException(pc, register.CauseBreakpoint, 0, false)
	}

	d[isa.MFC0] = func(m *Machine, ops []int32, pc uint32) StepResult {
		rt, cop0reg := int(ops[0]), int(ops[1])
		m.setGPR(rt, m.CP0.Get(cop0reg))
		return StepResult{Kind: KindContinue}
	}
	d[isa.MTC0] = func(m *Machine, ops []int32, pc uint32) StepResult {
		rt, cop0reg := int(ops[0]), int(ops[1])
		m.setCP0(cop0reg, m.GPR.Get(rt))
		return StepResult{Kind: KindContinue}
	}
	d[isa.ERET] = func(m *Machine, ops []int32, pc uint32) StepResult {
		m.setPC(m.CP0.Get(register.CP0EPC))
		m.setCP0(register.CP0Status, m.CP0.Get(register.CP0Status)&^uint32(register.StatusEXL))
		return StepResult{Kind: KindContinue}
	}

	d[isa.TEQ] = trapIf(func(a, b int32) bool { return a == b })
	d[isa.TNE] = trapIf(func(a, b int32) bool { return a != b })
	d[isa.TGE] = trapIf(func(a, b int32) bool { return a >= b })
	d[isa.TLT] = trapIf(func(a, b int32) bool { return a < b })

	d[isa.TEQI] = func(m *Machine, ops []int32, pc uint32) StepResult {
		rs, imm := int(ops[0]), ops[1]
		if int32(m.GPR.Get(rs)) == imm {
			return m.raiseException(pc, register.CauseTrap, 0, false)
		}
		return StepResult{Kind: KindContinue}
	}
}

func trapIf(cond func(a, b int32) bool) execFunc {
	return func(m *Machine, ops []int32, pc uint32) StepResult {
		rs, rt := int(ops[0]), int(ops[1])
		if cond(int32(m.GPR.Get(rs)), int32(m.GPR.Get(rt))) {
			return m.raiseException(pc, register.CauseTrap, 0, false)
		}
		return StepResult{Kind: KindContinue}
	}
}
