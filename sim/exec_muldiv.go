/*
 * mars-red - Execute closures: multiply/divide and HI/LO moves.
 *
 * Copyright 2026, mars-red contributors
 */

package sim

import "github.com/myaltaccountsthis/mars-red/isa"

func registerMulDivExec(d map[isa.InstrID]execFunc) {
	d[isa.MULT] = func(m *Machine, ops []int32, pc uint32) StepResult {
		rs, rt := int(ops[0]), int(ops[1])
		product := int64(int32(m.GPR.Get(rs))) * int64(int32(m.GPR.Get(rt)))
		m.setLO(uint32(product))
		m.setHI(uint32(product >> 32))
		return StepResult{Kind: KindContinue}
	}
	d[isa.MULTU] = func(m *Machine, ops []int32, pc uint32) StepResult {
		rs, rt := int(ops[0]), int(ops[1])
		product := uint64(m.GPR.Get(rs)) * uint64(m.GPR.Get(rt))
		m.setLO(uint32(product))
		m.setHI(uint32(product >> 32))
		return StepResult{Kind: KindContinue}
	}
	// div/divu leave HI/LO untouched on a zero divisor: §9 carries the
	// SPIM quirk that integer divide-by-zero is silent, with an
	// undefined result rather than a trap.
	d[isa.DIV] = func(m *Machine, ops []int32, pc uint32) StepResult {
		rs, rt := int(ops[0]), int(ops[1])
		a, b := int32(m.GPR.Get(rs)), int32(m.GPR.Get(rt))
		if b == 0 {
			return StepResult{Kind: KindContinue}
		}
		m.setLO(uint32(a / b))
		m.setHI(uint32(a % b))
		return StepResult{Kind: KindContinue}
	}
	d[isa.DIVU] = func(m *Machine, ops []int32, pc uint32) StepResult {
		rs, rt := int(ops[0]), int(ops[1])
		a, b := m.GPR.Get(rs), m.GPR.Get(rt)
		if b == 0 {
			return StepResult{Kind: KindContinue}
		}
		m.setLO(a / b)
		m.setHI(a % b)
		return StepResult{Kind: KindContinue}
	}

	d[isa.MFHI] = func(m *Machine, ops []int32, pc uint32) StepResult {
		m.setGPR(int(ops[0]), m.GPR.HI())
		return StepResult{Kind: KindContinue}
	}
	d[isa.MFLO] = func(m *Machine, ops []int32, pc uint32) StepResult {
		m.setGPR(int(ops[0]), m.GPR.LO())
		return StepResult{Kind: KindContinue}
	}
	d[isa.MTHI] = func(m *Machine, ops []int32, pc uint32) StepResult {
		m.setHI(m.GPR.Get(int(ops[0])))
		return StepResult{Kind: KindContinue}
	}
	d[isa.MTLO] = func(m *Machine, ops []int32, pc uint32) StepResult {
		m.setLO(m.GPR.Get(int(ops[0])))
		return StepResult{Kind: KindContinue}
	}
}
