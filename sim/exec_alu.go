/*
 * mars-red - Execute closures: ALU and shift instructions.
 *
 * Copyright 2026, mars-red contributors
 */

package sim

import (
	"github.com/myaltaccountsthis/mars-red/isa"
	"github.com/myaltaccountsthis/mars-red/register"
)

func addOverflows32(a, b int32) bool {
	sum := a + b
	return (a >= 0 && b >= 0 && sum < 0) || (a < 0 && b < 0 && sum >= 0)
}

func subOverflows32(a, b int32) bool {
	diff := a - b
	return (a >= 0 && b < 0 && diff < 0) || (a < 0 && b >= 0 && diff >= 0)
}

func registerALUExec(d map[isa.InstrID]execFunc) {
	rrr := func(f func(a, b int32) (int32, bool)) execFunc {
		return func(m *Machine, ops []int32, pc uint32) StepResult {
			rd, rs, rt := int(ops[0]), int(ops[1]), int(ops[2])
			a, b := int32(m.GPR.Get(rs)), int32(m.GPR.Get(rt))
			v, overflow := f(a, b)
			if overflow {
				return m.raiseException(pc, register.CauseArithmeticOverflow, 0, false)
			}
			m.setGPR(rd, uint32(v))
			return StepResult{Kind: KindContinue}
		}
	}

	d[isa.ADD] = rrr(func(a, b int32) (int32, bool) { return a + b, addOverflows32(a, b) })
	d[isa.ADDU] = func(m *Machine, ops []int32, pc uint32) StepResult {
		rd, rs, rt := int(ops[0]), int(ops[1]), int(ops[2])
		m.setGPR(rd, m.GPR.Get(rs)+m.GPR.Get(rt))
		return StepResult{Kind: KindContinue}
	}
	d[isa.SUB] = rrr(func(a, b int32) (int32, bool) { return a - b, subOverflows32(a, b) })
	d[isa.SUBU] = func(m *Machine, ops []int32, pc uint32) StepResult {
		rd, rs, rt := int(ops[0]), int(ops[1]), int(ops[2])
		m.setGPR(rd, m.GPR.Get(rs)-m.GPR.Get(rt))
		return StepResult{Kind: KindContinue}
	}
	d[isa.AND] = func(m *Machine, ops []int32, pc uint32) StepResult {
		rd, rs, rt := int(ops[0]), int(ops[1]), int(ops[2])
		m.setGPR(rd, m.GPR.Get(rs)&m.GPR.Get(rt))
		return StepResult{Kind: KindContinue}
	}
	d[isa.OR] = func(m *Machine, ops []int32, pc uint32) StepResult {
		rd, rs, rt := int(ops[0]), int(ops[1]), int(ops[2])
		m.setGPR(rd, m.GPR.Get(rs)|m.GPR.Get(rt))
		return StepResult{Kind: KindContinue}
	}
	d[isa.XOR] = func(m *Machine, ops []int32, pc uint32) StepResult {
		rd, rs, rt := int(ops[0]), int(ops[1]), int(ops[2])
		m.setGPR(rd, m.GPR.Get(rs)^m.GPR.Get(rt))
		return StepResult{Kind: KindContinue}
	}
	d[isa.NOR] = func(m *Machine, ops []int32, pc uint32) StepResult {
		rd, rs, rt := int(ops[0]), int(ops[1]), int(ops[2])
		m.setGPR(rd, ^(m.GPR.Get(rs) | m.GPR.Get(rt)))
		return StepResult{Kind: KindContinue}
	}
	d[isa.SLT] = func(m *Machine, ops []int32, pc uint32) StepResult {
		rd, rs, rt := int(ops[0]), int(ops[1]), int(ops[2])
		v := uint32(0)
		if int32(m.GPR.Get(rs)) < int32(m.GPR.Get(rt)) {
			v = 1
		}
		m.setGPR(rd, v)
		return StepResult{Kind: KindContinue}
	}
	d[isa.SLTU] = func(m *Machine, ops []int32, pc uint32) StepResult {
		rd, rs, rt := int(ops[0]), int(ops[1]), int(ops[2])
		v := uint32(0)
		if m.GPR.Get(rs) < m.GPR.Get(rt) {
			v = 1
		}
		m.setGPR(rd, v)
		return StepResult{Kind: KindContinue}
	}

	d[isa.ADDI] = func(m *Machine, ops []int32, pc uint32) StepResult {
		rt, rs, imm := int(ops[0]), int(ops[1]), ops[2]
		a := int32(m.GPR.Get(rs))
		if addOverflows32(a, imm) {
			return m.raiseException(pc, register.CauseArithmeticOverflow, 0, false)
		}
		m.setGPR(rt, uint32(a+imm))
		return StepResult{Kind: KindContinue}
	}
	d[isa.ADDIU] = func(m *Machine, ops []int32, pc uint32) StepResult {
		rt, rs, imm := int(ops[0]), int(ops[1]), ops[2]
		m.setGPR(rt, m.GPR.Get(rs)+uint32(imm))
		return StepResult{Kind: KindContinue}
	}
	d[isa.ANDI] = func(m *Machine, ops []int32, pc uint32) StepResult {
		rt, rs, imm := int(ops[0]), int(ops[1]), uint32(ops[2])&0xffff
		m.setGPR(rt, m.GPR.Get(rs)&imm)
		return StepResult{Kind: KindContinue}
	}
	d[isa.ORI] = func(m *Machine, ops []int32, pc uint32) StepResult {
		rt, rs, imm := int(ops[0]), int(ops[1]), uint32(ops[2])&0xffff
		m.setGPR(rt, m.GPR.Get(rs)|imm)
		return StepResult{Kind: KindContinue}
	}
	d[isa.XORI] = func(m *Machine, ops []int32, pc uint32) StepResult {
		rt, rs, imm := int(ops[0]), int(ops[1]), uint32(ops[2])&0xffff
		m.setGPR(rt, m.GPR.Get(rs)^imm)
		return StepResult{Kind: KindContinue}
	}
	d[isa.SLTI] = func(m *Machine, ops []int32, pc uint32) StepResult {
		rt, rs, imm := int(ops[0]), int(ops[1]), ops[2]
		v := uint32(0)
		if int32(m.GPR.Get(rs)) < imm {
			v = 1
		}
		m.setGPR(rt, v)
		return StepResult{Kind: KindContinue}
	}
	d[isa.SLTIU] = func(m *Machine, ops []int32, pc uint32) StepResult {
		rt, rs, imm := int(ops[0]), int(ops[1]), uint32(ops[2])&0xffff
		v := uint32(0)
		if m.GPR.Get(rs) < imm {
			v = 1
		}
		m.setGPR(rt, v)
		return StepResult{Kind: KindContinue}
	}

	d[isa.LUI] = func(m *Machine, ops []int32, pc uint32) StepResult {
		rt, imm := int(ops[0]), uint32(ops[1])&0xffff
		m.setGPR(rt, imm<<16)
		return StepResult{Kind: KindContinue}
	}

	d[isa.SLL] = func(m *Machine, ops []int32, pc uint32) StepResult {
		rd, rt, sh := int(ops[0]), int(ops[1]), uint(ops[2])
		m.setGPR(rd, m.GPR.Get(rt)<<sh)
		return StepResult{Kind: KindContinue}
	}
	d[isa.SRL] = func(m *Machine, ops []int32, pc uint32) StepResult {
		rd, rt, sh := int(ops[0]), int(ops[1]), uint(ops[2])
		m.setGPR(rd, m.GPR.Get(rt)>>sh)
		return StepResult{Kind: KindContinue}
	}
	d[isa.SRA] = func(m *Machine, ops []int32, pc uint32) StepResult {
		rd, rt, sh := int(ops[0]), int(ops[1]), uint(ops[2])
		m.setGPR(rd, uint32(int32(m.GPR.Get(rt))>>sh))
		return StepResult{Kind: KindContinue}
	}
	d[isa.SLLV] = func(m *Machine, ops []int32, pc uint32) StepResult {
		rd, rt, rs := int(ops[0]), int(ops[1]), int(ops[2])
		m.setGPR(rd, m.GPR.Get(rt)<<(m.GPR.Get(rs)&0x1f))
		return StepResult{Kind: KindContinue}
	}
	d[isa.SRLV] = func(m *Machine, ops []int32, pc uint32) StepResult {
		rd, rt, rs := int(ops[0]), int(ops[1]), int(ops[2])
		m.setGPR(rd, m.GPR.Get(rt)>>(m.GPR.Get(rs)&0x1f))
		return StepResult{Kind: KindContinue}
	}
	d[isa.SRAV] = func(m *Machine, ops []int32, pc uint32) StepResult {
		rd, rt, rs := int(ops[0]), int(ops[1]), int(ops[2])
		m.setGPR(rd, uint32(int32(m.GPR.Get(rt))>>(m.GPR.Get(rs)&0x1f)))
		return StepResult{Kind: KindContinue}
	}
}
