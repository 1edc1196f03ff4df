/*
 * mars-red - Execute closures: coprocessor 1 (floating point).
 *
 * Copyright 2026, mars-red contributors
 */

package sim

import (
	"math"

	"github.com/myaltaccountsthis/mars-red/isa"
)

// fpInvalidResult is what cvt.w.s/cvt.w.d return for an out-of-range
// or NaN source, per §9's carried-over SPIM quirk: FP invalid
// operations return INT_MAX rather than raising an exception.
const fpInvalidResult = math.MaxInt32

func registerFPExec(d map[isa.InstrID]execFunc) {
	single3 := func(f func(a, b float32) float32) execFunc {
		return func(m *Machine, ops []int32, pc uint32) StepResult {
			fd, fs, ft := int(ops[0]), int(ops[1]), int(ops[2])
			m.setCP1Word(fd, math.Float32bits(f(m.CP1.GetFloat(fs), m.CP1.GetFloat(ft))))
			return StepResult{Kind: KindContinue}
		}
	}
	double3 := func(f func(a, b float64) float64) execFunc {
		return func(m *Machine, ops []int32, pc uint32) StepResult {
			fd, fs, ft := int(ops[0]), int(ops[1]), int(ops[2])
			m.setCP1DoubleFromExec(fd, f(m.CP1.GetDouble(fs), m.CP1.GetDouble(ft)))
			return StepResult{Kind: KindContinue}
		}
	}

	d[isa.ADDS] = single3(func(a, b float32) float32 { return a + b })
	d[isa.SUBS] = single3(func(a, b float32) float32 { return a - b })
	d[isa.MULS] = single3(func(a, b float32) float32 { return a * b })
	d[isa.DIVS] = single3(func(a, b float32) float32 { return a / b })
	d[isa.ADDD] = double3(func(a, b float64) float64 { return a + b })
	d[isa.SUBD] = double3(func(a, b float64) float64 { return a - b })
	d[isa.MULD] = double3(func(a, b float64) float64 { return a * b })
	d[isa.DIVD] = double3(func(a, b float64) float64 { return a / b })

	d[isa.MOVS] = func(m *Machine, ops []int32, pc uint32) StepResult {
		fd, fs := int(ops[0]), int(ops[1])
		m.setCP1Word(fd, m.CP1.GetWord(fs))
		return StepResult{Kind: KindContinue}
	}
	d[isa.MOVD] = func(m *Machine, ops []int32, pc uint32) StepResult {
		fd, fs := int(ops[0]), int(ops[1])
		m.setCP1DoubleFromExec(fd, m.CP1.GetDouble(fs))
		return StepResult{Kind: KindContinue}
	}

	d[isa.CVTWS] = func(m *Machine, ops []int32, pc uint32) StepResult {
		fd, fs := int(ops[0]), int(ops[1])
		m.setCP1Word(fd, uint32(floatToInt32(float64(m.CP1.GetFloat(fs)))))
		return StepResult{Kind: KindContinue}
	}
	d[isa.CVTSW] = func(m *Machine, ops []int32, pc uint32) StepResult {
		fd, fs := int(ops[0]), int(ops[1])
		m.setCP1Word(fd, math.Float32bits(float32(int32(m.CP1.GetWord(fs)))))
		return StepResult{Kind: KindContinue}
	}
	d[isa.CVTWD] = func(m *Machine, ops []int32, pc uint32) StepResult {
		fd, fs := int(ops[0]), int(ops[1])
		m.setCP1Word(fd, uint32(floatToInt32(m.CP1.GetDouble(fs))))
		return StepResult{Kind: KindContinue}
	}
	d[isa.CVTDW] = func(m *Machine, ops []int32, pc uint32) StepResult {
		fd, fs := int(ops[0]), int(ops[1])
		m.setCP1DoubleFromExec(fd, float64(int32(m.CP1.GetWord(fs))))
		return StepResult{Kind: KindContinue}
	}

	// Compare/branch-on-condition always address flag 0, per §9's
	// noted simplification of the 8-flag "cc" field.
	d[isa.CEQS] = func(m *Machine, ops []int32, pc uint32) StepResult {
		fs, ft := int(ops[0]), int(ops[1])
		m.setCP1Flag(0, m.CP1.GetFloat(fs) == m.CP1.GetFloat(ft))
		return StepResult{Kind: KindContinue}
	}
	d[isa.CLTS] = func(m *Machine, ops []int32, pc uint32) StepResult {
		fs, ft := int(ops[0]), int(ops[1])
		m.setCP1Flag(0, m.CP1.GetFloat(fs) < m.CP1.GetFloat(ft))
		return StepResult{Kind: KindContinue}
	}
	d[isa.CEQD] = func(m *Machine, ops []int32, pc uint32) StepResult {
		fs, ft := int(ops[0]), int(ops[1])
		m.setCP1Flag(0, m.CP1.GetDouble(fs) == m.CP1.GetDouble(ft))
		return StepResult{Kind: KindContinue}
	}
	d[isa.CLTD] = func(m *Machine, ops []int32, pc uint32) StepResult {
		fs, ft := int(ops[0]), int(ops[1])
		m.setCP1Flag(0, m.CP1.GetDouble(fs) < m.CP1.GetDouble(ft))
		return StepResult{Kind: KindContinue}
	}
	d[isa.BC1T] = func(m *Machine, ops []int32, pc uint32) StepResult {
		if m.CP1.Flag(0) {
			m.scheduleJump(branchTarget(pc, ops[0]))
		}
		return StepResult{Kind: KindContinue}
	}
	d[isa.BC1F] = func(m *Machine, ops []int32, pc uint32) StepResult {
		if !m.CP1.Flag(0) {
			m.scheduleJump(branchTarget(pc, ops[0]))
		}
		return StepResult{Kind: KindContinue}
	}

	d[isa.MFC1] = func(m *Machine, ops []int32, pc uint32) StepResult {
		rt, fs := int(ops[0]), int(ops[1])
		m.setGPR(rt, m.CP1.GetWord(fs))
		return StepResult{Kind: KindContinue}
	}
	d[isa.MTC1] = func(m *Machine, ops []int32, pc uint32) StepResult {
		rt, fs := int(ops[0]), int(ops[1])
		m.setCP1Word(fs, m.GPR.Get(rt))
		return StepResult{Kind: KindContinue}
	}

	d[isa.LWC1] = func(m *Machine, ops []int32, pc uint32) StepResult {
		addr := effectiveAddr(m, ops)
		v, err := m.Mem.GetWord(addr, true)
		if err != nil {
			return m.faultOnLoad(pc, addr, err)
		}
		m.setCP1Word(int(ops[0]), v)
		return StepResult{Kind: KindContinue}
	}
	d[isa.SWC1] = func(m *Machine, ops []int32, pc uint32) StepResult {
		addr := effectiveAddr(m, ops)
		if err := m.Mem.StoreWord(addr, m.CP1.GetWord(int(ops[0])), true); err != nil {
			return m.faultOnStore(pc, addr, err)
		}
		return StepResult{Kind: KindContinue}
	}
	d[isa.LDC1] = func(m *Machine, ops []int32, pc uint32) StepResult {
		addr := effectiveAddr(m, ops)
		v, err := m.Mem.GetDoubleword(addr, true)
		if err != nil {
			return m.faultOnLoad(pc, addr, err)
		}
		fd := int(ops[0])
		m.setCP1Word(fd&0x1e, uint32(v))
		m.setCP1Word((fd&0x1e)+1, uint32(v>>32))
		return StepResult{Kind: KindContinue}
	}
	d[isa.SDC1] = func(m *Machine, ops []int32, pc uint32) StepResult {
		addr := effectiveAddr(m, ops)
		bits := math.Float64bits(m.CP1.GetDouble(int(ops[0])))
		if err := m.Mem.StoreDoubleword(addr, bits, true); err != nil {
			return m.faultOnStore(pc, addr, err)
		}
		return StepResult{Kind: KindContinue}
	}
}

// setCP1DoubleFromExec records both halves of a double write as
// separate CP1 word effects, so the back-stepper reverses it the same
// way a real two-register write would undo.
func (m *Machine) setCP1DoubleFromExec(fd int, v float64) {
	evenVal, oddVal := math.Float64bits(v)&0xffffffff, math.Float64bits(v)>>32
	m.setCP1Word(fd&0x1e, uint32(evenVal))
	m.setCP1Word((fd&0x1e)+1, uint32(oddVal))
}

func floatToInt32(v float64) int32 {
	if math.IsNaN(v) || v > float64(math.MaxInt32) || v < float64(math.MinInt32) {
		return fpInvalidResult
	}
	return int32(v)
}
