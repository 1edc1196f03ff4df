/*
 * mars-red - Execute closures: load/store instructions.
 *
 * Copyright 2026, mars-red contributors
 */

package sim

import (
	"github.com/myaltaccountsthis/mars-red/internal/bits"
	"github.com/myaltaccountsthis/mars-red/isa"
	"github.com/myaltaccountsthis/mars-red/register"
)

// effectiveAddr computes base+offset the way lw/sw's memOps decode
// it: ops[1] is the signed offset, ops[2] is the base register.
func effectiveAddr(m *Machine, ops []int32) uint32 {
	base := m.GPR.Get(int(ops[2]))
	return base + uint32(ops[1])
}

func registerMemExec(d map[isa.InstrID]execFunc) {
	d[isa.LW] = func(m *Machine, ops []int32, pc uint32) StepResult {
		addr := effectiveAddr(m, ops)
		v, err := m.Mem.GetWord(addr, true)
		if err != nil {
			return m.faultOnLoad(pc, addr, err)
		}
		m.setGPR(int(ops[0]), v)
		return StepResult{Kind: KindContinue}
	}
	d[isa.LH] = func(m *Machine, ops []int32, pc uint32) StepResult {
		addr := effectiveAddr(m, ops)
		v, err := m.Mem.GetHalfword(addr, true)
		if err != nil {
			return m.faultOnLoad(pc, addr, err)
		}
		m.setGPR(int(ops[0]), uint32(bits.SignExtend16(v)))
		return StepResult{Kind: KindContinue}
	}
	d[isa.LHU] = func(m *Machine, ops []int32, pc uint32) StepResult {
		addr := effectiveAddr(m, ops)
		v, err := m.Mem.GetHalfword(addr, true)
		if err != nil {
			return m.faultOnLoad(pc, addr, err)
		}
		m.setGPR(int(ops[0]), uint32(v))
		return StepResult{Kind: KindContinue}
	}
	d[isa.LB] = func(m *Machine, ops []int32, pc uint32) StepResult {
		addr := effectiveAddr(m, ops)
		v, err := m.Mem.GetByte(addr, true)
		if err != nil {
			return m.faultOnLoad(pc, addr, err)
		}
		m.setGPR(int(ops[0]), uint32(int32(int8(v))))
		return StepResult{Kind: KindContinue}
	}
	d[isa.LBU] = func(m *Machine, ops []int32, pc uint32) StepResult {
		addr := effectiveAddr(m, ops)
		v, err := m.Mem.GetByte(addr, true)
		if err != nil {
			return m.faultOnLoad(pc, addr, err)
		}
		m.setGPR(int(ops[0]), uint32(v))
		return StepResult{Kind: KindContinue}
	}
	d[isa.SW] = func(m *Machine, ops []int32, pc uint32) StepResult {
		addr := effectiveAddr(m, ops)
		if err := m.Mem.StoreWord(addr, m.GPR.Get(int(ops[0])), true); err != nil {
			return m.faultOnStore(pc, addr, err)
		}
		return StepResult{Kind: KindContinue}
	}
	d[isa.SH] = func(m *Machine, ops []int32, pc uint32) StepResult {
		addr := effectiveAddr(m, ops)
		if err := m.Mem.StoreHalfword(addr, uint16(m.GPR.Get(int(ops[0]))), true); err != nil {
			return m.faultOnStore(pc, addr, err)
		}
		return StepResult{Kind: KindContinue}
	}
	d[isa.SB] = func(m *Machine, ops []int32, pc uint32) StepResult {
		addr := effectiveAddr(m, ops)
		if err := m.Mem.StoreByte(addr, uint8(m.GPR.Get(int(ops[0]))), true); err != nil {
			return m.faultOnStore(pc, addr, err)
		}
		return StepResult{Kind: KindContinue}
	}
}

// faultOnLoad/faultOnStore turn a mem.AddressError into the matching
// MIPS exception, per §6/§7: any failed load is an address-fetch-style
// data exception, any failed store an address-store exception, with
// BadVAddr set to the faulting address.
func (m *Machine) faultOnLoad(pc uint32, addr uint32, err error) StepResult {
	return m.raiseException(pc, register.CauseAddressFetch, addr, true)
}

func (m *Machine) faultOnStore(pc uint32, addr uint32, err error) StepResult {
	return m.raiseException(pc, register.CauseAddressStore, addr, true)
}
