/*
 * mars-red - Execute closures: branch and jump instructions.
 *
 * Copyright 2026, mars-red contributors
 */

package sim

import "github.com/myaltaccountsthis/mars-red/isa"

// branchTarget turns a decoded word-count displacement into an
// absolute address: the branch is relative to the instruction
// following the branch itself, per MIPS convention.
func branchTarget(pc uint32, disp int32) uint32 {
	return uint32(int64(pc) + 4 + int64(disp)*4)
}

// jumpTarget26 reconstructs j/jal's absolute target: the decoded
// operand carries the low 28 bits (26-bit field shifted left 2); the
// top 4 bits come from the delay slot's own address, per MIPS's
// region-relative jump encoding.
func jumpTarget26(pc uint32, low28 int32) uint32 {
	return (uint32(low28) & 0x0fffffff) | ((pc + 4) & 0xf0000000)
}

// linkAddress is the return address a jal/jalr leaves behind: the
// instruction after the one that runs next. With delayed branching
// that's pc+8 (the delay slot at pc+4 still executes); without it,
// the jump takes effect immediately and there is no delay slot to
// skip over, so it's pc+4.
func (m *Machine) linkAddress(pc uint32) uint32 {
	if m.delayedBranching {
		return pc + 8
	}
	return pc + 4
}

func registerBranchExec(d map[isa.InstrID]execFunc) {
	d[isa.BEQ] = func(m *Machine, ops []int32, pc uint32) StepResult {
		if m.GPR.Get(int(ops[0])) == m.GPR.Get(int(ops[1])) {
			m.scheduleJump(branchTarget(pc, ops[2]))
		}
		return StepResult{Kind: KindContinue}
	}
	d[isa.BNE] = func(m *Machine, ops []int32, pc uint32) StepResult {
		if m.GPR.Get(int(ops[0])) != m.GPR.Get(int(ops[1])) {
			m.scheduleJump(branchTarget(pc, ops[2]))
		}
		return StepResult{Kind: KindContinue}
	}
	d[isa.BLEZ] = func(m *Machine, ops []int32, pc uint32) StepResult {
		if int32(m.GPR.Get(int(ops[0]))) <= 0 {
			m.scheduleJump(branchTarget(pc, ops[1]))
		}
		return StepResult{Kind: KindContinue}
	}
	d[isa.BGTZ] = func(m *Machine, ops []int32, pc uint32) StepResult {
		if int32(m.GPR.Get(int(ops[0]))) > 0 {
			m.scheduleJump(branchTarget(pc, ops[1]))
		}
		return StepResult{Kind: KindContinue}
	}
	d[isa.BLTZ] = func(m *Machine, ops []int32, pc uint32) StepResult {
		if int32(m.GPR.Get(int(ops[0]))) < 0 {
			m.scheduleJump(branchTarget(pc, ops[1]))
		}
		return StepResult{Kind: KindContinue}
	}
	d[isa.BGEZ] = func(m *Machine, ops []int32, pc uint32) StepResult {
		if int32(m.GPR.Get(int(ops[0]))) >= 0 {
			m.scheduleJump(branchTarget(pc, ops[1]))
		}
		return StepResult{Kind: KindContinue}
	}

	d[isa.J] = func(m *Machine, ops []int32, pc uint32) StepResult {
		m.scheduleJump(jumpTarget26(pc, ops[0]))
		return StepResult{Kind: KindContinue}
	}
	d[isa.JAL] = func(m *Machine, ops []int32, pc uint32) StepResult {
		m.setGPR(31, m.linkAddress(pc))
		m.scheduleJump(jumpTarget26(pc, ops[0]))
		return StepResult{Kind: KindContinue}
	}
	d[isa.JR] = func(m *Machine, ops []int32, pc uint32) StepResult {
		m.scheduleJump(m.GPR.Get(int(ops[0])))
		return StepResult{Kind: KindContinue}
	}
	d[isa.JALR] = func(m *Machine, ops []int32, pc uint32) StepResult {
		rd, rs := int(ops[0]), int(ops[1])
		target := m.GPR.Get(rs)
		m.setGPR(rd, m.linkAddress(pc))
		m.scheduleJump(target)
		return StepResult{Kind: KindContinue}
	}
	d[isa.JALR1] = func(m *Machine, ops []int32, pc uint32) StepResult {
		target := m.GPR.Get(int(ops[0]))
		m.setGPR(31, m.linkAddress(pc))
		m.scheduleJump(target)
		return StepResult{Kind: KindContinue}
	}
}
