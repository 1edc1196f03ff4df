/*
 * mars-red - Instruction dispatch table.
 *
 * Copyright 2026, mars-red contributors
 */

package sim

import "github.com/myaltaccountsthis/mars-red/isa"

// execFunc is one instruction's execute closure: ops holds the
// resolved operand values isa.DecodeWord produced, in the order the
// BasicInstruction declares them; pc is the address of the
// instruction being executed (GPR.PC() has already moved to pc+4, or
// to the delay-slot address, by the time this runs).
type execFunc func(m *Machine, ops []int32, pc uint32) StepResult

// dispatch is built once at package init from every registerXxxExec
// call below, one per isa/basic*.go grouping, mirroring the split of
// the instruction table itself.
var dispatch = buildDispatch()

func buildDispatch() map[isa.InstrID]execFunc {
	d := map[isa.InstrID]execFunc{}
	registerALUExec(d)
	registerMemExec(d)
	registerBranchExec(d)
	registerMulDivExec(d)
	registerSystemExec(d)
	registerFPExec(d)
	return d
}
