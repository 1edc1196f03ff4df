/*
 * mars-red - Back-stepper: circular log of inverse register/memory effects.
 *
 * Copyright 2026, mars-red contributors
 */

package sim

// defaultBackStepCapacity bounds the log the way MARS bounds its own
// back-step buffer: large enough for a long debugging session, small
// enough not to grow unbounded under a free-running program.
const defaultBackStepCapacity = 2000

type backKind int

const (
	backMemByte backKind = iota
	backMemHalf
	backMemWord
	backGPR
	backPC
	backHI
	backLO
	backCP0
	backCP1Word
	backCP1Flag
)

// backRecord is one atomic inverse effect. pc and wasInDelaySlot
// identify which Step produced it; StepBack pops every record sharing
// the top record's pc, collapsing multi-effect instructions (mult's
// HI+LO write, for example) into a single logical reversal while
// still letting an instruction's individual writes (mflo's single GPR
// write) stand alone, per §4.10 and scenario S6.
type backRecord struct {
	kind           backKind
	pc             uint32
	wasInDelaySlot bool

	addr uint32 // memory records
	reg  int    // GPR/CP0/CP1 number, or flag index for backCP1Flag

	oldWord uint32
	oldFlag bool
}

type backStepLog struct {
	records  []backRecord
	capacity int
	enabled  bool
}

func newBackStepLog(capacity int) *backStepLog {
	return &backStepLog{capacity: capacity, enabled: true}
}

func (l *backStepLog) reset() {
	l.records = nil
}

func (l *backStepLog) push(r backRecord) {
	if !l.enabled {
		return
	}
	l.records = append(l.records, r)
	if len(l.records) > l.capacity {
		l.records = l.records[len(l.records)-l.capacity:]
	}
}

func (l *backStepLog) recordMem(pc uint32, inDelaySlot bool, addr uint32, size int, old uint32) {
	kind := backMemWord
	switch size {
	case 1:
		kind = backMemByte
	case 2:
		kind = backMemHalf
	}
	l.push(backRecord{kind: kind, pc: pc, wasInDelaySlot: inDelaySlot, addr: addr, oldWord: old})
}

// CanStepBack reports whether any recorded effect remains.
func (m *Machine) CanStepBack() bool { return len(m.backstep.records) > 0 }

// StepBack reverses the most recently executed instruction's effects,
// per §4.10. Recording is disabled for the duration so the reversal
// itself never grows the log.
func (m *Machine) StepBack() bool {
	if len(m.backstep.records) == 0 {
		return false
	}
	groupPC := m.backstep.records[len(m.backstep.records)-1].pc
	wasInDelaySlot := m.backstep.records[len(m.backstep.records)-1].wasInDelaySlot

	m.backstep.enabled = false
	defer func() { m.backstep.enabled = true }()

	for len(m.backstep.records) > 0 {
		top := m.backstep.records[len(m.backstep.records)-1]
		if top.pc != groupPC {
			break
		}
		m.backstep.records = m.backstep.records[:len(m.backstep.records)-1]
		m.applyInverse(top)
	}

	if wasInDelaySlot {
		m.GPR.SetPC(groupPC + 4)
	} else {
		m.GPR.SetPC(groupPC)
	}
	if m.state == Terminated {
		m.state = Paused
	}
	return true
}

func (m *Machine) applyInverse(r backRecord) {
	switch r.kind {
	case backMemByte:
		m.Mem.StoreByte(r.addr, uint8(r.oldWord), false)
	case backMemHalf:
		m.Mem.StoreHalfword(r.addr, uint16(r.oldWord), false)
	case backMemWord:
		m.Mem.StoreWord(r.addr, r.oldWord, false)
	case backGPR:
		m.GPR.Set(r.reg, r.oldWord)
	case backPC:
		m.GPR.SetPC(r.oldWord)
	case backHI:
		m.GPR.SetHI(r.oldWord)
	case backLO:
		m.GPR.SetLO(r.oldWord)
	case backCP0:
		m.CP0.ForceSet(r.reg, r.oldWord)
	case backCP1Word:
		m.CP1.SetWord(r.reg, r.oldWord)
	case backCP1Flag:
		m.CP1.SetFlag(r.reg, r.oldFlag)
	}
}

// The setters below are how exec closures mutate non-memory state;
// routing every write through them is what lets the back-stepper see
// it. Memory writes don't need an equivalent wrapper since Mem itself
// notifies Machine.OnStore.

func (m *Machine) setGPR(num int, value uint32) {
	if num != 0 {
		m.backstep.push(backRecord{kind: backGPR, pc: m.currentPC, wasInDelaySlot: m.inDelaySlot, reg: num, oldWord: m.GPR.Get(num)})
	}
	m.GPR.Set(num, value)
}

func (m *Machine) setPC(value uint32) {
	m.backstep.push(backRecord{kind: backPC, pc: m.currentPC, wasInDelaySlot: m.inDelaySlot, oldWord: m.GPR.PC()})
	m.GPR.SetPC(value)
}

func (m *Machine) setHI(value uint32) {
	m.backstep.push(backRecord{kind: backHI, pc: m.currentPC, wasInDelaySlot: m.inDelaySlot, oldWord: m.GPR.HI()})
	m.GPR.SetHI(value)
}

func (m *Machine) setLO(value uint32) {
	m.backstep.push(backRecord{kind: backLO, pc: m.currentPC, wasInDelaySlot: m.inDelaySlot, oldWord: m.GPR.LO()})
	m.GPR.SetLO(value)
}

func (m *Machine) setCP0(num int, value uint32) {
	m.backstep.push(backRecord{kind: backCP0, pc: m.currentPC, wasInDelaySlot: m.inDelaySlot, reg: num, oldWord: m.CP0.Get(num)})
	m.CP0.Set(num, value)
}

func (m *Machine) setCP1Word(num int, value uint32) {
	m.backstep.push(backRecord{kind: backCP1Word, pc: m.currentPC, wasInDelaySlot: m.inDelaySlot, reg: num, oldWord: m.CP1.GetWord(num)})
	m.CP1.SetWord(num, value)
}

func (m *Machine) setCP1Flag(i int, value bool) {
	m.backstep.push(backRecord{kind: backCP1Flag, pc: m.currentPC, wasInDelaySlot: m.inDelaySlot, reg: i, oldFlag: m.CP1.Flag(i)})
	m.CP1.SetFlag(i, value)
}
