/*
 * mars-red - Syscall service table, per the register-2 service number.
 *
 * Copyright 2026, mars-red contributors
 */

package sim

import (
	"bufio"
	"io"
	"math"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/myaltaccountsthis/mars-red/register"
)

// GPR numbers used by the syscall convention: arguments in $a0-$a3,
// return value(s) in $v0 (and $a0/$a1 for the two-word time reading).
const (
	regV0 = 2
	regA0 = 4
	regA1 = 5
	regA2 = 6
)

// syscallEnv holds everything a syscall needs beyond the register
// file and memory: open file descriptors and named PRNGs. One per
// Machine, reset by resetFiles the way §5 describes SystemIO owning
// descriptors that close on reset.
type syscallEnv struct {
	files  map[int32]*os.File
	nextFD int32
	rngs   map[uint32]*rand.Rand
	stdin  *bufio.Reader
}

func newSyscallEnv() *syscallEnv {
	return &syscallEnv{
		files:  map[int32]*os.File{0: os.Stdin, 1: os.Stdout, 2: os.Stderr},
		nextFD: 3,
		rngs:   map[uint32]*rand.Rand{},
		stdin:  bufio.NewReader(os.Stdin),
	}
}

// resetFiles closes every descriptor opened by syscall 13 (not the
// three standard streams) and clears the PRNG table, per §5's
// "SystemIO owns fds closed on resetFiles()".
func (e *syscallEnv) resetFiles() {
	for fd, f := range e.files {
		if fd > 2 {
			f.Close()
		}
	}
	e.files = map[int32]*os.File{0: os.Stdin, 1: os.Stdout, 2: os.Stderr}
	e.nextFD = 3
	e.rngs = map[uint32]*rand.Rand{}
}

// ResetFiles exposes resetFiles for the driving loop's own reset.
func (m *Machine) ResetFiles() { m.syscalls.resetFiles() }

// dispatchSyscall services the request named by $v0, per §4.9. An
// unrecognized service number raises the syscall exception rather
// than silently doing nothing.
func (m *Machine) dispatchSyscall(pc uint32) StepResult {
	service := m.GPR.Get(regV0)
	switch service {
	case 1: // print integer
		m.writeOut(strconv.FormatInt(int64(int32(m.GPR.Get(regA0))), 10))
	case 4: // print string
		s, err := m.Mem.GetNullTerminatedString(m.GPR.Get(regA0))
		if err != nil {
			return m.faultOnLoad(pc, m.GPR.Get(regA0), err)
		}
		m.writeOut(s)
	case 5: // read integer
		m.setGPR(regV0, uint32(m.readInt()))
	case 8: // read string into buffer, at most $a1 bytes including NUL
		m.readStringInto(m.GPR.Get(regA0), m.GPR.Get(regA1))
	case 9: // sbrk
		m.setGPR(regV0, m.sbrk(m.GPR.Get(regA0)))
	case 10: // exit
		return StepResult{Kind: KindHalt, ExitCode: 0}
	case 11: // print character
		m.writeOut(string(byte(m.GPR.Get(regA0))))
	case 12: // read character
		b, _ := m.syscalls.stdin.ReadByte()
		m.setGPR(regV0, uint32(b))
	case 13: // open
		m.sysOpen(pc)
	case 14: // read
		return m.sysRead(pc)
	case 15: // write
		return m.sysWrite(pc)
	case 16: // close
		m.sysClose()
	case 17: // exit2
		return StepResult{Kind: KindHalt, ExitCode: int(int32(m.GPR.Get(regA0)))}
	case 30: // system time
		ms := time.Now().UnixMilli()
		m.setGPR(regA0, uint32(ms))
		m.setGPR(regA1, uint32(ms>>32))
	case 32: // sleep
		time.Sleep(time.Duration(m.GPR.Get(regA0)) * time.Millisecond)
	case 40: // seed PRNG
		m.syscalls.rngs[m.GPR.Get(regA0)] = rand.New(rand.NewSource(int64(m.GPR.Get(regA1))))
	case 41: // random int
		m.setGPR(regV0, uint32(m.rngFor(m.GPR.Get(regA0)).Int31()))
	case 42: // random int bounded
		bound := int32(m.GPR.Get(regA1))
		if bound <= 0 {
			bound = 1
		}
		m.setGPR(regV0, uint32(m.rngFor(m.GPR.Get(regA0)).Int31n(bound)))
	case 43: // random float
		m.setCP1Word(0, math.Float32bits(m.rngFor(m.GPR.Get(regA0)).Float32()))
	default:
		return m.raiseException(pc, register.CauseSyscall, 0, false)
	}
	return StepResult{Kind: KindContinue}
}

func (m *Machine) rngFor(id uint32) *rand.Rand {
	r, ok := m.syscalls.rngs[id]
	if !ok {
		r = rand.New(rand.NewSource(1))
		m.syscalls.rngs[id] = r
	}
	return r
}

func (m *Machine) writeOut(s string) {
	io.WriteString(m.syscalls.files[1], s)
}

func (m *Machine) readInt() int64 {
	line, _ := m.syscalls.stdin.ReadString('\n')
	v, _ := strconv.ParseInt(strings.TrimSpace(line), 10, 64)
	return v
}

func (m *Machine) readStringInto(addr, max uint32) {
	if max == 0 {
		return
	}
	line, _ := m.syscalls.stdin.ReadString('\n')
	if uint32(len(line)) > max-1 {
		line = line[:max-1]
	}
	i := uint32(0)
	for ; i < uint32(len(line)); i++ {
		m.Mem.StoreByte(addr+i, line[i], true)
	}
	m.Mem.StoreByte(addr+i, 0, true)
}

// sbrk extends the heap by n bytes and returns the address of the
// extension's start, per §4.9. The heap pointer itself lives on the
// Machine, not in Mem, since it is simulator bookkeeping rather than
// addressable state.
func (m *Machine) sbrk(n uint32) uint32 {
	if m.heapTop == 0 {
		m.heapTop = m.Mem.Config().HeapBase()
	}
	addr := m.heapTop
	m.heapTop += n
	return addr
}

func (m *Machine) sysOpen(pc uint32) {
	path, err := m.Mem.GetNullTerminatedString(m.GPR.Get(regA0))
	if err != nil {
		m.setGPR(regV0, ^uint32(0))
		return
	}
	flags := int(m.GPR.Get(regA1))
	f, oerr := os.OpenFile(path, translateOpenFlags(flags), 0644)
	if oerr != nil {
		m.setGPR(regV0, ^uint32(0))
		return
	}
	fd := m.syscalls.nextFD
	m.syscalls.nextFD++
	m.syscalls.files[fd] = f
	m.setGPR(regV0, uint32(fd))
}

func translateOpenFlags(flags int) int {
	switch flags {
	case 1:
		return os.O_WRONLY | os.O_CREATE
	case 2:
		return os.O_RDWR | os.O_CREATE
	default:
		return os.O_RDONLY
	}
}

func (m *Machine) sysRead(pc uint32) StepResult {
	fd := int32(m.GPR.Get(regA0))
	f, ok := m.syscalls.files[fd]
	if !ok {
		m.setGPR(regV0, ^uint32(0))
		return StepResult{Kind: KindContinue}
	}
	length := m.GPR.Get(regA2)
	buf := make([]byte, length)
	n, _ := f.Read(buf)
	addr := m.GPR.Get(regA1)
	for i := 0; i < n; i++ {
		if err := m.Mem.StoreByte(addr+uint32(i), buf[i], true); err != nil {
			return m.faultOnStore(pc, addr+uint32(i), err)
		}
	}
	m.setGPR(regV0, uint32(n))
	return StepResult{Kind: KindContinue}
}

func (m *Machine) sysWrite(pc uint32) StepResult {
	fd := int32(m.GPR.Get(regA0))
	f, ok := m.syscalls.files[fd]
	if !ok {
		m.setGPR(regV0, ^uint32(0))
		return StepResult{Kind: KindContinue}
	}
	length := m.GPR.Get(regA2)
	addr := m.GPR.Get(regA1)
	buf := make([]byte, length)
	for i := uint32(0); i < length; i++ {
		b, err := m.Mem.GetByte(addr+i, true)
		if err != nil {
			return m.faultOnLoad(pc, addr+i, err)
		}
		buf[i] = b
	}
	n, _ := f.Write(buf)
	m.setGPR(regV0, uint32(n))
	return StepResult{Kind: KindContinue}
}

func (m *Machine) sysClose() {
	fd := int32(m.GPR.Get(regA0))
	if f, ok := m.syscalls.files[fd]; ok && fd > 2 {
		f.Close()
		delete(m.syscalls.files, fd)
	}
}
