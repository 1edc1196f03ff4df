/*
 * mars-red - Segmented addressable memory.
 *
 * Copyright 2024, Richard Cornwell
 * Copyright 2026, mars-red contributors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package mem

import "fmt"

// Endian selects the byte order words are serialized with, per §4.1.
type Endian int

const (
	LittleEndian Endian = iota
	BigEndian
)

// AddressErrorKind distinguishes the ways an access can fail, per §4.1
// and §7.
type AddressErrorKind int

const (
	ErrOutOfRange AddressErrorKind = iota
	ErrMisaligned
	ErrTextWriteProtected
	ErrMMIORejected
)

// AddressError is the error returned for any out-of-range, misaligned
// or policy-rejected access.
type AddressError struct {
	Kind    AddressErrorKind
	Address uint32
}

func (e *AddressError) Error() string {
	switch e.Kind {
	case ErrMisaligned:
		return fmt.Sprintf("address exception: misaligned access at 0x%08x", e.Address)
	case ErrTextWriteProtected:
		return fmt.Sprintf("address exception: write to protected text segment at 0x%08x", e.Address)
	case ErrMMIORejected:
		return fmt.Sprintf("address exception: MMIO rejected access at 0x%08x", e.Address)
	default:
		return fmt.Sprintf("address exception: access to 0x%08x not mapped", e.Address)
	}
}

// MMIOHandler services reads and writes directed at its registered
// range. size is 1, 2 or 4 bytes.
type MMIOHandler interface {
	ReadMMIO(addr uint32, size int) (uint32, error)
	WriteMMIO(addr uint32, size int, value uint32) error
}

type mmioRange struct {
	start, end uint32
	handler    MMIOHandler
}

// Statement is the cached high-level form of the word stored at a
// text-segment address. Decoded is an opaque pointer to the
// simulator's/assembler's own instruction representation (normally an
// *isa.BasicInstruction); mem never interprets it, it only caches and
// invalidates it, keeping this package free of any dependency on the
// instruction table.
type Statement struct {
	Word    uint32
	Decoded any
}

// Observer is notified, with the access's notify flag, of every
// memory mutation. The back-stepper and any other interested party
// register one through AddObserver; mem has no direct dependency on
// them.
type Observer interface {
	OnStore(addr uint32, size int, oldValue, newValue uint32, notify bool)
}

// Memory is a segmented, sparsely backed 32-bit address space.
type Memory struct {
	cfg        Config
	endian     Endian
	selfModify bool

	words      map[uint32]uint32
	statements map[uint32]*Statement
	mmio       []mmioRange
	observers  []Observer
}

// New builds a Memory for the given configuration and endianness.
func New(cfg Config, endian Endian) *Memory {
	return &Memory{
		cfg:        cfg,
		endian:     endian,
		words:      make(map[uint32]uint32),
		statements: make(map[uint32]*Statement),
	}
}

// Config returns the active segment configuration.
func (m *Memory) Config() Config { return m.cfg }

// SetSelfModifying enables or disables write access to the text
// segment; per §4.1, while disabled a text write is an AddressError,
// while enabled it invalidates the cached Statement at that address.
func (m *Memory) SetSelfModifying(enabled bool) { m.selfModify = enabled }

// AddObserver registers an access observer (e.g. the back-stepper).
func (m *Memory) AddObserver(o Observer) { m.observers = append(m.observers, o) }

// RegisterMMIO installs a handler for [start, end] inclusive.
func (m *Memory) RegisterMMIO(start, end uint32, h MMIOHandler) {
	m.mmio = append(m.mmio, mmioRange{start: start, end: end, handler: h})
}

func (m *Memory) findMMIO(addr uint32) MMIOHandler {
	for _, r := range m.mmio {
		if addr >= r.start && addr <= r.end {
			return r.handler
		}
	}
	return nil
}

func (m *Memory) notify(addr uint32, size int, old, new uint32, notify bool) {
	for _, o := range m.observers {
		o.OnStore(addr, size, old, new, notify)
	}
}

// isTextSegment reports whether addr is in the user or kernel text
// segment.
func (m *Memory) isTextSegment(addr uint32) bool {
	return m.cfg.IsInTextSegment(addr) || m.cfg.IsInKernelTextSegment(addr)
}

func (m *Memory) checkMapped(addr uint32) error {
	if m.cfg.IsInMMIO(addr) {
		return nil
	}
	if !m.cfg.IsMapped(addr) {
		return &AddressError{Kind: ErrOutOfRange, Address: addr}
	}
	return nil
}

// GetWord reads the aligned 32-bit word at addr.
func (m *Memory) GetWord(addr uint32, notify bool) (uint32, error) {
	if addr&0x3 != 0 {
		return 0, &AddressError{Kind: ErrMisaligned, Address: addr}
	}
	if h := m.findMMIO(addr); h != nil {
		v, err := h.ReadMMIO(addr, 4)
		if err != nil {
			return 0, &AddressError{Kind: ErrMMIORejected, Address: addr}
		}
		return v, nil
	}
	if err := m.checkMapped(addr); err != nil {
		return 0, err
	}
	return m.words[addr], nil
}

// StoreWord writes the aligned 32-bit word at addr.
func (m *Memory) StoreWord(addr, value uint32, notify bool) error {
	if addr&0x3 != 0 {
		return &AddressError{Kind: ErrMisaligned, Address: addr}
	}
	if h := m.findMMIO(addr); h != nil {
		if err := h.WriteMMIO(addr, 4, value); err != nil {
			return &AddressError{Kind: ErrMMIORejected, Address: addr}
		}
		return nil
	}
	if err := m.checkMapped(addr); err != nil {
		return err
	}
	if m.isTextSegment(addr) {
		if !m.selfModify {
			return &AddressError{Kind: ErrTextWriteProtected, Address: addr}
		}
		delete(m.statements, addr)
	}
	old := m.words[addr]
	m.words[addr] = value
	m.notify(addr, 4, old, value, notify)
	return nil
}

// GetHalfword reads the aligned 16-bit halfword at addr.
func (m *Memory) GetHalfword(addr uint32, notify bool) (uint16, error) {
	if addr&0x1 != 0 {
		return 0, &AddressError{Kind: ErrMisaligned, Address: addr}
	}
	if h := m.findMMIO(addr); h != nil {
		v, err := h.ReadMMIO(addr, 2)
		if err != nil {
			return 0, &AddressError{Kind: ErrMMIORejected, Address: addr}
		}
		return uint16(v), nil
	}
	if err := m.checkMapped(addr); err != nil {
		return 0, err
	}
	word, shift := m.halfShift(addr)
	return uint16(m.words[word] >> shift), nil
}

// StoreHalfword writes the aligned 16-bit halfword at addr.
func (m *Memory) StoreHalfword(addr uint32, value uint16, notify bool) error {
	if addr&0x1 != 0 {
		return &AddressError{Kind: ErrMisaligned, Address: addr}
	}
	if h := m.findMMIO(addr); h != nil {
		if err := h.WriteMMIO(addr, 2, uint32(value)); err != nil {
			return &AddressError{Kind: ErrMMIORejected, Address: addr}
		}
		return nil
	}
	if err := m.checkMapped(addr); err != nil {
		return err
	}
	if m.isTextSegment(addr) {
		if !m.selfModify {
			return &AddressError{Kind: ErrTextWriteProtected, Address: addr}
		}
		delete(m.statements, addr&^uint32(3))
	}
	word, shift := m.halfShift(addr)
	mask := uint32(0xffff) << shift
	old := m.words[word]
	new := (old &^ mask) | (uint32(value) << shift)
	m.words[word] = new
	m.notify(addr, 2, old, new, notify)
	return nil
}

// halfShift returns the word address containing addr and the bit
// shift of the halfword within that word, honoring endianness.
func (m *Memory) halfShift(addr uint32) (word uint32, shift uint) {
	word = addr &^ uint32(3)
	off := addr & 0x3
	if m.endian == BigEndian {
		if off == 0 {
			shift = 16
		} else {
			shift = 0
		}
	} else {
		if off == 0 {
			shift = 0
		} else {
			shift = 16
		}
	}
	return word, shift
}

// GetByte reads the byte at addr.
func (m *Memory) GetByte(addr uint32, notify bool) (uint8, error) {
	if h := m.findMMIO(addr); h != nil {
		v, err := h.ReadMMIO(addr, 1)
		if err != nil {
			return 0, &AddressError{Kind: ErrMMIORejected, Address: addr}
		}
		return uint8(v), nil
	}
	if err := m.checkMapped(addr); err != nil {
		return 0, err
	}
	word, shift := m.byteShift(addr)
	return uint8(m.words[word] >> shift), nil
}

// StoreByte writes the byte at addr.
func (m *Memory) StoreByte(addr uint32, value uint8, notify bool) error {
	if h := m.findMMIO(addr); h != nil {
		if err := h.WriteMMIO(addr, 1, uint32(value)); err != nil {
			return &AddressError{Kind: ErrMMIORejected, Address: addr}
		}
		return nil
	}
	if err := m.checkMapped(addr); err != nil {
		return err
	}
	if m.isTextSegment(addr) {
		if !m.selfModify {
			return &AddressError{Kind: ErrTextWriteProtected, Address: addr}
		}
		delete(m.statements, addr&^uint32(3))
	}
	word, shift := m.byteShift(addr)
	mask := uint32(0xff) << shift
	old := m.words[word]
	new := (old &^ mask) | (uint32(value) << shift)
	m.words[word] = new
	m.notify(addr, 1, old, new, notify)
	return nil
}

func (m *Memory) byteShift(addr uint32) (word uint32, shift uint) {
	word = addr &^ uint32(3)
	off := addr & 0x3
	if m.endian == BigEndian {
		shift = uint((3 - off) * 8)
	} else {
		shift = uint(off * 8)
	}
	return word, shift
}

// StoreDoubleword writes a 64-bit value across two adjacent words,
// each serialized at the word level per the active endianness, per
// §4.1.
func (m *Memory) StoreDoubleword(addr uint32, value uint64, notify bool) error {
	lo := uint32(value)
	hi := uint32(value >> 32)
	first, second := lo, hi
	if m.endian == BigEndian {
		first, second = hi, lo
	}
	if err := m.StoreWord(addr, first, notify); err != nil {
		return err
	}
	return m.StoreWord(addr+4, second, notify)
}

// GetDoubleword is the inverse of StoreDoubleword.
func (m *Memory) GetDoubleword(addr uint32, notify bool) (uint64, error) {
	first, err := m.GetWord(addr, notify)
	if err != nil {
		return 0, err
	}
	second, err := m.GetWord(addr+4, notify)
	if err != nil {
		return 0, err
	}
	lo, hi := first, second
	if m.endian == BigEndian {
		lo, hi = second, first
	}
	return uint64(hi)<<32 | uint64(lo), nil
}

// FetchStatement returns the cached Statement at addr, decoding lazily
// is the caller's responsibility: mem only ever reports what is cached
// (nil if nothing has been stored there yet).
func (m *Memory) FetchStatement(addr uint32, notify bool) (*Statement, error) {
	if addr&0x3 != 0 {
		return nil, &AddressError{Kind: ErrMisaligned, Address: addr}
	}
	if err := m.checkMapped(addr); err != nil {
		return nil, err
	}
	return m.statements[addr], nil
}

// StoreStatement installs the decoded form alongside its machine word
// at addr, for later self-modifying-code invalidation.
func (m *Memory) StoreStatement(addr uint32, word uint32, decoded any, notify bool) error {
	if err := m.StoreWord(addr, word, notify); err != nil {
		return err
	}
	m.statements[addr] = &Statement{Word: word, Decoded: decoded}
	return nil
}

// StoreAssembled writes word (and its decoded form, which may be nil)
// into the text or data segment during assembly, bypassing the
// text-write-protection check that guards the *simulator* from
// self-modifying writes: the assembler is the one legitimate writer of
// virgin text-segment words, not an instruction being executed.
func (m *Memory) StoreAssembled(addr, word uint32, decoded any) error {
	if addr&0x3 != 0 {
		return &AddressError{Kind: ErrMisaligned, Address: addr}
	}
	if err := m.checkMapped(addr); err != nil {
		return err
	}
	old := m.words[addr]
	m.words[addr] = word
	if decoded != nil {
		m.statements[addr] = &Statement{Word: word, Decoded: decoded}
	}
	m.notify(addr, 4, old, word, false)
	return nil
}

// PatchWord rewrites the word at addr by applying mutate to its
// current value, for forward-reference fixups discovered after the
// word was first assembled. Like StoreAssembled, it bypasses
// text-write protection.
func (m *Memory) PatchWord(addr uint32, mutate func(old uint32) uint32) error {
	if addr&0x3 != 0 {
		return &AddressError{Kind: ErrMisaligned, Address: addr}
	}
	if err := m.checkMapped(addr); err != nil {
		return err
	}
	old := m.words[addr]
	new := mutate(old)
	m.words[addr] = new
	delete(m.statements, addr)
	m.notify(addr, 4, old, new, false)
	return nil
}

// GetNullTerminatedString reads bytes from addr until a NUL, per the
// syscalls that print/scan C strings.
func (m *Memory) GetNullTerminatedString(addr uint32) (string, error) {
	var buf []byte
	for {
		b, err := m.GetByte(addr, true)
		if err != nil {
			return "", err
		}
		if b == 0 {
			break
		}
		buf = append(buf, b)
		addr++
	}
	return string(buf), nil
}

// AlignToNext rounds addr up to the next multiple of bytes.
func AlignToNext(addr uint32, alignBytes uint32) uint32 {
	if alignBytes <= 1 {
		return addr
	}
	rem := addr % alignBytes
	if rem == 0 {
		return addr
	}
	return addr + (alignBytes - rem)
}

// Reset clears every stored word and cached statement, per §5's "no
// user code runs during reset". MMIO registrations and observers are
// kept.
func (m *Memory) Reset() {
	m.words = make(map[uint32]uint32)
	m.statements = make(map[uint32]*Statement)
}
