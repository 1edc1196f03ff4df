/*
 * mars-red - Segment configuration records.
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

// Package mem implements the segmented 32-bit address space: a sparse
// word store, the five named segments of §3/§6, endian control and
// MMIO dispatch. Modeled on the teacher's emu/memory package (a single
// backing array behind small range-checked accessors) but generalized
// from one flat address space to the five-segment map §4.1 requires,
// and from a fixed size to a selectable MemoryConfig record.
package mem

// SegmentID names the five segments a MemoryConfig lays out.
type SegmentID int

const (
	SegUserText SegmentID = iota
	SegUserData
	SegKernelText
	SegKernelData
	SegExtern
)

// Config is a named memory-configuration record: base/limit pairs for
// each segment plus the MMIO range, selected at assembler/simulator
// startup the way the CLI's "-mc" flag (§6) picks one by name.
type Config struct {
	Name string

	ExternBase, ExternLimit uint32
	DataBase, DataLimit     uint32
	HeapLimit               uint32 // top of the heap/stack region (inclusive)
	TextBase, TextLimit     uint32
	KDataBase, KDataLimit   uint32
	KTextBase, KTextLimit   uint32
	MMIOBase, MMIOLimit     uint32

	Compact bool // enables compact pseudo-instruction templates
}

// DefaultConfig is §6's default memory map.
var DefaultConfig = Config{
	Name:        "default",
	ExternBase:  0x10000000,
	ExternLimit: 0x1000ffff,
	DataBase:    0x10010000,
	DataLimit:   0x1003ffff,
	HeapLimit:   0x7fffffff, // heap/stack region: 0x10040000..0x7fffffff
	TextBase:    0x00400000,
	TextLimit:   0x0fffffff,
	KDataBase:   0x90000000,
	KDataLimit:  0xffff0000,
	KTextBase:   0x80000000,
	KTextLimit:  0x8fffffff,
	MMIOBase:    0xffff0000,
	MMIOLimit:   0xffffffff,
}

// Compact16Config shrinks every segment into the low 16 bits of
// address space and enables the compact pseudo-instruction templates
// (§4.6), matching MARS's "compact, 16 bit addresses" memory
// configuration.
var Compact16Config = Config{
	Name:        "compact16",
	ExternBase:  0x00003000,
	ExternLimit: 0x000031ff,
	DataBase:    0x00003200,
	DataLimit:   0x000037ff,
	HeapLimit:   0x00007fff,
	TextBase:    0x00000000,
	TextLimit:   0x00001fff,
	KDataBase:   0x00008000,
	KDataLimit:  0x0000feff,
	KTextBase:   0x00004000,
	KTextLimit:  0x00004fff,
	MMIOBase:    0x0000ff00,
	MMIOLimit:   0x0000ffff,
	Compact:     true,
}

// Named returns a built-in configuration by name ("default",
// "compact16"), or false if name does not match one.
func Named(name string) (Config, bool) {
	switch name {
	case "default", "":
		return DefaultConfig, true
	case "compact16", "compact":
		return Compact16Config, true
	default:
		return Config{}, false
	}
}

// IsInDataSegment reports whether addr lies in the user data segment.
func (c Config) IsInDataSegment(addr uint32) bool {
	return addr >= c.DataBase && addr <= c.DataLimit
}

// IsInTextSegment reports whether addr lies in the user text segment.
func (c Config) IsInTextSegment(addr uint32) bool {
	return addr >= c.TextBase && addr <= c.TextLimit
}

// IsInKernelTextSegment reports whether addr lies in the kernel text
// segment.
func (c Config) IsInKernelTextSegment(addr uint32) bool {
	return addr >= c.KTextBase && addr <= c.KTextLimit
}

// IsInKernelDataSegment reports whether addr lies in the kernel data
// segment.
func (c Config) IsInKernelDataSegment(addr uint32) bool {
	return addr >= c.KDataBase && addr <= c.KDataLimit
}

// IsInExternSegment reports whether addr lies in the extern segment.
func (c Config) IsInExternSegment(addr uint32) bool {
	return addr >= c.ExternBase && addr <= c.ExternLimit
}

// IsInHeapSegment reports whether addr lies in the heap/stack region
// above user data.
func (c Config) IsInHeapSegment(addr uint32) bool {
	return addr > c.DataLimit && addr <= c.HeapLimit
}

// IsInMMIO reports whether addr lies in the memory-mapped I/O range.
func (c Config) IsInMMIO(addr uint32) bool {
	return addr >= c.MMIOBase && addr <= c.MMIOLimit
}

// IsUsingCompactAddressSpace reports whether this configuration uses
// the compact 16-bit pseudo-instruction expansions.
func (c Config) IsUsingCompactAddressSpace() bool {
	return c.Compact
}

// IsMapped reports whether addr falls in any segment this
// configuration defines.
func (c Config) IsMapped(addr uint32) bool {
	return c.IsInDataSegment(addr) || c.IsInTextSegment(addr) ||
		c.IsInKernelTextSegment(addr) || c.IsInKernelDataSegment(addr) ||
		c.IsInExternSegment(addr) || c.IsInHeapSegment(addr) || c.IsInMMIO(addr)
}

// HeapBase is the first byte of the heap/stack region, i.e. the
// initial sbrk address.
func (c Config) HeapBase() uint32 {
	return c.DataLimit + 1
}
