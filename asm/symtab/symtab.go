/*
 * mars-red - Symbol table and forward-reference patching.
 *
 * Copyright 2026, mars-red contributors
 */

// Package symtab implements §4.4's two-tier symbol table (local to a
// file, then global) and the forward-reference patch list: a label
// used before its defining line is seen records a pending patch
// instead of failing, resolved once the label's address is known.
package symtab

import "fmt"

// Symbol is one resolved label: its address and whether it was
// defined in a data segment (vs. a text segment), which the
// assembler's .globl bookkeeping and the simulator's symbol-table
// dump both care about.
type Symbol struct {
	Name    string
	Address uint32
	IsData  bool
	Global  bool
}

// Patch is a pending forward reference: patchAddress is the location
// of the instruction word (or data word) to fix up once Label
// resolves; Length is the width in bits of the field the resolved
// address (or PC-relative displacement) is written into. Applying the
// patch keeps only that many low bits; a value that does not fit is
// truncated without a range check or a diagnostic.
type Patch struct {
	Label        string
	PatchAddress uint32
	Length       int    // 16 or 26 bits; unused when DataSize != 0
	PCRelative   bool   // true for branch displacements
	Transform    string // "", "hi" or "lo": which half of a 32-bit address this word's immediate field holds
	InstrAddress uint32

	// DataSize, when non-zero (1, 2 or 4), marks this as a plain data
	// reference from a .word/.half/.byte list rather than an
	// instruction-word fixup: apply should store the resolved address
	// directly as a value of that byte width instead of merging it into
	// an existing encoded instruction.
	DataSize uint32
}

// Table holds one file's local symbols plus the assembly-wide global
// symbols, and the outstanding forward-reference patch list.
type Table struct {
	local   map[string]Symbol
	global  map[string]Symbol
	patches []Patch
}

// New returns an empty symbol table.
func New() *Table {
	return &Table{local: map[string]Symbol{}, global: map[string]Symbol{}}
}

// DefineLocal records a label as local to the file currently being
// assembled. Returns an error if the name is already defined locally
// (duplicate-label-is-error, per §4.4).
func (t *Table) DefineLocal(name string, addr uint32, isData bool) error {
	if _, exists := t.local[name]; exists {
		return fmt.Errorf("duplicate label %q", name)
	}
	t.local[name] = Symbol{Name: name, Address: addr, IsData: isData}
	return nil
}

// DefineGlobal promotes a label (already local, typically) into the
// assembly-wide global table, for .globl.
func (t *Table) DefineGlobal(name string) error {
	sym, ok := t.local[name]
	if !ok {
		return fmt.Errorf(".globl %q: no local definition to export", name)
	}
	sym.Global = true
	t.global[name] = sym
	return nil
}

// Lookup resolves name, checking the local table before the global
// one per §4.4's "local shadows global" resolution order.
func (t *Table) Lookup(name string) (Symbol, bool) {
	if sym, ok := t.local[name]; ok {
		return sym, true
	}
	sym, ok := t.global[name]
	return sym, ok
}

// AddPatch records a forward reference to resolve later.
func (t *Table) AddPatch(p Patch) {
	t.patches = append(t.patches, p)
}

// PendingPatches returns every patch not yet resolved by Resolve.
func (t *Table) PendingPatches() []Patch {
	return t.patches
}

// Resolve attempts to satisfy every pending patch against the current
// symbol tables, calling apply(patch, address) for each one that
// resolves; apply is expected to write the fixed-up word into memory
// or the listing. Returns the patches that still could not be
// resolved (truly undefined labels), which the caller should report
// as errors once every file has been assembled.
func (t *Table) Resolve(apply func(p Patch, address uint32) error) ([]Patch, error) {
	var unresolved []Patch
	for _, p := range t.patches {
		sym, ok := t.Lookup(p.Label)
		if !ok {
			unresolved = append(unresolved, p)
			continue
		}
		if err := apply(p, sym.Address); err != nil {
			return nil, err
		}
	}
	t.patches = nil
	return unresolved, nil
}

// Reset clears local symbols and the patch list between files while
// keeping the accumulated global table, matching §4.4's "locals don't
// leak across files, globals do".
func (t *Table) Reset() {
	t.local = map[string]Symbol{}
	t.patches = nil
}

// AllGlobal returns every global symbol, for a simulator-side symbol
// dump.
func (t *Table) AllGlobal() map[string]Symbol {
	return t.global
}

// AllLocal returns every symbol local to the file currently being
// assembled.
func (t *Table) AllLocal() map[string]Symbol {
	return t.local
}
