/*
 * mars-red - Assembled program result.
 *
 * Copyright 2026, mars-red contributors
 */

package asm

import (
	"github.com/myaltaccountsthis/mars-red/asm/diag"
	"github.com/myaltaccountsthis/mars-red/asm/symtab"
	"github.com/myaltaccountsthis/mars-red/mem"
)

// Program is the result of a successful (or partially successful)
// assembly run: the populated memory image, the final symbol table,
// the chosen entry point, and every diagnostic produced along the
// way.
type Program struct {
	Memory      *mem.Memory
	Symbols     *symtab.Table
	EntryPoint  uint32
	Diagnostics []diag.Diagnostic
}

// Ok reports whether assembly completed without any Error-severity
// diagnostic.
func (p *Program) Ok() bool {
	for _, d := range p.Diagnostics {
		if d.Severity == diag.Error {
			return false
		}
	}
	return true
}
