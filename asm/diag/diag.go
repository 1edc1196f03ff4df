/*
 * mars-red - Assembly diagnostics.
 *
 * Copyright 2026, mars-red contributors
 */

// Package diag collects assembler diagnostics (errors and warnings)
// tagged with a source location, the way the teacher's util/logger
// collects device/channel messages tagged with a device address.
package diag

import (
	"fmt"

	"github.com/myaltaccountsthis/mars-red/asm/loc"
)

// Severity distinguishes a diagnostic that makes the assembly fail
// (see Program.Ok) from one that is merely informational. Neither
// stops the assembler: it goes on with the next line either way.
type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	if s == Warning {
		return "warning"
	}
	return "error"
}

// Diagnostic is one reported problem.
type Diagnostic struct {
	Severity Severity
	Location loc.Location
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Location, d.Severity, d.Message)
}

// Accumulator collects diagnostics across an entire assembly run
// (potentially several source files) and reports whether any Error
// was recorded.
type Accumulator struct {
	items []Diagnostic
}

// Errorf records an Error diagnostic at at.
func (a *Accumulator) Errorf(at loc.Location, format string, args ...any) {
	a.items = append(a.items, Diagnostic{Severity: Error, Location: at, Message: fmt.Sprintf(format, args...)})
}

// Warnf records a Warning diagnostic at at.
func (a *Accumulator) Warnf(at loc.Location, format string, args ...any) {
	a.items = append(a.items, Diagnostic{Severity: Warning, Location: at, Message: fmt.Sprintf(format, args...)})
}

// HasErrors reports whether any Error-severity diagnostic was
// recorded.
func (a *Accumulator) HasErrors() bool {
	for _, d := range a.items {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// All returns every diagnostic recorded, in the order reported.
func (a *Accumulator) All() []Diagnostic {
	return a.items
}
