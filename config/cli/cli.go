/*
 * mars-red - Command-line flag parsing.
 *
 * Copyright 2026, mars-red contributors
 */

// Package cli implements §6's CLI: positional source files plus the
// db/be/pseudo/ae/a/dump/mc flag set, parsed with
// github.com/pborman/getopt/v2 the same way the teacher's main.go
// parses -config/-log/-debug/-help.
package cli

import (
	"fmt"
	"os"
	"strings"

	getopt "github.com/pborman/getopt/v2"

	"github.com/myaltaccountsthis/mars-red/mem"
)

// DumpRequest is the parsed form of "-dump SEG,FMT,FILE".
type DumpRequest struct {
	Segment string
	Format  string
	File    string
}

// Options is everything main needs to assemble and optionally run a
// program, per §6's "EXTERNAL INTERFACES" CLI description.
type Options struct {
	Files []string

	DelayedBranch bool // db
	BigEndian     bool // be
	Pseudo        bool // pseudo: parsed but not used; pseudo-instructions are always expanded
	WarnAsError   bool // ae
	AssembleOnly  bool // a: no run after assembling

	Dump *DumpRequest // dump SEG,FMT,FILE

	MemConfig mem.Config // resolved from -mc

	LogFile string
	Debug   bool
	Help    bool
}

// Parse reads os.Args (via getopt's global flag set) into an Options.
func Parse() (*Options, error) {
	optDB := getopt.BoolLong("db", 0, "Enable delayed branching")
	optBE := getopt.BoolLong("be", 0, "Big-endian memory")
	optPseudo := getopt.BoolLong("pseudo", 0, "Accepted and ignored; pseudo-instructions are always expanded")
	optAE := getopt.BoolLong("ae", 0, "Treat assembly warnings as errors")
	optAssembleOnly := getopt.BoolLong("a", 'a', "Assemble only, do not run")
	optDump := getopt.StringLong("dump", 0, "", "Dump a segment: SEG,FMT,FILE")
	optMC := getopt.StringLong("mc", 0, "default", "Memory configuration (default, compact16)")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optDebug := getopt.BoolLong("debug", 'd', "Log debug to console")
	optHelp := getopt.BoolLong("help", 'h', "Help")

	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		return &Options{Help: true}, nil
	}

	cfg, ok := mem.Named(*optMC)
	if !ok {
		return nil, fmt.Errorf("unknown memory configuration: %s", *optMC)
	}

	opts := &Options{
		Files:         getopt.Args(),
		DelayedBranch: *optDB,
		BigEndian:     *optBE,
		Pseudo:        *optPseudo,
		WarnAsError:   *optAE,
		AssembleOnly:  *optAssembleOnly,
		MemConfig:     cfg,
		LogFile:       *optLogFile,
		Debug:         *optDebug,
	}

	if *optDump != "" {
		d, err := parseDumpSpec(*optDump)
		if err != nil {
			return nil, err
		}
		opts.Dump = d
	}

	if len(opts.Files) == 0 {
		return nil, fmt.Errorf("no source files given")
	}
	for _, f := range opts.Files {
		if _, err := os.Stat(f); err != nil {
			return nil, fmt.Errorf("source file %q: %w", f, err)
		}
	}

	return opts, nil
}

// parseDumpSpec parses "SEG,FMT,FILE" into a DumpRequest.
func parseDumpSpec(spec string) (*DumpRequest, error) {
	parts := strings.Split(spec, ",")
	if len(parts) != 3 {
		return nil, fmt.Errorf("-dump wants SEG,FMT,FILE, got %q", spec)
	}
	return &DumpRequest{Segment: parts[0], Format: parts[1], File: parts[2]}, nil
}

// Endian resolves the -be flag to a mem.Endian.
func (o *Options) Endian() mem.Endian {
	if o.BigEndian {
		return mem.BigEndian
	}
	return mem.LittleEndian
}
