/*
 * mars-red - Main process.
 *
 * Copyright 2026, mars-red contributors
 */

package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	cli "github.com/myaltaccountsthis/mars-red/config/cli"

	"github.com/myaltaccountsthis/mars-red/asm"
	"github.com/myaltaccountsthis/mars-red/asm/diag"
	reader "github.com/myaltaccountsthis/mars-red/command/reader"
	"github.com/myaltaccountsthis/mars-red/debug"
	"github.com/myaltaccountsthis/mars-red/isa"
	"github.com/myaltaccountsthis/mars-red/mem"
	"github.com/myaltaccountsthis/mars-red/sim"
	"github.com/myaltaccountsthis/mars-red/util/hex"
	logger "github.com/myaltaccountsthis/mars-red/util/logger"
)

func main() {
	opts, err := cli.Parse()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error: "+err.Error())
		os.Exit(1)
	}
	if opts.Help {
		os.Exit(0)
	}

	var logFile *os.File
	if opts.LogFile != "" {
		logFile, _ = os.Create(opts.LogFile)
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelDebug)
	debugFlag := opts.Debug
	log := slog.New(logger.NewHandler(logFile, &slog.HandlerOptions{Level: programLevel, AddSource: false}, &debugFlag))
	slog.SetDefault(log)

	prog, ok := assembleFiles(opts)
	if !ok {
		os.Exit(2)
	}

	if opts.Dump != nil {
		if err := writeDump(prog, opts.Dump); err != nil {
			fmt.Fprintln(os.Stderr, "Error: "+err.Error())
			os.Exit(1)
		}
	}

	if opts.AssembleOnly {
		os.Exit(0)
	}

	machine := sim.NewMachine(prog.Memory, isa.Default, opts.DelayedBranch)
	sess := debug.NewSession(machine, prog.Symbols, prog.EntryPoint)

	machine.SetEntryPoint(prog.EntryPoint)
	reader.ConsoleReader(sess)
}

// assembleFiles runs every source file given on the command line
// through one Assembler, per §6's "positional arguments are source
// files to assemble", reporting the accumulated diagnostic list on
// failure the way the teacher reports a bad configuration file.
func assembleFiles(opts *cli.Options) (*asm.Program, bool) {
	a := asm.New(asm.Options{
		Table:         isa.Default,
		MemoryConfig:  opts.MemConfig,
		Endian:        opts.Endian(),
		DelayedBranch: opts.DelayedBranch,
		WarnAsError:   opts.WarnAsError,
	})

	for _, path := range opts.Files {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error: "+err.Error())
			return nil, false
		}
		a.AssembleFile(asm.SourceFile{Name: path, Lines: strings.Split(string(data), "\n")})
	}

	prog := a.Finish("main")
	for _, d := range prog.Diagnostics {
		fmt.Fprintln(os.Stderr, d.String())
		if d.Severity == diag.Error {
			slog.Error(d.String())
		} else {
			slog.Warn(d.String())
		}
	}
	return prog, prog.Ok()
}

// writeDump implements §6's "dump SEG FMT FILE": emit one segment's
// words as hex text to the named file.
func writeDump(prog *asm.Program, req *cli.DumpRequest) error {
	base, limit, err := segmentRange(prog.Memory.Config(), req.Segment)
	if err != nil {
		return err
	}

	var b strings.Builder
	switch req.Format {
	case "hex":
		for addr := base; addr <= limit; addr += 4 {
			w, err := prog.Memory.GetWord(addr, false)
			if err != nil {
				continue
			}
			hex.FormatWord(&b, []uint32{w})
		}
	default:
		return fmt.Errorf("unknown dump format: %s (want \"hex\")", req.Format)
	}

	return os.WriteFile(req.File, []byte(b.String()), 0o644)
}

func segmentRange(cfg mem.Config, name string) (base, limit uint32, err error) {
	switch name {
	case "text":
		return cfg.TextBase, cfg.TextLimit, nil
	case "data":
		return cfg.DataBase, cfg.DataLimit, nil
	case "ktext":
		return cfg.KTextBase, cfg.KTextLimit, nil
	case "kdata":
		return cfg.KDataBase, cfg.KDataLimit, nil
	case "extern":
		return cfg.ExternBase, cfg.ExternLimit, nil
	default:
		return 0, 0, fmt.Errorf("unknown segment: %s", name)
	}
}
