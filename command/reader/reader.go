/*
 * mars-red - Interactive debugger shell.
 *
 * Copyright 2026, mars-red contributors
 */

// Package reader wraps github.com/peterh/liner into the interactive
// "mars-red>" prompt loop, kept nearly verbatim from the teacher's
// command/reader.ConsoleReader: history, tab completion via
// command/parser.CompleteCmd, Ctrl-C aborting the prompt rather than
// the process. Only the session type it drives changed, from
// *core.Core to *debug.Session.
package reader

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/peterh/liner"

	"github.com/myaltaccountsthis/mars-red/command/parser"
	"github.com/myaltaccountsthis/mars-red/debug"
)

func ConsoleReader(sess *debug.Session) {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(func(line string) []string {
		return parser.CompleteCmd(line)
	})

	for {
		command, err := line.Prompt("mars-red> ")
		if err == nil {
			line.AppendHistory(command)
			quit, err := parser.ProcessCommand(command, sess)
			if err != nil {
				fmt.Println("Error: " + err.Error())
			}
			if quit {
				return
			}
			continue
		}

		if errors.Is(err, liner.ErrPromptAborted) {
			return
		}
		slog.Error("error reading line: " + err.Error())
	}
}
