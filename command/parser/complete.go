/*
 * mars-red - Shell tab completion.
 *
 * Copyright 2026, mars-red contributors
 */

package parser

import (
	"slices"
	"strings"
)

// CompleteCmd returns every command name that is a prefix match for
// the word currently being typed, the way the teacher's complete.go
// matches device/option names — minus all of the device/option
// completion this debugger has no use for.
func CompleteCmd(commandLine string) []string {
	line := cmdLine{line: commandLine}
	word := line.getWord(false)
	if !line.isEOL() {
		// A full word has already been typed; nothing past the command
		// name is completed.
		return nil
	}

	var matches []string
	for _, c := range cmdList {
		if strings.HasPrefix(c.Name, word) {
			matches = append(matches, c.Name)
		}
	}
	slices.Sort(matches)
	return matches
}
