/*
 * mars-red - Debugger command parser.
 *
 * Copyright 2026, mars-red contributors
 */

// Package parser implements the interactive shell's command
// dispatch: tokenizing one typed line and running it against a
// debug.Session. Grounded on the teacher's command/parser package:
// the cmd{Name, Min, Process, Complete} abbreviation table, the
// cmdLine tokenizer, and matchCommand/matchList's prefix-plus-minimum
// -length matching are kept nearly verbatim. Everything keyed to the
// S/370 Command/Options device-negotiation interface is gone, since
// this debugger has no per-device command surface to negotiate.
package parser

import (
	"errors"
	"strings"
	"unicode"

	"github.com/myaltaccountsthis/mars-red/debug"
)

type cmd struct {
	Name     string // Command name.
	Min      int    // Minimum match size.
	Process  func(*cmdLine, *debug.Session) (bool, error)
	Complete func(*cmdLine) []string
}

type cmdLine struct {
	line string // Current command.
	pos  int    // Position in line.
}

// ProcessCommand executes one typed line against sess. The returned
// bool reports whether the shell should exit.
func ProcessCommand(commandLine string, sess *debug.Session) (bool, error) {
	line := cmdLine{line: commandLine}
	command := line.getWord(false)
	if command == "" {
		return false, nil
	}

	match := matchList(command)
	if len(match) == 0 {
		return false, errors.New("command not found: " + command)
	}

	if len(match) > 1 {
		return false, errors.New("unique command not found: " + command)
	}

	return match[0].Process(&line, sess)
}

// matchCommand checks if command matches at least to minimum length.
func matchCommand(match cmd, command string) bool {
	if len(command) > len(match.Name) {
		return false
	}
	l := 0
	for l = range len(command) {
		if match.Name[l] != command[l] {
			return false
		}
	}
	return (l + 1) >= match.Min
}

// matchList checks if command matches one or more of cmdList.
func matchList(command string) []cmd {
	if command == "" {
		return []cmd{}
	}

	var match []cmd
	for _, m := range cmdList {
		if matchCommand(m, command) {
			match = append(match, m)
		}
	}
	return match
}

// skipSpace skips forward over the line until a non-space character.
func (line *cmdLine) skipSpace() {
	for {
		if line.pos >= len(line.line) {
			return
		}
		if unicode.IsSpace(rune(line.line[line.pos])) {
			line.pos++
			continue
		}
		return
	}
}

// isEOL checks if at end of line; a "#" also ends the line so trailing
// comments can be typed at the prompt.
func (line *cmdLine) isEOL() bool {
	if line.pos >= len(line.line) {
		return true
	}
	return line.line[line.pos] == '#'
}

// getCurrent returns the current character and advances past it.
func (line *cmdLine) getCurrent() byte {
	if line.isEOL() {
		return 0
	}
	by := line.line[line.pos]
	line.pos++
	return by
}

// parseQuoteString parses a string that is "quoted" or a bare word.
func (line *cmdLine) parseQuoteString() (string, bool) {
	inQuote := false
	value := ""

	by := line.getCurrent()
	if by == 0 {
		return "", false
	}

	if by == '"' {
		inQuote = true
		by = line.getCurrent()
	}

	for by != 0 {
		if by == '"' && inQuote {
			by = line.getCurrent()
			if by != '"' {
				return value, true
			}
		}

		if inQuote {
			value += string(by)
		} else if unicode.IsSpace(rune(by)) {
			return value, true
		} else {
			value += string(by)
		}
		by = line.getCurrent()
	}
	return value, !inQuote
}

// getNumber parses a decimal number.
func (line *cmdLine) getNumber() (uint32, error) {
	line.skipSpace()
	if line.isEOL() {
		return 0, errors.New("not a number")
	}

	value := uint32(0)
	by := line.getCurrent()
	for by != 0 {
		if !unicode.IsDigit(rune(by)) {
			return 0, errors.New("not a number")
		}
		value = (value * 10) + uint32(by-'0')
		by = line.getCurrent()
		if by != 0 && unicode.IsSpace(rune(by)) {
			break
		}
	}

	return value, nil
}

const hexDigits = "0123456789abcdef"

// getHex parses a hex number, tolerating a leading "0x"/"0X".
func (line *cmdLine) getHex() (uint32, error) {
	line.skipSpace()
	pos := line.pos

	if line.pos+1 < len(line.line) && line.line[line.pos] == '0' &&
		(line.line[line.pos+1] == 'x' || line.line[line.pos+1] == 'X') {
		line.pos += 2
	}

	value := uint32(0)
	digits := 0
	by := line.getCurrent()
	for by != 0 {
		digit := strings.Index(hexDigits, strings.ToLower(string(by)))
		if digit == -1 {
			line.pos = pos
			return 0, errors.New("not a number")
		}
		value = (value << 4) + uint32(digit)
		digits++
		by = line.getCurrent()
		if by != 0 && unicode.IsSpace(rune(by)) {
			break
		}
	}
	if digits == 0 {
		line.pos = pos
		return 0, errors.New("not a number")
	}

	return value, nil
}

// getWord returns the next space-delimited word, lower-cased.
// When equal is true the word ends just after the first '='.
func (line *cmdLine) getWord(equal bool) string {
	line.skipSpace()

	value := ""
	by := line.getCurrent()
	for by != 0 && !unicode.IsSpace(rune(by)) {
		value += string([]byte{by})
		if by == '=' && equal {
			return strings.ToLower(value)
		}
		by = line.getCurrent()
	}

	return strings.ToLower(value)
}
