/*
 * mars-red - Textual preprocessing: .eqv substitution and macro expansion.
 *
 * Copyright 2026, mars-red contributors
 */

package asm

import (
	"slices"
	"strings"

	"github.com/myaltaccountsthis/mars-red/asm/macro"
)

// rawLine is one physical source line tagged with its origin, before
// tokenization.
type rawLine struct {
	File string
	Line int
	Text string
}

func stripComment(text string) string {
	if i := strings.IndexByte(text, '#'); i >= 0 {
		return text[:i]
	}
	return text
}

func isWordByteLocal(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// substituteWord replaces every whole-word occurrence of name in text
// with value, the same technique asm/macro uses for parameter and
// label substitution, applied here to .eqv names.
func substituteWord(text, name, value string) string {
	var b strings.Builder
	i := 0
	for i < len(text) {
		if matchesWordAt(text, i, name) {
			b.WriteString(value)
			i += len(name)
			continue
		}
		b.WriteByte(text[i])
		i++
	}
	return b.String()
}

func matchesWordAt(text string, i int, name string) bool {
	if i+len(name) > len(text) || text[i:i+len(name)] != name {
		return false
	}
	if i > 0 && isWordByteLocal(text[i-1]) {
		return false
	}
	if i+len(name) < len(text) && isWordByteLocal(text[i+len(name)]) {
		return false
	}
	return true
}

// leadingLabel returns the label name if text's first token is
// "name:" with no leading mnemonic, else "", false.
func leadingLabel(text string) (string, bool) {
	t := strings.TrimSpace(text)
	i := 0
	for i < len(t) && isWordByteLocal(t[i]) {
		i++
	}
	if i == 0 || i >= len(t) || t[i] != ':' {
		return "", false
	}
	return t[:i], true
}

func isDirectiveLine(trimmed, name string) bool {
	return strings.HasPrefix(trimmed, name) &&
		(len(trimmed) == len(name) || trimmed[len(name)] == ' ' || trimmed[len(name)] == '\t')
}

// parseMacroHeader parses ".macro name (%a, %b)" or ".macro name %a %b".
func parseMacroHeader(trimmed string) (name string, params []string, ok bool) {
	rest := strings.TrimSpace(trimmed[len(".macro"):])
	rest = strings.ReplaceAll(rest, "(", " ")
	rest = strings.ReplaceAll(rest, ")", " ")
	rest = strings.ReplaceAll(rest, ",", " ")
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return "", nil, false
	}
	name = fields[0]
	for _, f := range fields[1:] {
		params = append(params, strings.TrimPrefix(f, "%"))
	}
	return name, params, true
}

// parseMacroCallArgs splits "name arg1, arg2" (optionally with the
// whole argument list wrapped in one pair of parens) into name and
// args, after any leading label has already been stripped.
func parseMacroCallArgs(trimmed string) (name string, args []string) {
	i := 0
	for i < len(trimmed) && isWordByteLocal(trimmed[i]) {
		i++
	}
	name = trimmed[:i]
	rest := strings.TrimSpace(trimmed[i:])
	rest = strings.TrimPrefix(rest, "(")
	rest = strings.TrimSuffix(rest, ")")
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return name, nil
	}
	for _, a := range strings.Split(rest, ",") {
		args = append(args, strings.TrimSpace(a))
	}
	return name, args
}

// preprocess applies .eqv substitution and macro definition/expansion
// to a flat sequence of raw lines from one source file, returning the
// fully expanded line sequence ready for tokenization. It mutates
// a.macros and a.eqv as it discovers new definitions, matching the
// teacher's single forward scan over configuration text in
// command/parser.
func (a *Assembler) preprocess(lines []rawLine) []rawLine {
	queue := make([]rawLine, len(lines))
	copy(queue, lines)
	var out []rawLine
	// activeDefs/activeEnds: expansions whose spliced lines the scan has not yet passed, innermost last.
	activeDefs, activeEnds := []*macro.Definition{}, []int{}

	for i := 0; i < len(queue); i++ {
		for n := len(activeEnds); n > 0 && i >= activeEnds[n-1]; n-- {
			activeDefs, activeEnds = activeDefs[:n-1], activeEnds[:n-1]
		}
		ln := queue[i]
		trimmed := strings.TrimSpace(stripComment(ln.Text))
		if trimmed == "" {
			out = append(out, ln)
			continue
		}

		if isDirectiveLine(trimmed, ".macro") {
			name, params, ok := parseMacroHeader(trimmed)
			if !ok {
				a.diags.Errorf(a.locFor(ln), "malformed .macro directive")
				continue
			}
			var body []string
			var labels []string
			j := i + 1
			for j < len(queue) && strings.TrimSpace(stripComment(queue[j].Text)) != ".end_macro" {
				body = append(body, queue[j].Text)
				if lbl, ok := leadingLabel(queue[j].Text); ok {
					labels = append(labels, lbl)
				}
				j++
			}
			if err := a.macros.Define(&macro.Definition{Name: name, Params: params, Body: body, Labels: labels}); err != nil {
				a.diags.Errorf(a.locFor(ln), "%v", err)
			}
			i = j
			continue
		}

		if name, value, ok := eqvNameValue(trimmed); ok {
			if _, exists := a.eqv[name]; exists {
				a.diags.Errorf(a.locFor(ln), ".eqv %q redefined", name)
			}
			a.eqv[name] = value
			continue
		}

		substituted := ln.Text
		for eqvN, eqvV := range a.eqv {
			substituted = substituteWord(substituted, eqvN, eqvV)
		}

		callTrimmed := strings.TrimSpace(stripComment(substituted))
		labelPrefix := ""
		if lbl, ok := leadingLabel(callTrimmed); ok {
			labelPrefix = lbl + ": "
			callTrimmed = strings.TrimSpace(callTrimmed[len(lbl)+1:])
		}
		if callTrimmed != "" {
			callName, callArgs := parseMacroCallArgs(callTrimmed)
			if def, found := a.macros.Lookup(callName, len(callArgs)); found {
				if slices.Contains(activeDefs, def) {
					a.diags.Errorf(a.locFor(ln), "macro %q recursively invoked", def.Name)
					continue
				}
				expanded, err := a.macros.Expand(def, callArgs)
				if err != nil {
					a.diags.Errorf(a.locFor(ln), "%v", err)
					continue
				}
				expandedLines := make([]rawLine, len(expanded))
				for k, text := range expanded {
					text = labelPrefix + text
					labelPrefix = ""
					expandedLines[k] = rawLine{File: ln.File, Line: ln.Line, Text: text}
				}
				for k := range activeEnds {
					activeEnds[k] += len(expandedLines) - 1
				}
				activeDefs, activeEnds = append(activeDefs, def), append(activeEnds, i+len(expandedLines))
				tail := append([]rawLine{}, queue[i+1:]...)
				queue = append(queue[:i], append(expandedLines, tail...)...)
				i--
				continue
			}
		}

		out = append(out, rawLine{File: ln.File, Line: ln.Line, Text: substituted})
	}
	return out
}

// eqvNameValue reports whether trimmed is an ".eqv name value" line
// and, if so, returns the name and the (unparsed) value text.
func eqvNameValue(trimmed string) (name, value string, ok bool) {
	if !isDirectiveLine(trimmed, ".eqv") {
		return "", "", false
	}
	rest := strings.TrimSpace(trimmed[len(".eqv"):])
	i := 0
	for i < len(rest) && isWordByteLocal(rest[i]) {
		i++
	}
	if i == 0 {
		return "", "", false
	}
	return rest[:i], strings.TrimSpace(rest[i:]), true
}
