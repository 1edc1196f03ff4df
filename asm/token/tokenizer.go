/*
 * mars-red - Source-line tokenizer.
 *
 * Copyright 2026, mars-red contributors
 */

package token

import (
	"strconv"
	"strings"

	"github.com/myaltaccountsthis/mars-red/asm/loc"
	"github.com/myaltaccountsthis/mars-red/internal/bits"
	"github.com/myaltaccountsthis/mars-red/isa"
	"github.com/myaltaccountsthis/mars-red/register"
)

// Tokenizer turns one source line at a time into a Token slice,
// classifying each lexeme per §4.2's order: comment, directive,
// register, macro parameter, delimiter, number, character, string,
// colon, then mnemonic-or-identifier, with anything left over an
// ERROR token carrying the offending text.
type Tokenizer struct {
	table *isa.Table
}

// NewTokenizer builds a tokenizer that recognizes mnemonics from
// table.
func NewTokenizer(table *isa.Table) *Tokenizer {
	if table == nil {
		table = isa.Default
	}
	return &Tokenizer{table: table}
}

type scanner struct {
	src  string
	pos  int
	file string
	line int
}

func (s *scanner) peek() byte {
	if s.pos >= len(s.src) {
		return 0
	}
	return s.src[s.pos]
}

func (s *scanner) peekAt(off int) byte {
	if s.pos+off >= len(s.src) {
		return 0
	}
	return s.src[s.pos+off]
}

func (s *scanner) locAt(col int) loc.Location {
	return loc.Location{Filename: s.file, Line: s.line, Column: col}
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentCont(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// TokenizeLine lexes one line of source text, which must not contain
// a newline.
func (tz *Tokenizer) TokenizeLine(filename string, lineNumber int, line string) []Token {
	s := &scanner{src: line, file: filename, line: lineNumber}
	var out []Token
	for s.pos < len(s.src) {
		b := s.peek()
		switch {
		case b == ' ' || b == '\t' || b == '\r':
			s.pos++
		case b == '#':
			out = append(out, Token{Kind: COMMENT, Text: s.src[s.pos:], Loc: s.locAt(s.pos)})
			s.pos = len(s.src)
		case b == '.':
			out = append(out, tz.lexDirectiveOrDot(s))
		case b == '$':
			out = append(out, tz.lexRegister(s))
		case b == '%':
			out = append(out, lexMacroParameter(s))
		case b == '(':
			out = append(out, Token{Kind: LEFT_PAREN, Text: "(", Loc: s.locAt(s.pos)})
			s.pos++
		case b == ')':
			out = append(out, Token{Kind: RIGHT_PAREN, Text: ")", Loc: s.locAt(s.pos)})
			s.pos++
		case b == ':':
			out = append(out, Token{Kind: COLON, Text: ":", Loc: s.locAt(s.pos)})
			s.pos++
		case b == ',':
			out = append(out, Token{Kind: DELIMITER, Text: ",", Loc: s.locAt(s.pos)})
			s.pos++
		case b == '\'':
			out = append(out, lexCharacter(s))
		case b == '"':
			out = append(out, lexString(s))
		case isDigit(b):
			out = append(out, lexNumber(s))
		case (b == '+' || b == '-') && isDigit(s.peekAt(1)):
			out = append(out, lexNumber(s))
		case b == '+':
			out = append(out, Token{Kind: PLUS, Text: "+", Loc: s.locAt(s.pos)})
			s.pos++
		case b == '-':
			out = append(out, Token{Kind: MINUS, Text: "-", Loc: s.locAt(s.pos)})
			s.pos++
		case isIdentStart(b):
			out = append(out, tz.lexWord(s))
		default:
			out = append(out, Token{Kind: ERROR, Text: string(b), Loc: s.locAt(s.pos),
				Err: "unrecognized character"})
			s.pos++
		}
	}
	return out
}

// lexDirectiveOrDot handles a leading '.': a directive name (.data,
// .word, ...) if followed by a letter, otherwise a bare '.' is folded
// into the number lexer's caller (MIPS assembly has no standalone dot
// operator, so this falls back to an ERROR token).
func (tz *Tokenizer) lexDirectiveOrDot(s *scanner) Token {
	start := s.pos
	s.pos++ // consume '.'
	if !isIdentStart(s.peek()) {
		return Token{Kind: ERROR, Text: ".", Loc: s.locAt(start), Err: "stray '.'"}
	}
	for isIdentCont(s.peek()) {
		s.pos++
	}
	text := s.src[start:s.pos]
	return Token{Kind: DIRECTIVE, Text: text, Loc: s.locAt(start)}
}

func (tz *Tokenizer) lexRegister(s *scanner) Token {
	start := s.pos
	s.pos++ // consume '$'
	if isDigit(s.peek()) {
		numStart := s.pos
		for isDigit(s.peek()) {
			s.pos++
		}
		text := s.src[start:s.pos]
		n, _, _ := bits.ParseInteger(s.src[numStart:s.pos])
		if n < 0 || n > 31 {
			return Token{Kind: ERROR, Text: text, Loc: s.locAt(start), Err: "register number out of range"}
		}
		return Token{Kind: REGISTER_NUMBER, Text: text, Value: n, Loc: s.locAt(start)}
	}
	if isIdentStart(s.peek()) {
		for isIdentCont(s.peek()) {
			s.pos++
		}
		name := s.src[start+1 : s.pos]
		text := s.src[start:s.pos]
		if n, ok := register.LookupGPRName(name); ok {
			return Token{Kind: REGISTER_NAME, Text: text, Value: int64(n), Loc: s.locAt(start)}
		}
		if n, ok := register.LookupFPRegName(name); ok {
			return Token{Kind: FP_REGISTER_NAME, Text: text, Value: int64(n), Loc: s.locAt(start)}
		}
		return Token{Kind: ERROR, Text: text, Loc: s.locAt(start), Err: "unknown register name $" + name}
	}
	return Token{Kind: ERROR, Text: "$", Loc: s.locAt(start), Err: "stray '$'"}
}

func lexMacroParameter(s *scanner) Token {
	start := s.pos
	s.pos++ // consume '%'
	for isIdentCont(s.peek()) {
		s.pos++
	}
	if s.pos == start+1 {
		return Token{Kind: ERROR, Text: "%", Loc: s.locAt(start), Err: "stray '%'"}
	}
	text := s.src[start:s.pos]
	return Token{Kind: MACRO_PARAMETER, Text: text, Str: s.src[start+1 : s.pos], Loc: s.locAt(start)}
}

func lexNumber(s *scanner) Token {
	start := s.pos
	if s.peek() == '+' || s.peek() == '-' {
		s.pos++
	}
	isReal := false
	for {
		b := s.peek()
		if isDigit(b) {
			s.pos++
			continue
		}
		if b == '.' && isDigit(s.peekAt(1)) {
			isReal = true
			s.pos++
			continue
		}
		if (b == 'x' || b == 'X') && s.pos == start+1 && s.src[start] == '0' {
			s.pos++
			for isHexDigit(s.peek()) {
				s.pos++
			}
			continue
		}
		if (b == 'e' || b == 'E') && (isDigit(s.peekAt(1)) || ((s.peekAt(1) == '+' || s.peekAt(1) == '-') && isDigit(s.peekAt(2)))) {
			isReal = true
			s.pos++
			if s.peek() == '+' || s.peek() == '-' {
				s.pos++
			}
			for isDigit(s.peek()) {
				s.pos++
			}
			continue
		}
		break
	}
	text := s.src[start:s.pos]
	if isReal {
		v, ok := parseFloat(text)
		if !ok {
			return Token{Kind: ERROR, Text: text, Loc: s.locAt(start), Err: "malformed real number"}
		}
		return Token{Kind: REAL_NUMBER, Text: text, Real: v, Loc: s.locAt(start)}
	}
	v, width, ok := bits.ParseInteger(text)
	if !ok {
		return Token{Kind: ERROR, Text: text, Loc: s.locAt(start), Err: "malformed integer literal"}
	}
	kind := INTEGER_32
	switch width {
	case bits.Width5:
		kind = INTEGER_5
	case bits.Width16S:
		kind = INTEGER_16S
	case bits.Width16U:
		kind = INTEGER_16U
	}
	return Token{Kind: kind, Text: text, Value: v, Loc: s.locAt(start)}
}

func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func parseFloat(text string) (float64, bool) {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func lexCharacter(s *scanner) Token {
	start := s.pos
	s.pos++ // opening quote
	if s.peek() == 0 {
		return Token{Kind: ERROR, Text: s.src[start:], Loc: s.locAt(start), Err: "unterminated character literal"}
	}
	var val byte
	if s.peek() == '\\' {
		s.pos++
		val = decodeEscape(s.peek())
		s.pos++
	} else {
		val = s.peek()
		s.pos++
	}
	if s.peek() != '\'' {
		return Token{Kind: ERROR, Text: s.src[start:s.pos], Loc: s.locAt(start), Err: "unterminated character literal"}
	}
	s.pos++
	return Token{Kind: CHARACTER, Text: s.src[start:s.pos], Value: int64(val), Loc: s.locAt(start)}
}

func lexString(s *scanner) Token {
	start := s.pos
	s.pos++ // opening quote
	var b strings.Builder
	for {
		c := s.peek()
		if c == 0 {
			return Token{Kind: ERROR, Text: s.src[start:], Loc: s.locAt(start), Err: "unterminated string literal"}
		}
		if c == '"' {
			s.pos++
			break
		}
		if c == '\\' {
			s.pos++
			b.WriteByte(decodeEscape(s.peek()))
			s.pos++
			continue
		}
		b.WriteByte(c)
		s.pos++
	}
	return Token{Kind: STRING, Text: s.src[start:s.pos], Str: b.String(), Loc: s.locAt(start)}
}

func decodeEscape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case '0':
		return 0
	case '\\', '\'', '"':
		return c
	default:
		return c
	}
}

// lexWord scans an identifier and classifies it as a DIRECTIVE-free
// mnemonic (OPERATOR) or a plain IDENTIFIER (label definition/use,
// macro name, .eqv name) by consulting the instruction table.
func (tz *Tokenizer) lexWord(s *scanner) Token {
	start := s.pos
	for isIdentCont(s.peek()) {
		s.pos++
	}
	// MIPS mnemonics may contain '.' (add.s, c.eq.d, cvt.w.s); greedily
	// extend through dot-separated suffixes made only of ident chars.
	for s.peek() == '.' && isIdentStart(s.peekAt(1)) {
		s.pos++
		for isIdentCont(s.peek()) {
			s.pos++
		}
	}
	text := s.src[start:s.pos]
	if tz.table.IsMnemonic(text) {
		return Token{Kind: OPERATOR, Text: text, Loc: s.locAt(start)}
	}
	return Token{Kind: IDENTIFIER, Text: text, Loc: s.locAt(start)}
}
