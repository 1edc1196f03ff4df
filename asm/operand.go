/*
 * mars-red - Operand grouping and resolution.
 *
 * Copyright 2026, mars-red contributors
 */

package asm

import (
	"fmt"

	"github.com/myaltaccountsthis/mars-red/asm/token"
	"github.com/myaltaccountsthis/mars-red/isa"
)

// resolvedOperand is one operand after grouping but before (possibly)
// a label has a known address: either a concrete value (register
// number or immediate) ready to encode, or a deferred label reference
// optionally wrapped by %hi/%lo.
type resolvedOperand struct {
	cand      isa.CandidateOperand
	isLabel   bool
	label     string
	transform string // "", "hi", "lo"
	value     int64
	loc       token.Token // for diagnostics
}

// splitTopLevelGroups splits an operand token stream on ',' at paren
// depth 0, dropping the commas themselves.
func splitTopLevelGroups(toks []token.Token) [][]token.Token {
	var groups [][]token.Token
	var cur []token.Token
	depth := 0
	for _, t := range toks {
		switch t.Kind {
		case token.LEFT_PAREN:
			depth++
			cur = append(cur, t)
		case token.RIGHT_PAREN:
			depth--
			cur = append(cur, t)
		case token.DELIMITER:
			if depth == 0 {
				groups = append(groups, cur)
				cur = nil
				continue
			}
			cur = append(cur, t)
		default:
			cur = append(cur, t)
		}
	}
	if len(cur) > 0 || len(groups) > 0 {
		groups = append(groups, cur)
	}
	return groups
}

// resolveAtom resolves a single non-memory, non-wrapped token into a
// resolvedOperand: a register, an immediate, or a bare label
// reference.
func resolveAtom(t token.Token) (resolvedOperand, error) {
	switch t.Kind {
	case token.REGISTER_NAME, token.REGISTER_NUMBER:
		return resolvedOperand{cand: isa.CandidateOperand{IsGPR: true}, value: t.Value, loc: t}, nil
	case token.FP_REGISTER_NAME:
		return resolvedOperand{cand: isa.CandidateOperand{IsFPR: true}, value: t.Value, loc: t}, nil
	case token.INTEGER_5:
		return resolvedOperand{cand: isa.CandidateOperand{Kind: isa.OpImm5}, value: t.Value, loc: t}, nil
	case token.INTEGER_16S:
		return resolvedOperand{cand: isa.CandidateOperand{Kind: isa.OpImm16S}, value: t.Value, loc: t}, nil
	case token.INTEGER_16U:
		return resolvedOperand{cand: isa.CandidateOperand{Kind: isa.OpImm16U}, value: t.Value, loc: t}, nil
	case token.INTEGER_32:
		return resolvedOperand{cand: isa.CandidateOperand{Kind: isa.OpImm32}, value: t.Value, loc: t}, nil
	case token.IDENTIFIER:
		return resolvedOperand{cand: isa.CandidateOperand{IsLabel: true}, isLabel: true, label: t.Text, loc: t}, nil
	default:
		return resolvedOperand{}, fmt.Errorf("unexpected token %q in operand position", t.Text)
	}
}

// resolveGroup resolves one top-level operand group: a bare atom, or
// a %hi(...)/%lo(...) wrapper around one. A %hi/%lo result always
// presents as an unsigned-16 immediate candidate regardless of
// whether its contents are a label or literal, since that is what it
// encodes as once evaluated.
func resolveGroup(group []token.Token) (resolvedOperand, error) {
	if len(group) == 0 {
		return resolvedOperand{}, fmt.Errorf("empty operand")
	}
	if group[0].Kind == token.MACRO_PARAMETER && (group[0].Str == "hi" || group[0].Str == "lo") {
		if len(group) < 4 || group[1].Kind != token.LEFT_PAREN || group[len(group)-1].Kind != token.RIGHT_PAREN {
			return resolvedOperand{}, fmt.Errorf("malformed %%%s(...) operand", group[0].Str)
		}
		inner, err := resolveGroup(group[2 : len(group)-1])
		if err != nil {
			return resolvedOperand{}, err
		}
		inner.transform = group[0].Str
		inner.cand = isa.CandidateOperand{Kind: isa.OpImm16U}
		return inner, nil
	}
	if len(group) != 1 {
		return resolvedOperand{}, fmt.Errorf("expected a single token operand, got %d", len(group))
	}
	return resolveAtom(group[0])
}

// flattenOperands resolves every top-level group of a real (non-
// pseudo) instruction's operand list, expanding an "offset(base)"
// memory-addressing group into its two constituent operands (offset,
// then base register) in that order, matching how the basic
// instruction table declares load/store operand lists.
func flattenOperands(groups [][]token.Token) ([]resolvedOperand, error) {
	var out []resolvedOperand
	for _, g := range groups {
		if len(g) > 0 && g[0].Kind == token.MACRO_PARAMETER {
			r, err := resolveGroup(g)
			if err != nil {
				return nil, err
			}
			out = append(out, r)
			continue
		}
		if parenIdx := findLeftParen(g); parenIdx >= 0 {
			closeIdx := len(g) - 1
			if g[closeIdx].Kind != token.RIGHT_PAREN {
				return nil, fmt.Errorf("malformed memory operand")
			}
			baseGroup := g[parenIdx+1 : closeIdx]
			offsetGroup := g[:parenIdx]
			var off resolvedOperand
			var err error
			if len(offsetGroup) == 0 {
				off = resolvedOperand{cand: isa.CandidateOperand{Kind: isa.OpImm16S}, value: 0}
			} else {
				off, err = resolveGroup(offsetGroup)
				if err != nil {
					return nil, err
				}
			}
			base, err := resolveGroup(baseGroup)
			if err != nil {
				return nil, err
			}
			if !base.cand.IsGPR {
				return nil, fmt.Errorf("base register expected inside '(...)'")
			}
			out = append(out, off, base)
			continue
		}
		r, err := resolveGroup(g)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func findLeftParen(g []token.Token) int {
	for i, t := range g {
		if t.Kind == token.LEFT_PAREN {
			return i
		}
	}
	return -1
}

func candidatesOf(ops []resolvedOperand) []isa.CandidateOperand {
	out := make([]isa.CandidateOperand, len(ops))
	for i, o := range ops {
		out[i] = o.cand
	}
	return out
}
