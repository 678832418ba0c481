package bpe

import "strings"

// SpecialSet selects which special-token literals apply to an encode call's
// allowed_special / disallowed_special parameter (spec §4.2): either "all"
// known special tokens, or an explicit subset.
type SpecialSet struct {
	all bool
	set map[string]bool
}

// AllSpecialTokens selects every special token the table defines.
func AllSpecialTokens() SpecialSet { return SpecialSet{all: true} }

// NoSpecialTokens selects none.
func NoSpecialTokens() SpecialSet { return SpecialSet{} }

// SpecialTokenLiterals selects exactly the given literals.
func SpecialTokenLiterals(lits ...string) SpecialSet {
	set := make(map[string]bool, len(lits))
	for _, l := range lits {
		set[l] = true
	}
	return SpecialSet{set: set}
}

func (s SpecialSet) resolve(known map[string]int32) map[string]bool {
	out := make(map[string]bool, len(known))
	if s.all {
		for lit := range known {
			out[lit] = true
		}
		return out
	}
	for lit := range s.set {
		if _, ok := known[lit]; ok {
			out[lit] = true
		}
	}
	return out
}

// findFirstLiteral scans text for the earliest occurrence of any literal in
// literals. On a tie it prefers the longest literal, matching the leftmost
// / most-specific behavior a reference tokenizer exhibits when one special
// token's text is a prefix of another's.
func findFirstLiteral(text string, literals map[string]bool) (idx int, literal string, found bool) {
	idx = -1
	for lit := range literals {
		if lit == "" {
			continue
		}
		i := strings.Index(text, lit)
		if i == -1 {
			continue
		}
		switch {
		case idx == -1, i < idx:
			idx, literal, found = i, lit, true
		case i == idx && len(lit) > len(literal):
			literal = lit
		}
	}
	return idx, literal, found
}
