package bpe

import (
	"fmt"

	"github.com/dlclark/regexp2"
)

// splitter applies a compiled pretokenization pattern to text, yielding the
// non-overlapping, left-to-right pieces spec §4.2 calls for. The reference
// vocabularies' patterns use named unicode categories and negative
// lookahead (e.g. `\s+(?!\S)`, which leaves the last whitespace character
// of a run to prefix the following word); Go's stdlib regexp/RE2 engine
// has no lookahead at all, so — per spec §9's design note —
// this module picks dlclark/regexp2, a backtracking engine with .NET-style
// syntax, instead of reaching for RE2 and silently diverging from the
// reference split.
type splitter struct {
	re *regexp2.Regexp
}

func newSplitter(pattern string) (*splitter, error) {
	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("compile pretokenization pattern: %w", err)
	}
	return &splitter{re: re}, nil
}

// Split returns the pieces of text in match order.
func (s *splitter) Split(text string) ([]string, error) {
	var pieces []string

	m, err := s.re.FindStringMatch(text)
	for m != nil {
		if err != nil {
			return nil, fmt.Errorf("pretokenization pattern match: %w", err)
		}
		pieces = append(pieces, m.String())
		m, err = s.re.FindNextMatch(m)
	}
	if err != nil {
		return nil, fmt.Errorf("pretokenization pattern match: %w", err)
	}
	return pieces, nil
}
