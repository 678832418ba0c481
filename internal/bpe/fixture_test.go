package bpe

import "github.com/promptacct/promptacct/internal/encoding"

// newFixtureTable builds a small, hand-authored rank table for tests: every
// ASCII byte in the round-trip test strings gets its own rank (0..), then a
// handful of merges are layered on top at increasing ranks so the merge loop
// has real work to do. Bytes outside that set (such as the 'y' in a Count
// test's input) have no rank. This stands in for a real generated cl100k_base/
// o200k_base table, which this module does not ship (see testdata/README.md)
// — the point of these tests is the merge/cache/special-token machinery,
// not reference-vocabulary parity.
func newFixtureTable(tb interface{ Fatalf(string, ...any) }) *encoding.Table {
	stringRanks := map[string]int32{}
	var rank int32
	base := "abcdefghilmnorstuvw ,!"
	for _, r := range base {
		stringRanks[string(r)] = rank
		rank++
	}

	merges := []string{
		"he", "hel", "hell", "hello",
		"wo", "wor", "worl", "world",
		" w",
	}
	for _, m := range merges {
		stringRanks[m] = rank
		rank++
	}

	special := map[string]int32{
		"<|endoftext|>": rank,
	}

	table, err := encoding.New("fixture", `\s+|\w+|[^\s\w]+`, special, stringRanks, nil)
	if err != nil {
		tb.Fatalf("build fixture table: %v", err)
	}
	return table
}
