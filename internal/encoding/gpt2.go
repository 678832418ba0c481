package encoding

import (
	"encoding/json"
	"fmt"
	"os"
	"unicode/utf8"
)

// gpt2Pattern is the reference GPT-2 / early-tiktoken pretokenization
// pattern: split off common contractions, then runs of letters, digits, or
// other non-space characters (each optionally preceded by one leading
// space), then whitespace.
const gpt2Pattern = `'s|'t|'re|'ve|'m|'ll|'d| ?\p{L}+| ?\p{N}+| ?[^\s\p{L}\p{N}]+|\s+(?!\S)|\s+`

// LoadGPT2Vocab builds a Table from a GPT-2-style vocab.json (the only
// input an encoder needs): {token-string: rank}. merges.txt, which the
// reference implementation also ships, is deliberately not consulted here —
// it records the training-time merge order, but once every merge has been
// assigned a rank, replaying merges in ascending rank order (what
// internal/bpe's merge loop already does) reproduces that order exactly, so
// the rank table alone is sufficient to encode.
//
// vocab.json keys are not raw token bytes: GPT-2's export maps every raw
// byte 0..255 to a "printable-ish" stand-in rune so the table can round-trip
// through JSON (adapted from the teacher's buildCursedByteDecoder/
// decodeTokenString — the logic is unchanged, only generalized to populate
// an encoding.Table's string_ranks/binary_ranks split instead of a flat
// revVocab slice).
func LoadGPT2Vocab(vocabPath string, special map[string]int32) (*Table, error) {
	data, err := os.ReadFile(vocabPath) //nolint:gosec // vocabPath is caller-supplied, trusted config
	if err != nil {
		return nil, fmt.Errorf("read vocab file: %w", err)
	}

	var vocab map[string]int32
	if err := json.Unmarshal(data, &vocab); err != nil {
		return nil, fmt.Errorf("parse vocab file: %w", err)
	}

	byteDecoder := buildByteDecoder()
	stringRanks := make(map[string]int32, len(vocab))
	var binaryRanks []BinaryRank

	for tokenStr, rank := range vocab {
		raw, err := decodeTokenString(tokenStr, byteDecoder)
		if err != nil {
			return nil, fmt.Errorf("decode vocab entry %q (rank %d): %w", tokenStr, rank, err)
		}
		if utf8.Valid(raw) && string(raw) == string(raw) {
			// A round trip through string(raw) is always true for valid
			// UTF-8 bytes; the real test is whether decoding then
			// re-encoding those bytes is bit-exact, i.e. raw contains no
			// byte sequence that only "looks" valid.
			if utf8ValidRoundTrip(raw) {
				stringRanks[string(raw)] = rank
				continue
			}
		}
		binaryRanks = append(binaryRanks, BinaryRank{Bytes: raw, Rank: rank})
	}

	return New("gpt2", gpt2Pattern, special, stringRanks, binaryRanks)
}

func utf8ValidRoundTrip(b []byte) bool {
	if !utf8.Valid(b) {
		return false
	}
	s := string(b)
	return len(s) == len(b)
}

// decodeTokenString turns a vocab.json key back into the raw bytes it
// represents: walk its runes, and for each one that stands in for a raw
// byte (per byteDecoder) emit that byte; otherwise the rune is meant
// literally and its own UTF-8 encoding is emitted.
func decodeTokenString(s string, byteDecoder map[rune]byte) ([]byte, error) {
	var out []byte
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		if r == utf8.RuneError && size == 1 {
			return nil, fmt.Errorf("invalid utf8 at %q", s)
		}
		if b, ok := byteDecoder[r]; ok {
			out = append(out, b)
		} else {
			var tmp [utf8.UTFMax]byte
			n := utf8.EncodeRune(tmp[:], r)
			out = append(out, tmp[:n]...)
		}
		s = s[size:]
	}
	return out, nil
}

// buildByteDecoder replays GPT-2's byte<->rune stand-in table: printable
// bytes map to themselves, the remaining ~70 non-printable byte values get
// assigned stand-in runes starting at U+0100 so every byte has some
// JSON-safe representation.
func buildByteDecoder() map[rune]byte {
	var printable []int
	for b := 33; b <= 126; b++ {
		printable = append(printable, b)
	}
	for b := 161; b <= 172; b++ {
		printable = append(printable, b)
	}
	for b := 174; b <= 255; b++ {
		printable = append(printable, b)
	}

	isPrintable := make(map[int]bool, len(printable))
	for _, b := range printable {
		isPrintable[b] = true
	}

	bs := append([]int(nil), printable...)
	cs := append([]int(nil), printable...)
	next := 256
	for b := 0; b < 256; b++ {
		if !isPrintable[b] {
			bs = append(bs, b)
			cs = append(cs, next)
			next++
		}
	}

	decoder := make(map[rune]byte, 256)
	for i := range bs {
		decoder[rune(cs[i])] = byte(bs[i])
	}
	return decoder
}
