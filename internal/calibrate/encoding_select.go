package calibrate

import (
	"fmt"
	"math"
	"sort"
)

// LongSampleThreshold is the minimum vendor-reported token count (spec
// §4.6) a corpus sample must clear to count toward encoding selection —
// short samples are too noisy relative to per-request framing overhead to
// usefully discriminate between candidate encodings.
const LongSampleThreshold = 400

// CorpusSample is one fixed-corpus text sample together with the vendor's
// reported input-token count for sending it as a single message.
type CorpusSample struct {
	Text        string
	InputTokens int
}

// SelectEncoding picks the candidate encoding minimizing total absolute
// error against InputTokens over corpus's long (> LongSampleThreshold)
// samples, and infers a scalar content_multiplier from the chosen
// encoding's average (InputTokens / raw) ratio across those samples (spec
// §4.6).
func SelectEncoding(candidates map[string]Tokenizer, corpus []CorpusSample) (encodingName string, contentMultiplier float64, err error) {
	names := make([]string, 0, len(candidates))
	for name := range candidates {
		names = append(names, name)
	}
	sort.Strings(names)

	long := make([]CorpusSample, 0, len(corpus))
	for _, s := range corpus {
		if s.InputTokens > LongSampleThreshold {
			long = append(long, s)
		}
	}
	if len(long) == 0 {
		return "", 0, fmt.Errorf("calibrate: no corpus samples exceed the %d-token long-sample threshold", LongSampleThreshold)
	}

	bestName := ""
	bestErr := math.Inf(1)
	bestMultiplier := 0.0

	for _, name := range names {
		tok := candidates[name]
		errSum := 0.0
		ratioSum := 0.0
		counted := 0

		for _, s := range long {
			raw, cerr := tok.Count(s.Text)
			if cerr != nil {
				return "", 0, fmt.Errorf("encoding %q: %w", name, cerr)
			}
			if raw == 0 {
				continue
			}
			errSum += math.Abs(float64(raw - s.InputTokens))
			ratioSum += float64(s.InputTokens) / float64(raw)
			counted++
		}
		if counted == 0 {
			continue
		}
		if errSum < bestErr {
			bestErr = errSum
			bestName = name
			bestMultiplier = ratioSum / float64(counted)
		}
	}

	if bestName == "" {
		return "", 0, fmt.Errorf("calibrate: no candidate encoding produced usable token counts")
	}
	if bestMultiplier < 0.5 {
		return "", 0, fmt.Errorf("calibrate: inferred content_multiplier %.4f is below the spec minimum of 0.5", bestMultiplier)
	}
	return bestName, bestMultiplier, nil
}
