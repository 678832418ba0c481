package calibrate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptacct/promptacct/errs"
)

// wordCounter counts one token per whitespace-separated word.
type wordCounter struct{}

func (wordCounter) Count(text string) (int, error) {
	if text == "" {
		return 0, nil
	}
	n := 1
	for _, r := range text {
		if r == ' ' {
			n++
		}
	}
	return n, nil
}

// scriptedProber returns a fixed input-token total per request, keyed by
// how many messages the request carries and whether it has a tool — enough
// to exercise RunBattery's three distinct probes.
type scriptedProber struct {
	oneMessage     int
	threeMessages  int
	oneMessageTool int
	err            error
}

func (p scriptedProber) Probe(_ context.Context, _ string, req Request) (int, error) {
	if p.err != nil {
		return 0, p.err
	}
	switch {
	case req.Tool != nil:
		return p.oneMessageTool, nil
	case len(req.Messages) == 3:
		return p.threeMessages, nil
	default:
		return p.oneMessage, nil
	}
}

func TestRunBattery_DerivesCoefficientsFromDifferences(t *testing.T) {
	battery := DefaultBattery()
	tok := wordCounter{}

	oneText, err := sumRequestTokens(tok, battery.OneMessage)
	require.NoError(t, err)
	threeText, err := sumRequestTokens(tok, battery.ThreeMessages)
	require.NoError(t, err)
	toolText, err := sumRequestTokens(tok, battery.OneMessageTool)
	require.NoError(t, err)

	const wantBase = 3
	const wantPerMessage = 4
	const wantToolsExist = 10

	oneTotal := wantBase + oneText
	threeTotal := wantBase + threeText + 3*wantPerMessage
	toolTotal := oneTotal + wantToolsExist + (toolText - oneText)

	prober := scriptedProber{oneMessage: oneTotal, threeMessages: threeTotal, oneMessageTool: toolTotal}

	coef, err := RunBattery(context.Background(), prober, tok, "test/model", battery)
	require.NoError(t, err)

	assert.Equal(t, wantBase, coef.BaseOverhead)
	assert.Equal(t, wantPerMessage, coef.PerMessage)
	assert.Equal(t, wantToolsExist, coef.ToolsExist)
}

func TestRunBattery_ProbeErrorSurfacesAsMeasurementError(t *testing.T) {
	battery := DefaultBattery()
	prober := scriptedProber{err: assertErr{}}

	_, err := RunBattery(context.Background(), prober, wordCounter{}, "test/model", battery)
	require.Error(t, err)

	var measurement *errs.MeasurementError
	require.ErrorAs(t, err, &measurement)
	assert.Equal(t, "test/model", measurement.Model)
}

func TestRunBattery_NegativeToolsExistIsRejected(t *testing.T) {
	battery := DefaultBattery()
	tok := wordCounter{}

	oneText, _ := sumRequestTokens(tok, battery.OneMessage)
	threeText, _ := sumRequestTokens(tok, battery.ThreeMessages)
	toolText, _ := sumRequestTokens(tok, battery.OneMessageTool)

	oneTotal := 3 + oneText
	threeTotal := 3 + threeText + 3*4
	// Tool probe reports fewer tokens than the bare one-message probe even
	// after accounting for the tool's own text, forcing tools_exist negative.
	toolTotal := oneTotal - 50 + (toolText - oneText)

	prober := scriptedProber{oneMessage: oneTotal, threeMessages: threeTotal, oneMessageTool: toolTotal}

	_, err := RunBattery(context.Background(), prober, tok, "test/model", battery)
	require.Error(t, err)

	var measurement *errs.MeasurementError
	require.ErrorAs(t, err, &measurement)
}

type assertErr struct{}

func (assertErr) Error() string { return "probe transport failure" }
