package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccuracyReport_StaleWhenNoMeasurementExists(t *testing.T) {
	report := NewAccuracyReport()
	cfg := &Config{Tokens: Tokens{BaseOverhead: 3, ContentMultiplier: 1.0}}

	assert.True(t, report.Stale("openai/gpt-5", cfg))
}

func TestAccuracyReport_StaleWhenConfigHashChanges(t *testing.T) {
	report := NewAccuracyReport()
	cfg := &Config{Tokens: Tokens{BaseOverhead: 3, ContentMultiplier: 1.0}}

	report.Set("openai/gpt-5", Measurement{ConfigHash: cfg.Tokens.Hash(), Small: 1, Medium: 2, Large: 3})
	assert.False(t, report.Stale("openai/gpt-5", cfg))

	cfg.Tokens.BaseOverhead = 99
	assert.True(t, report.Stale("openai/gpt-5", cfg))
}

func TestAccuracyReport_MarshalRoundTrips(t *testing.T) {
	report := NewAccuracyReport()
	report.Set("openai/gpt-5", Measurement{ConfigHash: "abc", Small: 1, Medium: 2, Large: 3})

	data, err := report.Marshal()
	require.NoError(t, err)

	reloaded, err := LoadAccuracyReport(data)
	require.NoError(t, err)

	m, ok := reloaded.Get("openai/gpt-5")
	require.True(t, ok)
	assert.Equal(t, "abc", m.ConfigHash)
	assert.Equal(t, 3, m.Large)
}
