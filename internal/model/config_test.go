package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptacct/promptacct/errs"
	"github.com/promptacct/promptacct/internal/encoding"
)

const sampleDoc = `{
  "openai/gpt-5": {
    "encoding": "o200k",
    "tokens": {
      "base_overhead": 3,
      "per_message": 4,
      "tools_exist": 10,
      "per_tool": 12,
      "per_desc": 2,
      "per_first_prop": 2,
      "per_additional_prop": 1,
      "per_prop_desc": 2,
      "per_enum": 3,
      "per_nested_object": 4,
      "per_array_of_objects": 5
    },
    "name": "GPT-5",
    "context_window": 400000,
    "max_tokens": 128000
  }
}`

func TestLoadRegistry_DefaultsContentMultiplier(t *testing.T) {
	reg, err := LoadRegistry([]byte(sampleDoc))
	require.NoError(t, err)

	cfg, ok := reg.Get("openai/gpt-5")
	require.True(t, ok)
	assert.Equal(t, DefaultContentMultiplier, cfg.Tokens.ContentMultiplier)
}

func TestLoadRegistry_UnknownModelNotFound(t *testing.T) {
	reg, err := LoadRegistry([]byte(sampleDoc))
	require.NoError(t, err)

	_, ok := reg.Get("nonexistent/model")
	assert.False(t, ok)
}

func TestLoadRegistry_RejectsInvalidJSON(t *testing.T) {
	_, err := LoadRegistry([]byte("not json"))
	require.Error(t, err)
}

func TestLoadRegistry_RejectsNegativeCoefficient(t *testing.T) {
	doc := `{
	  "bad/model": {
	    "encoding": "o200k",
	    "tokens": { "base_overhead": 3, "per_message": -50 }
	  }
	}`
	_, err := LoadRegistry([]byte(doc))
	require.Error(t, err)

	var invalid *errs.InvalidConfigError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "bad/model", invalid.Model)
}

func TestLoadRegistry_RejectsContentMultiplierBelowFloor(t *testing.T) {
	doc := `{
	  "bad/model": {
	    "encoding": "o200k",
	    "tokens": { "content_multiplier": 0.1 }
	  }
	}`
	_, err := LoadRegistry([]byte(doc))
	require.Error(t, err)

	var invalid *errs.InvalidConfigError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "bad/model", invalid.Model)
}

func TestLoadRegistry_AcceptsOmittedContentMultiplierAsDefault(t *testing.T) {
	// content_multiplier is entirely absent (decodes to the zero value, not
	// an explicit 0), so normalize defaults it to 1.0 before the floor check
	// runs rather than rejecting the record.
	reg, err := LoadRegistry([]byte(sampleDoc))
	require.NoError(t, err)
	cfg, _ := reg.Get("openai/gpt-5")
	assert.Equal(t, DefaultContentMultiplier, cfg.Tokens.ContentMultiplier)
}

func TestTokens_HashIsStableAndSensitiveToChange(t *testing.T) {
	a := Tokens{BaseOverhead: 3, PerMessage: 4, ContentMultiplier: 1.0}
	b := Tokens{BaseOverhead: 3, PerMessage: 4, ContentMultiplier: 1.0}
	assert.Equal(t, a.Hash(), b.Hash())

	c := Tokens{BaseOverhead: 3, PerMessage: 5, ContentMultiplier: 1.0}
	assert.NotEqual(t, a.Hash(), c.Hash())
}

func TestResolveEngine_UnknownEncodingErrors(t *testing.T) {
	cfg := &Config{Encoding: "does-not-exist"}
	_, err := cfg.ResolveEngine(map[string]*encoding.Table{})

	var unk *errs.UnknownEncodingError
	require.ErrorAs(t, err, &unk)
	assert.Equal(t, "does-not-exist", unk.Name)
}

func TestResolveEngine_BuildsEngineForKnownEncoding(t *testing.T) {
	table, err := encoding.New("fixture", `\w+`, nil, map[string]int32{"a": 0}, nil)
	require.NoError(t, err)

	cfg := &Config{Encoding: "fixture"}
	eng, err := cfg.ResolveEngine(map[string]*encoding.Table{"fixture": table})
	require.NoError(t, err)
	require.NotNil(t, eng)
}
