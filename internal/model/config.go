// Package model implements the Model Config data shape (spec §3), its
// persisted-document loading, content-multiplier defaulting, and the
// config-hash/accuracy-report staleness check of spec §6.
package model

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/promptacct/promptacct/errs"
	"github.com/promptacct/promptacct/internal/bpe"
	"github.com/promptacct/promptacct/internal/encoding"
)

// DefaultContentMultiplier is applied when a config's tokens.content_multiplier
// is omitted (zero value after JSON decode), per spec §4.5.
const DefaultContentMultiplier = 1.0

// Tokens is the per-model coefficient subrecord (spec §3). Field order here
// is load-bearing: Hash marshals this struct directly, and encoding/json
// serializes struct fields in declaration order, giving a stable hash
// without needing an ordered map for this type.
type Tokens struct {
	BaseOverhead      int     `json:"base_overhead"`
	PerMessage        int     `json:"per_message"`
	ToolsExist        int     `json:"tools_exist"`
	PerTool           int     `json:"per_tool"`
	PerDesc           int     `json:"per_desc"`
	PerFirstProp      int     `json:"per_first_prop"`
	PerAdditionalProp int     `json:"per_additional_prop"`
	PerPropDesc       int     `json:"per_prop_desc"`
	PerEnum           int     `json:"per_enum"`
	PerNestedObject   int     `json:"per_nested_object"`
	PerArrayOfObjects int     `json:"per_array_of_objects"`
	ContentMultiplier float64 `json:"content_multiplier"`
}

// Hash returns a sha256 digest of the coefficient subrecord, used by the
// accuracy report to detect when a config's coefficients have changed since
// it was last measured (spec §6).
func (t Tokens) Hash() string {
	data, err := json.Marshal(t)
	if err != nil {
		// Tokens is entirely scalar fields; marshaling it can't fail.
		panic(fmt.Sprintf("model: marshaling Tokens: %v", err))
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Config is one Model Config record (spec §3).
type Config struct {
	Encoding string `json:"encoding"`
	Tokens   Tokens `json:"tokens"`

	Name          string             `json:"name"`
	ContextWindow int                `json:"context_window"`
	MaxTokens     int                `json:"max_tokens"`
	Pricing       map[string]float64 `json:"pricing,omitempty"`
}

// normalize defaults an omitted content_multiplier and then validates the
// record the way the teacher's buildRevVocab validates a vocab entry the
// moment it's parsed, per SPEC_FULL.md's Configuration section: every
// tokens coefficient must be non-negative, and content_multiplier must
// clear the spec's 0.5 floor. A record failing either check is rejected
// here rather than loaded and left to produce a silently wrong (or
// negative) accountant total downstream.
func (c *Config) normalize(name string) error {
	if c.Tokens.ContentMultiplier == 0 {
		c.Tokens.ContentMultiplier = DefaultContentMultiplier
	}

	t := c.Tokens
	nonNegative := []struct {
		field string
		v     int
	}{
		{"base_overhead", t.BaseOverhead},
		{"per_message", t.PerMessage},
		{"tools_exist", t.ToolsExist},
		{"per_tool", t.PerTool},
		{"per_desc", t.PerDesc},
		{"per_first_prop", t.PerFirstProp},
		{"per_additional_prop", t.PerAdditionalProp},
		{"per_prop_desc", t.PerPropDesc},
		{"per_enum", t.PerEnum},
		{"per_nested_object", t.PerNestedObject},
		{"per_array_of_objects", t.PerArrayOfObjects},
	}
	for _, f := range nonNegative {
		if f.v < 0 {
			return &errs.InvalidConfigError{Model: name, Reason: fmt.Sprintf("%s must be non-negative, got %d", f.field, f.v)}
		}
	}
	if t.ContentMultiplier < 0.5 {
		return &errs.InvalidConfigError{Model: name, Reason: fmt.Sprintf("content_multiplier must be >= 0.5, got %g", t.ContentMultiplier)}
	}
	return nil
}

// Registry is the loaded form of the persisted JSON document of spec §6: a
// single document keyed by model identifier, each value a Config.
type Registry struct {
	configs map[string]*Config
}

// LoadRegistryFile reads and parses a Registry from path.
func LoadRegistryFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-supplied config, trusted
	if err != nil {
		return nil, fmt.Errorf("read model config document: %w", err)
	}
	return LoadRegistry(data)
}

// LoadRegistry parses a Registry from an in-memory JSON document.
func LoadRegistry(data []byte) (*Registry, error) {
	var raw map[string]*Config
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse model config document: %w", err)
	}
	for name, c := range raw {
		if err := c.normalize(name); err != nil {
			return nil, err
		}
	}
	return &Registry{configs: raw}, nil
}

// Get looks up a model's Config by identifier.
func (r *Registry) Get(model string) (*Config, bool) {
	c, ok := r.configs[model]
	return c, ok
}

// Names returns every model identifier the registry holds, in no particular
// order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.configs))
	for name := range r.configs {
		names = append(names, name)
	}
	return names
}

// ResolveEngine builds a BPE Engine for cfg's encoding, looking it up in
// tables. Returns *errs.UnknownEncodingError (spec §7) when cfg names an
// encoding nothing loaded a table for.
func (c *Config) ResolveEngine(tables map[string]*encoding.Table, opts ...bpe.Option) (*bpe.Engine, error) {
	table, ok := tables[c.Encoding]
	if !ok {
		return nil, &errs.UnknownEncodingError{Name: c.Encoding}
	}
	return bpe.New(table, opts...)
}
