package model

import (
	"encoding/json"
	"fmt"
)

// Measurement is one model's stored accuracy sample (spec §6): a config
// hash pinning which coefficient set produced it, plus observed error
// against three corpus sizes.
type Measurement struct {
	ConfigHash string `json:"configHash"`
	Small      int    `json:"small"`
	Medium     int    `json:"medium"`
	Large      int    `json:"large"`
}

// AccuracyReport is the persisted accuracy-report document, keyed by model
// identifier.
type AccuracyReport struct {
	measurements map[string]Measurement
}

// NewAccuracyReport returns an empty report.
func NewAccuracyReport() *AccuracyReport {
	return &AccuracyReport{measurements: map[string]Measurement{}}
}

// LoadAccuracyReport parses an accuracy-report document from its persisted
// JSON form.
func LoadAccuracyReport(data []byte) (*AccuracyReport, error) {
	var raw map[string]Measurement
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse accuracy report: %w", err)
	}
	return &AccuracyReport{measurements: raw}, nil
}

// Marshal serializes the report back to its persisted JSON form.
func (r *AccuracyReport) Marshal() ([]byte, error) {
	return json.Marshal(r.measurements)
}

// Get returns the stored measurement for model, if any.
func (r *AccuracyReport) Get(model string) (Measurement, bool) {
	m, ok := r.measurements[model]
	return m, ok
}

// Set records (or replaces) model's measurement.
func (r *AccuracyReport) Set(model string, m Measurement) {
	r.measurements[model] = m
}

// Stale reports whether model has no stored measurement, or its stored
// configHash no longer matches cfg's current coefficients — either case
// triggers remeasurement per spec §6.
func (r *AccuracyReport) Stale(model string, cfg *Config) bool {
	m, ok := r.measurements[model]
	if !ok {
		return true
	}
	return m.ConfigHash != cfg.Tokens.Hash()
}
