// Package errs collects the error kinds surfaced across the tokenizer and
// accountant packages so callers can errors.Is/errors.As against a stable
// set of discriminators instead of matching error strings.
package errs

import "fmt"

// DisallowedSpecialError is returned when encode input contains a special
// token literal that was not in the caller's allowed set.
type DisallowedSpecialError struct {
	Token string
}

func (e *DisallowedSpecialError) Error() string {
	return fmt.Sprintf("disallowed special token encountered: %q", e.Token)
}

// UnknownEncodingError is returned when a Model Config names an encoding
// with no loaded table.
type UnknownEncodingError struct {
	Name string
}

func (e *UnknownEncodingError) Error() string {
	return fmt.Sprintf("unknown encoding: %q", e.Name)
}

// InvalidSchemaNodeError is returned when the schema walker encounters a
// node whose shape doesn't match any of the six node kinds it understands.
type InvalidSchemaNodeError struct {
	Reason string
}

func (e *InvalidSchemaNodeError) Error() string {
	return fmt.Sprintf("invalid schema node: %s", e.Reason)
}

// InvalidConfigError is returned when a Model Config's token coefficients
// fail the loader's validation: a negative coefficient, or a
// content_multiplier below the spec's 0.5 floor.
type InvalidConfigError struct {
	Model  string
	Reason string
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid model config %q: %s", e.Model, e.Reason)
}

// MeasurementError wraps a Calibration Probe failure. The caller's policy
// (spec §7) is: log it, skip the model, keep the existing config — this
// type exists so that policy can be implemented by the caller rather than
// baked into the probe.
type MeasurementError struct {
	Model  string
	Reason string
	Err    error
}

func (e *MeasurementError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("calibration measurement failed for %s: %s: %v", e.Model, e.Reason, e.Err)
	}
	return fmt.Sprintf("calibration measurement failed for %s: %s", e.Model, e.Reason)
}

func (e *MeasurementError) Unwrap() error { return e.Err }
