// Package calibrate implements the Calibration Probe's coefficient
// arithmetic (spec §4.6): encoding selection and overhead extraction. The
// probe that actually issues requests to a vendor API is an external
// collaborator per spec §1 — this package defines the interface it must
// satisfy and the pure functions that turn its measurements into Model
// Config coefficients.
package calibrate

import "context"

// Tokenizer is the slice of *bpe.Engine this package needs: token counts
// for the constant text a battery's requests are built from.
type Tokenizer interface {
	Count(text string) (int, error)
}

// Prober issues one synthetic request against a remote inference API and
// reports how many input tokens the vendor billed for it.
type Prober interface {
	Probe(ctx context.Context, model string, request Request) (inputTokens int, err error)
}

// RequestMessage is one message of a synthetic calibration request.
type RequestMessage struct {
	Role string
	Text string
}

// RequestTool is the single trivial tool a calibration request may carry,
// used as the tools-present control in overhead extraction.
type RequestTool struct {
	Name         string
	PropertyName string
}

// Request is one synthetic probe request: a short, fixed message set plus
// an optional single tool.
type Request struct {
	Messages []RequestMessage
	Tool     *RequestTool
}
