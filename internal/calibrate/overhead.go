package calibrate

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/promptacct/promptacct/errs"
	"github.com/promptacct/promptacct/logging"
)

// Battery is the fixed set of synthetic requests spec §4.6's overhead-
// extraction procedure issues to isolate base_overhead, per_message, and
// tools_exist via differential subtraction.
type Battery struct {
	OneMessage     Request // one short user message, no tool
	ThreeMessages  Request // three short messages (system/user/assistant), no tool
	OneMessageTool Request // the same one message, plus a single trivial tool — the tools-present control
}

// DefaultBattery builds the battery's fixed synthetic content. The text is
// intentionally short and constant across models so the only variable
// between probes is the structural element each is meant to isolate.
func DefaultBattery() Battery {
	const shortText = "ping"
	return Battery{
		OneMessage: Request{Messages: []RequestMessage{{Role: "user", Text: shortText}}},
		ThreeMessages: Request{Messages: []RequestMessage{
			{Role: "system", Text: shortText},
			{Role: "user", Text: shortText},
			{Role: "assistant", Text: shortText},
		}},
		OneMessageTool: Request{
			Messages: []RequestMessage{{Role: "user", Text: shortText}},
			Tool:     &RequestTool{Name: "probe", PropertyName: "value"},
		},
	}
}

// Coefficients is the subset of Model Config coefficients overhead
// extraction derives from a Battery's probe results.
type Coefficients struct {
	BaseOverhead int
	PerMessage   int
	ToolsExist   int
}

// RunBattery issues battery's requests against prober for model and derives
// Coefficients by differential subtraction (spec §4.6): base_overhead falls
// out of the one-message probe once its role/text tokens are netted out;
// per_message is what remains of the three-message probe after its
// role/text tokens and base_overhead are netted out, divided by its three
// messages; tools_exist is the marginal cost of adding the
// control tool to the one-message probe.
//
// Per spec §7, a probe error or a derived coefficient that's still negative
// after the §9 fallback is returned as *errs.MeasurementError — callers are
// expected to log it, skip the model, and keep its existing config rather
// than write a partial result.
func RunBattery(ctx context.Context, prober Prober, tok Tokenizer, model string, battery Battery) (Coefficients, error) {
	runID := uuid.New().String()

	oneTotal, err := prober.Probe(ctx, model, battery.OneMessage)
	if err != nil {
		return Coefficients{}, measurementErr(model, "one-message probe", err)
	}
	threeTotal, err := prober.Probe(ctx, model, battery.ThreeMessages)
	if err != nil {
		return Coefficients{}, measurementErr(model, "three-message probe", err)
	}
	toolTotal, err := prober.Probe(ctx, model, battery.OneMessageTool)
	if err != nil {
		return Coefficients{}, measurementErr(model, "tools-present control probe", err)
	}

	oneText, err := sumRequestTokens(tok, battery.OneMessage)
	if err != nil {
		return Coefficients{}, measurementErr(model, "tokenizing one-message probe", err)
	}
	threeText, err := sumRequestTokens(tok, battery.ThreeMessages)
	if err != nil {
		return Coefficients{}, measurementErr(model, "tokenizing three-message probe", err)
	}
	toolText, err := sumRequestTokens(tok, battery.OneMessageTool)
	if err != nil {
		return Coefficients{}, measurementErr(model, "tokenizing tools-present control probe", err)
	}

	baseOverhead := oneTotal - oneText
	if baseOverhead < 0 {
		return Coefficients{}, measurementErr(model, fmt.Sprintf("base_overhead derived negative: %d", baseOverhead), nil)
	}

	perMessageFromThree := (threeTotal - threeText - baseOverhead) / 3
	perMessage := perMessageFromThree
	if perMessage < 0 {
		// §9's open question: some vendors' framing shrinks as message
		// count grows, so the 3-message estimate alone can go negative.
		// Current policy is to fall back to averaging it against the
		// degenerate 1-message estimate rather than rejecting outright.
		perMessageFromOne := oneTotal - oneText - baseOverhead
		logging.Warnw("per_message derived negative from the 3-message pattern, averaging as fallback",
			"model", model, "runID", runID, "fromThree", perMessageFromThree, "fromOne", perMessageFromOne)
		perMessage = (perMessageFromThree + perMessageFromOne) / 2
		if perMessage < 0 {
			return Coefficients{}, measurementErr(model, fmt.Sprintf("per_message still negative after fallback averaging: %d", perMessage), nil)
		}
	}

	toolsExist := toolTotal - oneTotal - (toolText - oneText)
	if toolsExist < 0 {
		return Coefficients{}, measurementErr(model, fmt.Sprintf("tools_exist derived negative: %d", toolsExist), nil)
	}

	logging.Infow("calibration battery complete", "model", model, "runID", runID,
		"baseOverhead", baseOverhead, "perMessage", perMessage, "toolsExist", toolsExist)

	return Coefficients{BaseOverhead: baseOverhead, PerMessage: perMessage, ToolsExist: toolsExist}, nil
}

func sumRequestTokens(tok Tokenizer, req Request) (int, error) {
	total := 0
	for _, m := range req.Messages {
		roleTokens, err := tok.Count(m.Role)
		if err != nil {
			return 0, err
		}
		textTokens, err := tok.Count(m.Text)
		if err != nil {
			return 0, err
		}
		total += roleTokens + textTokens
	}
	if req.Tool != nil {
		nameTokens, err := tok.Count(req.Tool.Name)
		if err != nil {
			return 0, err
		}
		propTokens, err := tok.Count(req.Tool.PropertyName)
		if err != nil {
			return 0, err
		}
		total += nameTokens + propTokens
	}
	return total, nil
}

func measurementErr(model, reason string, cause error) error {
	return &errs.MeasurementError{Model: model, Reason: reason, Err: cause}
}
