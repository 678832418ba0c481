package accountant

import (
	"encoding/json"
	"fmt"
	"math"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/promptacct/promptacct/internal/model"
	"github.com/promptacct/promptacct/internal/schema"
)

// Tokenizer is the slice of *bpe.Engine the accountant needs.
type Tokenizer interface {
	Count(text string) (int, error)
}

const (
	imagePartTokens = 85
	filePartTokens  = 100
)

// Accountant combines an engine and a model config to price messages and
// tools, per spec §4.5.
type Accountant struct {
	engine Tokenizer
	cfg    *model.Config
	coef   schema.Coefficients
}

// New builds an Accountant. engine is typically a *bpe.Engine resolved from
// cfg.Encoding via a model.Registry.
func New(engine Tokenizer, cfg *model.Config) *Accountant {
	return &Accountant{
		engine: engine,
		cfg:    cfg,
		coef: schema.Coefficients{
			PerFirstProp:      cfg.Tokens.PerFirstProp,
			PerAdditionalProp: cfg.Tokens.PerAdditionalProp,
			PerPropDesc:       cfg.Tokens.PerPropDesc,
			PerEnum:           cfg.Tokens.PerEnum,
			PerNestedObject:   cfg.Tokens.PerNestedObject,
			PerArrayOfObjects: cfg.Tokens.PerArrayOfObjects,
		},
	}
}

// Count prices messages and tools, returning the nested breakdown of spec
// §4.5/§6.
func (a *Accountant) Count(messages []Message, tools []ToolDefinition) (Result, error) {
	result := Result{Total: a.cfg.Tokens.BaseOverhead}

	for i, msg := range messages {
		mr, err := a.countMessage(msg)
		if err != nil {
			return Result{}, fmt.Errorf("message %d: %w", i, err)
		}
		result.Messages = append(result.Messages, mr)
		result.Total += mr.Total
	}

	toolsResult, err := a.countTools(tools)
	if err != nil {
		return Result{}, err
	}
	result.Tools = toolsResult
	result.Total += toolsResult.Total

	return result, nil
}

func (a *Accountant) countMessage(msg Message) (MessageResult, error) {
	roleTokens, err := a.engine.Count(string(msg.Role))
	if err != nil {
		return MessageResult{}, err
	}

	total := a.cfg.Tokens.PerMessage + roleTokens
	var parts []PartResult

	if msg.Content.isText {
		pr, err := a.countTextPart(msg.Content.text)
		if err != nil {
			return MessageResult{}, err
		}
		parts = append(parts, pr)
		total += pr.Total
	} else {
		for _, part := range msg.Content.parts {
			pr, err := a.countPart(part)
			if err != nil {
				return MessageResult{}, err
			}
			parts = append(parts, pr)
			total += pr.Total
		}
	}

	return MessageResult{Total: total, Content: parts}, nil
}

func (a *Accountant) countPart(part ContentPart) (PartResult, error) {
	switch part.kind {
	case partText:
		return a.countTextPart(part.text)
	case partToolCall:
		return a.countToolCallPart(part)
	case partToolResult:
		return a.countToolResultPart(part)
	case partImage:
		return PartResult{Type: "text", Total: imagePartTokens}, nil
	case partFile:
		return PartResult{Type: "text", Total: filePartTokens}, nil
	default:
		return PartResult{}, fmt.Errorf("accountant: unrecognized content part kind %d", part.kind)
	}
}

func (a *Accountant) countTextPart(text string) (PartResult, error) {
	raw, err := a.engine.Count(text)
	if err != nil {
		return PartResult{}, err
	}
	reported := roundHalfAwayFromZero(float64(raw) * a.cfg.Tokens.ContentMultiplier)
	return PartResult{Type: "text", Total: reported}, nil
}

func (a *Accountant) countToolCallPart(part ContentPart) (PartResult, error) {
	serialized, err := serializeInput(part.input)
	if err != nil {
		return PartResult{}, fmt.Errorf("serialize tool-call input: %w", err)
	}

	rawInput, err := a.engine.Count(serialized)
	if err != nil {
		return PartResult{}, err
	}
	rawName, err := a.engine.Count(part.toolName)
	if err != nil {
		return PartResult{}, err
	}

	mult := a.cfg.Tokens.ContentMultiplier
	reported := roundHalfAwayFromZero(float64(rawInput+rawName) * mult)
	input := roundHalfAwayFromZero(float64(rawInput) * mult)

	return PartResult{Type: "tool-call", Total: reported, Input: input}, nil
}

func (a *Accountant) countToolResultPart(part ContentPart) (PartResult, error) {
	var serialized string
	if s, ok := part.output.(string); ok {
		serialized = s
	} else {
		var err error
		serialized, err = serializeJSONValue(part.output)
		if err != nil {
			return PartResult{}, fmt.Errorf("serialize tool-result output: %w", err)
		}
	}

	rawOutput, err := a.engine.Count(serialized)
	if err != nil {
		return PartResult{}, err
	}
	rawID, err := a.engine.Count(part.toolCallID)
	if err != nil {
		return PartResult{}, err
	}

	mult := a.cfg.Tokens.ContentMultiplier
	reported := roundHalfAwayFromZero(float64(rawOutput+rawID) * mult)
	output := roundHalfAwayFromZero(float64(rawOutput) * mult)

	return PartResult{Type: "tool-result", Total: reported, Output: output}, nil
}

func (a *Accountant) countTools(tools []ToolDefinition) (ToolsResult, error) {
	defs := orderedmap.New[string, ToolResult]()
	if len(tools) == 0 {
		return ToolsResult{Total: 0, Definitions: defs}, nil
	}

	total := a.cfg.Tokens.ToolsExist

	for i, tool := range tools {
		nameTokens, err := a.engine.Count(tool.Name)
		if err != nil {
			return ToolsResult{}, err
		}

		descTokens := 0
		if desc, ok := tool.Description(); ok {
			dt, err := a.engine.Count(desc)
			if err != nil {
				return ToolsResult{}, err
			}
			descTokens = a.cfg.Tokens.PerDesc + dt
		}

		schemaTokens, err := schema.Walk(a.engine, a.coef, tool.InputSchema)
		if err != nil {
			return ToolsResult{}, fmt.Errorf("tool %q: %w", tool.Name, err)
		}

		defs.Set(tool.Name, ToolResult{Name: tool.Name, Description: descTokens, InputSchema: schemaTokens})

		total += nameTokens + descTokens + schemaTokens
		if i > 0 {
			total += a.cfg.Tokens.PerTool
		}
	}

	return ToolsResult{Total: total, Definitions: defs}, nil
}

// serializeInput renders a tool-call's input as compact JSON, treating a nil
// Input (a no-argument call) as an empty object rather than the JSON literal
// null — a typed-nil *Input inside the `any` json.Marshal expects would
// otherwise reach its MarshalJSON method rather than being caught by a
// plain v == nil check.
func serializeInput(input *Input) (string, error) {
	if input == nil {
		return "{}", nil
	}
	data, err := json.Marshal(input)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// serializeJSONValue renders a tool-result's output as compact JSON.
func serializeJSONValue(v any) (string, error) {
	if v == nil {
		return "null", nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// roundHalfAwayFromZero implements spec §4.5's rounding rule for
// content_multiplier application: ties round away from zero rather than to
// even, and negative values round symmetrically.
func roundHalfAwayFromZero(x float64) int {
	if x >= 0 {
		return int(math.Floor(x + 0.5))
	}
	return -int(math.Floor(-x + 0.5))
}
