package app

import (
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/promptacct/promptacct/accountant"
	"github.com/promptacct/promptacct/internal/schema"
)

// rawPrompt is the on-disk JSON shape the price subcommand reads: a plain,
// serializable mirror of accountant.Message/ToolDefinition. It exists
// because those types are tagged-variant structs built through constructors,
// not meant to be unmarshaled directly.
type rawPrompt struct {
	Messages []rawMessage `json:"messages"`
	Tools    []rawTool    `json:"tools,omitempty"`
}

type rawMessage struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

type rawPart struct {
	Type       string                              `json:"type"`
	Text       string                              `json:"text,omitempty"`
	ToolCallID string                              `json:"toolCallId,omitempty"`
	ToolName   string                              `json:"toolName,omitempty"`
	Input      *orderedmap.OrderedMap[string, any] `json:"input,omitempty"`
	Output     json.RawMessage                     `json:"output,omitempty"`
}

type rawTool struct {
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	InputSchema rawSchemaNode `json:"inputSchema"`
}

// rawSchemaNode mirrors schema.Node's JSON shape. Properties is an ordered
// map (not map[string]json.RawMessage) so a property list decodes in the
// same order it was written, matching the insertion order schema.Node's
// Walk counts per_first_prop/per_additional_prop against.
type rawSchemaNode struct {
	Type        string                                          `json:"type"`
	Description string                                          `json:"description,omitempty"`
	Properties  *orderedmap.OrderedMap[string, json.RawMessage] `json:"properties,omitempty"`
	Enum        []string                                        `json:"enum,omitempty"`
	Items       json.RawMessage                                 `json:"items,omitempty"`
}

func parsePrompt(data []byte) ([]accountant.Message, []accountant.ToolDefinition, error) {
	var raw rawPrompt
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("parse prompt document: %w", err)
	}

	messages := make([]accountant.Message, 0, len(raw.Messages))
	for i, rm := range raw.Messages {
		content, err := convertContent(rm.Content)
		if err != nil {
			return nil, nil, fmt.Errorf("message %d (role %q): %w", i, rm.Role, err)
		}
		messages = append(messages, accountant.Message{Role: accountant.Role(rm.Role), Content: content})
	}

	tools := make([]accountant.ToolDefinition, 0, len(raw.Tools))
	for _, rt := range raw.Tools {
		tool, err := convertTool(rt)
		if err != nil {
			return nil, nil, err
		}
		tools = append(tools, tool)
	}

	return messages, tools, nil
}

func convertContent(raw json.RawMessage) (accountant.Content, error) {
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return accountant.TextContent(asString), nil
	}

	var parts []rawPart
	if err := json.Unmarshal(raw, &parts); err != nil {
		return accountant.Content{}, fmt.Errorf("content must be a string or an array of parts: %w", err)
	}
	converted := make([]accountant.ContentPart, 0, len(parts))
	for i, p := range parts {
		cp, err := convertPart(p)
		if err != nil {
			return accountant.Content{}, fmt.Errorf("content part %d: %w", i, err)
		}
		converted = append(converted, cp)
	}
	return accountant.PartsContent(converted...), nil
}

func convertPart(p rawPart) (accountant.ContentPart, error) {
	switch p.Type {
	case "text":
		return accountant.TextPart(p.Text), nil
	case "tool-call":
		return accountant.ToolCallPart(p.ToolCallID, p.ToolName, p.Input), nil
	case "tool-result":
		output, err := convertOutput(p.Output)
		if err != nil {
			return accountant.ContentPart{}, err
		}
		return accountant.ToolResultPart(p.ToolCallID, output), nil
	case "image":
		return accountant.ImagePart(), nil
	case "file":
		return accountant.FilePart(), nil
	default:
		return accountant.ContentPart{}, fmt.Errorf("unknown content part type %q", p.Type)
	}
}

// convertOutput decodes a tool-result's raw output, preferring a string
// (tokenized verbatim) and otherwise an ordered object so Accountant's
// fallback JSON re-serialization preserves key order.
func convertOutput(raw json.RawMessage) (any, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString, nil
	}

	var ordered orderedmap.OrderedMap[string, any]
	if err := json.Unmarshal(raw, &ordered); err == nil {
		return &ordered, nil
	}

	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("invalid tool-result output: %w", err)
	}
	return generic, nil
}

func convertTool(t rawTool) (accountant.ToolDefinition, error) {
	node, err := convertSchema(t.InputSchema)
	if err != nil {
		return accountant.ToolDefinition{}, fmt.Errorf("tool %q: %w", t.Name, err)
	}

	var opts []accountant.ToolOption
	if t.Description != "" {
		opts = append(opts, accountant.WithToolDescription(t.Description))
	}
	return accountant.NewToolDefinition(t.Name, node, opts...), nil
}

func convertSchema(raw rawSchemaNode) (*schema.Node, error) {
	var opts []schema.Option
	if raw.Description != "" {
		opts = append(opts, schema.WithDescription(raw.Description))
	}

	switch raw.Type {
	case "object":
		node := schema.NewObject(opts...)
		if raw.Properties != nil {
			for pair := raw.Properties.Oldest(); pair != nil; pair = pair.Next() {
				var childRaw rawSchemaNode
				if err := json.Unmarshal(pair.Value, &childRaw); err != nil {
					return nil, fmt.Errorf("property %q: %w", pair.Key, err)
				}
				child, err := convertSchema(childRaw)
				if err != nil {
					return nil, fmt.Errorf("property %q: %w", pair.Key, err)
				}
				node.SetProperty(pair.Key, child)
			}
		}
		return node, nil
	case "string":
		return schema.NewString(opts...), nil
	case "number":
		return schema.NewNumber(opts...), nil
	case "boolean":
		return schema.NewBoolean(opts...), nil
	case "enum":
		return schema.NewEnum(raw.Enum, opts...), nil
	case "array":
		if len(raw.Items) == 0 {
			return nil, fmt.Errorf("array node missing items")
		}
		var itemRaw rawSchemaNode
		if err := json.Unmarshal(raw.Items, &itemRaw); err != nil {
			return nil, fmt.Errorf("array items: %w", err)
		}
		elem, err := convertSchema(itemRaw)
		if err != nil {
			return nil, fmt.Errorf("array items: %w", err)
		}
		return schema.NewArray(elem, opts...), nil
	default:
		return nil, fmt.Errorf("unknown schema node type %q", raw.Type)
	}
}
