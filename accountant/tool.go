package accountant

import "github.com/promptacct/promptacct/internal/schema"

// ToolDefinition is one tool a prompt makes available (spec §3): a name, an
// optional description, and an input_schema tree.
type ToolDefinition struct {
	Name        string
	description string
	hasDesc     bool
	InputSchema *schema.Node
}

// ToolOption configures a ToolDefinition at construction time.
type ToolOption func(*ToolDefinition)

// WithToolDescription attaches a description, contributing per_desc plus
// its tokenized length to the tool's overhead.
func WithToolDescription(desc string) ToolOption {
	return func(t *ToolDefinition) {
		t.description = desc
		t.hasDesc = true
	}
}

// NewToolDefinition builds a ToolDefinition.
func NewToolDefinition(name string, inputSchema *schema.Node, opts ...ToolOption) ToolDefinition {
	t := ToolDefinition{Name: name, InputSchema: inputSchema}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

// Description returns the tool's description and whether one was set.
func (t ToolDefinition) Description() (string, bool) { return t.description, t.hasDesc }
