package accountant

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// PartResult is one content part's contribution to a message's total (spec
// §4.5/§6). Input/Output are only populated for tool-call/tool-result parts
// respectively; encoding/json's omitempty drops them otherwise.
type PartResult struct {
	Type   string `json:"type"`
	Total  int    `json:"total"`
	Input  int    `json:"input,omitempty"`
	Output int    `json:"output,omitempty"`
}

// MessageResult is one message's total plus its content-part breakdown.
type MessageResult struct {
	Total   int          `json:"total"`
	Content []PartResult `json:"content"`
}

// ToolResult is one tool's overhead breakdown.
type ToolResult struct {
	Name        string `json:"name"`
	Description int    `json:"description"`
	InputSchema int    `json:"inputSchema"`
}

// ToolsResult is the tools section of an accountant Result.
type ToolsResult struct {
	Total       int                                        `json:"total"`
	Definitions *orderedmap.OrderedMap[string, ToolResult] `json:"definitions"`
}

// Result is the Prompt Accountant's output (spec §4.5/§6).
type Result struct {
	Total    int             `json:"total"`
	Messages []MessageResult `json:"messages"`
	Tools    ToolsResult     `json:"tools"`
}
