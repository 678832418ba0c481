// Package accountant implements the Prompt Accountant (spec §4.5/§6): it
// combines a BPE Engine, a Model Config, and a Schema Walker over a set of
// messages and tool definitions to produce a total token estimate with a
// per-component breakdown.
package accountant

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Role is a message's role, per spec §3.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Input is the ordered JSON-object shape a tool-call's arguments take.
// Using an ordered map (rather than a plain map[string]any) is what lets a
// tool call's input serialize in the same key order the caller built it in:
// encoding/json sorts plain map keys alphabetically, which would silently
// diverge from spec §4.5's "deterministic key ordering (insertion order)"
// requirement for the JSON it tokenizes.
type Input = orderedmap.OrderedMap[string, any]

// NewInput returns an empty Input ready for Set calls.
func NewInput() *Input { return orderedmap.New[string, any]() }

// Content is a message's body: either a single opaque text string or an
// ordered list of typed parts (spec §3). Build one with TextContent or
// PartsContent; the zero value is an empty parts list, not ambiguous with a
// zero-valued string.
type Content struct {
	text   string
	isText bool
	parts  []ContentPart
}

// TextContent wraps a plain string message body.
func TextContent(text string) Content { return Content{text: text, isText: true} }

// PartsContent wraps a structured, multi-part message body.
func PartsContent(parts ...ContentPart) Content { return Content{parts: parts} }

// Message is one chat message, per spec §3.
type Message struct {
	Role    Role
	Content Content
}

// partKind tags the five ContentPart shapes spec §3 enumerates.
type partKind int

const (
	partText partKind = iota
	partToolCall
	partToolResult
	partImage
	partFile
)

// ContentPart is one element of a multi-part message body. Build one with
// TextPart, ToolCallPart, ToolResultPart, ImagePart, or FilePart.
type ContentPart struct {
	kind partKind

	text string

	toolCallID string
	toolName   string
	input      *Input

	output any
}

func TextPart(text string) ContentPart { return ContentPart{kind: partText, text: text} }

// ToolCallPart records a tool invocation the assistant made. input may be
// nil for a no-argument call.
func ToolCallPart(toolCallID, toolName string, input *Input) ContentPart {
	return ContentPart{kind: partToolCall, toolCallID: toolCallID, toolName: toolName, input: input}
}

// ToolResultPart records the result returned for a tool call. output is
// tokenized as-is if it's a string, else JSON-serialized first (spec §4.5).
func ToolResultPart(toolCallID string, output any) ContentPart {
	return ContentPart{kind: partToolResult, toolCallID: toolCallID, output: output}
}

func ImagePart() ContentPart { return ContentPart{kind: partImage} }
func FilePart() ContentPart  { return ContentPart{kind: partFile} }
