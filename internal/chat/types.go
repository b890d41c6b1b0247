package chat

import "encoding/json"

// Role identifies a message role.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ContentPart is one element of a user message's structured content.
// On the wire a user message is always a sequence of parts.
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL wraps an image reference in a user content part.
type ImageURL struct {
	URL string `json:"url"`
}

// Message is one turn of the conversation.
//
// Content holds the raw caller-supplied content: a string, a []any of
// part-shaped maps, or nil. Normalization coerces it to the wire shape
// (parts for user messages, a scalar string for everything else).
type Message struct {
	Role       Role   `json:"role"`
	Content    any    `json:"content"`
	ToolCallID string `json:"tool_call_id,omitempty"`

	// Assistant-only fields, carried between turns by the host.
	ToolCalls     []ToolCall     `json:"tool_calls,omitempty"`
	Reasoning     string         `json:"reasoning,omitempty"`
	ExecutedTools []ExecutedTool `json:"executed_tools,omitempty"`
}

// ToolCall is a model-initiated client-side function call, assembled
// incrementally from streamed deltas.
type ToolCall struct {
	Index    int          `json:"index"`
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function ToolFunction `json:"function"`
}

// ToolFunction carries the function name and its JSON-encoded arguments.
// Arguments is append-only during streaming and must only be parsed at
// dispatch time.
type ToolFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ExecutedTool is a provider-executed tool record surfaced in the stream.
// Name and Arguments are fixed at first observation; only Output and
// SearchResults may change on later deltas.
type ExecutedTool struct {
	Index         int             `json:"index"`
	Type          string          `json:"type,omitempty"`
	Name          string          `json:"name,omitempty"`
	Arguments     string          `json:"arguments,omitempty"`
	Output        *string         `json:"output,omitempty"`
	SearchResults json.RawMessage `json:"search_results,omitempty"`
}

// ToolSpec describes a tool discovered from an MCP server.
type ToolSpec struct {
	Name        string
	Description string
	Schema      map[string]any
}

// EventType describes pipeline events delivered to the consumer.
type EventType string

const (
	EventStart         EventType = "stream_start"
	EventContent       EventType = "stream_content"
	EventReasoning     EventType = "stream_reasoning"
	EventToolExecution EventType = "stream_tool_execution"
	EventToolCalls     EventType = "stream_tool_calls"
	EventComplete      EventType = "stream_complete"
	EventError         EventType = "stream_error"
)

// ToolExecutionKind distinguishes the two tool-execution events.
type ToolExecutionKind string

const (
	ToolExecutionStart    ToolExecutionKind = "start"
	ToolExecutionComplete ToolExecutionKind = "complete"
)

// Event is a single typed update from the pipeline.
type Event struct {
	Type EventType

	// EventStart
	StreamID string
	Role     Role

	// EventContent / EventReasoning: the new fragment. For reasoning,
	// Reasoning carries the running accumulation.
	Text      string
	Reasoning string

	// EventToolExecution
	ExecutionKind ToolExecutionKind
	ExecutedTool  *ExecutedTool

	// EventToolCalls: replace-style snapshot of the current list.
	ToolCalls []ToolCall

	// EventComplete
	Message      *Message
	FinishReason string
	Usage        *Usage

	// EventError
	Err error
}

// Usage captures token accounting reported by the provider.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
}

// Stream yields events until io.EOF. The consumer sees exactly one
// terminal event per run: EventComplete or EventError.
type Stream interface {
	Recv() (Event, error)
	Close() error
}

func UserText(text string) Message {
	return Message{Role: RoleUser, Content: text}
}

func AssistantText(text string) Message {
	return Message{Role: RoleAssistant, Content: text}
}

func ToolResultMessage(callID, content string) Message {
	return Message{Role: RoleTool, ToolCallID: callID, Content: content}
}
