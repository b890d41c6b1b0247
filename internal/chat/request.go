package chat

import "strings"

const defaultSystemPrompt = "You are a helpful assistant that may use tools when they help answer the user's question."

const (
	defaultTemperature = 0.7
	defaultTopP        = 0.95
)

// chatRequest is the wire shape of a streamed completion request.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []wireMessage `json:"messages"`
	Tools       []any         `json:"tools,omitempty"`
	ToolChoice  string        `json:"tool_choice,omitempty"`
	Temperature *float64      `json:"temperature,omitempty"`
	TopP        *float64      `json:"top_p,omitempty"`
	Stream      bool          `json:"stream"`
}

// buildSystemPrompt concatenates the default instruction with the
// user's custom prompt, separated by a blank line.
func buildSystemPrompt(custom string) string {
	custom = strings.TrimSpace(custom)
	if custom == "" {
		return defaultSystemPrompt
	}
	return defaultSystemPrompt + "\n\n" + custom
}

// buildChatRequest assembles the final request. Tools and tool_choice
// are present iff the tool catalog is non-empty; streaming is always on.
func buildChatRequest(model string, system string, history []wireMessage, tools []any, temperature, topP *float64) chatRequest {
	messages := make([]wireMessage, 0, len(history)+1)
	messages = append(messages, wireMessage{Role: string(RoleSystem), Content: system})
	messages = append(messages, history...)

	req := chatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: samplingParam(temperature, defaultTemperature),
		TopP:        samplingParam(topP, defaultTopP),
		Stream:      true,
	}
	if len(tools) > 0 {
		req.Tools = tools
		req.ToolChoice = "auto"
	}
	return req
}

func samplingParam(value *float64, fallback float64) *float64 {
	if value != nil {
		return value
	}
	v := fallback
	return &v
}

// normalizeBaseURL strips a trailing slash and a trailing /openai/v1 so
// the client's own path suffixing does not double-apply.
func normalizeBaseURL(raw string) string {
	url := strings.TrimSuffix(strings.TrimSpace(raw), "/")
	url = strings.TrimSuffix(url, "/openai/v1")
	return strings.TrimSuffix(url, "/")
}
