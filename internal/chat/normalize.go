package chat

import (
	"encoding/json"
	"fmt"
	"strings"
)

// wireMessage is the shape the completion service accepts. User content
// is always a part sequence; assistant and tool content is always a
// scalar string.
type wireMessage struct {
	Role       string         `json:"role"`
	Content    any            `json:"content"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
	ToolCalls  []wireToolCall `json:"tool_calls,omitempty"`
}

type wireToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function ToolFunction `json:"function"`
}

// normalizeMessages coerces a conversation into wire shape, preserving
// order and count. UI-only fields (reasoning, executed tools, streaming
// state) never reach the wire.
func normalizeMessages(messages []Message, logger *DebugLogger) ([]wireMessage, error) {
	out := make([]wireMessage, 0, len(messages))
	for i, msg := range messages {
		wire, err := normalizeMessage(msg, logger)
		if err != nil {
			return nil, wrapErr(KindInvalidMessage, fmt.Sprintf("message %d", i), err)
		}
		out = append(out, wire)
	}
	return out, nil
}

func normalizeMessage(msg Message, logger *DebugLogger) (wireMessage, error) {
	switch msg.Role {
	case RoleUser:
		return wireMessage{Role: string(msg.Role), Content: normalizeUserContent(msg.Content, logger)}, nil
	case RoleAssistant:
		wire := wireMessage{Role: string(msg.Role), Content: coerceScalar(msg.Content, logger)}
		for _, call := range msg.ToolCalls {
			wire.ToolCalls = append(wire.ToolCalls, wireToolCall{
				ID:       call.ID,
				Type:     call.Type,
				Function: call.Function,
			})
		}
		return wire, nil
	case RoleTool:
		if msg.ToolCallID == "" {
			return wireMessage{}, fmt.Errorf("tool message missing tool_call_id")
		}
		return wireMessage{
			Role:       string(msg.Role),
			Content:    coerceToolContent(msg.Content),
			ToolCallID: msg.ToolCallID,
		}, nil
	case RoleSystem:
		return wireMessage{Role: string(msg.Role), Content: coerceScalar(msg.Content, logger)}, nil
	default:
		return wireMessage{}, fmt.Errorf("unknown role %q", msg.Role)
	}
}

// normalizeUserContent ensures user content is a part sequence.
func normalizeUserContent(content any, logger *DebugLogger) []ContentPart {
	switch v := content.(type) {
	case string:
		return []ContentPart{{Type: "text", Text: v}}
	case []ContentPart:
		out := make([]ContentPart, len(v))
		copy(out, v)
		for i := range out {
			if out[i].Type == "" {
				out[i].Type = "text"
			}
		}
		return out
	case []any:
		out := make([]ContentPart, 0, len(v))
		for _, elem := range v {
			out = append(out, partFromAny(elem))
		}
		return out
	case nil:
		return []ContentPart{{Type: "text", Text: ""}}
	default:
		logger.Warn("user content is neither string nor sequence, replacing with empty text")
		return []ContentPart{{Type: "text", Text: ""}}
	}
}

func partFromAny(elem any) ContentPart {
	switch p := elem.(type) {
	case ContentPart:
		if p.Type == "" {
			p.Type = "text"
		}
		return p
	case string:
		return ContentPart{Type: "text", Text: p}
	case map[string]any:
		part := ContentPart{Type: "text"}
		if t, ok := p["type"].(string); ok && t != "" {
			part.Type = t
		}
		if text, ok := p["text"].(string); ok {
			part.Text = text
		}
		if img, ok := p["image_url"].(map[string]any); ok {
			if url, ok := img["url"].(string); ok {
				part.ImageURL = &ImageURL{URL: url}
			}
		}
		return part
	default:
		return ContentPart{Type: "text", Text: fmt.Sprintf("%v", elem)}
	}
}

// coerceScalar flattens assistant/system content to a plain string. A
// part sequence becomes the concatenation of its text parts; anything
// else is JSON-serialized as a last resort.
func coerceScalar(content any, logger *DebugLogger) string {
	switch v := content.(type) {
	case string:
		return v
	case []ContentPart:
		var b strings.Builder
		for _, part := range v {
			if part.Type == "text" {
				b.WriteString(part.Text)
			}
		}
		return b.String()
	case []any:
		var b strings.Builder
		for _, elem := range v {
			part := partFromAny(elem)
			if part.Type == "text" {
				b.WriteString(part.Text)
			}
		}
		return b.String()
	case nil:
		return ""
	default:
		logger.Warn("assistant content is not a string, serializing")
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}

// coerceToolContent flattens tool result content to a string, producing
// a literal placeholder if serialization fails.
func coerceToolContent(content any) string {
	switch v := content.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return "[unserializable tool result]"
		}
		return string(data)
	}
}
