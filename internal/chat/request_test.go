package chat

import (
	"strings"
	"testing"
)

func TestBuildSystemPrompt(t *testing.T) {
	if got := buildSystemPrompt(""); got != defaultSystemPrompt {
		t.Errorf("empty custom prompt changed the default: %q", got)
	}
	if got := buildSystemPrompt("  \n "); got != defaultSystemPrompt {
		t.Errorf("whitespace custom prompt changed the default: %q", got)
	}

	got := buildSystemPrompt("Always answer in French.")
	if !strings.HasPrefix(got, defaultSystemPrompt+"\n\n") {
		t.Errorf("custom prompt does not extend the default: %q", got)
	}
	if !strings.HasSuffix(got, "Always answer in French.") {
		t.Errorf("custom prompt missing: %q", got)
	}
}

func TestBuildChatRequest_SystemMessageFirst(t *testing.T) {
	history := []wireMessage{wireUser("hi")}
	req := buildChatRequest("llama-3.3-70b-versatile", "sys", history, nil, nil, nil)

	if len(req.Messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(req.Messages))
	}
	if req.Messages[0].Role != "system" || req.Messages[0].Content != "sys" {
		t.Errorf("first message = %#v, want the system prompt", req.Messages[0])
	}
	if !req.Stream {
		t.Error("streaming must always be requested")
	}
}

func TestBuildChatRequest_ToolChoiceOnlyWithTools(t *testing.T) {
	req := buildChatRequest("m", "s", nil, nil, nil, nil)
	if req.Tools != nil || req.ToolChoice != "" {
		t.Errorf("empty catalog produced tools=%v tool_choice=%q", req.Tools, req.ToolChoice)
	}

	req = buildChatRequest("m", "s", nil, []any{BuiltinTool{Type: BuiltinBrowserSearch}}, nil, nil)
	if req.ToolChoice != "auto" {
		t.Errorf("tool_choice = %q, want auto", req.ToolChoice)
	}
}

func TestBuildChatRequest_SamplingDefaults(t *testing.T) {
	req := buildChatRequest("m", "s", nil, nil, nil, nil)
	if req.Temperature == nil || *req.Temperature != defaultTemperature {
		t.Errorf("temperature = %v, want default", req.Temperature)
	}
	if req.TopP == nil || *req.TopP != defaultTopP {
		t.Errorf("top_p = %v, want default", req.TopP)
	}

	temp, topP := 0.2, 0.5
	req = buildChatRequest("m", "s", nil, nil, &temp, &topP)
	if *req.Temperature != 0.2 || *req.TopP != 0.5 {
		t.Errorf("overrides ignored: temperature=%v top_p=%v", *req.Temperature, *req.TopP)
	}
}

func TestNormalizeBaseURL(t *testing.T) {
	cases := []struct{ in, want string }{
		{"https://api.groq.com", "https://api.groq.com"},
		{"https://api.groq.com/", "https://api.groq.com"},
		{"https://api.groq.com/openai/v1", "https://api.groq.com"},
		{"https://api.groq.com/openai/v1/", "https://api.groq.com"},
		{" http://localhost:8080/ ", "http://localhost:8080"},
	}
	for _, tc := range cases {
		if got := normalizeBaseURL(tc.in); got != tc.want {
			t.Errorf("normalizeBaseURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
