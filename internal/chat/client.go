package chat

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL    = "https://api.groq.com"
	completionsPath   = "/openai/v1/chat/completions"
	httpClientTimeout = 10 * time.Minute
)

// defaultHTTPClient is shared across turns; each turn owns one response.
var defaultHTTPClient = &http.Client{
	Timeout: httpClientTimeout,
}

// Client talks to a Groq-style OpenAI-compatible completions endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient builds a client. baseURL may be empty for the default
// endpoint; overrides are normalized so path suffixing applies once.
func NewClient(apiKey, baseURL string) *Client {
	url := defaultBaseURL
	if baseURL != "" {
		url = normalizeBaseURL(baseURL)
	}
	return &Client{
		baseURL:    url,
		apiKey:     apiKey,
		httpClient: defaultHTTPClient,
	}
}

// chatChunk is one streamed SSE payload.
type chatChunk struct {
	ID      string        `json:"id"`
	Choices []chunkChoice `json:"choices"`
	Usage   *chunkUsage   `json:"usage,omitempty"`
	Error   *APIError     `json:"error,omitempty"`
}

type chunkChoice struct {
	Index        int        `json:"index"`
	Delta        chunkDelta `json:"delta"`
	FinishReason string     `json:"finish_reason"`
}

// chunkDelta carries any subset of the incremental fields. Unknown
// fields are ignored without error.
type chunkDelta struct {
	Role          string              `json:"role,omitempty"`
	Content       string              `json:"content,omitempty"`
	Reasoning     string              `json:"reasoning,omitempty"`
	ToolCalls     []deltaToolCall     `json:"tool_calls,omitempty"`
	ExecutedTools []deltaExecutedTool `json:"executed_tools,omitempty"`
}

type deltaToolCall struct {
	Index    int    `json:"index"`
	ID       string `json:"id,omitempty"`
	Type     string `json:"type,omitempty"`
	Function struct {
		Name      string `json:"name,omitempty"`
		Arguments string `json:"arguments,omitempty"`
	} `json:"function,omitempty"`
}

type deltaExecutedTool struct {
	Index         int             `json:"index"`
	Type          string          `json:"type,omitempty"`
	Name          string          `json:"name,omitempty"`
	Arguments     string          `json:"arguments,omitempty"`
	Output        *string         `json:"output,omitempty"`
	SearchResults json.RawMessage `json:"search_results,omitempty"`
}

type chunkUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// apiErrorBody is the envelope of a non-2xx response.
type apiErrorBody struct {
	Error *APIError `json:"error"`
}

// chunkStream yields parsed chunks until io.EOF.
type chunkStream interface {
	Recv() (*chatChunk, error)
	Close() error
}

// OpenStream issues the completion request and returns the chunk
// stream. Provider errors delivered in the body or as error chunks
// surface as *APIError.
func (c *Client) OpenStream(ctx context.Context, req chatRequest) (chunkStream, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+completionsPath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("completion request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		data, _ := io.ReadAll(resp.Body)
		var envelope apiErrorBody
		if jsonErr := json.Unmarshal(data, &envelope); jsonErr == nil && envelope.Error != nil {
			envelope.Error.Status = resp.StatusCode
			return nil, envelope.Error
		}
		return nil, &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(data))}
	}

	scanner := bufio.NewScanner(resp.Body)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	return &sseChunkStream{body: resp.Body, scanner: scanner}, nil
}

// sseChunkStream parses text/event-stream payloads into chatChunks.
type sseChunkStream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	done    bool
}

func (s *sseChunkStream) Recv() (*chatChunk, error) {
	if s.done {
		return nil, io.EOF
	}
	for s.scanner.Scan() {
		line := s.scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		data := strings.TrimPrefix(line, "data: ")
		if data == "[DONE]" {
			s.done = true
			return nil, io.EOF
		}

		var chunk chatChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			// Malformed keep-alives and unknown payloads are skipped.
			continue
		}
		if chunk.Error != nil {
			s.done = true
			return nil, chunk.Error
		}
		return &chunk, nil
	}
	s.done = true
	if err := s.scanner.Err(); err != nil {
		return nil, fmt.Errorf("streaming error: %w", err)
	}
	return nil, io.EOF
}

func (s *sseChunkStream) Close() error {
	return s.body.Close()
}
