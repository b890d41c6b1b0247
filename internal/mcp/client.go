// Package mcp connects to configured MCP servers over stdio and exposes
// their tools to the completion pipeline.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/quanticsoul4772/groqchat/internal/chat"
)

const clientVersion = "1.0.0"

// Client owns one stdio MCP server process and its session. The session
// pointer doubles as the running flag: nil means stopped.
type Client struct {
	name   string
	config ServerConfig

	mu      sync.RWMutex
	session *mcp.ClientSession
	tools   []chat.ToolSpec
}

// NewClient creates a client for one configured server. Nothing is
// launched until Start.
func NewClient(name string, config ServerConfig) *Client {
	return &Client{name: name, config: config}
}

// Start launches the server process, connects, and discovers its tools.
// Starting an already-connected client is a no-op.
func (c *Client) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != nil {
		return nil
	}

	cmd := exec.CommandContext(ctx, c.config.Command, c.config.Args...)
	cmd.Env = serverEnv(c.config.Env)

	client := mcp.NewClient(&mcp.Implementation{Name: "groqchat", Version: clientVersion}, nil)
	session, err := client.Connect(ctx, &mcp.CommandTransport{Command: cmd}, nil)
	if err != nil {
		return fmt.Errorf("mcp server %s: connect: %w", c.name, err)
	}

	tools, err := discoverTools(ctx, session)
	if err != nil {
		session.Close()
		return fmt.Errorf("mcp server %s: list tools: %w", c.name, err)
	}

	c.session = session
	c.tools = tools
	return nil
}

// Stop closes the session and forgets the discovered tools.
func (c *Client) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	err := c.session.Close()
	c.session = nil
	c.tools = nil
	return err
}

func (c *Client) IsRunning() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session != nil
}

// Tools returns the tools discovered at connect time.
func (c *Client) Tools() []chat.ToolSpec {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tools
}

// CallTool invokes one tool and flattens its content to text. A tool
// that reports an error surfaces as a Go error so the host can feed it
// back to the model as a failed tool result.
func (c *Client) CallTool(ctx context.Context, name string, args json.RawMessage) (string, error) {
	c.mu.RLock()
	session := c.session
	c.mu.RUnlock()
	if session == nil {
		return "", fmt.Errorf("mcp server %s is not running", c.name)
	}

	var arguments map[string]any
	if len(args) > 0 {
		if err := json.Unmarshal(args, &arguments); err != nil {
			return "", fmt.Errorf("tool %s: bad arguments: %w", name, err)
		}
	}

	result, err := session.CallTool(ctx, &mcp.CallToolParams{Name: name, Arguments: arguments})
	if err != nil {
		return "", fmt.Errorf("tool %s: %w", name, err)
	}
	text := contentText(result.Content)
	if result.IsError {
		return "", fmt.Errorf("tool %s failed: %s", name, text)
	}
	return text, nil
}

// discoverTools converts the server's tool list into pipeline specs. A
// tool whose schema is not an object map gets a nil Schema; the catalog
// adapter substitutes an empty parameters object downstream.
func discoverTools(ctx context.Context, session *mcp.ClientSession) ([]chat.ToolSpec, error) {
	listed, err := session.ListTools(ctx, nil)
	if err != nil {
		return nil, err
	}
	specs := make([]chat.ToolSpec, 0, len(listed.Tools))
	for _, tool := range listed.Tools {
		spec := chat.ToolSpec{Name: tool.Name, Description: tool.Description}
		if schema, ok := tool.InputSchema.(map[string]any); ok {
			spec.Schema = schema
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// serverEnv is the process environment plus the configured overrides.
func serverEnv(overrides map[string]string) []string {
	env := os.Environ()
	for k, v := range overrides {
		env = append(env, k+"="+v)
	}
	return env
}

// contentText flattens MCP content blocks to a single string. Non-text
// blocks are JSON-serialized so nothing is silently dropped.
func contentText(content []mcp.Content) string {
	var b strings.Builder
	for _, block := range content {
		if text, ok := block.(*mcp.TextContent); ok {
			b.WriteString(text.Text)
			continue
		}
		if data, err := json.Marshal(block); err == nil {
			b.Write(data)
		}
	}
	return b.String()
}
