package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/quanticsoul4772/groqchat/internal/chat"
)

// toolNameSep joins the server name and tool name in the aggregated
// catalog, keeping identically named tools from different servers apart.
const toolNameSep = "_"

// Manager handles MCP server lifecycle and aggregates their tools.
type Manager struct {
	config  *Config
	clients map[string]*Client
	mu      sync.RWMutex
}

// NewManager creates a manager over the given configuration.
func NewManager(cfg *Config) *Manager {
	if cfg == nil {
		cfg = &Config{Servers: map[string]ServerConfig{}}
	}
	return &Manager{
		config:  cfg,
		clients: make(map[string]*Client),
	}
}

// StartAll connects every configured server concurrently. Servers that
// fail to start are reported but do not block the others.
func (m *Manager) StartAll(ctx context.Context) map[string]error {
	names := m.config.ServerNames()

	var wg sync.WaitGroup
	var errMu sync.Mutex
	failures := make(map[string]error)

	for _, name := range names {
		client := NewClient(name, m.config.Servers[name])
		m.mu.Lock()
		m.clients[name] = client
		m.mu.Unlock()

		wg.Add(1)
		go func(name string, client *Client) {
			defer wg.Done()
			if err := client.Start(ctx); err != nil {
				errMu.Lock()
				failures[name] = err
				errMu.Unlock()
			}
		}(name, client)
	}
	wg.Wait()
	return failures
}

// StopAll disconnects every server.
func (m *Manager) StopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, client := range m.clients {
		client.Stop()
	}
}

// Servers returns the configured server names, sorted.
func (m *Manager) Servers() []string {
	return m.config.ServerNames()
}

// Client returns the client for a named server, if any.
func (m *Manager) Client(name string) (*Client, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	client, ok := m.clients[name]
	return client, ok
}

// AllTools aggregates the discovered tools of all running servers, with
// each tool name prefixed by its server name.
func (m *Manager) AllTools() []chat.ToolSpec {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var specs []chat.ToolSpec
	for _, name := range m.config.ServerNames() {
		client, ok := m.clients[name]
		if !ok || !client.IsRunning() {
			continue
		}
		for _, tool := range client.Tools() {
			specs = append(specs, chat.ToolSpec{
				Name:        prefixToolName(name, tool.Name),
				Description: tool.Description,
				Schema:      tool.Schema,
			})
		}
	}
	return specs
}

// CallTool routes a prefixed tool name back to its server.
func (m *Manager) CallTool(ctx context.Context, prefixed string, args json.RawMessage) (string, error) {
	server, tool, ok := m.splitName(prefixed)
	if !ok {
		return "", fmt.Errorf("unknown tool: %s", prefixed)
	}
	client, found := m.Client(server)
	if !found {
		return "", fmt.Errorf("no MCP server for tool %s", prefixed)
	}
	return client.CallTool(ctx, tool, args)
}

func prefixToolName(server, tool string) string {
	return server + toolNameSep + tool
}

// splitToolName finds the server owning a prefixed tool name. Server
// names may themselves contain the separator, so the longest matching
// prefix wins.
func (m *Manager) splitName(prefixed string) (string, string, bool) {
	return splitToolNameAgainst(prefixed, m.config.ServerNames())
}

func splitToolNameAgainst(prefixed string, servers []string) (string, string, bool) {
	var bestServer, bestTool string
	for _, server := range servers {
		prefix := server + toolNameSep
		if strings.HasPrefix(prefixed, prefix) && len(server) > len(bestServer) {
			bestServer = server
			bestTool = strings.TrimPrefix(prefixed, prefix)
		}
	}
	if bestServer == "" || bestTool == "" {
		return "", "", false
	}
	return bestServer, bestTool, true
}
