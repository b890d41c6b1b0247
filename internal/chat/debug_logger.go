package chat

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DebugLogger writes pipeline diagnostics to a session JSONL file.
// All methods are safe on a nil receiver, so callers never need to
// guard their logging calls.
type DebugLogger struct {
	sessionID string
	mu        sync.Mutex
	file      *os.File
	writer    *bufio.Writer
	closed    bool
}

type debugEntry struct {
	Timestamp string `json:"timestamp"`
	SessionID string `json:"session_id"`
	Type      string `json:"type"`
	Message   string `json:"message,omitempty"`
	Attempt   int    `json:"attempt,omitempty"`
	Model     string `json:"model,omitempty"`
	Detail    any    `json:"detail,omitempty"`
}

// NewDebugLogger opens a JSONL log file for the session under baseDir.
func NewDebugLogger(baseDir, sessionID string) (*DebugLogger, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create debug log dir: %w", err)
	}
	path := filepath.Join(baseDir, sessionID+".jsonl")
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open debug log: %w", err)
	}
	return &DebugLogger{
		sessionID: sessionID,
		file:      file,
		writer:    bufio.NewWriter(file),
	}, nil
}

func (l *DebugLogger) log(entryType, message string, attempt int, model string, detail any) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	entry := debugEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		SessionID: l.sessionID,
		Type:      entryType,
		Message:   message,
		Attempt:   attempt,
		Model:     model,
		Detail:    detail,
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	l.writer.Write(data)
	l.writer.WriteByte('\n')
	l.writer.Flush()
}

// Warn records a provider or normalization anomaly.
func (l *DebugLogger) Warn(format string, args ...any) {
	l.log("warning", fmt.Sprintf(format, args...), 0, "", nil)
}

// LogRequest records an outbound completion request.
func (l *DebugLogger) LogRequest(model string, messageCount, toolCount int) {
	l.log("request", "", 0, model, map[string]int{
		"messages": messageCount,
		"tools":    toolCount,
	})
}

// LogRetry records a retry attempt. This is where the retry count of a
// recovered tool_use_failed sequence is visible.
func (l *DebugLogger) LogRetry(attempt, maxAttempts int, err error) {
	detail := map[string]any{"max_attempts": maxAttempts}
	if err != nil {
		detail["error"] = err.Error()
	}
	l.log("retry", "retrying after tool_use_failed", attempt, "", detail)
}

// LogEvent records a consumer-bound event type.
func (l *DebugLogger) LogEvent(event Event) {
	l.log("event", string(event.Type), 0, "", nil)
}

// Close flushes and closes the log file.
func (l *DebugLogger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	l.writer.Flush()
	return l.file.Close()
}
