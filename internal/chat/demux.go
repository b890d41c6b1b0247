package chat

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// accumulator holds per-attempt stream state. It lives for exactly one
// attempt and is discarded on retry; a single task owns it, so no
// locking is needed.
type accumulator struct {
	streamID      string
	content       strings.Builder
	reasoning     strings.Builder
	toolCalls     map[int]*ToolCall
	toolOrder     []int
	executed      map[int]*ExecutedTool
	executedOrder []int
	completed     map[int]bool // executed-tool indexes that already emitted "complete"
	firstChunk    bool
	finishReason  string
	usage         *Usage
}

func newAccumulator() *accumulator {
	return &accumulator{
		toolCalls: make(map[int]*ToolCall),
		executed:  make(map[int]*ExecutedTool),
		completed: make(map[int]bool),
	}
}

// snapshotToolCalls returns the current client tool calls in index
// order. Consumers expect a replace-style snapshot, not a delta.
func (a *accumulator) snapshotToolCalls() []ToolCall {
	if len(a.toolOrder) == 0 {
		return nil
	}
	order := append([]int(nil), a.toolOrder...)
	sort.Ints(order)
	calls := make([]ToolCall, 0, len(order))
	for _, idx := range order {
		calls = append(calls, *a.toolCalls[idx])
	}
	return calls
}

func (a *accumulator) snapshotExecutedTools() []ExecutedTool {
	if len(a.executedOrder) == 0 {
		return nil
	}
	order := append([]int(nil), a.executedOrder...)
	sort.Ints(order)
	tools := make([]ExecutedTool, 0, len(order))
	for _, idx := range order {
		tools = append(tools, *a.executed[idx])
	}
	return tools
}

// finalMessage materializes the assistant message at stream end.
func (a *accumulator) finalMessage() *Message {
	return &Message{
		Role:          RoleAssistant,
		Content:       a.content.String(),
		ToolCalls:     a.snapshotToolCalls(),
		Reasoning:     a.reasoning.String(),
		ExecutedTools: a.snapshotExecutedTools(),
	}
}

// runDemux consumes the chunk stream and emits typed events in arrival
// order. On success it emits EventComplete and returns nil; on failure
// it returns the error without emitting a terminal event, leaving the
// retry controller to decide.
func runDemux(ctx context.Context, chunks chunkStream, emit func(Event), logger *DebugLogger) error {
	defer chunks.Close()

	acc := newAccumulator()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		chunk, err := chunks.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		processChunk(acc, chunk, emit, logger)
	}

	if acc.finishReason == "" {
		return pipelineErr(KindStreamTruncated, "stream ended without a finish reason")
	}

	emit(Event{
		Type:         EventComplete,
		Message:      acc.finalMessage(),
		FinishReason: acc.finishReason,
		Usage:        acc.usage,
	})
	return nil
}

func processChunk(acc *accumulator, chunk *chatChunk, emit func(Event), logger *DebugLogger) {
	if !acc.firstChunk {
		acc.firstChunk = true
		acc.streamID = chunk.ID
		if acc.streamID == "" {
			acc.streamID = uuid.NewString()
		}
		emit(Event{Type: EventStart, StreamID: acc.streamID, Role: RoleAssistant})
	}

	if chunk.Usage != nil {
		acc.usage = &Usage{
			PromptTokens:     chunk.Usage.PromptTokens,
			CompletionTokens: chunk.Usage.CompletionTokens,
		}
	}

	for _, choice := range chunk.Choices {
		if choice.Index != 0 {
			continue
		}
		delta := choice.Delta

		if delta.Content != "" {
			acc.content.WriteString(delta.Content)
			emit(Event{Type: EventContent, Text: delta.Content})
		}
		if delta.Reasoning != "" {
			acc.reasoning.WriteString(delta.Reasoning)
			emit(Event{Type: EventReasoning, Text: delta.Reasoning, Reasoning: acc.reasoning.String()})
		}
		for _, tool := range delta.ExecutedTools {
			applyExecutedToolDelta(acc, tool, emit, logger)
		}
		if len(delta.ToolCalls) > 0 {
			for _, call := range delta.ToolCalls {
				applyToolCallDelta(acc, call)
			}
			emit(Event{Type: EventToolCalls, ToolCalls: acc.snapshotToolCalls()})
		}
		if choice.FinishReason != "" {
			acc.finishReason = choice.FinishReason
		}
	}
}

// applyToolCallDelta creates or amends the client tool call at the
// delta's index. Arguments grow by string concatenation and are never
// parsed here; name and id are only overwritten by non-empty values.
func applyToolCallDelta(acc *accumulator, delta deltaToolCall) {
	call, ok := acc.toolCalls[delta.Index]
	if !ok {
		id := delta.ID
		if id == "" {
			id = fmt.Sprintf("tool_%d_%d", time.Now().UnixMilli(), delta.Index)
		}
		callType := delta.Type
		if callType == "" {
			callType = "function"
		}
		acc.toolCalls[delta.Index] = &ToolCall{
			Index: delta.Index,
			ID:    id,
			Type:  callType,
			Function: ToolFunction{
				Name:      delta.Function.Name,
				Arguments: delta.Function.Arguments,
			},
		}
		acc.toolOrder = append(acc.toolOrder, delta.Index)
		return
	}

	call.Function.Arguments += delta.Function.Arguments
	if delta.Function.Name != "" {
		call.Function.Name = delta.Function.Name
	}
	if delta.ID != "" {
		call.ID = delta.ID
	}
}

// applyExecutedToolDelta creates or completes the provider-executed
// tool at the delta's index. Name and arguments are fixed at first
// observation; a later delta disagreeing about them is a provider bug,
// logged and ignored.
func applyExecutedToolDelta(acc *accumulator, delta deltaExecutedTool, emit func(Event), logger *DebugLogger) {
	tool, ok := acc.executed[delta.Index]
	if !ok {
		tool = &ExecutedTool{
			Index:         delta.Index,
			Type:          delta.Type,
			Name:          delta.Name,
			Arguments:     delta.Arguments,
			Output:        delta.Output,
			SearchResults: delta.SearchResults,
		}
		acc.executed[delta.Index] = tool
		acc.executedOrder = append(acc.executedOrder, delta.Index)

		snapshot := *tool
		emit(Event{Type: EventToolExecution, ExecutionKind: ToolExecutionStart, ExecutedTool: &snapshot})
		if tool.Output != nil {
			acc.completed[delta.Index] = true
			done := *tool
			emit(Event{Type: EventToolExecution, ExecutionKind: ToolExecutionComplete, ExecutedTool: &done})
		}
		return
	}

	if delta.Name != "" && delta.Name != tool.Name {
		logger.Warn("executed tool %d: provider changed name %q -> %q, ignoring", delta.Index, tool.Name, delta.Name)
	}
	if delta.Arguments != "" && delta.Arguments != tool.Arguments {
		logger.Warn("executed tool %d: provider changed arguments, ignoring", delta.Index)
	}
	if len(delta.SearchResults) > 0 && !bytes.Equal(delta.SearchResults, tool.SearchResults) {
		tool.SearchResults = delta.SearchResults
	}
	if delta.Output != nil && (tool.Output == nil || *tool.Output != *delta.Output) {
		tool.Output = delta.Output
		if !acc.completed[delta.Index] {
			acc.completed[delta.Index] = true
			snapshot := *tool
			emit(Event{Type: EventToolExecution, ExecutionKind: ToolExecutionComplete, ExecutedTool: &snapshot})
		}
	}
}
