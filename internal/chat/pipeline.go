// Package chat implements the streaming completion pipeline: message
// normalization, history pruning, tool catalog assembly, stream
// demultiplexing and tool_use_failed retries.
package chat

import (
	"context"
	"errors"

	"github.com/quanticsoul4772/groqchat/internal/models"
)

// apiKeyPlaceholder is the sentinel left in fresh config files; it is
// treated the same as a missing key.
const apiKeyPlaceholder = "<replace me>"

// Settings are the per-run options recognized by the pipeline.
type Settings struct {
	APIKey             string
	Model              string
	CustomAPIBaseURL   string
	Temperature        *float64
	TopP               *float64
	CustomSystemPrompt string
	BuiltinTools       BuiltinToolSettings
}

// RunRequest bundles everything one completion turn needs.
type RunRequest struct {
	Conversation []Message
	ModelID      string // optional override; falls back to Settings.Model, then the default
	Settings     Settings
	Registry     *models.Registry
	Tools        []ToolSpec // MCP-discovered tools
	Logger       *DebugLogger
}

// RunCompletion orchestrates one completion turn. The returned stream
// delivers typed events in arrival order; the consumer sees exactly one
// terminal event, EventComplete or EventError.
func RunCompletion(ctx context.Context, req RunRequest) Stream {
	return newEventStream(ctx, func(ctx context.Context, events chan<- Event) error {
		if err := run(ctx, req, events); err != nil {
			events <- Event{Type: EventError, Err: asPipelineError(ctx, err)}
		}
		return nil
	})
}

func run(ctx context.Context, req RunRequest, events chan<- Event) error {
	key := req.Settings.APIKey
	if key == "" || key == apiKeyPlaceholder {
		return pipelineErr(KindConfiguration, "no API key configured: set GROQ_API_KEY or add api_key to the config file")
	}

	modelID := req.ModelID
	if modelID == "" {
		modelID = req.Settings.Model
	}
	if modelID == "" {
		modelID = models.DefaultModel
	}
	info := req.Registry.Resolve(modelID)

	if hasImageParts(req.Conversation) && !info.SupportsVision {
		return pipelineErr(KindCapability,
			"model %s does not support images; pick a vision-capable model (for example %s)",
			modelID, "meta-llama/llama-4-scout-17b-16e-instruct")
	}

	tools := buildToolCatalog(req.Tools, req.Settings.BuiltinTools, info.SupportsBuiltinTools)

	history, err := normalizeMessages(req.Conversation, req.Logger)
	if err != nil {
		return err
	}

	system := buildSystemPrompt(req.Settings.CustomSystemPrompt)
	est := defaultEstimator()
	history, err = pruneHistory(history, est.Count(system)+messageOverheadTokens, info.ContextWindow, est)
	if err != nil {
		return err
	}

	chatReq := buildChatRequest(modelID, system, history, tools, req.Settings.Temperature, req.Settings.TopP)
	req.Logger.LogRequest(modelID, len(chatReq.Messages), len(tools))

	client := NewClient(key, req.Settings.CustomAPIBaseURL)
	open := func(ctx context.Context) (chunkStream, error) {
		return client.OpenStream(ctx, chatReq)
	}
	return runWithRetry(ctx, open, events, req.Logger)
}

// hasImageParts reports whether any user message carries an image part.
func hasImageParts(messages []Message) bool {
	for _, msg := range messages {
		if msg.Role != RoleUser {
			continue
		}
		switch content := msg.Content.(type) {
		case []ContentPart:
			for _, part := range content {
				if part.Type == "image_url" || part.ImageURL != nil {
					return true
				}
			}
		case []any:
			for _, elem := range content {
				part := partFromAny(elem)
				if part.Type == "image_url" || part.ImageURL != nil {
					return true
				}
			}
		}
	}
	return false
}

// asPipelineError guarantees every terminal error carries a Kind.
func asPipelineError(ctx context.Context, err error) error {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return err
	}
	if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return wrapErr(KindCancelled, "cancelled", err)
	}
	if IsToolUseFailed(err) {
		return wrapErr(KindRetryableTool, "tool call failed", err)
	}
	return wrapErr(KindTransport, "completion failed", err)
}
