package chat

import (
	"errors"
	"fmt"
	"strings"
)

// Kind is the machine-readable classification attached to every
// terminal pipeline error.
type Kind string

const (
	KindConfiguration   Kind = "configuration"
	KindCapability      Kind = "capability"
	KindWindowTooSmall  Kind = "window_too_small"
	KindInvalidMessage  Kind = "invalid_message"
	KindTransport       Kind = "transport"
	KindRetryableTool   Kind = "retryable_tool"
	KindStreamTruncated Kind = "stream_truncated"
	KindCancelled       Kind = "cancelled"
)

// PipelineError carries a human-readable message plus a Kind tag.
type PipelineError struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *PipelineError) Error() string {
	if e.Err != nil && e.Msg != "" {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Msg
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

func pipelineErr(kind Kind, format string, args ...any) *PipelineError {
	return &PipelineError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func wrapErr(kind Kind, msg string, err error) *PipelineError {
	return &PipelineError{Kind: kind, Msg: msg, Err: err}
}

// KindOf extracts the Kind from an error chain, defaulting to transport.
func KindOf(err error) Kind {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	if errors.Is(err, errToolUseFailed) {
		return KindRetryableTool
	}
	return KindTransport
}

// toolUseFailedCode is the provider error code the retry controller
// matches on. No other error class is retried.
const toolUseFailedCode = "tool_use_failed"

var errToolUseFailed = errors.New(toolUseFailedCode)

// APIError is a structured error returned by the completion service,
// either in a non-2xx body or inside an error chunk.
type APIError struct {
	Code    string `json:"code"`
	Type    string `json:"type"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("API error (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("API error: %s", e.Message)
}

// IsToolUseFailed reports whether err signals the provider's
// tool_use_failed class, by code or by message substring.
func IsToolUseFailed(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == toolUseFailedCode {
			return true
		}
		return strings.Contains(apiErr.Message, toolUseFailedCode)
	}
	return strings.Contains(err.Error(), toolUseFailedCode)
}
