package chat

import (
	"context"
	"fmt"
)

// maxToolUseAttempts bounds the tool_use_failed retry loop: one initial
// attempt plus three retries.
const maxToolUseAttempts = 4

// runWithRetry drives completion attempts. open starts a fresh attempt;
// each attempt gets a fresh accumulator inside runDemux, so no state
// leaks across retries.
//
// Only the provider's tool_use_failed class is retried. Each attempt's
// events are held back until the attempt finishes cleanly and flushed
// only then, so a failed attempt is never observable: the consumer sees
// exactly one stream-start and one terminal event no matter how many
// attempts it took. A tool_use_failed error chunk arriving mid-stream,
// after content deltas, is therefore just another retryable failure.
func runWithRetry(ctx context.Context, open func(ctx context.Context) (chunkStream, error), events chan<- Event, logger *DebugLogger) error {
	var lastErr error
	for attempt := 1; attempt <= maxToolUseAttempts; attempt++ {
		var pending []Event
		hold := func(event Event) {
			logger.LogEvent(event)
			pending = append(pending, event)
		}

		chunks, err := open(ctx)
		if err == nil {
			err = runDemux(ctx, chunks, hold, logger)
		}
		if err == nil {
			for _, event := range pending {
				select {
				case events <- event:
				case <-ctx.Done():
					return wrapErr(KindCancelled, "cancelled", ctx.Err())
				}
			}
			return nil
		}
		if ctx.Err() != nil {
			return wrapErr(KindCancelled, "cancelled", ctx.Err())
		}
		if !IsToolUseFailed(err) {
			return err
		}
		lastErr = err
		if attempt < maxToolUseAttempts {
			logger.LogRetry(attempt, maxToolUseAttempts, err)
		}
	}

	return wrapErr(KindRetryableTool,
		fmt.Sprintf("the model's tool call failed after %d attempts; try rephrasing your request", maxToolUseAttempts),
		lastErr)
}
