package chat

// completionReserve returns the portion of the context window held back
// for the completion output: one eighth of the window, floored at 512.
func completionReserve(contextWindow int) int {
	reserve := contextWindow / 8
	if reserve < 512 {
		reserve = 512
	}
	return reserve
}

// pruneHistory drops oldest messages until the history, together with
// the system prompt and the completion reserve, fits the context
// window. The result is a suffix of the input modulo the paired-drop
// rule for orphaned tool results; ordering is never changed.
func pruneHistory(messages []wireMessage, systemTokens, contextWindow int, est *tokenEstimator) ([]wireMessage, error) {
	budget := contextWindow - completionReserve(contextWindow) - systemTokens

	lastUser := -1
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == string(RoleUser) {
			lastUser = i
			break
		}
	}

	costs := make([]int, len(messages))
	total := 0
	for i, msg := range messages {
		costs[i] = est.CountMessage(msg)
		total += costs[i]
	}

	// The most recent user message is always kept; if even it does not
	// fit there is nothing useful to send.
	if lastUser >= 0 && costs[lastUser] > budget {
		return nil, pipelineErr(KindWindowTooSmall,
			"context window too small: the last user message (%d tokens) exceeds the available budget (%d tokens)",
			costs[lastUser], budget)
	}

	dropped := make([]bool, len(messages))
	next := 0 // oldest not-yet-dropped index

	for total > budget {
		for next < len(messages) && dropped[next] {
			next++
		}
		if next >= len(messages) || next == lastUser {
			break
		}
		total -= dropMessage(messages, costs, dropped, next)
	}

	if total > budget {
		return nil, pipelineErr(KindWindowTooSmall,
			"context window too small: %d tokens remain after pruning, budget is %d", total, budget)
	}

	out := make([]wireMessage, 0, len(messages))
	for i, msg := range messages {
		if !dropped[i] {
			out = append(out, msg)
		}
	}
	return out, nil
}

// dropMessage marks index i dropped and cascades to its tool-call pair:
// an assistant message takes its tool results with it, and a tool
// result takes its still-present assistant caller (plus that caller's
// other results). Returns the total token cost removed.
func dropMessage(messages []wireMessage, costs []int, dropped []bool, i int) int {
	if dropped[i] {
		return 0
	}
	dropped[i] = true
	removed := costs[i]

	switch messages[i].Role {
	case string(RoleAssistant):
		if len(messages[i].ToolCalls) == 0 {
			break
		}
		ids := make(map[string]bool, len(messages[i].ToolCalls))
		for _, call := range messages[i].ToolCalls {
			ids[call.ID] = true
		}
		for j := i + 1; j < len(messages); j++ {
			if messages[j].Role == string(RoleTool) && ids[messages[j].ToolCallID] && !dropped[j] {
				dropped[j] = true
				removed += costs[j]
			}
		}
	case string(RoleTool):
		id := messages[i].ToolCallID
		for j := range messages {
			if dropped[j] || messages[j].Role != string(RoleAssistant) {
				continue
			}
			for _, call := range messages[j].ToolCalls {
				if call.ID == id {
					removed += dropMessage(messages, costs, dropped, j)
					break
				}
			}
		}
	}
	return removed
}
