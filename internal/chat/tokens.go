package chat

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// tokenEstimator approximates token counts for pruning decisions. The
// provider enforces the real budget, so exactness is not required, only
// monotonic order. When the cl100k_base encoding is available it is
// used; otherwise a chars/4 heuristic applies.
type tokenEstimator struct {
	enc *tiktoken.Tiktoken
}

var (
	sharedEstimator     *tokenEstimator
	sharedEstimatorOnce sync.Once
)

// defaultEstimator returns the process-wide estimator. The encoding
// load can touch the network on first use, so a failure silently falls
// back to the heuristic.
func defaultEstimator() *tokenEstimator {
	sharedEstimatorOnce.Do(func() {
		enc, err := tiktoken.GetEncoding(tiktoken.MODEL_CL100K_BASE)
		if err != nil {
			enc = nil
		}
		sharedEstimator = &tokenEstimator{enc: enc}
	})
	return sharedEstimator
}

// Count estimates the token count of text.
func (e *tokenEstimator) Count(text string) int {
	if e != nil && e.enc != nil {
		return len(e.enc.Encode(text, nil, nil))
	}
	if len(text) == 0 {
		return 0
	}
	return len(text)/4 + 1
}

// messageOverheadTokens is the fixed per-message cost (role, framing).
const messageOverheadTokens = 4

// CountMessage estimates the token cost of one wire message.
func (e *tokenEstimator) CountMessage(msg wireMessage) int {
	total := messageOverheadTokens
	switch content := msg.Content.(type) {
	case string:
		total += e.Count(content)
	case []ContentPart:
		for _, part := range content {
			total += e.Count(part.Text)
			if part.ImageURL != nil {
				total += e.Count(part.ImageURL.URL)
			}
		}
	}
	for _, call := range msg.ToolCalls {
		total += e.Count(call.Function.Name)
		total += e.Count(call.Function.Arguments)
	}
	return total
}
