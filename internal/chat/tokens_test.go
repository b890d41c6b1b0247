package chat

import (
	"strings"
	"testing"
)

func TestTokenEstimator_HeuristicFallback(t *testing.T) {
	est := &tokenEstimator{}
	if got := est.Count(""); got != 0 {
		t.Errorf("Count(\"\") = %d, want 0", got)
	}
	if got := est.Count("word"); got != 2 {
		t.Errorf("Count(4 chars) = %d, want 2", got)
	}
	short := est.Count("hi")
	long := est.Count(strings.Repeat("hi", 100))
	if long <= short {
		t.Errorf("estimate is not monotonic: %d <= %d", long, short)
	}
}

func TestTokenEstimator_MessageOverhead(t *testing.T) {
	est := &tokenEstimator{}
	empty := est.CountMessage(wireMessage{Role: "assistant", Content: ""})
	if empty != messageOverheadTokens {
		t.Errorf("empty message cost = %d, want %d", empty, messageOverheadTokens)
	}
}

func TestTokenEstimator_CountsImageURLs(t *testing.T) {
	est := &tokenEstimator{}
	plain := est.CountMessage(wireUser("look"))
	withImage := est.CountMessage(wireMessage{
		Role: "user",
		Content: []ContentPart{
			{Type: "text", Text: "look"},
			{Type: "image_url", ImageURL: &ImageURL{URL: strings.Repeat("A", 400)}},
		},
	})
	if withImage <= plain {
		t.Errorf("image payload not counted: %d <= %d", withImage, plain)
	}
}
