package cmd

import (
	"errors"
	"testing"

	"github.com/spf13/cobra"
)

// Runtime failures must return through RunE so deferred cleanup (MCP
// shutdown, diagnostics flush) runs, instead of exiting the process.
func TestReportRunErrorReturnsForCleanup(t *testing.T) {
	cmd := &cobra.Command{Use: "chat"}
	sentinel := errors.New("stream failed")

	got := reportRunError(cmd, sentinel)
	if !errors.Is(got, sentinel) {
		t.Fatalf("reportRunError = %v, want the original error", got)
	}
	if !cmd.SilenceErrors || !cmd.SilenceUsage {
		t.Error("cobra output not silenced; the error would print twice")
	}
}

func TestPreviewArgs(t *testing.T) {
	if got := previewArgs("{}"); got != "" {
		t.Errorf("previewArgs({}) = %q, want empty", got)
	}
	if got := previewArgs(`{"q":"hi"}`); got != `({"q":"hi"})` {
		t.Errorf("previewArgs = %q", got)
	}
}
