package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/quanticsoul4772/groqchat/internal/chat"
	"github.com/quanticsoul4772/groqchat/internal/config"
	"github.com/quanticsoul4772/groqchat/internal/mcp"
)

// maxToolTurns bounds the host-side dispatch loop for client tool calls.
const maxToolTurns = 10

var (
	chatModel string

	reasoningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
	toolStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

var chatCmd = &cobra.Command{
	Use:   "chat [prompt]",
	Short: "Stream a completion for a prompt",
	Long: `Stream a chat completion. The prompt is taken from the arguments, or
from stdin when piped.

Examples:
  groqchat chat "explain io.Reader"
  git diff | groqchat chat "review this diff"
  groqchat chat -m openai/gpt-oss-120b "run 2**100 in python"`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatModel, "model", "m", "", "Model to use (overrides config)")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	prompt, err := readPrompt(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var logger *chat.DebugLogger
	if debugFlag || cfg.Diagnostics.Enabled {
		sessionID := time.Now().UTC().Format("20060102-150405") + "-" + uuid.NewString()[:8]
		logger, err = chat.NewDebugLogger(cfg.Diagnostics.Dir, sessionID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: diagnostics disabled: %v\n", err)
		} else {
			defer logger.Close()
		}
	}

	mcpConfig, err := mcp.LoadConfig(mustConfigDir())
	if err != nil {
		return err
	}
	manager := mcp.NewManager(mcpConfig)
	for name, startErr := range manager.StartAll(ctx) {
		fmt.Fprintf(os.Stderr, "warning: MCP server %s failed to start: %v\n", name, startErr)
	}
	defer manager.StopAll()

	conversation := []chat.Message{chat.UserText(prompt)}
	settings := cfg.Settings()
	registry := cfg.Registry()

	// Host dispatch loop: run completions, execute any client tool
	// calls through MCP, feed results back, and stop on a plain answer.
	for turn := 0; turn < maxToolTurns; turn++ {
		final, err := streamTurn(ctx, chat.RunRequest{
			Conversation: conversation,
			ModelID:      chatModel,
			Settings:     settings,
			Registry:     registry,
			Tools:        manager.AllTools(),
			Logger:       logger,
		})
		if err != nil {
			return reportRunError(cmd, err)
		}
		if len(final.ToolCalls) == 0 {
			return nil
		}

		conversation = append(conversation, *final)
		for _, call := range final.ToolCalls {
			fmt.Fprintln(os.Stderr, toolStyle.Render(fmt.Sprintf("⚙ %s%s", call.Function.Name, previewArgs(call.Function.Arguments))))
			output, callErr := manager.CallTool(ctx, call.Function.Name, json.RawMessage(call.Function.Arguments))
			if callErr != nil {
				output = "Error: " + callErr.Error()
			}
			conversation = append(conversation, chat.ToolResultMessage(call.ID, output))
		}
	}
	return fmt.Errorf("tool dispatch exceeded %d turns", maxToolTurns)
}

// reportRunError prints the styled message and returns the error so
// deferred cleanup (MCP shutdown, log flush) still runs; cobra's own
// error and usage output are silenced to avoid printing it twice.
func reportRunError(cmd *cobra.Command, err error) error {
	fmt.Fprintln(os.Stderr, errorStyle.Render("error: "+err.Error()))
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	return err
}

// streamTurn drives one completion and renders its events, returning
// the final assistant message.
func streamTurn(ctx context.Context, req chat.RunRequest) (*chat.Message, error) {
	stream := chat.RunCompletion(ctx, req)
	defer stream.Close()

	var final *chat.Message
	for {
		event, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch event.Type {
		case chat.EventContent:
			fmt.Print(event.Text)
		case chat.EventReasoning:
			fmt.Fprint(os.Stderr, reasoningStyle.Render(event.Text))
		case chat.EventToolExecution:
			renderToolExecution(event)
		case chat.EventComplete:
			fmt.Println()
			final = event.Message
		case chat.EventError:
			return nil, event.Err
		}
	}
	if final == nil {
		return nil, fmt.Errorf("stream ended without a terminal event")
	}
	return final, nil
}

func renderToolExecution(event chat.Event) {
	tool := event.ExecutedTool
	if tool == nil {
		return
	}
	switch event.ExecutionKind {
	case chat.ToolExecutionStart:
		fmt.Fprintln(os.Stderr, toolStyle.Render(fmt.Sprintf("▶ %s%s", tool.Name, previewArgs(tool.Arguments))))
	case chat.ToolExecutionComplete:
		output := ""
		if tool.Output != nil {
			output = strings.TrimSpace(*tool.Output)
		}
		if len(output) > 200 {
			output = output[:197] + "..."
		}
		fmt.Fprintln(os.Stderr, toolStyle.Render("✔ "+tool.Name+": "+output))
	}
}

func previewArgs(args string) string {
	args = strings.TrimSpace(args)
	if args == "" || args == "{}" {
		return ""
	}
	if len(args) > 120 {
		args = args[:117] + "..."
	}
	return "(" + args + ")"
}

func readPrompt(args []string) (string, error) {
	parts := make([]string, 0, 2)
	if len(args) > 0 {
		parts = append(parts, strings.Join(args, " "))
	}

	stat, err := os.Stdin.Stat()
	if err == nil && (stat.Mode()&os.ModeCharDevice) == 0 {
		reader := bufio.NewReader(os.Stdin)
		data, readErr := io.ReadAll(reader)
		if readErr != nil {
			return "", fmt.Errorf("read stdin: %w", readErr)
		}
		if text := strings.TrimSpace(string(data)); text != "" {
			parts = append(parts, text)
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no prompt given: pass it as an argument or pipe it to stdin")
	}
	return strings.Join(parts, "\n\n"), nil
}

func mustConfigDir() string {
	dir, err := config.GetConfigDir()
	if err != nil {
		return "."
	}
	return dir
}
