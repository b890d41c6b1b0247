package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "groqchat",
	Short: "Chat with Groq-hosted models from the terminal",
	Long: `groqchat streams chat completions from Groq-hosted models, with
tools discovered from configured MCP servers.

Examples:
  groqchat chat "what's the weather API for Berlin?"
  groqchat chat -m llama-3.1-8b-instant "summarize this"
  groqchat models                       # list known models
  groqchat mcp list                     # list MCP servers and tools
  groqchat config                       # show resolved configuration`,
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	Version:           Version,
}

var debugFlag bool

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Write request/event diagnostics to a session JSONL file")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
