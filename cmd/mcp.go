package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/quanticsoul4772/groqchat/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Manage MCP (Model Context Protocol) servers",
	Long: `Inspect the MCP servers configured in mcp.json.

Examples:
  groqchat mcp list                    # list configured servers
  groqchat mcp tools                   # connect and list discovered tools`,
}

var mcpListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured MCP servers",
	RunE:  mcpList,
}

var mcpToolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Connect to all servers and list their tools",
	RunE:  mcpTools,
}

func init() {
	mcpCmd.AddCommand(mcpListCmd)
	mcpCmd.AddCommand(mcpToolsCmd)
	rootCmd.AddCommand(mcpCmd)
}

func mcpList(cmd *cobra.Command, args []string) error {
	cfg, err := mcp.LoadConfig(mustConfigDir())
	if err != nil {
		return err
	}
	if len(cfg.Servers) == 0 {
		fmt.Println("No MCP servers configured. Add servers to mcp.json in the config directory.")
		return nil
	}
	for _, name := range cfg.ServerNames() {
		server := cfg.Servers[name]
		fmt.Printf("%s: %s", name, server.Command)
		for _, arg := range server.Args {
			fmt.Printf(" %s", arg)
		}
		fmt.Println()
	}
	return nil
}

func mcpTools(cmd *cobra.Command, args []string) error {
	cfg, err := mcp.LoadConfig(mustConfigDir())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	manager := mcp.NewManager(cfg)
	for name, startErr := range manager.StartAll(ctx) {
		fmt.Fprintf(os.Stderr, "warning: %s failed to start: %v\n", name, startErr)
	}
	defer manager.StopAll()

	tools := manager.AllTools()
	if len(tools) == 0 {
		fmt.Println("No tools discovered.")
		return nil
	}
	for _, tool := range tools {
		fmt.Printf("%s\t%s\n", tool.Name, tool.Description)
	}
	return nil
}
