package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quanticsoul4772/groqchat/internal/config"
	"github.com/quanticsoul4772/groqchat/internal/models"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	path, _ := config.GetConfigDir()
	fmt.Printf("config dir:           %s\n", path)
	fmt.Printf("api_key:              %s\n", cfg.MaskedAPIKey())
	model := cfg.Model
	if model == "" {
		model = models.DefaultModel
	}
	fmt.Printf("model:                %s\n", model)
	if cfg.CustomAPIBaseURL != "" {
		fmt.Printf("custom_api_base_url:  %s\n", cfg.CustomAPIBaseURL)
	}
	if cfg.Temperature != nil {
		fmt.Printf("temperature:          %g\n", *cfg.Temperature)
	}
	if cfg.TopP != nil {
		fmt.Printf("top_p:                %g\n", *cfg.TopP)
	}
	if cfg.CustomSystemPrompt != "" {
		fmt.Printf("custom_system_prompt: %q\n", cfg.CustomSystemPrompt)
	}
	fmt.Printf("builtin_tools:        code_interpreter=%v browser_search=%v\n",
		cfg.BuiltinTools.CodeInterpreter, cfg.BuiltinTools.BrowserSearch)
	if len(cfg.CustomModels) > 0 {
		fmt.Println("custom_models:")
		for id, m := range cfg.CustomModels {
			fmt.Printf("  %s (context %d)\n", id, m.ContextWindow)
		}
	}
	fmt.Printf("diagnostics:          enabled=%v dir=%s\n", cfg.Diagnostics.Enabled, cfg.Diagnostics.Dir)
	return nil
}
