package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/quanticsoul4772/groqchat/internal/config"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List known models and their capabilities",
	RunE:  runModels,
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}

func runModels(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	registry := cfg.Registry()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "MODEL\tCONTEXT\tVISION\tBUILTIN TOOLS\tCUSTOM")
	for _, id := range registry.Known() {
		info := registry.Resolve(id)
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n",
			id, info.ContextWindow,
			yesNo(info.SupportsVision),
			yesNo(info.SupportsBuiltinTools),
			yesNo(info.IsCustom))
	}
	return w.Flush()
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "-"
}
