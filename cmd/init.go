package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docview/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Interactive setup wizard to create .docview.yml",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.RunWizard(cfgFile)
		exitOnError(err)

		fmt.Printf("\nConfig saved to %s\n", cfgFile)
		fmt.Printf("  Source: %s\n", sourceLabel(cfg.Source, false))
		fmt.Printf("  Engine: %s\n", cfg.MarkdownEngine)
		fmt.Printf("  Port:   %d\n", cfg.Port)
		fmt.Println("\nRun `docview serve` to start the viewer.")
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
