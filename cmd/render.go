package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docview/internal/viewer"
)

var renderCmd = &cobra.Command{
	Use:   "render <section> [subsection]",
	Short: "Print a section's rendered HTML",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	renderer, err := newRenderer(cfg)
	if err != nil {
		return err
	}
	lib := loadLibrary(context.Background(), cfg, newLogger(cfg, os.Stderr))

	var sub string
	if len(args) == 2 {
		sub = args[1]
	}
	loader := viewer.New(lib.Current().Doc, renderer, nil, nil, nil, viewer.Options{})
	if err := loader.LoadSection(args[0], sub, false); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), loader.View().HTML)
	return nil
}
