package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docview/internal/clipboard"
	"github.com/ziadkadry99/docview/internal/markdown"
	"github.com/ziadkadry99/docview/internal/viewer"
)

var copyCmd = &cobra.Command{
	Use:   "copy <section> <n>",
	Short: "Copy a section's n-th code block to the clipboard",
	Long: `Copies the literal text of the n-th code block (counting from 1) of a
rendered section. When no system clipboard is available the text is sent as
an OSC52 escape sequence to the terminal.`,
	Args: cobra.ExactArgs(2),
	RunE: runCopy,
}

func init() {
	rootCmd.AddCommand(copyCmd)
}

func runCopy(cmd *cobra.Command, args []string) error {
	n, err := strconv.Atoi(args[1])
	if err != nil || n < 1 {
		return fmt.Errorf("invalid block number %q", args[1])
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	renderer, err := newRenderer(cfg)
	if err != nil {
		return err
	}
	lib := loadLibrary(context.Background(), cfg, newLogger(cfg, os.Stderr))

	sec, ok := lib.Current().Doc.Section(args[0])
	if !ok {
		return fmt.Errorf("%w: %q", viewer.ErrNotFound, args[0])
	}
	blocks := markdown.CodeBlocks(viewer.RenderSection(renderer, sec))
	if n > len(blocks) {
		return fmt.Errorf("section %q has %d code block(s)", args[0], len(blocks))
	}

	copier := clipboard.NewCopier(os.Stdout, os.Getenv("TMUX") != "")
	method, err := copier.Copy(blocks[n-1])
	if err != nil {
		return err
	}
	if method == clipboard.MethodFallback {
		fmt.Fprintln(os.Stderr, "Copied via terminal (OSC52)")
	} else {
		fmt.Fprintln(os.Stderr, "Copied")
	}
	return nil
}
