package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/docview/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing tools to list, read and search the document's sections.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		// stdout carries the protocol; everything else goes to stderr.
		log := newLogger(cfg, os.Stderr)

		renderer, err := newRenderer(cfg)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		lib := loadLibrary(ctx, cfg, log)
		if cfg.Watch {
			go func() {
				if err := lib.Watch(ctx, libraryWatchOptions(cfg)); err != nil {
					log.Warn("watch disabled", "error", err)
				}
			}()
		}

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "docview MCP server started on stdio (source=%s, sections=%d)\n",
			sourceLabel(cfg.Source, lib.Current().Fallback), len(lib.Current().Doc.Sections))

		srv := mcpserver.NewServer(lib, renderer)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
