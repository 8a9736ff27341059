package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docview/internal/progress"
	"github.com/ziadkadry99/docview/internal/site"
	"github.com/ziadkadry99/docview/internal/toggle"
)

var (
	exportOutput string
	exportServe  bool
	exportOpen   bool
	exportPort   int
	exportTheme  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the document as a static site",
	Long: `Writes one HTML page per section with sidebar navigation, plus style.css,
document.json and search-index.json. Use --serve to preview the result.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "site", "output directory")
	exportCmd.Flags().BoolVar(&exportServe, "serve", false, "serve the exported site after writing it")
	exportCmd.Flags().BoolVar(&exportOpen, "open", false, "open the served site in the default browser")
	exportCmd.Flags().IntVarP(&exportPort, "port", "p", 8000, "port for --serve")
	exportCmd.Flags().StringVar(&exportTheme, "theme", "", "fixed theme for the pages: light or dark (default follows the browser)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if exportTheme != "" {
		if _, ok := toggle.ParseTheme(exportTheme); !ok {
			return fmt.Errorf("invalid --theme %q: must be light or dark", exportTheme)
		}
	}
	log := newLogger(cfg, os.Stderr)

	renderer, err := newRenderer(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lib := loadLibrary(ctx, cfg, log)

	exporter := site.NewExporter(exportOutput, cfg.Title, renderer)
	exporter.Theme = exportTheme
	exporter.DefaultSection = cfg.DefaultSection
	exporter.Reporter = progress.NewReporter(os.Stderr)

	pages, err := exporter.Export(lib.Current().Doc)
	if err != nil {
		return fmt.Errorf("exporting site: %w", err)
	}

	abs, _ := filepath.Abs(exportOutput)
	fmt.Printf("Exported %d pages to %s\n", pages, abs)

	if !exportServe {
		return nil
	}
	return site.Serve(ctx, exportOutput, exportPort, exportOpen, log)
}
