package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docview/internal/config"
	"github.com/ziadkadry99/docview/internal/library"
	"github.com/ziadkadry99/docview/internal/prefs"
	"github.com/ziadkadry99/docview/internal/server"
	"github.com/ziadkadry99/docview/internal/site"
)

var (
	servePort int
	serveOpen bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the live documentation viewer",
	Long: `Starts the docview HTTP server. Each browser tab opens a WebSocket session
that drives navigation, search, theme and panel state on the server. With
watch enabled, edits to the source file are pushed to every open tab.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "port to listen on (overrides config)")
	serveCmd.Flags().BoolVar(&serveOpen, "open", false, "open the viewer in the default browser")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}
	log := newLogger(cfg, os.Stderr)

	// Graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, lib, store, cleanup, err := newServer(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	if cfg.Watch {
		go func() {
			err := lib.Watch(ctx, libraryWatchOptions(cfg))
			if errors.Is(err, library.ErrNotWatchable) {
				log.Warn("watch disabled", "source", cfg.Source, "error", err)
			} else if err != nil {
				log.Error("watching source", "error", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		fmt.Fprintln(os.Stderr, "\nShutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	snap := lib.Current()
	url := fmt.Sprintf("http://localhost:%d", cfg.Port)
	fmt.Fprintf(os.Stderr, "docview v%s serving on %s\n", Version, url)
	fmt.Fprintf(os.Stderr, "  Source: %s\n", sourceLabel(cfg.Source, snap.Fallback))
	fmt.Fprintf(os.Stderr, "  Sections: %d\n", len(snap.Doc.Sections))
	fmt.Fprintf(os.Stderr, "  Preferences: %s\n", prefsLabel(cfg, store))

	if serveOpen {
		go site.OpenBrowser(url)
	}

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// newServer assembles the viewer from config. cleanup releases the
// preference database.
func newServer(ctx context.Context, cfg *config.Config, log *slog.Logger) (srv *server.Server, lib *library.Library, store prefs.Store, cleanup func(), err error) {
	renderer, err := newRenderer(cfg)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	lib = loadLibrary(ctx, cfg, log)
	store, cleanup = openPrefs(cfg, log)

	srv = server.New(server.Config{
		Port:     cfg.Port,
		Title:    cfg.Title,
		AllowAll: cfg.AllowAllOrigins,
		Settings: uiSettings(cfg),
	}, lib, renderer, store, log)
	return srv, lib, store, cleanup, nil
}

func prefsLabel(cfg *config.Config, store prefs.Store) string {
	if _, ok := store.(*prefs.MemoryStore); ok {
		return "in memory (not persisted)"
	}
	return cfg.DBPath()
}

func sourceLabel(source string, fallback bool) string {
	switch {
	case source == "":
		return "built-in sample"
	case fallback:
		return source + " (unavailable, showing sample)"
	default:
		return source
	}
}
