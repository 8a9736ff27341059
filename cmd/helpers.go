package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/ziadkadry99/docview/internal/config"
	"github.com/ziadkadry99/docview/internal/db"
	"github.com/ziadkadry99/docview/internal/document"
	"github.com/ziadkadry99/docview/internal/library"
	"github.com/ziadkadry99/docview/internal/markdown"
	"github.com/ziadkadry99/docview/internal/prefs"
	"github.com/ziadkadry99/docview/internal/ui"
)

// loadConfig loads and validates the config, providing a user-friendly error.
// A missing config file is not an error: defaults and DOCVIEW_* variables
// still apply.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `docview init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newLogger builds the process logger. Logs go to stderr; stdout is kept for
// command output and the MCP stdio transport.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	level, err := cfg.SlogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == config.LogJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// newRenderer creates the markdown renderer selected by the config.
func newRenderer(cfg *config.Config) (markdown.Renderer, error) {
	r, err := markdown.New(string(cfg.MarkdownEngine), cfg.HighlightStyle)
	if err != nil {
		return nil, fmt.Errorf("creating renderer: %w", err)
	}
	return r, nil
}

// loadLibrary creates the document library for the configured source and
// performs the initial load.
func loadLibrary(ctx context.Context, cfg *config.Config, log *slog.Logger) *library.Library {
	client := &http.Client{Timeout: cfg.FetchTimeout}
	lib := library.New(document.NewSource(cfg.Source, client), log)
	snap := lib.Load(ctx)
	if snap.Fallback && cfg.Source != "" {
		fmt.Fprintf(os.Stderr, "Warning: could not load %s, showing the sample document\n", cfg.Source)
	}
	return lib
}

// openPrefs opens the preference database. A storage failure is not fatal:
// preferences are then kept in memory for the life of the process.
func openPrefs(cfg *config.Config, log *slog.Logger) (prefs.Store, func()) {
	database, err := db.Open(cfg.DBPath())
	if err != nil {
		log.Warn("preferences will not be persisted", "path", cfg.DBPath(), "error", err)
		return prefs.NewMemoryStore(), func() {}
	}
	return prefs.NewSQLiteStore(database), func() { database.Close() }
}

// uiSettings maps the config onto session settings.
func uiSettings(cfg *config.Config) ui.Settings {
	return ui.Settings{
		DefaultSection:    cfg.DefaultSection,
		SearchDebounce:    time.Duration(cfg.SearchDebounceMS) * time.Millisecond,
		Transition:        time.Duration(cfg.TransitionMS) * time.Millisecond,
		CopyRevert:        time.Duration(cfg.CopyRevertMS) * time.Millisecond,
		DesktopBreakpoint: cfg.DesktopBreakpoint,
		ScrollOffset:      cfg.ScrollOffset,
		SwipeThreshold:    cfg.SwipeThreshold,
		SwipeEdge:         cfg.SwipeEdge,
	}
}

func libraryWatchOptions(cfg *config.Config) library.WatchOptions {
	return library.WatchOptions{Patterns: cfg.WatchPatterns}
}
