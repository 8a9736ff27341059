package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (DOCVIEW_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: DOCVIEW_SOURCE -> source, etc.
	if err := k.Load(env.Provider("DOCVIEW_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "DOCVIEW_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validEngines = map[Engine]bool{
	EngineDialect:  true,
	EngineGoldmark: true,
}

var validLogFormats = map[LogFormat]bool{
	LogText: true,
	LogJSON: true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range 1-65535", c.Port)
	}

	if !validEngines[c.MarkdownEngine] {
		return fmt.Errorf("invalid markdown_engine %q: must be one of dialect, goldmark", c.MarkdownEngine)
	}
	if c.MarkdownEngine == EngineGoldmark && c.HighlightStyle == "" {
		return fmt.Errorf("highlight_style is required with the goldmark engine")
	}

	ints := []struct {
		name string
		v    int
	}{
		{"search_debounce_ms", c.SearchDebounceMS},
		{"transition_ms", c.TransitionMS},
		{"scroll_offset", c.ScrollOffset},
		{"copy_revert_ms", c.CopyRevertMS},
		{"swipe_threshold", c.SwipeThreshold},
		{"swipe_edge", c.SwipeEdge},
	}
	for _, f := range ints {
		if f.v < 0 {
			return fmt.Errorf("%s must be non-negative", f.name)
		}
	}
	if c.DesktopBreakpoint <= 0 {
		return fmt.Errorf("desktop_breakpoint must be positive")
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch_timeout must be positive")
	}

	for _, p := range c.WatchPatterns {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid watch pattern %q", p)
		}
	}

	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if !validLogFormats[c.LogFormat] {
		return fmt.Errorf("invalid log_format %q: must be one of text, json", c.LogFormat)
	}

	return nil
}

// SlogLevel parses LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: must be one of debug, info, warn, error", c.LogLevel)
	}
	return l, nil
}

// DBPath returns the SQLite database location inside DataDir.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "docview.db")
}
