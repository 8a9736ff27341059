package config

import "time"

// DefaultConfigFile is the config file looked up in the working directory.
const DefaultConfigFile = ".docview.yml"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Title:             "Documentation",
		Port:              8080,
		DataDir:           ".docview",
		SearchDebounceMS:  300,
		DesktopBreakpoint: 768,
		TransitionMS:      300,
		ScrollOffset:      80,
		CopyRevertMS:      2000,
		SwipeThreshold:    50,
		SwipeEdge:         30,
		MarkdownEngine:    EngineDialect,
		HighlightStyle:    "github",
		FetchTimeout:      10 * time.Second,
		LogLevel:          "info",
		LogFormat:         LogText,
	}
}
