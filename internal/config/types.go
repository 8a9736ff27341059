package config

import "time"

// Engine selects the markdown renderer.
type Engine string

const (
	EngineDialect  Engine = "dialect"
	EngineGoldmark Engine = "goldmark"
)

// LogFormat selects the slog handler.
type LogFormat string

const (
	LogText LogFormat = "text"
	LogJSON LogFormat = "json"
)

// Config is the top-level docview configuration, corresponding to .docview.yml.
type Config struct {
	Source         string `yaml:"source" koanf:"source"`
	Title          string `yaml:"title" koanf:"title"`
	DefaultSection string `yaml:"default_section" koanf:"default_section"`

	Watch         bool     `yaml:"watch" koanf:"watch"`
	WatchPatterns []string `yaml:"watch_patterns" koanf:"watch_patterns"`

	Port            int    `yaml:"port" koanf:"port"`
	AllowAllOrigins bool   `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	DataDir         string `yaml:"data_dir" koanf:"data_dir"`

	SearchDebounceMS  int `yaml:"search_debounce_ms" koanf:"search_debounce_ms"`
	DesktopBreakpoint int `yaml:"desktop_breakpoint" koanf:"desktop_breakpoint"`
	TransitionMS      int `yaml:"transition_ms" koanf:"transition_ms"`
	ScrollOffset      int `yaml:"scroll_offset" koanf:"scroll_offset"`
	CopyRevertMS      int `yaml:"copy_revert_ms" koanf:"copy_revert_ms"`
	SwipeThreshold    int `yaml:"swipe_threshold" koanf:"swipe_threshold"`
	SwipeEdge         int `yaml:"swipe_edge" koanf:"swipe_edge"`

	MarkdownEngine Engine `yaml:"markdown_engine" koanf:"markdown_engine"`
	HighlightStyle string `yaml:"highlight_style" koanf:"highlight_style"`

	FetchTimeout time.Duration `yaml:"fetch_timeout" koanf:"fetch_timeout"`

	LogLevel  string    `yaml:"log_level" koanf:"log_level"`
	LogFormat LogFormat `yaml:"log_format" koanf:"log_format"`
}
