package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// detectSource looks for a documentation JSON file in the current directory.
func detectSource() string {
	for _, pattern := range []string{"docs.json", "documentation.json", "*.docs.json"} {
		matches, _ := filepath.Glob(pattern)
		if len(matches) > 0 {
			return matches[0]
		}
	}
	return ""
}

func validatePort(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("enter a port between 1 and 65535")
	}
	return nil
}

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to docview! Let's configure your documentation.")
	fmt.Println()

	cfg := DefaultConfig()

	detected := detectSource()
	if detected != "" {
		fmt.Printf("Found documentation file: %s\n\n", detected)
	}

	// 1. Source.
	sourcePrompt := promptui.Prompt{
		Label:   "Document source (file path or http(s) URL, blank for the built-in sample)",
		Default: detected,
	}
	source, err := sourcePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	cfg.Source = strings.TrimSpace(source)

	// 2. Title.
	titlePrompt := promptui.Prompt{
		Label:   "Site title",
		Default: cfg.Title,
	}
	title, err := titlePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("title: %w", err)
	}
	cfg.Title = strings.TrimSpace(title)

	// 3. Markdown engine.
	enginePrompt := promptui.Select{
		Label: "Select markdown engine",
		Items: []string{
			"dialect  (built-in lightweight dialect)",
			"goldmark (CommonMark + GFM with syntax highlighting)",
		},
	}
	engineIdx, _, err := enginePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("engine selection: %w", err)
	}
	cfg.MarkdownEngine = []Engine{EngineDialect, EngineGoldmark}[engineIdx]

	// 4. Port.
	portPrompt := promptui.Prompt{
		Label:    "Port for docview serve",
		Default:  strconv.Itoa(cfg.Port),
		Validate: validatePort,
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(strings.TrimSpace(portStr))

	// 5. Watching only applies to local files.
	if cfg.Source != "" && !isURL(cfg.Source) {
		watchPrompt := promptui.Select{
			Label: "Reload the document when the file changes?",
			Items: []string{"yes", "no"},
		}
		_, watch, err := watchPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("watch selection: %w", err)
		}
		cfg.Watch = watch == "yes"

		if cfg.Watch {
			patternsPrompt := promptui.Prompt{
				Label:   "Extra watch patterns (comma-separated globs, blank for the source file only)",
				Default: "",
			}
			patterns, err := patternsPrompt.Run()
			if err != nil {
				return nil, fmt.Errorf("watch patterns: %w", err)
			}
			cfg.WatchPatterns = splitAndTrim(patterns)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Source != "" && !isURL(cfg.Source) {
		if _, err := os.Stat(cfg.Source); err != nil {
			fmt.Printf("\nNote: %s does not exist yet; the built-in sample is shown until it does.\n", cfg.Source)
		}
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
