package library

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/ziadkadry99/docview/internal/document"
)

// DefaultReloadDelay coalesces bursts of file events into one reload.
const DefaultReloadDelay = 200 * time.Millisecond

// ErrNotWatchable is returned when the source is not a local file.
var ErrNotWatchable = errors.New("only file sources can be watched")

// WatchOptions configures Watch.
type WatchOptions struct {
	// Patterns are doublestar globs matched against paths relative to the
	// source file's directory. Empty means the source file itself.
	Patterns []string
	Delay    time.Duration
}

// Watch reloads the library whenever a matching file in the source's
// directory is written, created or renamed. It blocks until ctx is done.
func (l *Library) Watch(ctx context.Context, opts WatchOptions) error {
	fs, ok := l.src.(document.FileSource)
	if !ok {
		return ErrNotWatchable
	}
	dir := filepath.Dir(fs.Path)
	patterns := opts.Patterns
	if len(patterns) == 0 {
		patterns = []string{filepath.Base(fs.Path)}
	}
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid watch pattern %q", p)
		}
	}
	delay := opts.Delay
	if delay <= 0 {
		delay = DefaultReloadDelay
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	l.log.Info("watching for document changes", "dir", dir, "patterns", patterns)

	timer := time.NewTimer(delay)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !matches(dir, event.Name, patterns) {
				continue
			}
			l.log.Debug("document change", "file", event.Name, "op", event.Op.String())
			timer.Reset(delay)

		case <-timer.C:
			l.Load(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			// Errors are logged but don't stop the watcher.
			l.log.Warn("watch error", "error", err)
		}
	}
}

func matches(dir, name string, patterns []string) bool {
	rel, err := filepath.Rel(dir, name)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}
