// Package watch re-runs a job whenever an input file changes.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period used when Watcher.Debounce is zero.
const DefaultDebounce = 200 * time.Millisecond

// Watcher calls OnChange once at start and again after each burst of
// writes to Path.
type Watcher struct {
	// Path is the file to watch. Its directory must exist.
	Path string

	// Debounce is how long the file must stay quiet before OnChange runs.
	// Default: 200ms
	Debounce time.Duration

	// OnChange does the work. Errors are logged and watching continues.
	OnChange func(ctx context.Context) error

	// Logger receives run errors. Nil uses slog.Default().
	Logger *slog.Logger
}

// Run watches until ctx is canceled. The parent directory is watched
// rather than the file, so editors that save by renaming still trigger
// a run.
func (w *Watcher) Run(ctx context.Context) error {
	if w.OnChange == nil {
		return fmt.Errorf("watch: no OnChange for %s", w.Path)
	}
	target, err := filepath.Abs(w.Path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", w.Path, err)
	}
	logger := w.Logger
	if logger == nil {
		logger = slog.Default()
	}
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(target), err)
	}
	logger.Info("watching", "path", target)

	w.run(ctx, logger)

	timer := time.NewTimer(debounce)
	timer.Stop()
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !relevant(ev, target) {
				continue
			}
			timer.Reset(debounce)
			fire = timer.C

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)

		case <-fire:
			fire = nil
			w.run(ctx, logger)
		}
	}
}

func (w *Watcher) run(ctx context.Context, logger *slog.Logger) {
	if err := w.OnChange(ctx); err != nil {
		logger.Error("run failed", "path", w.Path, "error", err)
	}
}

// relevant reports whether ev creates or writes the target file
func relevant(ev fsnotify.Event, target string) bool {
	if filepath.Clean(ev.Name) != target {
		return false
	}
	return ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write)
}
