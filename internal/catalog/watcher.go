package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"storefront/internal/debounce"
	"storefront/internal/logger"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultWatchQuiet is how long a catalog file must stay unchanged before a
// rescan is requested.
const DefaultWatchQuiet = 500 * time.Millisecond

// Watcher requests a rescan when the catalog file changes. It never
// touches storefront state itself; the host decides what a rescan does.
type Watcher struct {
	path     string
	onChange func(ctx context.Context)
	debounce *debounce.Debouncer
}

func NewWatcher(path string, quiet time.Duration, onChange func(ctx context.Context)) *Watcher {
	if quiet <= 0 {
		quiet = DefaultWatchQuiet
	}
	return &Watcher{
		path:     path,
		onChange: onChange,
		debounce: debounce.New(quiet, debounce.RealClock, nil),
	}
}

// Run watches until ctx is done. The directory is watched rather than the
// file so that editors replacing the file by rename are still seen.
func (w *Watcher) Run(ctx context.Context) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "catalog"),
		zap.String("path", w.path),
	)

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()
	defer w.debounce.Cancel()

	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	log.Info("watching catalog for changes")

	target := filepath.Clean(w.path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			log.Debug("catalog changed", zap.String("op", ev.Op.String()))
			w.debounce.Trigger(func() { w.onChange(ctx) })
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Warn("catalog watcher error", zap.Error(err))
		}
	}
}
