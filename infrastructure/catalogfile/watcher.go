package catalogfile

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"pipeline-builder/domain/catalog"
)

const defaultDebounce = 500 * time.Millisecond

// Watcher reloads a catalog overlay whenever its file is written and hands
// the rebuilt catalog to a callback. A file that fails to load is logged and
// the previous catalog stays in place.
type Watcher struct {
	path     string
	base     *catalog.Catalog
	onReload func(*catalog.Catalog)
	debounce time.Duration
	logger   *zap.Logger
}

// NewWatcher creates a watcher for path. Every reload starts again from base.
func NewWatcher(path string, base *catalog.Catalog, onReload func(*catalog.Catalog), logger *zap.Logger) *Watcher {
	return &Watcher{
		path:     filepath.Clean(path),
		base:     base,
		onReload: onReload,
		debounce: defaultDebounce,
		logger:   logger,
	}
}

// Run watches until ctx is cancelled. The parent directory is watched rather
// than the file so editors that replace the file on save are followed.
func (w *Watcher) Run(ctx context.Context) error {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fsWatcher.Close()

	if err := fsWatcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.path, err)
	}
	w.logger.Info("Catalog hot reloading enabled", zap.String("file", w.path))

	var debounceTimer *time.Timer
	reload := make(chan struct{}, 1)
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsWatcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(w.debounce, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})

		case <-reload:
			w.reload()

		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("File watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload() {
	next, err := Load(w.path, w.base)
	if err != nil {
		w.logger.Error("Catalog reload failed, keeping previous catalog",
			zap.String("file", w.path),
			zap.Error(err),
		)
		return
	}
	w.onReload(next)
	w.logger.Info("Catalog reloaded",
		zap.String("file", w.path),
		zap.Int("types", next.Len()),
	)
}
