package commands

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DebounceInterval is how long Watch waits after the last change before
// rebuilding.
const DebounceInterval = 100 * time.Millisecond

// WatchPaths are the inputs Watch observes.
type WatchPaths struct {
	Catalog   string
	ModelsDir string
}

// relevant reports whether a change to name should trigger a rebuild.
func (p WatchPaths) relevant(name string) bool {
	clean := filepath.Clean(name)
	if p.Catalog != "" && clean == filepath.Clean(p.Catalog) {
		return true
	}
	return filepath.Dir(clean) == filepath.Clean(p.ModelsDir) &&
		strings.EqualFold(filepath.Ext(clean), ".sql")
}

// Watch calls rebuild after changes to the catalog or to .sql files in the
// models directory until ctx is done. Bursts of events are debounced and
// rebuilds never overlap. Rebuild errors are logged and watching continues.
func Watch(ctx context.Context, paths WatchPaths, logger *slog.Logger, rebuild func(context.Context) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	dirs := []string{filepath.Clean(paths.ModelsDir)}
	if paths.Catalog != "" {
		if dir := filepath.Dir(filepath.Clean(paths.Catalog)); dir != dirs[0] {
			dirs = append(dirs, dir)
		}
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	logger.Info("watching for changes", "path", paths.ModelsDir)

	var (
		mu            sync.Mutex
		debounceTimer *time.Timer
		wg            sync.WaitGroup
	)
	defer func() {
		if debounceTimer != nil && debounceTimer.Stop() {
			wg.Done()
		}
		wg.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if !paths.relevant(event.Name) {
				continue
			}

			if debounceTimer != nil && debounceTimer.Stop() {
				wg.Done()
			}
			name := event.Name
			wg.Add(1)
			debounceTimer = time.AfterFunc(DebounceInterval, func() {
				defer wg.Done()
				mu.Lock()
				defer mu.Unlock()
				if ctx.Err() != nil {
					return
				}
				logger.Info("change detected", "path", filepath.Base(name))
				if err := rebuild(ctx); err != nil {
					logger.Error("rebuild failed", "error", err)
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)
		}
	}
}
