package loader

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jonesrussell/north-cloud/newsfeed/infrastructure/logger"
)

// DefaultDebounce is the quiet period Watch waits for before reloading.
const DefaultDebounce = 500 * time.Millisecond

// Watch reloads the index whenever article files under dir are created,
// removed or renamed, until ctx is done. Bursts of events within debounce
// collapse into a single reload. Content changes need no reload since
// articles are read on every request.
func (l *Loader) Watch(ctx context.Context, dir string, debounce time.Duration) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	root, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve dataset dir %s: %w", dir, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err = l.addWatches(watcher, root); err != nil {
		return err
	}
	l.log.Info("Watching dataset directory",
		logger.String("dir", root),
		logger.Duration("debounce", debounce),
	)

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if l.affectsIndex(watcher, ev) {
				timer.Reset(debounce)
			}

		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			l.log.Warn("Dataset watcher error", logger.Error(werr))

		case <-timer.C:
			if _, loadErr := l.Load(ctx, root); loadErr != nil {
				l.log.Error("Dataset reload failed", logger.Error(loadErr))
			}
		}
	}
}

func (l *Loader) addWatches(watcher *fsnotify.Watcher, root string) error {
	if !l.cfg.Recursive {
		if err := watcher.Add(root); err != nil {
			return fmt.Errorf("watch %s: %w", root, err)
		}
		return nil
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if addErr := watcher.Add(path); addErr != nil {
			return fmt.Errorf("watch %s: %w", path, addErr)
		}
		return nil
	})
}

func (l *Loader) affectsIndex(watcher *fsnotify.Watcher, ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	if strings.EqualFold(filepath.Ext(ev.Name), articleExt) {
		return true
	}
	if !l.cfg.Recursive {
		return false
	}

	// New subdirectories must be watched too; removed ones may take
	// indexed files with them.
	if ev.Has(fsnotify.Create) {
		if err := l.addWatches(watcher, ev.Name); err != nil {
			l.log.Debug("Skipping watch on new path", logger.String("path", ev.Name), logger.Error(err))
		}
	}
	return true
}
