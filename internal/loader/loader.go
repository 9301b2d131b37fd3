// Package loader scans the dataset directory and writes the PathIndex.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/jonesrussell/north-cloud/newsfeed/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/newsfeed/internal/metrics"
	"github.com/jonesrussell/north-cloud/newsfeed/internal/store"
)

const articleExt = ".json"

// Config controls how the dataset directory is scanned.
type Config struct {
	// Recursive descends into subdirectories. Only the top level is
	// scanned otherwise.
	Recursive bool
	// Key is the index key. Defaults to store.PathIndexKey.
	Key string
}

// Loader populates an IndexStore from the dataset directory.
type Loader struct {
	store   store.IndexStore
	cfg     Config
	log     logger.Logger
	metrics *metrics.Metrics
}

// New creates a Loader. m may be nil.
func New(s store.IndexStore, cfg Config, log logger.Logger, m *metrics.Metrics) *Loader {
	if cfg.Key == "" {
		cfg.Key = store.PathIndexKey
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Loader{store: s, cfg: cfg, log: log, metrics: m}
}

// Scan returns the absolute paths of all .json files under dir, sorted.
// A missing directory yields an empty list.
func (l *Loader) Scan(dir string) ([]string, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve dataset dir %s: %w", dir, err)
	}

	info, err := os.Stat(root)
	if errors.Is(err, fs.ErrNotExist) {
		l.log.Warn("Dataset directory does not exist", logger.String("dir", root))
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("stat dataset dir %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("dataset path %s is not a directory", root)
	}

	paths := []string{}
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && !l.cfg.Recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if isArticleFile(d) {
			paths = append(paths, path)
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("scan dataset dir %s: %w", root, walkErr)
	}

	slices.Sort(paths)
	return paths, nil
}

func isArticleFile(d fs.DirEntry) bool {
	return d.Type().IsRegular() && strings.EqualFold(filepath.Ext(d.Name()), articleExt)
}

// Load scans dir and replaces the stored PathIndex with the result, even
// when it is empty. It returns the number of indexed files.
func (l *Loader) Load(ctx context.Context, dir string) (int, error) {
	paths, err := l.Scan(dir)
	if err != nil {
		return 0, err
	}

	if err = l.store.SavePaths(ctx, l.cfg.Key, paths); err != nil {
		return 0, fmt.Errorf("save path index: %w", err)
	}

	l.metrics.ObserveIndexLoad(len(paths))
	l.log.Info("Article index loaded",
		logger.String("dir", dir),
		logger.String("key", l.cfg.Key),
		logger.Int("count", len(paths)),
		logger.Bool("recursive", l.cfg.Recursive),
	)
	return len(paths), nil
}
