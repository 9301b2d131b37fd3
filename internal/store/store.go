// Package store persists the PathIndex, the ordered list of article file
// paths, in a key-value backend.
package store

import (
	"context"
	"errors"
)

// PathIndexKey is the key the PathIndex is stored under.
const PathIndexKey = "all_articles"

// ErrKeyNotFound is returned by GetPaths when nothing is stored under key.
var ErrKeyNotFound = errors.New("key not found")

// IndexStore reads and writes ordered path lists.
type IndexStore interface {
	// SavePaths replaces whatever is stored under key with paths.
	SavePaths(ctx context.Context, key string, paths []string) error
	// GetPaths returns the paths stored under key in insertion order.
	GetPaths(ctx context.Context, key string) ([]string, error)
}
