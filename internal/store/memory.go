package store

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore is an in-process IndexStore.
type MemoryStore struct {
	mu     sync.RWMutex
	prefix string
	lists  map[string][]string
}

var _ IndexStore = (*MemoryStore)(nil)

// NewMemoryStore returns an empty MemoryStore that prepends prefix to keys.
func NewMemoryStore(prefix string) *MemoryStore {
	return &MemoryStore{prefix: prefix, lists: make(map[string][]string)}
}

// SavePaths replaces the list stored under key with a copy of paths.
func (s *MemoryStore) SavePaths(_ context.Context, key string, paths []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]string, len(paths))
	copy(stored, paths)
	s.lists[s.prefix+key] = stored
	return nil
}

// GetPaths returns a copy of the list under key, or ErrKeyNotFound.
func (s *MemoryStore) GetPaths(_ context.Context, key string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	paths, ok := s.lists[s.prefix+key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return slices.Clone(paths), nil
}
