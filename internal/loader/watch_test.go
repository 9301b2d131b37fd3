package loader_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/newsfeed/internal/loader"
	"github.com/jonesrussell/north-cloud/newsfeed/internal/store"
)

func indexed(t *testing.T, s store.IndexStore) int {
	t.Helper()
	paths, err := s.GetPaths(context.Background(), store.PathIndexKey)
	if err != nil {
		return -1
	}
	return len(paths)
}

func startWatch(t *testing.T, l *loader.Loader, dir string) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Watch(ctx, dir, 20*time.Millisecond) }()

	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-done)
	})

	// Give the watcher time to register before the test mutates dir.
	time.Sleep(50 * time.Millisecond)
}

func TestWatch_ReloadsOnNewAndRemovedFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a.json"))

	s := store.NewMemoryStore("")
	l := newLoader(s, loader.Config{})
	_, err := l.Load(context.Background(), dir)
	require.NoError(t, err)
	require.Equal(t, 1, indexed(t, s))

	startWatch(t, l, dir)

	touch(t, filepath.Join(dir, "b.json"))
	require.Eventually(t, func() bool { return indexed(t, s) == 2 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.Remove(filepath.Join(dir, "a.json")))
	require.Eventually(t, func() bool { return indexed(t, s) == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestWatch_IgnoresOtherFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := store.NewMemoryStore("")
	l := newLoader(s, loader.Config{})

	startWatch(t, l, dir)

	touch(t, filepath.Join(dir, "notes.txt"))
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, -1, indexed(t, s))
}

func TestWatch_RecursivePicksUpNewSubdirectories(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := store.NewMemoryStore("")
	l := newLoader(s, loader.Config{Recursive: true})

	startWatch(t, l, dir)

	sub := filepath.Join(dir, "2024")
	require.NoError(t, os.Mkdir(sub, 0o750))
	require.Eventually(t, func() bool { return indexed(t, s) == 0 }, 2*time.Second, 10*time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	touch(t, filepath.Join(sub, "nested.json"))
	require.Eventually(t, func() bool { return indexed(t, s) == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestWatch_MissingDirectory(t *testing.T) {
	t.Parallel()

	l := newLoader(store.NewMemoryStore(""), loader.Config{})
	err := l.Watch(context.Background(), filepath.Join(t.TempDir(), "absent"), time.Millisecond)
	require.Error(t, err)
}
