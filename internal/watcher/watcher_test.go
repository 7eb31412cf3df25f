package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventTypeString(t *testing.T) {
	testCases := []struct {
		eventType EventType
		expected  string
	}{
		{EventTypeCreated, "created"},
		{EventTypeModified, "modified"},
		{EventTypeDeleted, "deleted"},
		{EventTypeRenamed, "renamed"},
		{EventType(42), "unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.eventType.String())
		})
	}
}

func TestNewFileWatcher(t *testing.T) {
	watcher, err := NewFileWatcher(100*time.Millisecond, nil)
	require.NoError(t, err)
	defer watcher.Stop()

	assert.NotNil(t, watcher.watcher)
	assert.NotNil(t, watcher.debouncer)
	assert.Empty(t, watcher.filters)
	assert.Empty(t, watcher.handlers)
}

func TestFileWatcherAddPath(t *testing.T) {
	watcher, err := NewFileWatcher(100*time.Millisecond, nil)
	require.NoError(t, err)
	defer watcher.Stop()

	dir := t.TempDir()
	file := filepath.Join(dir, "package.json")
	require.NoError(t, os.WriteFile(file, []byte("{}"), 0644))

	assert.NoError(t, watcher.AddPath(dir))
	assert.NoError(t, watcher.AddPath(file))
	assert.Error(t, watcher.AddPath("relative/dir"))
	assert.Error(t, watcher.AddPath(filepath.Join(dir, "missing")))
}

func TestFileWatcherStopIsIdempotent(t *testing.T) {
	watcher, err := NewFileWatcher(10*time.Millisecond, nil)
	require.NoError(t, err)

	assert.NoError(t, watcher.Stop())
	assert.NoError(t, watcher.Stop())
}

func TestFileWatcherReportsWatchedFiles(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "package.json")
	override := filepath.Join(dir, "zgl.config.json")
	other := filepath.Join(dir, "README.md")
	require.NoError(t, os.WriteFile(manifest, []byte("{}"), 0644))

	watcher, err := NewFileWatcher(50*time.Millisecond, nil)
	require.NoError(t, err)
	defer watcher.Stop()
	require.NoError(t, watcher.WatchFiles(manifest, override))

	var (
		mu      sync.Mutex
		batches [][]ChangeEvent
	)
	watcher.AddHandler(func(_ context.Context, events []ChangeEvent) error {
		mu.Lock()
		defer mu.Unlock()
		batches = append(batches, events)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, watcher.Start(ctx))

	require.NoError(t, os.WriteFile(other, []byte("ignored"), 0644))
	require.NoError(t, os.WriteFile(manifest, []byte(`{"name":"a"}`), 0644))
	require.NoError(t, os.WriteFile(override, []byte(`{}`), 0644))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(batches) > 0
	}, 2*time.Second, 20*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	seen := map[string]bool{}
	for _, batch := range batches {
		for _, event := range batch {
			seen[event.Path] = true
		}
	}
	assert.False(t, seen[other])
	assert.True(t, seen[manifest] || seen[override])
}

func TestDebouncer(t *testing.T) {
	debouncer := newDebouncer(50 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go debouncer.start(ctx)

	debouncer.events <- ChangeEvent{Path: "/p/zgl.config.json", Type: EventTypeCreated}
	debouncer.events <- ChangeEvent{Path: "/p/package.json", Type: EventTypeModified}
	debouncer.events <- ChangeEvent{Path: "/p/zgl.config.json", Type: EventTypeModified}

	select {
	case events := <-debouncer.output:
		require.Len(t, events, 2)
		assert.Equal(t, "/p/package.json", events[0].Path)
		assert.Equal(t, "/p/zgl.config.json", events[1].Path)
		assert.Equal(t, EventTypeModified, events[1].Type)
	case <-time.After(2 * time.Second):
		t.Fatal("debouncer never flushed")
	}
}

func TestOnlyFiles(t *testing.T) {
	filter := OnlyFiles("/p/package.json", "/p/.env")

	assert.True(t, filter("/p/package.json"))
	assert.True(t, filter("/p/./.env"))
	assert.False(t, filter("/p/src/index.js"))
	assert.False(t, filter("/q/package.json"))
}
