package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcher_CoalescesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("products: []\n"), 0o644))

	changes := make(chan struct{}, 8)
	w := NewWatcher(path, 150*time.Millisecond, func(context.Context) {
		changes <- struct{}{}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644))
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte("products: []\n"), 0o644))
	}

	select {
	case <-changes:
	case <-time.After(3 * time.Second):
		t.Fatal("expected a rescan request")
	}

	select {
	case <-changes:
		t.Fatal("burst of writes should request a single rescan")
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w := NewWatcher(filepath.Join(t.TempDir(), "nope", "catalog.yaml"), 0, func(context.Context) {})
	require.Error(t, w.Run(context.Background()))
}
