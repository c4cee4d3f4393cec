package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fleetinglore/lore/internal/logger"
)

func TestRunRebuildsOnWrite(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "notes.lore")
	require.NoError(t, os.WriteFile(source, []byte("one\n"), 0644))

	var rebuilds atomic.Int64
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, source, logger.Discard(), func() error {
			rebuilds.Add(1)
			return nil
		})
	}()

	// Give the watcher time to register before touching the file.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(source, []byte("two\n"), 0644))

	require.Eventually(t, func() bool {
		return rebuilds.Load() >= 1
	}, 5*time.Second, 50*time.Millisecond, "expected a rebuild after the file changed")

	cancel()
	require.NoError(t, <-done)
}

func TestRunIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "notes.lore")
	require.NoError(t, os.WriteFile(source, []byte("one\n"), 0644))

	var rebuilds atomic.Int64
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, source, logger.Discard(), func() error {
			rebuilds.Add(1)
			return nil
		})
	}()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.lore"), []byte("x\n"), 0644))
	time.Sleep(2 * debounce)

	require.Zero(t, rebuilds.Load(), "changes to sibling files should not trigger rebuilds")

	cancel()
	require.NoError(t, <-done)
}

func TestRunReturnsOnCancel(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "notes.lore")
	require.NoError(t, os.WriteFile(source, []byte("one\n"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, source, logger.Discard(), func() error { return nil })
	}()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}
