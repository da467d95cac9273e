package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestWatcherRegeneratesOnDumpChange(t *testing.T) {
	dir := t.TempDir()
	changed := make(chan string, 8)

	w, err := New([]string{dir}, func(_ context.Context, path string) error {
		changed <- filepath.Base(path)
		return nil
	}, WithDebounce(20*time.Millisecond), WithLogger(zaptest.NewLogger(t).Sugar()))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "init.json"), []byte("{}"), 0644))

	select {
	case name := <-changed:
		assert.Equal(t, "init.json", name)
	case <-time.After(5 * time.Second):
		t.Fatal("no regeneration after writing a dump file")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}

func TestWatcherSingleFileFilter(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "init.yaml")
	require.NoError(t, os.WriteFile(target, []byte("kind: Program\n"), 0644))

	w, err := New([]string{target}, func(context.Context, string) error { return nil })
	require.NoError(t, err)
	defer w.stop()

	assert.True(t, w.relevant(target))
	assert.False(t, w.relevant(filepath.Join(dir, "other.yaml")))
	assert.False(t, w.relevant(filepath.Join(dir, "init.txt")))
}

func TestNewMissingPath(t *testing.T) {
	_, err := New([]string{filepath.Join(t.TempDir(), "missing")}, nil)
	assert.Error(t, err)
}

func TestWatcherCoversSubdirectories(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "modules", "ntp")
	require.NoError(t, os.MkdirAll(nested, 0755))
	changed := make(chan string, 8)

	w, err := New([]string{dir}, func(_ context.Context, path string) error {
		changed <- path
		return nil
	}, WithDebounce(20*time.Millisecond), WithLogger(zaptest.NewLogger(t).Sugar()))
	require.NoError(t, err)

	abs, err := filepath.Abs(nested)
	require.NoError(t, err)
	assert.True(t, w.relevant(filepath.Join(abs, "init.json")))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	require.NoError(t, os.WriteFile(filepath.Join(nested, "init.json"), []byte("{}"), 0644))
	select {
	case path := <-changed:
		assert.Equal(t, "init.json", filepath.Base(path))
		assert.Equal(t, "ntp", filepath.Base(filepath.Dir(path)))
	case <-time.After(5 * time.Second):
		t.Fatal("no regeneration after writing a dump in a subdirectory")
	}
}
