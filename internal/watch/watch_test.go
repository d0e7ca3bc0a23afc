package watch

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.qdStruct")
	other := filepath.Join(dir, "other.qdStruct")
	require.NoError(t, os.WriteFile(path, []byte("0\n"), 0o644))

	changes := make(chan string, 8)
	w, err := New(path, 100*time.Millisecond, func(p string) { changes <- p }, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.NoError(t, os.WriteFile(other, []byte("ignored"), 0o644))
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte("1\n"), 0o644))
	}

	select {
	case got := <-changes:
		assert.Equal(t, w.Path(), got)
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification")
	}

	select {
	case got := <-changes:
		t.Fatalf("burst should be delivered once, got extra notification for %s", got)
	case <-time.After(300 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.NoError(t, w.Close())
}

func TestNewRejectsMissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing", "doc.qdStruct"), 0, func(string) {}, nil)
	assert.Error(t, err)
}
