package watch

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelevant(t *testing.T) {
	target := filepath.Join(t.TempDir(), "structuredData.json")

	tests := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"write", fsnotify.Event{Name: target, Op: fsnotify.Write}, true},
		{"create", fsnotify.Event{Name: target, Op: fsnotify.Create}, true},
		{"create and write", fsnotify.Event{Name: target, Op: fsnotify.Create | fsnotify.Write}, true},
		{"chmod", fsnotify.Event{Name: target, Op: fsnotify.Chmod}, false},
		{"remove", fsnotify.Event{Name: target, Op: fsnotify.Remove}, false},
		{"rename", fsnotify.Event{Name: target, Op: fsnotify.Rename}, false},
		{"other file", fsnotify.Event{Name: filepath.Join(filepath.Dir(target), "other.json"), Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, relevant(tt.ev, target))
		})
	}
}

func TestWatcher_Run(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "structuredData.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	runs := make(chan struct{}, 16)
	w := &Watcher{
		Path:     path,
		Debounce: 20 * time.Millisecond,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		OnChange: func(context.Context) error {
			runs <- struct{}{}
			return nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	wait := func(msg string) {
		t.Helper()
		select {
		case <-runs:
		case <-time.After(5 * time.Second):
			t.Fatal(msg)
		}
	}

	wait("no initial run")

	require.NoError(t, os.WriteFile(path, []byte(`{"elements": []}`), 0o644))
	wait("no run after write")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "structuredData.json")

	runs := make(chan struct{}, 16)
	w := &Watcher{
		Path:     path,
		Debounce: 10 * time.Millisecond,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		OnChange: func(context.Context) error {
			runs <- struct{}{}
			return nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	select {
	case <-runs:
	case <-time.After(5 * time.Second):
		t.Fatal("no initial run")
	}

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	select {
	case <-runs:
		t.Fatal("unexpected run for unrelated file")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_Errors(t *testing.T) {
	w := &Watcher{Path: filepath.Join(t.TempDir(), "x.json")}
	assert.Error(t, w.Run(context.Background()))

	w = &Watcher{
		Path:     filepath.Join(t.TempDir(), "missing", "x.json"),
		OnChange: func(context.Context) error { return nil },
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	assert.Error(t, w.Run(context.Background()))
}
