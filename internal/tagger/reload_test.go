package tagger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartspb/mediabot/internal/watcher"
)

func TestDictionary_Follow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dict.tsv")
	require.NoError(t, os.WriteFile(path, []byte("кошки\tкошка\tNOUN\n"), 0o644))
	d, err := LoadDictionaryFile(path)
	require.NoError(t, err)

	events := make(chan watcher.Event)
	done := make(chan struct{})
	go func() {
		d.Follow(context.Background(), path, events, slog.New(slog.NewTextHandler(io.Discard, nil)))
		close(done)
	}()

	require.NoError(t, os.WriteFile(path, []byte("собаки\tсобака\tNOUN\n"), 0o644))
	events <- watcher.Event{Type: watcher.EventModified, Path: filepath.Join(filepath.Dir(path), "other.tsv")}
	events <- watcher.Event{Type: watcher.EventRemoved, Path: path}
	events <- watcher.Event{Type: watcher.EventModified, Path: path}
	close(events)
	<-done

	_, ok := d.Parse("собаки")
	assert.True(t, ok)
	_, ok = d.Parse("кошки")
	assert.False(t, ok)
}

func TestDictionary_FollowStopsOnContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		Builtin().Follow(ctx, "dict.tsv", make(chan watcher.Event), slog.New(slog.NewTextHandler(io.Discard, nil)))
		close(done)
	}()
	<-done
}
