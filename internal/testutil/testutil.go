// Package testutil provides shared test helpers for stores and trackers.
package testutil

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/cuppa/internal/kv"
	"github.com/starford/cuppa/internal/storage"
	"github.com/starford/cuppa/internal/tracker"
)

// Monday is Monday, January 1st 2024, mid-morning UTC.
var Monday = time.Date(2024, time.January, 1, 9, 30, 0, 0, time.UTC)

// TestStore returns an empty in-memory store.
func TestStore(t *testing.T) *kv.Store {
	t.Helper()
	return kv.New(storage.NewMemory())
}

// FileStore returns a store backed by a JSON file in a temporary directory,
// plus the file's path.
func FileStore(t *testing.T) (*kv.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cuppa.json")
	p, err := storage.NewFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return kv.New(p), path
}

// TestTracker creates a tracker over store with a clock fixed at now in UTC.
func TestTracker(t *testing.T, store *kv.Store, now time.Time, opts ...tracker.Option) *tracker.Tracker {
	t.Helper()
	opts = append([]tracker.Option{
		tracker.WithClock(tracker.FixedClock(now)),
		tracker.WithLocation(time.UTC),
		tracker.WithLogger(QuietLogger()),
	}, opts...)
	tr, err := tracker.New(context.Background(), store, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return tr
}

// QuietLogger discards everything.
func QuietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
