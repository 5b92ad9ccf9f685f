// Package watch reports writes to a file-backed store made by other processes.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/cuppa/internal/checksum"
)

// Debounce is how long the watcher waits for a burst of events to settle.
const Debounce = 200 * time.Millisecond

// ChangeCallback is called after the store file's content changed.
type ChangeCallback func(path string)

// Watch watches the store file at path until ctx is cancelled and calls cb
// whenever its content differs from the last content seen.
//
// The parent directory is watched rather than the file, because atomic
// writes replace the file with a new inode on every save.
func Watch(ctx context.Context, path string, logger *slog.Logger, cb ChangeCallback) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	last := sum(abs, "", logger)
	logger.Info("watcher: started", slog.String("path", abs))

	var settleTimer *time.Timer
	var settleCh <-chan time.Time

	scheduleCheck := func() {
		if settleTimer == nil {
			settleTimer = time.NewTimer(Debounce)
			settleCh = settleTimer.C
		} else {
			settleTimer.Reset(Debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if settleTimer != nil {
				settleTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-settleCh:
			cur := sum(abs, last, logger)
			if cur == last {
				continue
			}
			last = cur
			logger.Debug("watcher: store changed", slog.String("path", abs))
			if cb != nil {
				cb(abs)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				scheduleCheck()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// sum returns the checksum of the file, or "" when it does not exist.
// Read errors are logged and keep the previous state.
func sum(path string, prev string, logger *slog.Logger) string {
	cs, err := checksum.File(path)
	if err != nil {
		logger.Warn("watcher: read failed", slog.String("path", path), slog.String("error", err.Error()))
		return prev
	}
	return cs
}
