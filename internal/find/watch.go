package trawl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// WatchEvent names a filesystem event class selectable for watching.
type WatchEvent string

const (
	EventCreate WatchEvent = "create"
	EventWrite  WatchEvent = "write"
	EventRemove WatchEvent = "remove"
	EventRename WatchEvent = "rename"
	EventChmod  WatchEvent = "chmod"
)

// ParseWatchEvent maps a textual event name to a WatchEvent. "modify" and
// "delete" are accepted aliases for write and remove.
func ParseWatchEvent(s string) (WatchEvent, error) {
	switch strings.ToLower(s) {
	case "create":
		return EventCreate, nil
	case "write", "modify":
		return EventWrite, nil
	case "remove", "delete":
		return EventRemove, nil
	case "rename":
		return EventRename, nil
	case "chmod":
		return EventChmod, nil
	}
	return "", fmt.Errorf("unknown event type %q", s)
}

// WatchOptions configures a watch run. Criteria and action semantics are
// the same as for a batch search; Events selects which filesystem changes
// are evaluated.
type WatchOptions struct {
	Options

	// Events to react to. Empty means create and write.
	Events []WatchEvent
}

// Watch monitors the tree rooted at root and applies the criteria and the
// configured action to every selected event on a non-directory path.
// Directories that appear under the root join the watch as they are
// created. Watch returns on ctx cancellation or when the watcher itself
// cannot be set up.
func Watch(ctx context.Context, root string, opts WatchOptions, handler Handler) error {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	logger := opts.Logger
	if logger == nil {
		logger = newLogger(opts.LogLevel)
		defer logger.Sync()
	}
	if handler == nil {
		handler = defaultHandler(opts.Options)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(root); err != nil {
		return fmt.Errorf("watching %s: %w", root, err)
	}

	// Register every directory that already exists under the root.
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			logger.Warn("skipping unwatchable path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if info.IsDir() && path != root {
			if err := watcher.Add(path); err != nil {
				logger.Warn("cannot watch directory", zap.String("path", path), zap.Error(err))
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("registering watches under %s: %w", root, err)
	}

	events := opts.Events
	if len(events) == 0 {
		events = []WatchEvent{EventCreate, EventWrite}
	}
	want := make(map[fsnotify.Op]bool, len(events))
	for _, e := range events {
		switch e {
		case EventCreate:
			want[fsnotify.Create] = true
		case EventWrite:
			want[fsnotify.Write] = true
		case EventRemove:
			want[fsnotify.Remove] = true
		case EventRename:
			want[fsnotify.Rename] = true
		case EventChmod:
			want[fsnotify.Chmod] = true
		}
	}

	logger.Debug("watching", zap.String("root", root), zap.Int("event_classes", len(want)))

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
				// Directories are never candidates, but new ones must
				// join the watch even when create is not a selected
				// event class, or the tree loses coverage.
				if event.Has(fsnotify.Create) {
					if err := watcher.Add(event.Name); err != nil {
						logger.Warn("cannot watch new directory", zap.String("path", event.Name), zap.Error(err))
					}
				}
				continue
			}
			if !wantedOp(event.Op, want) {
				continue
			}

			name := filepath.Base(event.Name)
			matched, err := opts.Criteria.Matches(name, event.Name)
			if err != nil {
				logger.Warn("cannot stat entry", zap.String("path", event.Name), zap.Error(err))
				continue
			}
			if !matched {
				continue
			}
			if err := handler(ctx, Match{Path: event.Name, Name: name}); err != nil {
				logger.Error("action failed", zap.String("path", event.Name), zap.Error(err))
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", zap.Error(err))

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// wantedOp reports whether the event op carries any of the selected
// classes.
func wantedOp(op fsnotify.Op, want map[fsnotify.Op]bool) bool {
	for o := range want {
		if op.Has(o) {
			return true
		}
	}
	return false
}
