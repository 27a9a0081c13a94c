package find

import (
	"context"

	internal "github.com/avelano/trawl/internal/find"
)

// Re-export the watch types
type (
	// WatchEvent names a class of filesystem change.
	WatchEvent = internal.WatchEvent

	// WatchOptions configures a watch session.
	WatchOptions = internal.WatchOptions
)

// Watch event constants
const (
	EventCreate = internal.EventCreate
	EventWrite  = internal.EventWrite
	EventRemove = internal.EventRemove
	EventRename = internal.EventRename
	EventChmod  = internal.EventChmod
)

// ParseWatchEvent maps a user-facing event name to a WatchEvent. The
// aliases modify and delete are accepted for write and remove.
func ParseWatchEvent(s string) (WatchEvent, error) {
	return internal.ParseWatchEvent(s)
}

// Watch monitors the tree rooted at root and applies the criteria and
// the configured action to every selected filesystem event. It returns
// when ctx is cancelled.
func Watch(ctx context.Context, root string, opts WatchOptions, handler Handler) error {
	return internal.Watch(ctx, root, opts, handler)
}
