package netmon

import "context"

// Watcher reports connectivity changes using platform-specific event
// mechanisms (netlink on Linux, route sockets on macOS, polling elsewhere).
type Watcher interface {
	// Start begins watching for changes.
	// Calls callback for each notification the OS delivers.
	// Blocks until ctx is cancelled or an error occurs.
	Start(ctx context.Context, callback EventHandler) error
}
