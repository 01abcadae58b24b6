package ports

import (
	"context"
	"io"
)

// DocumentSource discovers the files of a content collection.
type DocumentSource interface {
	// Discover returns the slash-separated paths, relative to the source base,
	// of every file matching the source pattern, in sorted order.
	Discover(ctx context.Context) ([]string, error)

	// Open opens one discovered file.
	Open(path string) (io.ReadCloser, error)
}

// Watchable is implemented by sources that can report changes.
type Watchable interface {
	// Watch emits the ID of each changed document until ctx is done.
	Watch(ctx context.Context) (<-chan string, error)
}
