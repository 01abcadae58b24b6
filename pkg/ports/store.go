package ports

import "context"

// CounterStore holds the count of each mounted counter widget instance.
// Implementations must be safe for concurrent use.
type CounterStore interface {
	// Mount creates the instance at 0 unless it already exists, and returns its count.
	Mount(ctx context.Context, id string) (int64, error)

	// Load returns the count of a mounted instance.
	// Returns domain.ErrCounterNotFound if the instance is not mounted.
	Load(ctx context.Context, id string) (int64, error)

	// Increment atomically replaces the count with its successor and returns it.
	// An instance that is not mounted is mounted at 0 first.
	Increment(ctx context.Context, id string) (int64, error)

	// Delete unmounts the instance. Deleting an unknown instance is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of mounted instances.
	List(ctx context.Context) ([]string, error)
}
