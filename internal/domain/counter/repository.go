package counter

import "context"

// Repository defines the interface for counter persistence operations
type Repository interface {
	// Increment atomically increments the counter for the given scope key,
	// creating it at zero first if absent, and returns the post-increment
	// value. The increment must be a single storage-level atomic operation;
	// a read-then-write pair would race under concurrent callers. On error
	// no sequence number has been consumed.
	Increment(ctx context.Context, scopeKey string) (int64, error)

	// Get returns the current counter state for a scope key
	Get(ctx context.Context, scopeKey string) (*Counter, error)
}
