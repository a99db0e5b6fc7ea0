package driven

import "context"

// KVStore is the persistence medium for recent-query history: a simple
// key-value string store. Implementations may be unavailable, full, or
// corrupted at any time; callers must treat every error as non-fatal.
type KVStore interface {
	// Get returns the value for key, or domain.ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any existing value.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error

	// Keys enumerates all stored keys.
	Keys(ctx context.Context) ([]string, error)
}
