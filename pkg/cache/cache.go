package cache

import (
	"context"
	"time"
)

// Cache is the contract for the result cache layer.
// Implementations must treat a miss as (false, nil), not an error,
// so callers can fall through to the database.
type Cache interface {
	// Get reads the value at key and unmarshals it into dest.
	// Returns (true, nil) on a hit; dest is untouched on a miss.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value at key with the given TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes the given keys.
	Delete(ctx context.Context, keys ...string) error

	// DeletePattern removes every key matching a glob pattern,
	// e.g. "users:list:*".
	DeletePattern(ctx context.Context, pattern string) error

	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error
}
