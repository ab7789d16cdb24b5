// Package cache provides the key/value store used for language-score and
// diff caching, with Redis and in-memory implementations.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache: miss")

// Store is a key/value store with per-entry TTLs. Implementations must be
// safe for concurrent use; concurrent writers to the same key race
// last-writer-wins.
type Store interface {
	// Get returns the value for key, or ErrMiss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key for ttl. A zero ttl means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Close releases any underlying connections.
	Close() error
}
