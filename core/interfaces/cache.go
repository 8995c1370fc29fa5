// Package interfaces defines the core interfaces used throughout the application.
// These interfaces allow for dependency injection and make the code testable.
package interfaces

import (
	"context"
	"time"

	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/domain"
)

// Cache defines the interface for cache operations.
// Implementations can be Redis, in-memory, or a combination that degrades
// from one to the other.
//
// Example usage:
//
//	cache := someCache // implements Cache interface
//
//	// Store a value
//	err := cache.Set(ctx, "search:sepatu:3", payload, 30*time.Minute)
//
//	// Retrieve a value
//	data, err := cache.Get(ctx, "search:sepatu:3")
//	if err != nil {
//		// handle error or cache miss
//	}
type Cache interface {
	// Get retrieves a value from the cache by key.
	// Returns errors.ErrCacheMiss if the key doesn't exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with the given key and TTL.
	// If ttl is 0, the value should be stored indefinitely.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the cache by key.
	// Returns nil if the key doesn't exist.
	Delete(ctx context.Context, key string) error

	// Incr atomically increments a counter key, creating it with the given
	// TTL when absent, and returns the new value.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// CacheHealth exposes the cache layer to the health check without leaking
// its internals.
type CacheHealth interface {
	Status(ctx context.Context) domain.CacheStatus
}
