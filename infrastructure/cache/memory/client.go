// ABOUTME: In-memory cache implementation backed by patrickmn/go-cache
// ABOUTME: Bounded local store used alone or as the fallback when Redis is unreachable

package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/domain"
	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/errors"
	gocache "github.com/patrickmn/go-cache"
)

// Backend names this cache in health reports
const Backend = "memory"

// DefaultMaxEntries bounds the cache when no limit is given
const DefaultMaxEntries = 1000

// MemoryCache implements the Cache interface using in-memory storage
type MemoryCache struct {
	cache      *gocache.Cache
	maxEntries int

	// mu serializes writes so the entry bound holds
	mu sync.Mutex
}

// NewMemoryCache creates a new in-memory cache holding at most maxEntries
func NewMemoryCache(maxEntries int, cleanupInterval time.Duration) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if cleanupInterval <= 0 {
		cleanupInterval = 5 * time.Minute
	}
	return &MemoryCache{
		cache:      gocache.New(gocache.NoExpiration, cleanupInterval),
		maxEntries: maxEntries,
	}
}

// Get retrieves a value from the cache
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	value, ok := c.cache.Get(key)
	if !ok {
		return nil, errors.ErrCacheMiss
	}
	stored, ok := value.([]byte)
	if !ok {
		return nil, errors.ErrCacheMiss
	}

	// Return a copy of the value
	result := make([]byte, len(stored))
	copy(result, stored)
	return result, nil
}

// Set stores a value in the cache with the given TTL
func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.makeRoom(key)
	c.cache.Set(key, valueCopy, expiration(ttl))
	return nil
}

// Delete removes a key from the cache
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.cache.Delete(key)
	return nil
}

// Incr increments a counter, creating it with ttl when absent
func (c *MemoryCache) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if n, err := c.cache.IncrementInt64(key, 1); err == nil {
		return n, nil
	}
	c.makeRoom(key)
	c.cache.Set(key, int64(1), expiration(ttl))
	return 1, nil
}

// Stats reports the current entry count
func (c *MemoryCache) Stats(ctx context.Context) (domain.CacheStatus, error) {
	return domain.CacheStatus{
		Reachable: true,
		Backend:   Backend,
		Keys:      int64(c.cache.ItemCount()),
	}, nil
}

// Flush removes every entry
func (c *MemoryCache) Flush() {
	c.cache.Flush()
}

// makeRoom evicts expired entries, then the soonest-expiring ones, until a
// new key fits. Caller holds mu.
func (c *MemoryCache) makeRoom(key string) {
	if _, exists := c.cache.Get(key); exists {
		return
	}
	if c.cache.ItemCount() < c.maxEntries {
		return
	}

	c.cache.DeleteExpired()
	items := c.cache.Items()
	for len(items) >= c.maxEntries {
		victim := ""
		var soonest int64
		for k, item := range items {
			exp := item.Expiration
			if exp == 0 {
				// Entries without expiry go last
				exp = 1<<63 - 1
			}
			if victim == "" || exp < soonest || (exp == soonest && k < victim) {
				victim, soonest = k, exp
			}
		}
		c.cache.Delete(victim)
		delete(items, victim)
	}
}

func expiration(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return gocache.NoExpiration
	}
	return ttl
}
