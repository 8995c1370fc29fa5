// ABOUTME: Cache that prefers a shared Redis and degrades to a local store
// ABOUTME: Tracks reachability, logs each transition and retries Redis on an interval

package resilient

import (
	"context"
	"sync"
	"time"

	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/domain"
	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/errors"
	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/interfaces"
)

// DefaultRetryInterval is how long an unreachable shared cache is left alone
const DefaultRetryInterval = 30 * time.Second

// Store is a cache backend that can report on itself
type Store interface {
	interfaces.Cache
	Stats(ctx context.Context) (domain.CacheStatus, error)
}

// Shared is the preferred backend
type Shared interface {
	Store
	Ping(ctx context.Context) error
}

// Option configures a Cache
type Option func(*Cache)

// WithRetryInterval sets how often an unreachable shared cache is retried
func WithRetryInterval(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.retryInterval = d
		}
	}
}

// WithLogger sets the logger used for reachability transitions
func WithLogger(logger interfaces.Logger) Option {
	return func(c *Cache) { c.logger = logger }
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// Cache implements interfaces.Cache and interfaces.CacheHealth
type Cache struct {
	shared        Shared
	local         Store
	retryInterval time.Duration
	logger        interfaces.Logger
	now           func() time.Time

	mu          sync.Mutex
	reachable   bool
	lastAttempt time.Time
}

// New creates a cache over shared and local. A nil shared backend serves
// everything from local.
func New(shared Shared, local Store, opts ...Option) *Cache {
	c := &Cache{
		shared:        shared,
		local:         local,
		retryInterval: DefaultRetryInterval,
		now:           time.Now,
		reachable:     shared != nil,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get retrieves a value, falling back to the local store
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	if c.useShared(ctx) {
		v, err := c.shared.Get(ctx, key)
		if !c.sharedFailed(ctx, err) {
			return v, err
		}
	}
	return c.local.Get(ctx, key)
}

// Set stores a value, falling back to the local store
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c.useShared(ctx) {
		err := c.shared.Set(ctx, key, value, ttl)
		if !c.sharedFailed(ctx, err) {
			return err
		}
	}
	return c.local.Set(ctx, key, value, ttl)
}

// Delete removes a key from whichever store is active
func (c *Cache) Delete(ctx context.Context, key string) error {
	if c.useShared(ctx) {
		err := c.shared.Delete(ctx, key)
		if !c.sharedFailed(ctx, err) {
			return err
		}
	}
	return c.local.Delete(ctx, key)
}

// Incr increments a counter in whichever store is active
func (c *Cache) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	if c.useShared(ctx) {
		n, err := c.shared.Incr(ctx, key, ttl)
		if !c.sharedFailed(ctx, err) {
			return n, err
		}
	}
	return c.local.Incr(ctx, key, ttl)
}

// Status reports the active backend. Reachable refers to the shared cache
// when one is configured.
func (c *Cache) Status(ctx context.Context) domain.CacheStatus {
	if c.useShared(ctx) {
		status, err := c.shared.Stats(ctx)
		if err == nil || ctx.Err() != nil {
			return status
		}
		c.markUnreachable(err)
	}

	status, _ := c.local.Stats(ctx)
	status.Reachable = c.shared == nil
	return status
}

// Reachable reports whether the shared cache is currently in use
func (c *Cache) Reachable() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reachable
}

// useShared decides whether to try the shared cache, probing it when it has
// been unreachable for at least the retry interval
func (c *Cache) useShared(ctx context.Context) bool {
	if c.shared == nil {
		return false
	}

	c.mu.Lock()
	if c.reachable {
		c.mu.Unlock()
		return true
	}
	now := c.now()
	if now.Sub(c.lastAttempt) < c.retryInterval {
		c.mu.Unlock()
		return false
	}
	c.lastAttempt = now
	c.mu.Unlock()

	if err := c.shared.Ping(ctx); err != nil {
		if ctx.Err() != nil {
			// the caller gave up; let the next request retry the ping
			c.mu.Lock()
			c.lastAttempt = time.Time{}
			c.mu.Unlock()
		}
		return false
	}

	c.mu.Lock()
	recovered := !c.reachable
	c.reachable = true
	c.mu.Unlock()
	if recovered {
		c.logInfo("Shared cache reachable again", nil)
	}
	return true
}

// sharedFailed reports whether err means the shared cache is unreachable,
// marking it so. Errors from the caller's own context never do.
func (c *Cache) sharedFailed(ctx context.Context, err error) bool {
	if ctx.Err() != nil || !errors.IsCacheUnavailable(err) {
		return false
	}
	c.markUnreachable(err)
	return true
}

func (c *Cache) markUnreachable(err error) {
	c.mu.Lock()
	wasReachable := c.reachable
	c.reachable = false
	c.lastAttempt = c.now()
	c.mu.Unlock()

	if wasReachable {
		c.logWarn("Shared cache unreachable, serving from local store", map[string]interface{}{
			"error":          err.Error(),
			"retry_interval": c.retryInterval.String(),
		})
	}
}

func (c *Cache) logInfo(msg string, fields map[string]interface{}) {
	if c.logger != nil {
		c.logger.Info(msg, fields)
	}
}

func (c *Cache) logWarn(msg string, fields map[string]interface{}) {
	if c.logger != nil {
		c.logger.Warn(msg, fields)
	}
}
