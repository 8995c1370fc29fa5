// ABOUTME: Redis cache implementation using go-redis client
// ABOUTME: Provides the shared result cache with TTL support, hit counters and health stats

package redis

import (
	"context"
	stderrors "errors"
	"strconv"
	"strings"
	"time"

	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/domain"
	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/errors"
	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/pkg/config"
	"github.com/redis/go-redis/v9"
)

// Backend names this cache in health reports and errors
const Backend = "redis"

// RedisCache implements the Cache interface using Redis
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new Redis cache instance. The connection is not
// pinged here so that a Redis outage at startup only degrades the cache.
func NewRedisCache(cfg config.RedisConfig) (*RedisCache, error) {
	if cfg.Address == "" {
		return nil, stderrors.New("redis address cannot be empty")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
		MaxRetries:   -1,
	})

	return NewRedisCacheFromClient(client), nil
}

// NewRedisCacheFromClient wraps an existing client
func NewRedisCacheFromClient(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Client exposes the underlying connection for pub/sub and list storage
func (c *RedisCache) Client() *redis.Client {
	return c.client
}

// ConfigureEviction asks Redis to evict least recently used keys under
// memory pressure. Managed Redis often forbids CONFIG, so failures are
// returned for logging only.
func (c *RedisCache) ConfigureEviction(ctx context.Context) error {
	return c.client.ConfigSet(ctx, "maxmemory-policy", "allkeys-lru").Err()
}

// Get retrieves a value from Redis
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.ErrCacheMiss
		}
		return nil, unavailable(ctx, err)
	}

	return val, nil
}

// Set stores a value in Redis with the given TTL
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	// Redis SET with 0 TTL means no expiration
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return unavailable(ctx, err)
	}
	return nil
}

// Delete removes a key from Redis
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	// Deleting a missing key is not an error
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return unavailable(ctx, err)
	}
	return nil
}

// Incr increments a counter, setting its TTL when it is created
func (c *RedisCache) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	n, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, unavailable(ctx, err)
	}
	if n == 1 && ttl > 0 {
		if err := c.client.Expire(ctx, key, ttl).Err(); err != nil {
			return n, unavailable(ctx, err)
		}
	}
	return n, nil
}

// Ping checks that Redis answers
func (c *RedisCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return unavailable(ctx, err)
	}
	return nil
}

// Stats reports the key count and memory use
func (c *RedisCache) Stats(ctx context.Context) (domain.CacheStatus, error) {
	status := domain.CacheStatus{Backend: Backend}

	keys, err := c.client.DBSize(ctx).Result()
	if err != nil {
		return status, unavailable(ctx, err)
	}
	status.Reachable = true
	status.Keys = keys

	info, err := c.client.Info(ctx, "memory").Result()
	if err == nil {
		status.MemoryBytes = usedMemory(info)
	}
	return status, nil
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// usedMemory extracts used_memory from an INFO memory reply
func usedMemory(info string) int64 {
	for _, line := range strings.Split(info, "\n") {
		line = strings.TrimSpace(line)
		if v, ok := strings.CutPrefix(line, "used_memory:"); ok {
			n, _ := strconv.ParseInt(v, 10, 64)
			return n
		}
	}
	return 0
}

// unavailable wraps a backend failure. The caller's own cancellation or
// deadline passes through unwrapped; it says nothing about Redis.
func unavailable(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &errors.CacheUnavailableError{Backend: Backend, Err: err}
}
