// Package infrastructure provides concrete implementations of the interfaces
// defined in the core package.
//
// The infrastructure package is organized by technical concern:
//
// - cache/memory: bounded local store on go-cache
// - cache/redis: shared store on go-redis
// - cache/resilient: prefers Redis, falls back to memory and retries Redis
// - transport: uTLS client presenting browser TLS fingerprints
// - events: Redis pub/sub publisher with a bounded queue, or a log publisher
// - history/redis, history/sqlite: recent searches stores
// - logger/logrus: structured logging with optional file rotation
// - metrics: Prometheus recorder for strategies, cache and events
//
// # Cache
//
//	shared, err := redis.NewRedisCache(cfg.Cache.Redis)
//	local := memory.NewMemoryCache(10000, time.Minute)
//	cache := resilient.New(shared, local, resilient.WithLogger(logger))
//
// A nil shared store is valid: the cache then serves from memory only.
//
// # Transport
//
//	pool := fingerprint.NewPool(fingerprint.DefaultProfiles())
//	t := transport.New(pool, transport.Options{Timeout: 10 * time.Second})
//	resp, err := t.Send(ctx, req, "chrome124")
//
// # Logger
//
//	logger := logrus.New(logrus.Options{Level: "info", Format: "json"})
//	logger.Info("Strategy succeeded", map[string]interface{}{
//	    "strategy": "graphql_v5",
//	    "items":    10,
//	})
package infrastructure
