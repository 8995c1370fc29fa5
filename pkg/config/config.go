// ABOUTME: Configuration management for the application with environment variable support
// ABOUTME: Loaded through viper from env vars and an optional config.yaml, then validated

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// Server contains HTTP server configuration
	Server ServerConfig `mapstructure:"server"`

	// Cache contains cache configuration
	Cache CacheConfig `mapstructure:"cache"`

	// Events contains completion event configuration
	Events EventsConfig `mapstructure:"events"`

	// History contains recent search storage configuration
	History HistoryConfig `mapstructure:"history"`

	// Upstream contains marketplace endpoints and transport settings
	Upstream UpstreamConfig `mapstructure:"upstream"`

	// Scoring tunes the intelligence scorer
	Scoring ScoringConfig `mapstructure:"scoring"`

	// RateLimit contains API rate limiting configuration
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// Log contains logging configuration
	Log LogConfig `mapstructure:"log"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	// Port is the HTTP server port
	Port string `mapstructure:"port"`

	// AllowedOrigins lists CORS origins, "*" allows any
	AllowedOrigins []string `mapstructure:"allowed_origins"`

	// ShutdownTimeout bounds graceful shutdown
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// CacheConfig holds cache backend configuration
type CacheConfig struct {
	// Type specifies the cache backend (redis/memory)
	Type string `mapstructure:"type"`

	// Redis contains Redis-specific configuration
	Redis RedisConfig `mapstructure:"redis"`

	// Memory contains in-memory cache configuration
	Memory MemoryConfig `mapstructure:"memory"`

	// ResultTTL is how long a search result stays fresh
	ResultTTL time.Duration `mapstructure:"result_ttl"`

	// ShopTTL is how long shop aggregates are kept
	ShopTTL time.Duration `mapstructure:"shop_ttl"`

	// RetryInterval is how often an unreachable Redis is retried
	RetryInterval time.Duration `mapstructure:"retry_interval"`
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// Address is the Redis server address
	Address string `mapstructure:"address"`

	// Password is the Redis authentication password
	Password string `mapstructure:"password"`

	// DB is the Redis database number
	DB int `mapstructure:"db"`

	// Timeout bounds each Redis command
	Timeout time.Duration `mapstructure:"timeout"`
}

// MemoryConfig holds in-memory cache configuration
type MemoryConfig struct {
	// MaxEntries bounds the local store
	MaxEntries int `mapstructure:"max_entries"`

	// CleanupInterval is how often expired entries are purged
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// EventsConfig holds completion event configuration
type EventsConfig struct {
	Topic      string `mapstructure:"topic"`
	BufferSize int    `mapstructure:"buffer_size"`
}

// HistoryConfig holds recent search storage configuration
type HistoryConfig struct {
	// Backend is redis or sqlite
	Backend string `mapstructure:"backend"`

	SQLitePath string `mapstructure:"sqlite_path"`

	// Capacity is how many recent searches are kept
	Capacity int `mapstructure:"capacity"`
}

// UpstreamConfig holds marketplace endpoints and transport settings
type UpstreamConfig struct {
	GraphQLURL    string        `mapstructure:"graphql_url"`
	SearchPageURL string        `mapstructure:"search_page_url"`
	Timeout       time.Duration `mapstructure:"timeout"`

	// VerifyTLS disables certificate verification when false
	VerifyTLS bool `mapstructure:"verify_tls"`

	// FingerprintBrowser pins a profile; empty rotates through FingerprintPool
	FingerprintBrowser string   `mapstructure:"fingerprint_browser"`
	FingerprintPool    []string `mapstructure:"fingerprint_pool"`
}

// ScoringConfig tunes the intelligence scorer
type ScoringConfig struct {
	TrendingBand float64 `mapstructure:"trending_band"`
}

// RateLimitConfig holds API rate limiting configuration
type RateLimitConfig struct {
	RequestsPerMinute int `mapstructure:"requests_per_minute"`
	Burst             int `mapstructure:"burst"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`

	// File enables rotated file output in addition to stdout
	File string `mapstructure:"file"`
}

// envBindings maps config keys to the environment variables that set them
var envBindings = map[string]string{
	"server.port":             "PORT",
	"server.allowed_origins":  "CORS_ALLOWED_ORIGINS",
	"server.shutdown_timeout": "SHUTDOWN_TIMEOUT",

	"cache.type":                    "CACHE_TYPE",
	"cache.redis.address":           "REDIS_ADDRESS",
	"cache.redis.password":          "REDIS_PASSWORD",
	"cache.redis.db":                "REDIS_DB",
	"cache.redis.timeout":           "REDIS_TIMEOUT",
	"cache.memory.max_entries":      "MEMORY_CACHE_MAX_ENTRIES",
	"cache.memory.cleanup_interval": "MEMORY_CACHE_CLEANUP_INTERVAL",
	"cache.result_ttl":              "CACHE_RESULT_TTL",
	"cache.shop_ttl":                "CACHE_SHOP_TTL",
	"cache.retry_interval":          "CACHE_RETRY_INTERVAL",

	"events.topic":       "EVENTS_TOPIC",
	"events.buffer_size": "EVENTS_BUFFER_SIZE",

	"history.backend":     "HISTORY_BACKEND",
	"history.sqlite_path": "HISTORY_SQLITE_PATH",
	"history.capacity":    "HISTORY_CAPACITY",

	"upstream.graphql_url":         "UPSTREAM_GRAPHQL_URL",
	"upstream.search_page_url":     "UPSTREAM_SEARCH_PAGE_URL",
	"upstream.timeout":             "UPSTREAM_TIMEOUT",
	"upstream.verify_tls":          "UPSTREAM_VERIFY_TLS",
	"upstream.fingerprint_browser": "FINGERPRINT_BROWSER",
	"upstream.fingerprint_pool":    "FINGERPRINT_POOL",

	"scoring.trending_band": "SCORING_TRENDING_BAND",

	"rate_limit.requests_per_minute": "RATE_LIMIT_PER_MINUTE",
	"rate_limit.burst":               "RATE_LIMIT_BURST",

	"log.level":  "LOG_LEVEL",
	"log.format": "LOG_FORMAT",
	"log.file":   "LOG_FILE",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.shutdown_timeout", 30*time.Second)

	v.SetDefault("cache.type", "redis")
	v.SetDefault("cache.redis.address", "localhost:6379")
	v.SetDefault("cache.redis.password", "")
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("cache.redis.timeout", 2*time.Second)
	v.SetDefault("cache.memory.max_entries", 1000)
	v.SetDefault("cache.memory.cleanup_interval", 5*time.Minute)
	v.SetDefault("cache.result_ttl", 30*time.Minute)
	v.SetDefault("cache.shop_ttl", 6*time.Hour)
	v.SetDefault("cache.retry_interval", 30*time.Second)

	v.SetDefault("events.topic", "tokped:search:completed")
	v.SetDefault("events.buffer_size", 256)

	v.SetDefault("history.backend", "redis")
	v.SetDefault("history.sqlite_path", "./history.db")
	v.SetDefault("history.capacity", 50)

	v.SetDefault("upstream.graphql_url", "https://gql.tokopedia.com/graphql")
	v.SetDefault("upstream.search_page_url", "https://www.tokopedia.com/search")
	v.SetDefault("upstream.timeout", 30*time.Second)
	v.SetDefault("upstream.verify_tls", true)
	v.SetDefault("upstream.fingerprint_browser", "")
	v.SetDefault("upstream.fingerprint_pool", []string{"chrome124", "chrome120", "chrome119", "chrome110", "safari18"})

	v.SetDefault("scoring.trending_band", 4.0)

	v.SetDefault("rate_limit.requests_per_minute", 60)
	v.SetDefault("rate_limit.burst", 10)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file", "")
}

// LoadFromEnv loads configuration from environment variables and an
// optional config.yaml in the working directory
func LoadFromEnv() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	setDefaults(v)
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	return &cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("port cannot be empty")
	}

	if c.Cache.Type != "redis" && c.Cache.Type != "memory" {
		return errors.New("cache type must be 'redis' or 'memory'")
	}

	if c.Cache.Type == "redis" && c.Cache.Redis.Address == "" {
		return errors.New("redis address cannot be empty when using redis cache")
	}

	if c.Cache.ResultTTL <= 0 || c.Cache.ShopTTL <= 0 {
		return errors.New("cache TTLs must be positive")
	}

	if c.Cache.Memory.MaxEntries < 1 {
		return errors.New("memory cache must hold at least one entry")
	}

	if c.History.Backend != "redis" && c.History.Backend != "sqlite" {
		return errors.New("history backend must be 'redis' or 'sqlite'")
	}

	if c.History.Backend == "redis" && c.Cache.Type != "redis" {
		return errors.New("redis history requires the redis cache type")
	}

	if c.History.Backend == "sqlite" && c.History.SQLitePath == "" {
		return errors.New("sqlite path cannot be empty when using sqlite history")
	}

	if c.History.Capacity < 1 {
		return errors.New("history capacity must be at least 1")
	}

	if c.Upstream.GraphQLURL == "" || c.Upstream.SearchPageURL == "" {
		return errors.New("upstream endpoints cannot be empty")
	}

	if c.Upstream.Timeout <= 0 {
		return errors.New("upstream timeout must be positive")
	}

	if c.Scoring.TrendingBand < 0 || c.Scoring.TrendingBand > 5 {
		return errors.New("trending band must be between 0 and 5")
	}

	return nil
}
