// ABOUTME: Main entry point for the Tokopedia scraper API server
// ABOUTME: Wires together all components and starts the HTTP server

package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/api"
	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/api/handlers"
	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/fingerprint"
	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/interfaces"
	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/scoring"
	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/search"
	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/strategy"
	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/infrastructure/cache/memory"
	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/infrastructure/cache/redis"
	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/infrastructure/cache/resilient"
	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/infrastructure/events"
	redishistory "github.com/Ev3lynx727/containerd-apps-tokped-scrapper/infrastructure/history/redis"
	sqlitehistory "github.com/Ev3lynx727/containerd-apps-tokped-scrapper/infrastructure/history/sqlite"
	logruslogger "github.com/Ev3lynx727/containerd-apps-tokped-scrapper/infrastructure/logger/logrus"
	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/infrastructure/metrics"
	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/infrastructure/transport"
	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/pkg/config"
	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/pkg/featureflags"
)

// eventPublisher is a publisher that must be drained on shutdown
type eventPublisher interface {
	interfaces.Publisher
	io.Closer
}

func main() {
	// Load configuration
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Create logger
	logger := logruslogger.New(logruslogger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	logger.Info("Starting Tokopedia scraper", map[string]interface{}{
		"port":            cfg.Server.Port,
		"cache_type":      cfg.Cache.Type,
		"history_backend": cfg.History.Backend,
	})

	ctx := context.Background()
	flags := featureflags.NewEnvManager("FEATURE_")
	recorder := metrics.NewRecorder()

	// Create cache: Redis when configured, always backed by a bounded local store
	local := memory.NewMemoryCache(cfg.Cache.Memory.MaxEntries, cfg.Cache.Memory.CleanupInterval)
	var shared *redis.RedisCache
	if cfg.Cache.Type == "redis" {
		shared, err = redis.NewRedisCache(cfg.Cache.Redis)
		if err != nil {
			logger.Error("Failed to create Redis cache, falling back to memory", map[string]interface{}{
				"error": err.Error(),
			})
			shared = nil
		} else {
			evictCtx, cancel := context.WithTimeout(ctx, cfg.Cache.Redis.Timeout)
			if err := shared.ConfigureEviction(evictCtx); err != nil {
				logger.Warn("Could not set Redis eviction policy", map[string]interface{}{
					"error": err.Error(),
				})
			}
			cancel()
			logger.Info("Using Redis cache", map[string]interface{}{
				"address": cfg.Cache.Redis.Address,
			})
		}
	}

	var sharedStore resilient.Shared
	if shared != nil {
		sharedStore = shared
	}
	cache := resilient.New(sharedStore, local,
		resilient.WithRetryInterval(cfg.Cache.RetryInterval),
		resilient.WithLogger(logger),
	)
	recorder.WatchCache(cache)

	// Create event publisher
	var publisher eventPublisher
	if shared != nil {
		publisher = events.NewRedisPublisher(shared.Client(), cfg.Events.BufferSize, logger, recorder)
	} else {
		publisher = events.NewLogPublisher(logger)
	}

	// Create recent history store
	var history interfaces.HistoryStore
	var historyCloser io.Closer
	switch cfg.History.Backend {
	case "sqlite":
		store, err := sqlitehistory.NewStore(cfg.History.SQLitePath, cfg.History.Capacity)
		if err != nil {
			logger.Error("Failed to open SQLite history, recent searches disabled", map[string]interface{}{
				"path":  cfg.History.SQLitePath,
				"error": err.Error(),
			})
		} else {
			history = store
			historyCloser = store
		}
	default:
		if shared != nil {
			history = redishistory.NewStore(shared.Client(), cfg.History.Capacity)
		} else {
			logger.Warn("Recent searches disabled without Redis", nil)
		}
	}

	// Create fingerprinted transport
	profiles := fingerprint.Named(cfg.Upstream.FingerprintPool)
	var poolOpts []fingerprint.Option
	if browser := cfg.Upstream.FingerprintBrowser; browser != "" {
		profiles = fingerprint.DefaultProfiles()
		poolOpts = append(poolOpts, fingerprint.WithPinned(browser))
	}
	pool := fingerprint.NewPool(profiles, poolOpts...)
	if browser := cfg.Upstream.FingerprintBrowser; browser != "" {
		if _, ok := pool.Lookup(browser); !ok {
			logger.Warn("Unknown fingerprint browser, using the first profile", map[string]interface{}{
				"browser": browser,
			})
		}
	}
	upstream := transport.New(pool, transport.Options{
		Timeout:            cfg.Upstream.Timeout,
		InsecureSkipVerify: !cfg.Upstream.VerifyTLS,
		Logger:             logger,
	})

	// Create dependencies container
	deps := interfaces.Dependencies{
		Cache:     cache,
		Transport: upstream,
		Publisher: publisher,
		History:   history,
		Observer:  recorder,
		Logger:    logger,
	}

	// Create services
	chain := strategy.NewChain(strategy.Default(strategy.Endpoints{
		GraphQLURL:    cfg.Upstream.GraphQLURL,
		SearchPageURL: cfg.Upstream.SearchPageURL,
	}), deps)
	scorer := scoring.NewScorer(scoring.Options{TrendingBand: cfg.Scoring.TrendingBand})
	searchService := search.NewSearchService(deps, chain, scorer, search.Config{
		ResultTTL:      cfg.Cache.ResultTTL,
		ShopTTL:        cfg.Cache.ShopTTL,
		EventTopic:     cfg.Events.Topic,
		ShopAggregates: flags.IsEnabled(ctx, featureflags.ShopAggregates),
	})

	// Create API with middleware
	apiConfig := api.APIConfig{
		Logger:         logger,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Flags:          flags,
		Metrics:        recorder.Handler(),
	}
	if flags.IsEnabled(ctx, featureflags.RateLimitEnabled) {
		apiConfig.RequestsPerMinute = cfg.RateLimit.RequestsPerMinute
		apiConfig.Burst = cfg.RateLimit.Burst
	}
	humaAPI, router := api.NewAPIWithMiddleware(apiConfig)

	// Create and register handlers
	counters := &handlers.Counters{}
	handlers.NewScrapeHandler(searchService, flags, counters).RegisterRoutes(humaAPI)
	handlers.NewListingHandler(searchService).RegisterRoutes(humaAPI)
	handlers.NewHealthHandler(cache, counters, api.Version).RegisterRoutes(humaAPI)

	// A search may walk the whole chain, one upstream timeout per strategy
	writeTimeout := time.Duration(len(chain.Names())+1) * cfg.Upstream.Timeout

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("HTTP server starting", map[string]interface{}{
			"address":    srv.Addr,
			"strategies": chain.Names(),
			"flags":      flags.GetAllFlags(),
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", map[string]interface{}{
				"error": err.Error(),
			})
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...", nil)

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Queued events go out before the Redis client closes
	closeQuietly(logger, "event publisher", publisher)
	if historyCloser != nil {
		closeQuietly(logger, "history store", historyCloser)
	}
	if shared != nil {
		closeQuietly(logger, "redis cache", shared)
	}

	logger.Info("Server stopped", nil)
	_ = logger.Close()
}

func closeQuietly(logger interfaces.Logger, name string, c io.Closer) {
	if err := c.Close(); err != nil {
		logger.Warn("Failed to close "+name, map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func init() {
	// Print banner
	fmt.Println(`
  _        _                      _
 | |_ ___ | | ___ __   ___  __| |   ___  ___ _ __ __ _ _ __   ___ _ __
 | __/ _ \| |/ / '_ \ / _ \/ _' |  / __|/ __| '__/ _' | '_ \ / _ \ '__|
 | || (_) |   <| |_) |  __/ (_| |  \__ \ (__| | | (_| | |_) |  __/ |
  \__\___/|_|\_\ .__/ \___|\__,_|  |___/\___|_|  \__,_| .__/ \___|_|
               |_|                                     |_|
	`)
}
