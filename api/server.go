// ABOUTME: Huma API server configuration and setup
// ABOUTME: Provides OpenAPI documentation and request/response validation

package api

import (
	"net/http"

	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/api/handlers"
	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/api/middleware"
	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/interfaces"
	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/pkg/featureflags"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

const (
	// Title is the OpenAPI title
	Title = "Tokopedia Scraper API"

	// Version is the API version reported by OpenAPI and the health check
	Version = "1.0.0"
)

// APIConfig holds configuration for the API
type APIConfig struct {
	Logger interfaces.Logger

	// RequestsPerMinute per client IP; zero disables rate limiting
	RequestsPerMinute int
	Burst             int

	// AllowedOrigins for CORS, defaults to any origin
	AllowedOrigins []string

	// Flags is stored in every request context
	Flags featureflags.Manager

	// Metrics is the Prometheus exposition handler mounted at /metrics
	Metrics http.Handler
}

func corsHandler(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader, "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	})
}

func humaConfig() huma.Config {
	config := huma.DefaultConfig(Title, Version)
	config.Info.Description = "Searches Tokopedia products through a chain of acquisition strategies and scores products and shops"
	return config
}

// NewAPI creates and configures a new Huma API instance
func NewAPI() (huma.API, chi.Router) {
	router := chi.NewRouter()
	router.Use(corsHandler(nil))

	// The OpenAPI document is automatically available at /openapi.json
	// The Swagger UI is automatically available at /docs
	api := humachi.New(router, humaConfig())

	return api, router
}

// NewAPIWithMiddleware creates a new API with middleware configured
func NewAPIWithMiddleware(cfg APIConfig) (huma.API, chi.Router) {
	router := chi.NewRouter()

	// CORS should be first middleware
	router.Use(corsHandler(cfg.AllowedOrigins))

	if cfg.Flags != nil {
		router.Use(middleware.FeatureFlagsMiddleware(cfg.Flags))
	}

	if cfg.Logger != nil {
		router.Use(middleware.RequestLoggingMiddleware(cfg.Logger))
	}

	if cfg.RequestsPerMinute > 0 {
		limiter := middleware.NewRateLimiter(cfg.RequestsPerMinute, cfg.Burst)
		router.Use(middleware.RateLimitMiddleware(limiter))
	}

	if cfg.Metrics != nil {
		router.Handle("/metrics", handlers.MetricsHandler(cfg.Metrics, cfg.Flags))
	}

	api := humachi.New(router, humaConfig())

	return api, router
}
