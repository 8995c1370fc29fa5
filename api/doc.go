// Package api provides the HTTP API layer for the Tokopedia scraper.
// It uses the Huma framework to provide automatic OpenAPI documentation,
// request/response validation, and a clean handler interface.
//
// # Architecture
//
// The API package is structured as follows:
//
// - server.go: Huma API configuration and setup
// - handlers/: HTTP request handlers
// - dto/: Data Transfer Objects for requests and responses
// - middleware/: HTTP middleware for cross-cutting concerns
//
// # Endpoints
//
//   - POST /scrape: search products, score them and report bestsellers,
//     trending items and recommended shops
//   - POST /scrape/debug: per-strategy outcomes (debug_endpoint flag)
//   - GET /health: cache reachability and request counters
//   - GET /searches/recent: recent completed searches
//   - GET /shops/recommended: best scored shops across searches
//   - GET /products/bestsellers: most popular bestsellers across searches
//   - GET /metrics: Prometheus exposition (metrics_enabled flag)
//
// # Request Validation
//
// Huma validates request bodies from struct tags before handlers run:
//
//	type ScrapeRequest struct {
//	    Query       string `json:"query" minLength:"1" maxLength:"200"`
//	    NumProducts int    `json:"num_products,omitempty" minimum:"1" maximum:"100" default:"10"`
//	    UseCache    *bool  `json:"use_cache,omitempty"`
//	}
//
// Schema violations answer 422. Values the search service rejects answer 400.
//
// # Usage Example
//
//	cfg := api.APIConfig{
//	    Logger:            logger,
//	    RequestsPerMinute: 60,
//	    Burst:             10,
//	    Flags:             flags,
//	    Metrics:           recorder.Handler(),
//	}
//	humaAPI, router := api.NewAPIWithMiddleware(cfg)
//
//	handlers.NewScrapeHandler(searchService, flags, counters).RegisterRoutes(humaAPI)
//
//	http.ListenAndServe(":8000", router)
//
// # Error Handling
//
// Errors use the RFC 7807 problem format:
//
//	{
//	    "status": 400,
//	    "title": "Bad Request",
//	    "detail": "query cannot be empty"
//	}
//
// A search where every strategy failed is not an error: it answers 200 with
// no products and the failures in chain order.
package api
