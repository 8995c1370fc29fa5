// ABOUTME: Scrape handlers for the Huma API
// ABOUTME: Provides the product search endpoint and the per-strategy debug report

package handlers

import (
	"context"
	"net/http"

	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/api/dto/mappers"
	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/api/dto/requests"
	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/api/dto/responses"
	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/domain"
	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/pkg/featureflags"
	"github.com/danielgtaylor/huma/v2"
)

// SearchService interface defines the methods needed from the search service
type SearchService interface {
	Search(ctx context.Context, q domain.Query) (*domain.SearchResult, error)
	Debug(ctx context.Context, q domain.Query) (*domain.DebugReport, error)
}

// ScrapeHandler handles search requests
type ScrapeHandler struct {
	service  SearchService
	flags    featureflags.Manager
	counters *Counters
}

// NewScrapeHandler creates a new scrape handler. A nil flags manager falls
// back to the one carried by the request context.
func NewScrapeHandler(service SearchService, flags featureflags.Manager, counters *Counters) *ScrapeHandler {
	if counters == nil {
		counters = &Counters{}
	}
	return &ScrapeHandler{
		service:  service,
		flags:    flags,
		counters: counters,
	}
}

// RegisterRoutes registers all scrape-related routes
func (h *ScrapeHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "scrape",
		Method:      http.MethodPost,
		Path:        "/scrape",
		Summary:     "Search products",
		Description: "Searches products through the strategy chain, scores them and reports bestsellers, trending items and recommended shops. When every strategy fails the response has no products and lists the failures.",
		Tags:        []string{"Scrape"},
	}, h.Scrape)

	huma.Register(api, huma.Operation{
		OperationID: "scrapeDebug",
		Method:      http.MethodPost,
		Path:        "/scrape/debug",
		Summary:     "Report every strategy attempt",
		Description: "Runs the strategy chain without the cache and returns the outcome of each attempt",
		Tags:        []string{"Scrape"},
	}, h.Debug)
}

// ScrapeInput defines the input for the scrape operations
type ScrapeInput struct {
	Body requests.ScrapeRequest `json:"body"`
}

// ScrapeOutput defines the output for the Scrape operation
type ScrapeOutput struct {
	Body responses.ScrapeResponse
}

// DebugOutput defines the output for the Debug operation
type DebugOutput struct {
	Body responses.DebugResponse
}

// Scrape handles the POST /scrape endpoint
func (h *ScrapeHandler) Scrape(ctx context.Context, input *ScrapeInput) (*ScrapeOutput, error) {
	input.Body.ApplyDefaults()

	result, err := h.service.Search(ctx, input.Body.ToQuery())
	if err != nil {
		h.counters.RecordError()
		return nil, toHumaError(err)
	}
	h.counters.RecordResult(result)

	body, err := mappers.ToScrapeResponse(result)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &ScrapeOutput{Body: *body}, nil
}

// Debug handles the POST /scrape/debug endpoint
func (h *ScrapeHandler) Debug(ctx context.Context, input *ScrapeInput) (*DebugOutput, error) {
	if !flagEnabled(ctx, h.flags, featureflags.DebugEndpoint) {
		return nil, huma.Error404NotFound("Debug endpoint is disabled")
	}
	input.Body.ApplyDefaults()

	report, err := h.service.Debug(ctx, input.Body.ToQuery())
	if err != nil {
		return nil, toHumaError(err)
	}

	body, err := mappers.ToDebugResponse(report)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &DebugOutput{Body: *body}, nil
}

func flagEnabled(ctx context.Context, flags featureflags.Manager, flag featureflags.FeatureFlag) bool {
	if flags == nil {
		flags = featureflags.FromContext(ctx)
	}
	return flags.IsEnabled(ctx, flag)
}
