// ABOUTME: Health handler reports cache reachability and request counters
// ABOUTME: Always answers 200; a degraded cache shows up in the status field

package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/api/dto/mappers"
	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/api/dto/responses"
	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/interfaces"
	"github.com/danielgtaylor/huma/v2"
)

// Health status values
const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
)

// HealthHandler handles the health check
type HealthHandler struct {
	cache    interfaces.CacheHealth
	counters *Counters
	version  string
	started  time.Time
	now      func() time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(cache interfaces.CacheHealth, counters *Counters, version string) *HealthHandler {
	if counters == nil {
		counters = &Counters{}
	}
	return &HealthHandler{
		cache:    cache,
		counters: counters,
		version:  version,
		started:  time.Now(),
		now:      time.Now,
	}
}

// RegisterRoutes registers the health route
func (h *HealthHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Service health",
		Description: "Reports whether the shared cache is reachable along with request counters",
		Tags:        []string{"Health"},
	}, h.Health)
}

// HealthOutput defines the output for the Health operation
type HealthOutput struct {
	Body responses.HealthResponse
}

// Health handles the GET /health endpoint
func (h *HealthHandler) Health(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	response := responses.HealthResponse{
		Status:   StatusOK,
		Version:  h.version,
		Uptime:   h.now().Sub(h.started).Round(time.Second).String(),
		Counters: h.counters.Snapshot(),
		Cache:    responses.CacheStatusResponse{Backend: "none"},
	}

	if h.cache != nil {
		response.Cache = mappers.ToCacheStatusResponse(h.cache.Status(ctx))
		if !response.Cache.Reachable {
			response.Status = StatusDegraded
		}
	}

	return &HealthOutput{Body: response}, nil
}
