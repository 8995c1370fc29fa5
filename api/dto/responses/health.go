// ABOUTME: Response DTOs for the health check
// ABOUTME: Reports cache reachability and request counters

package responses

// CacheStatusResponse is the cache layer as seen by the health check
type CacheStatusResponse struct {
	Reachable   bool   `json:"reachable"`
	Backend     string `json:"backend"`
	Keys        int64  `json:"keys"`
	MemoryBytes int64  `json:"memory_bytes"`
}

// CountersResponse holds request counters since startup
type CountersResponse struct {
	Searches  int64 `json:"searches"`
	CacheHits int64 `json:"cache_hits"`
	Exhausted int64 `json:"exhausted"`
	Errors    int64 `json:"errors"`
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status   string              `json:"status" enum:"ok,degraded"`
	Version  string              `json:"version"`
	Uptime   string              `json:"uptime"`
	Cache    CacheStatusResponse `json:"cache"`
	Counters CountersResponse    `json:"counters"`
}
