// ABOUTME: Process-wide request counters reported by the health endpoint
// ABOUTME: Updated by the scrape handler, safe for concurrent use

package handlers

import (
	"sync/atomic"

	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/api/dto/responses"
	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/domain"
)

// Counters tracks scrape outcomes since startup
type Counters struct {
	searches  atomic.Int64
	cacheHits atomic.Int64
	exhausted atomic.Int64
	errors    atomic.Int64
}

// RecordResult counts a completed search
func (c *Counters) RecordResult(result *domain.SearchResult) {
	c.searches.Add(1)
	if result == nil {
		return
	}
	if result.Cached {
		c.cacheHits.Add(1)
	}
	if len(result.Products) == 0 && len(result.Failures) > 0 {
		c.exhausted.Add(1)
	}
}

// RecordError counts a search that returned an error
func (c *Counters) RecordError() {
	c.searches.Add(1)
	c.errors.Add(1)
}

// Snapshot returns the current values
func (c *Counters) Snapshot() responses.CountersResponse {
	return responses.CountersResponse{
		Searches:  c.searches.Load(),
		CacheHits: c.cacheHits.Load(),
		Exhausted: c.exhausted.Load(),
		Errors:    c.errors.Load(),
	}
}
