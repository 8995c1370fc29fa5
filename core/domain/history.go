// ABOUTME: Recent search records, completion events and cache health snapshots
// ABOUTME: These are the boundary shapes consumed by external collaborators

package domain

import "time"

// RecentSearch is one entry of the bounded recent-history list
type RecentSearch struct {
	Query           string    `json:"query"`
	Timestamp       time.Time `json:"timestamp"`
	ResultCount     int       `json:"result_count"`
	BestsellerCount int       `json:"bestseller_count"`
	TrendingCount   int       `json:"trending_count"`
}

// SearchEvent is published after a result is stored in the cache
type SearchEvent struct {
	ID              string    `json:"id"`
	Query           string    `json:"query"`
	CacheKey        string    `json:"cache_key"`
	StrategyUsed    string    `json:"strategy_used"`
	ResultCount     int       `json:"result_count"`
	BestsellerCount int       `json:"bestseller_count"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// CacheStatus is what the health check sees of the cache layer
type CacheStatus struct {
	Reachable   bool   `json:"reachable"`
	Backend     string `json:"backend"`
	Keys        int64  `json:"keys"`
	MemoryBytes int64  `json:"memory_bytes"`
}
