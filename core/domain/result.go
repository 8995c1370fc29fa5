// ABOUTME: Pipeline result models including strategy outcomes and summary block
// ABOUTME: SearchResult is what callers receive for a completed or exhausted run

package domain

import "time"

// OutcomeKind classifies a single strategy attempt
type OutcomeKind string

const (
	// OutcomeSuccess means the strategy produced a viable batch
	OutcomeSuccess OutcomeKind = "success"

	// OutcomeSoftFailure means upstream answered well-formed but without usable
	// data, typically because the request was blocked
	OutcomeSoftFailure OutcomeKind = "soft_failure"

	// OutcomeFailure means no data was obtained (network, timeout, schema drift)
	OutcomeFailure OutcomeKind = "failure"
)

// StrategyOutcome records one strategy attempt. It is transient and only used
// for diagnostics.
type StrategyOutcome struct {
	Strategy  string        `json:"strategy"`
	Outcome   OutcomeKind   `json:"outcome"`
	ItemCount int           `json:"item_count"`
	ErrorKind string        `json:"error_kind,omitempty"`
	Error     string        `json:"error,omitempty"`
	Duration  time.Duration `json:"duration"`
}

// Succeeded reports whether the attempt produced a viable batch
func (o StrategyOutcome) Succeeded() bool {
	return o.Outcome == OutcomeSuccess
}

// Summary aggregates a result for quick display
type Summary struct {
	TotalShops      int     `json:"total_shops"`
	BestsellerCount int     `json:"bestseller_count"`
	TrendingCount   int     `json:"trending_count"`
	AvgRating       float64 `json:"avg_product_rating"`
}

// SearchResult is the structured answer to a Query
type SearchResult struct {
	Query            string            `json:"query"`
	Count            int               `json:"count"`
	StrategyUsed     string            `json:"strategy_used,omitempty"`
	Products         []*Product        `json:"products"`
	Shops            []*Shop           `json:"shops"`
	Bestsellers      []*Product        `json:"bestsellers"`
	Trending         []*Product        `json:"trending"`
	RecommendedShops []*Shop           `json:"recommended_shops"`
	Summary          Summary           `json:"summary"`
	Failures         []StrategyOutcome `json:"failures,omitempty"`
	Cached           bool              `json:"cached"`
	GeneratedAt      time.Time         `json:"generated_at"`
}

// DebugReport lists every strategy attempt for a query instead of the
// collapsed best result
type DebugReport struct {
	Query        string            `json:"query"`
	Count        int               `json:"count"`
	StrategyUsed string            `json:"strategy_used,omitempty"`
	Outcomes     []StrategyOutcome `json:"outcomes"`
}
