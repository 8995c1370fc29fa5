// ABOUTME: Search service runs the acquisition pipeline for one query
// ABOUTME: validate, cache lookup, strategy chain, scoring, cache write, event and history

package search

import (
	"context"
	"time"

	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/domain"
	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/errors"
	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/interfaces"
	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/resultcache"
	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/scoring"
	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/strategy"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Defaults for Config fields left at zero
const (
	DefaultResultTTL        = 30 * time.Minute
	DefaultShopTTL          = 6 * time.Hour
	DefaultEventTopic       = "tokped:search:completed"
	DefaultRecommendedLimit = 5
	DefaultRecentLimit      = 10
	DefaultBestsellerLimit  = 10
)

// Acquirer obtains a product batch for a query
type Acquirer interface {
	Acquire(ctx context.Context, q domain.Query) (*strategy.Acquisition, error)
}

// Config tunes the pipeline
type Config struct {
	ResultTTL  time.Duration
	ShopTTL    time.Duration
	EventTopic string

	// RecommendedLimit caps the recommended shops in a result
	RecommendedLimit int

	// ShopAggregates stores shop scores and bestseller products under ShopTTL
	// so they outlive results
	ShopAggregates bool
}

func (c Config) withDefaults() Config {
	if c.ResultTTL <= 0 {
		c.ResultTTL = DefaultResultTTL
	}
	if c.ShopTTL <= 0 {
		c.ShopTTL = DefaultShopTTL
	}
	if c.EventTopic == "" {
		c.EventTopic = DefaultEventTopic
	}
	if c.RecommendedLimit <= 0 {
		c.RecommendedLimit = DefaultRecommendedLimit
	}
	return c
}

// SearchService orchestrates the acquisition pipeline
type SearchService struct {
	deps     interfaces.Dependencies
	chain    Acquirer
	scorer   *scoring.Scorer
	results  *resultcache.Store
	cfg      Config
	validate *validator.Validate
	now      func() time.Time
}

// NewSearchService creates a new search service instance
func NewSearchService(deps interfaces.Dependencies, chain Acquirer, scorer *scoring.Scorer, cfg Config) *SearchService {
	if deps.Observer == nil {
		deps.Observer = interfaces.NopObserver{}
	}
	if scorer == nil {
		scorer = scoring.NewScorer(scoring.DefaultOptions())
	}
	s := &SearchService{
		deps:     deps,
		chain:    chain,
		scorer:   scorer,
		cfg:      cfg.withDefaults(),
		validate: newValidator(),
		now:      time.Now,
	}
	if deps.Cache != nil {
		s.results = resultcache.New(deps.Cache, resultcache.WithLogger(deps.Logger))
	}
	return s
}

// Search answers a query from the cache or by running the strategy chain.
//
// Only validation errors and context cancellation are returned as errors.
// When every strategy fails the result carries zero products and the
// ordered failures.
func (s *SearchService) Search(ctx context.Context, q domain.Query) (*domain.SearchResult, error) {
	q = normalizeQuery(q)
	if err := s.validateQuery(q); err != nil {
		return nil, err
	}
	start := s.now()
	key := q.CacheKey()

	if q.UseCache {
		if result, ok := s.lookup(ctx, key); ok {
			s.appendHistory(ctx, result)
			s.deps.Observer.PipelineCompleted("cache", s.now().Sub(start))
			return result, nil
		}
	}

	acq, err := s.chain.Acquire(ctx, q)
	if err != nil {
		if !errors.IsExhausted(err) {
			return nil, err
		}
		result := s.exhaustedResult(q, acq)
		s.logInfo("All strategies exhausted", map[string]interface{}{
			"query":    q.Term,
			"failures": len(result.Failures),
		})
		s.appendHistory(ctx, result)
		s.deps.Observer.PipelineCompleted("exhausted", s.now().Sub(start))
		return result, nil
	}

	products, shops := s.scorer.Score(acq.Products)
	result := s.buildResult(q, acq.StrategyUsed, products, shops)
	result.Failures = acq.Failures()
	result.GeneratedAt = s.now().UTC()

	s.save(ctx, key, result)
	s.appendHistory(ctx, result)

	s.deps.Observer.PipelineCompleted(acq.StrategyUsed, s.now().Sub(start))
	return result, nil
}

// Debug runs the strategy chain without the cache and reports every attempt
func (s *SearchService) Debug(ctx context.Context, q domain.Query) (*domain.DebugReport, error) {
	q = normalizeQuery(q)
	if err := s.validateQuery(q); err != nil {
		return nil, err
	}

	acq, err := s.chain.Acquire(ctx, q)
	if err != nil && !errors.IsExhausted(err) {
		return nil, err
	}

	report := &domain.DebugReport{
		Query:    q.Term,
		Count:    q.Count,
		Outcomes: make([]domain.StrategyOutcome, 0),
	}
	if acq != nil {
		report.StrategyUsed = acq.StrategyUsed
		report.Outcomes = append(report.Outcomes, acq.Outcomes...)
	}
	return report, nil
}

// Recent returns up to limit recent searches, most recent first
func (s *SearchService) Recent(ctx context.Context, limit int) ([]domain.RecentSearch, error) {
	if s.deps.History == nil {
		return []domain.RecentSearch{}, nil
	}
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	entries, err := s.deps.History.List(ctx, limit)
	if err != nil {
		return nil, errors.WrapError(err, "list recent searches")
	}
	if entries == nil {
		entries = []domain.RecentSearch{}
	}
	return entries, nil
}

func (s *SearchService) buildResult(q domain.Query, used string, products []*domain.Product, shops []*domain.Shop) *domain.SearchResult {
	if products == nil {
		products = []*domain.Product{}
	}
	if shops == nil {
		shops = []*domain.Shop{}
	}
	return &domain.SearchResult{
		Query:            q.Term,
		Count:            q.Count,
		StrategyUsed:     used,
		Products:         products,
		Shops:            shops,
		Bestsellers:      scoring.Bestsellers(products),
		Trending:         scoring.Trending(products),
		RecommendedShops: scoring.Recommend(shops, s.cfg.RecommendedLimit),
		Summary:          scoring.Summarize(products, shops),
	}
}

func (s *SearchService) exhaustedResult(q domain.Query, acq *strategy.Acquisition) *domain.SearchResult {
	result := s.buildResult(q, "", nil, nil)
	result.Failures = []domain.StrategyOutcome{}
	if acq != nil {
		result.Failures = acq.Failures()
	}
	result.GeneratedAt = s.now().UTC()
	return result
}

// appendHistory records one entry per completed run: fresh, cached or
// exhausted. The timestamp is the run's, not the cached result's.
func (s *SearchService) appendHistory(ctx context.Context, result *domain.SearchResult) {
	if s.deps.History == nil {
		return
	}
	entry := domain.RecentSearch{
		Query:           result.Query,
		Timestamp:       s.now().UTC(),
		ResultCount:     len(result.Products),
		BestsellerCount: result.Summary.BestsellerCount,
		TrendingCount:   result.Summary.TrendingCount,
	}
	if err := s.deps.History.Append(ctx, entry); err != nil {
		s.logWarn("Failed to record recent search", map[string]interface{}{
			"query": result.Query,
			"error": err.Error(),
		})
	}
}

func (s *SearchService) publish(ctx context.Context, key string, result *domain.SearchResult) {
	if s.deps.Publisher == nil {
		return
	}
	s.deps.Publisher.Publish(ctx, s.cfg.EventTopic, domain.SearchEvent{
		ID:              uuid.New().String(),
		Query:           result.Query,
		CacheKey:        key,
		StrategyUsed:    result.StrategyUsed,
		ResultCount:     len(result.Products),
		BestsellerCount: result.Summary.BestsellerCount,
		OccurredAt:      result.GeneratedAt,
	})
}

func (s *SearchService) logInfo(msg string, fields map[string]interface{}) {
	if s.deps.Logger != nil {
		s.deps.Logger.Info(msg, fields)
	}
}

func (s *SearchService) logWarn(msg string, fields map[string]interface{}) {
	if s.deps.Logger != nil {
		s.deps.Logger.Warn(msg, fields)
	}
}
