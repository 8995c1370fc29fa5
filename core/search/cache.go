// ABOUTME: Result, shop and bestseller aggregate caching for the search pipeline
// ABOUTME: Cache problems are logged and never fail the surrounding request

package search

import (
	"context"
	"time"

	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/domain"
	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/errors"
	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/scoring"
)

// ShopAggregatesKey holds the scored shops seen across recent searches
const ShopAggregatesKey = "shops:aggregate"

// BestsellersKey holds the bestseller products seen across recent searches
// together with their shops
const BestsellersKey = "products:bestsellers"

// Aggregate entry bounds
const (
	maxAggregatedShops       = 200
	maxAggregatedBestsellers = 200
)

// cachedResult is the stored form of a search result. Derived sublists are
// rebuilt on read so that they share pointers with Products and Shops.
type cachedResult struct {
	Query        string                   `json:"query"`
	Count        int                      `json:"count"`
	StrategyUsed string                   `json:"strategy_used"`
	Products     []*domain.Product        `json:"products"`
	Shops        []*domain.Shop           `json:"shops"`
	Failures     []domain.StrategyOutcome `json:"failures,omitempty"`
	GeneratedAt  time.Time                `json:"generated_at"`
}

// lookup returns the cached result for key. Misses, expired entries and an
// unreachable cache all read as not found.
func (s *SearchService) lookup(ctx context.Context, key string) (*domain.SearchResult, bool) {
	if s.results == nil {
		return nil, false
	}

	var cached cachedResult
	_, err := s.results.Load(ctx, key, &cached)
	if err != nil {
		s.deps.Observer.CacheLookup(false)
		if !errors.IsCacheMiss(err) {
			s.logWarn("Cache lookup failed", map[string]interface{}{"key": key, "error": err.Error()})
		}
		return nil, false
	}

	batch := &domain.Batch{Products: cached.Products, Shops: cached.Shops}
	if err := batch.Link(); err != nil {
		s.deps.Observer.CacheLookup(false)
		s.logWarn("Discarding inconsistent cached result", map[string]interface{}{"key": key, "error": err.Error()})
		return nil, false
	}
	s.deps.Observer.CacheLookup(true)

	result := s.buildResult(domain.Query{Term: cached.Query, Count: cached.Count}, cached.StrategyUsed, batch.Products, batch.Shops)
	result.Failures = cached.Failures
	result.GeneratedAt = cached.GeneratedAt
	result.Cached = true
	return result, true
}

// save stores the result, refreshes shop aggregates and publishes the
// completion event. The event is only sent after a successful write.
func (s *SearchService) save(ctx context.Context, key string, result *domain.SearchResult) {
	if s.results == nil {
		return
	}

	entry := cachedResult{
		Query:        result.Query,
		Count:        result.Count,
		StrategyUsed: result.StrategyUsed,
		Products:     result.Products,
		Shops:        result.Shops,
		Failures:     result.Failures,
		GeneratedAt:  result.GeneratedAt,
	}
	if err := s.results.Put(ctx, key, entry, s.cfg.ResultTTL); err != nil {
		s.logWarn("Failed to cache search result", map[string]interface{}{"key": key, "error": err.Error()})
		return
	}

	if s.cfg.ShopAggregates {
		s.mergeShops(ctx, result.Shops)
		s.mergeBestsellers(ctx, result.Bestsellers)
	}
	s.publish(ctx, key, result)
}

// mergeShops folds freshly scored shops into the aggregate entry. Newer
// scores replace older ones for the same shop id.
func (s *SearchService) mergeShops(ctx context.Context, shops []*domain.Shop) {
	if len(shops) == 0 {
		return
	}

	var existing []*domain.Shop
	if _, err := s.results.Load(ctx, ShopAggregatesKey, &existing); err != nil && !errors.IsCacheMiss(err) {
		s.logWarn("Failed to read shop aggregates", map[string]interface{}{"error": err.Error()})
	}

	merged := make([]*domain.Shop, 0, len(existing)+len(shops))
	index := make(map[string]int)
	for _, shop := range append(existing, shops...) {
		if shop == nil {
			continue
		}
		if i, ok := index[shop.ID]; ok {
			merged[i] = shop
			continue
		}
		index[shop.ID] = len(merged)
		merged = append(merged, shop)
	}
	merged = scoring.Recommend(merged, maxAggregatedShops)

	if err := s.results.Put(ctx, ShopAggregatesKey, merged, s.cfg.ShopTTL); err != nil {
		s.logWarn("Failed to cache shop aggregates", map[string]interface{}{"error": err.Error()})
	}
}

// RecommendedShops returns the best scored shops across recent searches
func (s *SearchService) RecommendedShops(ctx context.Context, limit int) ([]*domain.Shop, error) {
	if limit <= 0 {
		limit = s.cfg.RecommendedLimit
	}
	if s.results == nil {
		return []*domain.Shop{}, nil
	}

	var shops []*domain.Shop
	if _, err := s.results.Load(ctx, ShopAggregatesKey, &shops); err != nil {
		if !errors.IsCacheMiss(err) {
			s.logWarn("Failed to read shop aggregates", map[string]interface{}{"error": err.Error()})
		}
		return []*domain.Shop{}, nil
	}
	return scoring.Recommend(shops, limit), nil
}

// mergeBestsellers folds a run's bestsellers into the aggregate entry. A
// product seen again replaces its older copy, and so does its shop.
func (s *SearchService) mergeBestsellers(ctx context.Context, bestsellers []*domain.Product) {
	if len(bestsellers) == 0 {
		return
	}

	var existing domain.Batch
	if _, err := s.results.Load(ctx, BestsellersKey, &existing); err != nil && !errors.IsCacheMiss(err) {
		s.logWarn("Failed to read bestseller aggregates", map[string]interface{}{"error": err.Error()})
	}

	shops := make(map[string]*domain.Shop, len(existing.Shops))
	for _, shop := range existing.Shops {
		if shop != nil {
			shops[shop.ID] = shop
		}
	}
	for _, p := range bestsellers {
		if p != nil && p.Shop != nil {
			shops[p.ShopID] = p.Shop
		}
	}

	products := make([]*domain.Product, 0, len(existing.Products)+len(bestsellers))
	index := make(map[string]int)
	for _, p := range append(existing.Products, bestsellers...) {
		if p == nil || shops[p.ShopID] == nil {
			continue
		}
		if i, ok := index[p.ID]; ok {
			products[i] = p
			continue
		}
		index[p.ID] = len(products)
		products = append(products, p)
	}
	products = scoring.RankProducts(products, maxAggregatedBestsellers)

	batch := domain.Batch{Products: products, Shops: make([]*domain.Shop, 0)}
	seen := make(map[string]bool)
	for _, p := range products {
		if !seen[p.ShopID] {
			seen[p.ShopID] = true
			batch.Shops = append(batch.Shops, shops[p.ShopID])
		}
	}

	if err := s.results.Put(ctx, BestsellersKey, batch, s.cfg.ShopTTL); err != nil {
		s.logWarn("Failed to cache bestseller aggregates", map[string]interface{}{"error": err.Error()})
	}
}

// Bestsellers returns the most popular bestseller products across recent
// searches, each linked to its shop
func (s *SearchService) Bestsellers(ctx context.Context, limit int) ([]*domain.Product, error) {
	if limit <= 0 {
		limit = DefaultBestsellerLimit
	}
	if s.results == nil {
		return []*domain.Product{}, nil
	}

	var batch domain.Batch
	if _, err := s.results.Load(ctx, BestsellersKey, &batch); err != nil {
		if !errors.IsCacheMiss(err) {
			s.logWarn("Failed to read bestseller aggregates", map[string]interface{}{"error": err.Error()})
		}
		return []*domain.Product{}, nil
	}
	if err := batch.Link(); err != nil {
		s.logWarn("Discarding inconsistent bestseller aggregates", map[string]interface{}{"error": err.Error()})
		return []*domain.Product{}, nil
	}
	return scoring.RankProducts(batch.Products, limit), nil
}
