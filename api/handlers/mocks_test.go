package handlers

import (
	"context"

	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/domain"
)

// mockSearchService is a mock implementation of the search service
type mockSearchService struct {
	searchFunc func(ctx context.Context, q domain.Query) (*domain.SearchResult, error)
	debugFunc  func(ctx context.Context, q domain.Query) (*domain.DebugReport, error)
}

func (m *mockSearchService) Search(ctx context.Context, q domain.Query) (*domain.SearchResult, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, q)
	}
	return &domain.SearchResult{Query: q.Term, Count: q.Count}, nil
}

func (m *mockSearchService) Debug(ctx context.Context, q domain.Query) (*domain.DebugReport, error) {
	if m.debugFunc != nil {
		return m.debugFunc(ctx, q)
	}
	return &domain.DebugReport{Query: q.Term, Count: q.Count}, nil
}

// mockListingService is a mock implementation of the listing service
type mockListingService struct {
	recentFunc      func(ctx context.Context, limit int) ([]domain.RecentSearch, error)
	shopsFunc       func(ctx context.Context, limit int) ([]*domain.Shop, error)
	bestsellersFunc func(ctx context.Context, limit int) ([]*domain.Product, error)
}

func (m *mockListingService) Recent(ctx context.Context, limit int) ([]domain.RecentSearch, error) {
	if m.recentFunc != nil {
		return m.recentFunc(ctx, limit)
	}
	return nil, nil
}

func (m *mockListingService) RecommendedShops(ctx context.Context, limit int) ([]*domain.Shop, error) {
	if m.shopsFunc != nil {
		return m.shopsFunc(ctx, limit)
	}
	return nil, nil
}

func (m *mockListingService) Bestsellers(ctx context.Context, limit int) ([]*domain.Product, error) {
	if m.bestsellersFunc != nil {
		return m.bestsellersFunc(ctx, limit)
	}
	return nil, nil
}

// mockCacheHealth is a mock implementation of interfaces.CacheHealth
type mockCacheHealth struct {
	status domain.CacheStatus
}

func (m *mockCacheHealth) Status(ctx context.Context) domain.CacheStatus {
	return m.status
}
