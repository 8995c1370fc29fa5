package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/api/dto/responses"
	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/domain"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListingHandler_RecentSearches(t *testing.T) {
	var gotLimit int
	ts := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	service := &mockListingService{
		recentFunc: func(ctx context.Context, limit int) ([]domain.RecentSearch, error) {
			gotLimit = limit
			return []domain.RecentSearch{
				{Query: "tas", Timestamp: ts, ResultCount: 5},
				{Query: "sepatu", Timestamp: ts.Add(-time.Minute), ResultCount: 3},
			}, nil
		},
	}
	_, api := humatest.New(t)
	NewListingHandler(service).RegisterRoutes(api)

	resp := api.Get("/searches/recent?limit=2")

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 2, gotLimit)

	var body responses.RecentSearchesResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Len(t, body.Searches, 2)
	assert.Equal(t, "tas", body.Searches[0].Query)
	assert.Equal(t, 5, body.Searches[0].ResultCount)
}

func TestListingHandler_RecentSearches_DefaultLimit(t *testing.T) {
	var gotLimit int
	service := &mockListingService{
		recentFunc: func(ctx context.Context, limit int) ([]domain.RecentSearch, error) {
			gotLimit = limit
			return nil, nil
		},
	}
	_, api := humatest.New(t)
	NewListingHandler(service).RegisterRoutes(api)

	resp := api.Get("/searches/recent")

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 10, gotLimit)
	assert.JSONEq(t, `{"searches":[]}`, extractBody(t, resp.Body.Bytes(), "searches"))
}

func TestListingHandler_RecentSearches_LimitOutOfRange(t *testing.T) {
	_, api := humatest.New(t)
	NewListingHandler(&mockListingService{}).RegisterRoutes(api)

	assert.Equal(t, http.StatusUnprocessableEntity, api.Get("/searches/recent?limit=0").Code)
	assert.Equal(t, http.StatusUnprocessableEntity, api.Get("/searches/recent?limit=51").Code)
}

func TestListingHandler_RecentSearches_StoreError(t *testing.T) {
	service := &mockListingService{
		recentFunc: func(ctx context.Context, limit int) ([]domain.RecentSearch, error) {
			return nil, fmt.Errorf("list recent searches: connection refused")
		},
	}
	_, api := humatest.New(t)
	NewListingHandler(service).RegisterRoutes(api)

	assert.Equal(t, http.StatusInternalServerError, api.Get("/searches/recent").Code)
}

func TestListingHandler_RecommendedShops(t *testing.T) {
	var gotLimit int
	service := &mockListingService{
		shopsFunc: func(ctx context.Context, limit int) ([]*domain.Shop, error) {
			gotLimit = limit
			return []*domain.Shop{
				{ID: "s1", Name: "Toko Resmi", IsOfficial: true, RecommendationScore: 80},
				nil,
				{ID: "s2", Name: "Toko Kecil", RecommendationScore: 40},
			}, nil
		},
	}
	_, api := humatest.New(t)
	NewListingHandler(service).RegisterRoutes(api)

	resp := api.Get("/shops/recommended")

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 5, gotLimit)

	var body responses.RecommendedShopsResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Len(t, body.Shops, 2)
	assert.Equal(t, "s1", body.Shops[0].ID)
	assert.Equal(t, 80.0, body.Shops[0].RecommendationScore)
}

func TestListingHandler_Bestsellers(t *testing.T) {
	var gotLimit int
	shop := &domain.Shop{ID: "s1", Name: "Toko Lari", City: "Bandung"}
	service := &mockListingService{
		bestsellersFunc: func(ctx context.Context, limit int) ([]*domain.Product, error) {
			gotLimit = limit
			return []*domain.Product{
				{ID: "p1", Name: "Sepatu Lari", ShopID: "s1", Shop: shop, PopularityScore: 4.9, IsBestseller: true},
				nil,
				{ID: "p2", Name: "Sepatu Jalan", ShopID: "s1", Shop: shop, PopularityScore: 4.1, IsBestseller: true},
			}, nil
		},
	}
	_, api := humatest.New(t)
	NewListingHandler(service).RegisterRoutes(api)

	resp := api.Get("/products/bestsellers?limit=2")

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 2, gotLimit)
	assert.JSONEq(t, `{"products":[{"id":"p1"},{"id":"p2"}]}`, pickIDs(t, resp.Body.Bytes()))

	var body responses.BestsellersResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Len(t, body.Products, 2)
	assert.Equal(t, "Toko Lari", body.Products[0].ShopName)
	assert.True(t, body.Products[0].IsBestseller)
}

func TestListingHandler_BestsellersDefaultsAndEmpty(t *testing.T) {
	var gotLimit int
	service := &mockListingService{
		bestsellersFunc: func(ctx context.Context, limit int) ([]*domain.Product, error) {
			gotLimit = limit
			return nil, nil
		},
	}
	_, api := humatest.New(t)
	NewListingHandler(service).RegisterRoutes(api)

	resp := api.Get("/products/bestsellers")

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 10, gotLimit)
	assert.JSONEq(t, `{"products":[]}`, extractBody(t, resp.Body.Bytes(), "products"))
	assert.Equal(t, http.StatusUnprocessableEntity, api.Get("/products/bestsellers?limit=0").Code)
}

// pickIDs reduces a product listing body to its ids
func pickIDs(t *testing.T, raw []byte) string {
	t.Helper()
	var decoded struct {
		Products []struct {
			ID string `json:"id"`
		} `json:"products"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	out, err := json.Marshal(decoded)
	require.NoError(t, err)
	return string(out)
}

// extractBody re-encodes a single top-level field so it can be compared as JSON
func extractBody(t *testing.T, raw []byte, field string) string {
	t.Helper()
	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &decoded))
	out, err := json.Marshal(map[string]json.RawMessage{field: decoded[field]})
	require.NoError(t, err)
	return string(out)
}
