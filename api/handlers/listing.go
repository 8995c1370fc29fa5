// ABOUTME: Listing handlers for recent searches, recommended shops and bestsellers
// ABOUTME: All read state left behind by completed searches

package handlers

import (
	"context"
	"net/http"

	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/api/dto/mappers"
	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/api/dto/responses"
	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/domain"
	"github.com/danielgtaylor/huma/v2"
)

// ListingService provides the recent history and the cross-search aggregates
type ListingService interface {
	Recent(ctx context.Context, limit int) ([]domain.RecentSearch, error)
	RecommendedShops(ctx context.Context, limit int) ([]*domain.Shop, error)
	Bestsellers(ctx context.Context, limit int) ([]*domain.Product, error)
}

// ListingHandler handles read-only listing requests
type ListingHandler struct {
	service ListingService
}

// NewListingHandler creates a new listing handler
func NewListingHandler(service ListingService) *ListingHandler {
	return &ListingHandler{service: service}
}

// RegisterRoutes registers the listing routes
func (h *ListingHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "recentSearches",
		Method:      http.MethodGet,
		Path:        "/searches/recent",
		Summary:     "List recent searches",
		Description: "Returns the most recent completed searches, newest first",
		Tags:        []string{"Searches"},
	}, h.RecentSearches)

	huma.Register(api, huma.Operation{
		OperationID: "recommendedShops",
		Method:      http.MethodGet,
		Path:        "/shops/recommended",
		Summary:     "List recommended shops",
		Description: "Returns the best scored shops seen across recent searches",
		Tags:        []string{"Shops"},
	}, h.RecommendedShops)

	huma.Register(api, huma.Operation{
		OperationID: "bestsellerProducts",
		Method:      http.MethodGet,
		Path:        "/products/bestsellers",
		Summary:     "List bestseller products",
		Description: "Returns the most popular bestsellers seen across recent searches",
		Tags:        []string{"Products"},
	}, h.Bestsellers)
}

// RecentSearchesInput defines the input for the RecentSearches operation
type RecentSearchesInput struct {
	Limit int `query:"limit" minimum:"1" maximum:"50" default:"10" doc:"Maximum number of entries"`
}

// RecentSearchesOutput defines the output for the RecentSearches operation
type RecentSearchesOutput struct {
	Body responses.RecentSearchesResponse
}

// RecommendedShopsInput defines the input for the RecommendedShops operation
type RecommendedShopsInput struct {
	Limit int `query:"limit" minimum:"1" maximum:"50" default:"5" doc:"Maximum number of shops"`
}

// RecommendedShopsOutput defines the output for the RecommendedShops operation
type RecommendedShopsOutput struct {
	Body responses.RecommendedShopsResponse
}

// BestsellersInput defines the input for the Bestsellers operation
type BestsellersInput struct {
	Limit int `query:"limit" minimum:"1" maximum:"50" default:"10" doc:"Maximum number of products"`
}

// BestsellersOutput defines the output for the Bestsellers operation
type BestsellersOutput struct {
	Body responses.BestsellersResponse
}

// RecentSearches handles the GET /searches/recent endpoint
func (h *ListingHandler) RecentSearches(ctx context.Context, input *RecentSearchesInput) (*RecentSearchesOutput, error) {
	entries, err := h.service.Recent(ctx, input.Limit)
	if err != nil {
		return nil, toHumaError(err)
	}
	body, err := mappers.ToRecentSearchesResponse(entries)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &RecentSearchesOutput{Body: *body}, nil
}

// RecommendedShops handles the GET /shops/recommended endpoint
func (h *ListingHandler) RecommendedShops(ctx context.Context, input *RecommendedShopsInput) (*RecommendedShopsOutput, error) {
	shops, err := h.service.RecommendedShops(ctx, input.Limit)
	if err != nil {
		return nil, toHumaError(err)
	}
	out, err := mappers.ToShopResponses(shops)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &RecommendedShopsOutput{
		Body: responses.RecommendedShopsResponse{Shops: out},
	}, nil
}

// Bestsellers handles the GET /products/bestsellers endpoint
func (h *ListingHandler) Bestsellers(ctx context.Context, input *BestsellersInput) (*BestsellersOutput, error) {
	products, err := h.service.Bestsellers(ctx, input.Limit)
	if err != nil {
		return nil, toHumaError(err)
	}
	out, err := mappers.ToProductResponses(products)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &BestsellersOutput{
		Body: responses.BestsellersResponse{Products: out},
	}, nil
}
