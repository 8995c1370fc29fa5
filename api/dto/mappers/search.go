// ABOUTME: Mappers for converting search domain models to API DTOs
// ABOUTME: Field copying goes through copier; copy failures are returned to the caller

package mappers

import (
	"fmt"

	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/api/dto/responses"
	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/domain"
	"github.com/jinzhu/copier"
	"github.com/shopspring/decimal"
)

var copyOptions = copier.Option{
	Converters: []copier.TypeConverter{
		{
			SrcType: decimal.Decimal{},
			DstType: copier.String,
			Fn: func(src interface{}) (interface{}, error) {
				d, ok := src.(decimal.Decimal)
				if !ok {
					return nil, fmt.Errorf("expected decimal.Decimal, got %T", src)
				}
				return d.String(), nil
			},
		},
	},
}

// ToProductResponse converts a domain Product to a ProductResponse DTO
func ToProductResponse(product *domain.Product) (responses.ProductResponse, error) {
	var response responses.ProductResponse
	if product == nil {
		return response, nil
	}
	if err := copier.CopyWithOption(&response, product, copyOptions); err != nil {
		return response, fmt.Errorf("copy product %s: %w", product.ID, err)
	}
	if product.Shop != nil {
		response.ShopName = product.Shop.Name
		response.ShopCity = product.Shop.City
	}
	return response, nil
}

// ToProductResponses converts a product list, skipping nil entries
func ToProductResponses(products []*domain.Product) ([]responses.ProductResponse, error) {
	out := make([]responses.ProductResponse, 0, len(products))
	for _, p := range products {
		if p == nil {
			continue
		}
		response, err := ToProductResponse(p)
		if err != nil {
			return nil, err
		}
		out = append(out, response)
	}
	return out, nil
}

// ToShopResponses converts a shop list, skipping nil entries
func ToShopResponses(shops []*domain.Shop) ([]responses.ShopResponse, error) {
	out := make([]responses.ShopResponse, 0, len(shops))
	for _, s := range shops {
		if s == nil {
			continue
		}
		var response responses.ShopResponse
		if err := copier.Copy(&response, s); err != nil {
			return nil, fmt.Errorf("copy shop %s: %w", s.ID, err)
		}
		out = append(out, response)
	}
	return out, nil
}

// ToOutcomeResponses converts strategy outcomes, reporting durations in milliseconds
func ToOutcomeResponses(outcomes []domain.StrategyOutcome) ([]responses.OutcomeResponse, error) {
	out := make([]responses.OutcomeResponse, 0, len(outcomes))
	for _, o := range outcomes {
		var response responses.OutcomeResponse
		if err := copier.Copy(&response, &o); err != nil {
			return nil, fmt.Errorf("copy outcome %s: %w", o.Strategy, err)
		}
		response.Outcome = string(o.Outcome)
		response.DurationMS = o.Duration.Milliseconds()
		out = append(out, response)
	}
	return out, nil
}

// ToScrapeResponse converts a domain SearchResult to a ScrapeResponse DTO.
// The first failed copy aborts the conversion.
func ToScrapeResponse(result *domain.SearchResult) (*responses.ScrapeResponse, error) {
	if result == nil {
		return nil, nil
	}

	response := &responses.ScrapeResponse{
		Query:        result.Query,
		Count:        result.Count,
		StrategyUsed: result.StrategyUsed,
		Cached:       result.Cached,
		GeneratedAt:  result.GeneratedAt,
	}

	var err error
	if response.Products, err = ToProductResponses(result.Products); err != nil {
		return nil, err
	}
	if response.Shops, err = ToShopResponses(result.Shops); err != nil {
		return nil, err
	}
	if response.Bestsellers, err = ToProductResponses(result.Bestsellers); err != nil {
		return nil, err
	}
	if response.Trending, err = ToProductResponses(result.Trending); err != nil {
		return nil, err
	}
	if response.RecommendedShops, err = ToShopResponses(result.RecommendedShops); err != nil {
		return nil, err
	}
	if err := copier.Copy(&response.Summary, &result.Summary); err != nil {
		return nil, fmt.Errorf("copy summary: %w", err)
	}
	if len(result.Failures) > 0 {
		if response.Failures, err = ToOutcomeResponses(result.Failures); err != nil {
			return nil, err
		}
	}
	return response, nil
}

// ToDebugResponse converts a domain DebugReport to a DebugResponse DTO
func ToDebugResponse(report *domain.DebugReport) (*responses.DebugResponse, error) {
	if report == nil {
		return nil, nil
	}
	outcomes, err := ToOutcomeResponses(report.Outcomes)
	if err != nil {
		return nil, err
	}
	return &responses.DebugResponse{
		Query:        report.Query,
		Count:        report.Count,
		StrategyUsed: report.StrategyUsed,
		Outcomes:     outcomes,
	}, nil
}

// ToRecentSearchesResponse converts recent history entries
func ToRecentSearchesResponse(entries []domain.RecentSearch) (*responses.RecentSearchesResponse, error) {
	searches := make([]responses.RecentSearchResponse, 0, len(entries))
	if len(entries) > 0 {
		if err := copier.Copy(&searches, &entries); err != nil {
			return nil, fmt.Errorf("copy recent searches: %w", err)
		}
	}
	return &responses.RecentSearchesResponse{Searches: searches}, nil
}

// ToCacheStatusResponse converts the cache health snapshot
func ToCacheStatusResponse(status domain.CacheStatus) responses.CacheStatusResponse {
	return responses.CacheStatusResponse{
		Reachable:   status.Reachable,
		Backend:     status.Backend,
		Keys:        status.Keys,
		MemoryBytes: status.MemoryBytes,
	}
}
