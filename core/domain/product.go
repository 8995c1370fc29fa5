// ABOUTME: Canonical Product and Shop models shared by every acquisition strategy
// ABOUTME: Batch ties products to the shops observed in the same run

package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Label is a promotional or informational tag attached to a product listing
type Label struct {
	Title    string `json:"title"`
	Type     string `json:"type,omitempty"`
	Position string `json:"position,omitempty"`
}

// Product is the strategy-independent representation of one listing
type Product struct {
	// ID is the source-assigned product id, or a hash of name and shop
	ID string `json:"id"`

	Name string `json:"name"`

	// Price is the display price as shown upstream (e.g. "Rp150.000")
	Price string `json:"price"`

	// PriceAmount is the numeric value parsed from Price, zero when unparseable
	PriceAmount decimal.Decimal `json:"price_amount"`

	// OriginalPrice is the pre-discount display price, empty when not discounted
	OriginalPrice string `json:"original_price,omitempty"`

	DiscountPercent float64 `json:"discount_percent"`
	Rating          float64 `json:"rating"`
	ReviewCount     int     `json:"review_count"`

	// SoldCount is parsed from "sold" style labels, zero when none are present
	SoldCount int `json:"sold_count"`

	URL      string   `json:"url"`
	ImageURL string   `json:"image_url,omitempty"`
	Category string   `json:"category,omitempty"`
	Badges   []string `json:"badges,omitempty"`
	Labels   []Label  `json:"labels,omitempty"`

	// ShopID references a Shop in the same Batch
	ShopID string `json:"shop_id"`

	// Shop is resolved from ShopID by Batch.Link and is never serialized
	Shop *Shop `json:"-"`

	// Derived by the scorer
	IsBestseller    bool    `json:"is_bestseller"`
	IsTrending      bool    `json:"is_trending"`
	IsTopRated      bool    `json:"is_top_rated"`
	PopularityScore float64 `json:"popularity_score"`
}

// Shop is a seller observed during a run
type Shop struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	City         string `json:"city"`
	URL          string `json:"url,omitempty"`
	IsOfficial   bool   `json:"is_official"`
	IsPowerBadge bool   `json:"is_power_badge"`

	// Aggregates over this run's products
	AvgRating          float64 `json:"avg_rating"`
	TotalReviews       int     `json:"total_reviews"`
	AvgDiscountPercent float64 `json:"avg_discount_percent"`
	ProductCount       int     `json:"product_count"`

	// RecommendationScore is in [0, 100]
	RecommendationScore float64 `json:"recommendation_score"`
}

// Batch is the product set produced by one strategy together with the shops
// its products reference
type Batch struct {
	Products []*Product `json:"products"`
	Shops    []*Shop    `json:"shops"`
}

// Len returns the number of products in the batch
func (b *Batch) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Products)
}

// ShopByID returns the shop with the given id, or nil
func (b *Batch) ShopByID(id string) *Shop {
	for _, s := range b.Shops {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// Link resolves every product's Shop pointer from its ShopID. It fails when a
// product references a shop missing from the batch.
func (b *Batch) Link() error {
	index := make(map[string]*Shop, len(b.Shops))
	for _, s := range b.Shops {
		index[s.ID] = s
	}
	for _, p := range b.Products {
		shop, ok := index[p.ShopID]
		if !ok {
			return fmt.Errorf("product %s references unknown shop %q", p.ID, p.ShopID)
		}
		p.Shop = shop
	}
	return nil
}
