// ABOUTME: Response DTOs for the scrape, debug and listing endpoints
// ABOUTME: Shapes the JSON returned to callers independently of the domain models

package responses

import "time"

// LabelResponse is a promotional or informational tag on a product
type LabelResponse struct {
	Title    string `json:"title"`
	Type     string `json:"type,omitempty"`
	Position string `json:"position,omitempty"`
}

// ProductResponse represents one product listing
type ProductResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Price           string          `json:"price"`
	PriceAmount     string          `json:"price_amount" doc:"Numeric price as a decimal string"`
	OriginalPrice   string          `json:"original_price,omitempty"`
	DiscountPercent float64         `json:"discount_percent"`
	Rating          float64         `json:"rating"`
	ReviewCount     int             `json:"review_count"`
	SoldCount       int             `json:"sold_count"`
	URL             string          `json:"url"`
	ImageURL        string          `json:"image_url,omitempty"`
	Category        string          `json:"category,omitempty"`
	Badges          []string        `json:"badges,omitempty"`
	Labels          []LabelResponse `json:"labels,omitempty"`
	ShopID          string          `json:"shop_id"`
	ShopName        string          `json:"shop_name"`
	ShopCity        string          `json:"shop_city"`
	IsBestseller    bool            `json:"is_bestseller"`
	IsTrending      bool            `json:"is_trending"`
	IsTopRated      bool            `json:"is_top_rated"`
	PopularityScore float64         `json:"popularity_score"`
}

// ShopResponse represents a seller with its aggregates
type ShopResponse struct {
	ID                  string  `json:"id"`
	Name                string  `json:"name"`
	City                string  `json:"city"`
	URL                 string  `json:"url,omitempty"`
	IsOfficial          bool    `json:"is_official"`
	IsPowerBadge        bool    `json:"is_power_badge"`
	AvgRating           float64 `json:"avg_rating"`
	TotalReviews        int     `json:"total_reviews"`
	AvgDiscountPercent  float64 `json:"avg_discount_percent"`
	ProductCount        int     `json:"product_count"`
	RecommendationScore float64 `json:"recommendation_score"`
}

// SummaryResponse aggregates a result for quick display
type SummaryResponse struct {
	TotalShops      int     `json:"total_shops"`
	BestsellerCount int     `json:"bestseller_count"`
	TrendingCount   int     `json:"trending_count"`
	AvgRating       float64 `json:"avg_product_rating"`
}

// OutcomeResponse describes one strategy attempt
type OutcomeResponse struct {
	Strategy   string `json:"strategy"`
	Outcome    string `json:"outcome" enum:"success,soft_failure,failure"`
	ItemCount  int    `json:"item_count"`
	ErrorKind  string `json:"error_kind,omitempty"`
	Error      string `json:"error,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}

// ScrapeResponse is the body of POST /scrape
type ScrapeResponse struct {
	Query            string            `json:"query"`
	Count            int               `json:"count"`
	StrategyUsed     string            `json:"strategy_used,omitempty"`
	Products         []ProductResponse `json:"products"`
	Shops            []ShopResponse    `json:"shops"`
	Bestsellers      []ProductResponse `json:"bestsellers"`
	Trending         []ProductResponse `json:"trending"`
	RecommendedShops []ShopResponse    `json:"recommended_shops"`
	Summary          SummaryResponse   `json:"summary"`
	Failures         []OutcomeResponse `json:"failures,omitempty" doc:"Failed strategy attempts, in chain order"`
	Cached           bool              `json:"cached"`
	GeneratedAt      time.Time         `json:"generated_at"`
}

// DebugResponse is the body of POST /scrape/debug
type DebugResponse struct {
	Query        string            `json:"query"`
	Count        int               `json:"count"`
	StrategyUsed string            `json:"strategy_used,omitempty"`
	Outcomes     []OutcomeResponse `json:"outcomes"`
}

// RecentSearchResponse is one entry of the recent searches list
type RecentSearchResponse struct {
	Query           string    `json:"query"`
	Timestamp       time.Time `json:"timestamp"`
	ResultCount     int       `json:"result_count"`
	BestsellerCount int       `json:"bestseller_count"`
	TrendingCount   int       `json:"trending_count"`
}

// RecentSearchesResponse is the body of GET /searches/recent
type RecentSearchesResponse struct {
	Searches []RecentSearchResponse `json:"searches"`
}

// RecommendedShopsResponse is the body of GET /shops/recommended
type RecommendedShopsResponse struct {
	Shops []ShopResponse `json:"shops"`
}

// BestsellersResponse is the body of GET /products/bestsellers
type BestsellersResponse struct {
	Products []ProductResponse `json:"products"`
}
