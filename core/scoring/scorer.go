// ABOUTME: Intelligence scorer deriving popularity, flags and shop recommendation scores
// ABOUTME: Pure and deterministic: no I/O, no randomness, same input yields same output

package scoring

import (
	"math"
	"sort"
	"strings"

	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/domain"
)

// Score bounds
const (
	MaxPopularity     = 5.0
	MaxRecommendation = 100.0
)

// Bestseller thresholds. All three must hold.
const (
	BestsellerMinRating     = 4.5
	BestsellerMinReviews    = 50
	BestsellerMinPopularity = 3.5
)

// Recommendation score weights, summing to MaxRecommendation
const (
	officialWeight   = 25.0
	powerBadgeWeight = 10.0
	ratingWeight     = 30.0
	reviewWeight     = 20.0
	discountWeight   = 10.0
	productWeight    = 5.0

	// review count at which the review component reaches ~63% of its weight
	reviewSaturation = 500.0
)

// TrendingDiscount is the discount that marks a product trending on its own
const TrendingDiscount = 10.0

var promoMarkers = []string{"promo", "discount", "diskon", "cashback", "flash sale"}

// Options tune the relative parts of the scorer
type Options struct {
	// TrendingBand is the lower bound of the popularity band marking a
	// product trending
	TrendingBand float64

	// TopRatedFraction is the share of the batch flagged top-rated
	TopRatedFraction float64
}

// DefaultOptions returns the production tuning
func DefaultOptions() Options {
	return Options{TrendingBand: 4.0, TopRatedFraction: 0.2}
}

// Scorer enriches products and shops in place
type Scorer struct {
	opts Options
}

// NewScorer creates a scorer; zero option fields take their defaults
func NewScorer(opts Options) *Scorer {
	def := DefaultOptions()
	if opts.TrendingBand <= 0 || opts.TrendingBand > MaxPopularity {
		opts.TrendingBand = def.TrendingBand
	}
	if opts.TopRatedFraction <= 0 || opts.TopRatedFraction > 1 {
		opts.TopRatedFraction = def.TopRatedFraction
	}
	return &Scorer{opts: opts}
}

// Score derives every product's popularity and flags, then every referenced
// shop's aggregates and recommendation score. Shops are returned in the order
// products first reference them.
func (s *Scorer) Score(products []*domain.Product) ([]*domain.Product, []*domain.Shop) {
	for _, p := range products {
		p.Rating = finite(p.Rating)
		p.DiscountPercent = finite(p.DiscountPercent)
		p.PopularityScore = Popularity(p.Rating, p.ReviewCount, p.SoldCount)
		p.IsBestseller = IsBestseller(p.Rating, p.ReviewCount, p.PopularityScore)
		p.IsTrending = s.isTrending(p)
		p.IsTopRated = false
	}
	s.markTopRated(products)

	shops := s.scoreShops(products)
	return products, shops
}

// Popularity returns a score in [0, 5] from rating, review count and sold count
func Popularity(rating float64, reviews, sold int) float64 {
	rating = finite(rating)
	if rating <= 0 && sold <= 0 {
		return 0
	}
	score := math.Max(rating, 0)*0.7 + math.Min(float64(max(reviews, 0))/100, 3)
	if sold > 0 {
		score += math.Min(float64(sold)/1000, 0.5)
	}
	return round(math.Min(score, MaxPopularity), 2)
}

// IsBestseller applies the bestseller predicate
func IsBestseller(rating float64, reviews int, popularity float64) bool {
	return rating >= BestsellerMinRating &&
		reviews >= BestsellerMinReviews &&
		popularity >= BestsellerMinPopularity
}

func (s *Scorer) isTrending(p *domain.Product) bool {
	if p.DiscountPercent >= TrendingDiscount {
		return true
	}
	if hasPromoLabel(p.Labels) {
		return true
	}
	return p.PopularityScore >= s.opts.TrendingBand
}

func hasPromoLabel(labels []domain.Label) bool {
	for _, l := range labels {
		text := strings.ToLower(l.Type + " " + l.Title + " " + l.Position)
		for _, m := range promoMarkers {
			if strings.Contains(text, m) {
				return true
			}
		}
	}
	return false
}

// markTopRated flags the best rated ceil(n*fraction) products of the batch.
// Ties break by review count, then id. Unrated products are never flagged.
func (s *Scorer) markTopRated(products []*domain.Product) {
	if len(products) == 0 {
		return
	}
	ranked := make([]*domain.Product, len(products))
	copy(ranked, products)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Rating != b.Rating {
			return a.Rating > b.Rating
		}
		if a.ReviewCount != b.ReviewCount {
			return a.ReviewCount > b.ReviewCount
		}
		return a.ID < b.ID
	})

	n := int(math.Ceil(float64(len(products)) * s.opts.TopRatedFraction))
	for _, p := range ranked[:n] {
		if p.Rating > 0 {
			p.IsTopRated = true
		}
	}
}

func (s *Scorer) scoreShops(products []*domain.Product) []*domain.Shop {
	type agg struct {
		ratingSum   float64
		rated       int
		reviews     int
		discountSum float64
		count       int
	}

	var shops []*domain.Shop
	aggs := make(map[*domain.Shop]*agg)
	for _, p := range products {
		if p.Shop == nil {
			continue
		}
		a, ok := aggs[p.Shop]
		if !ok {
			a = &agg{}
			aggs[p.Shop] = a
			shops = append(shops, p.Shop)
		}
		if p.Rating > 0 {
			a.ratingSum += p.Rating
			a.rated++
		}
		a.reviews += p.ReviewCount
		a.discountSum += p.DiscountPercent
		a.count++
	}

	for _, shop := range shops {
		a := aggs[shop]
		shop.AvgRating = 0
		if a.rated > 0 {
			shop.AvgRating = round(a.ratingSum/float64(a.rated), 1)
		}
		shop.TotalReviews = a.reviews
		shop.AvgDiscountPercent = round(a.discountSum/float64(a.count), 1)
		shop.ProductCount = a.count
		shop.RecommendationScore = RecommendationScore(shop)
	}
	return shops
}

// RecommendationScore computes a shop's score in [0, 100] from its badges
// and aggregates
func RecommendationScore(shop *domain.Shop) float64 {
	score := 0.0
	if shop.IsOfficial {
		score += officialWeight
	}
	if shop.IsPowerBadge {
		score += powerBadgeWeight
	}
	if shop.AvgRating > 0 {
		score += math.Min(shop.AvgRating/5, 1) * ratingWeight
	}
	if shop.TotalReviews > 0 {
		score += reviewWeight * (1 - math.Exp(-float64(shop.TotalReviews)/reviewSaturation))
	}
	score += clamp(shop.AvgDiscountPercent, 0, discountWeight)
	score += clamp(float64(shop.ProductCount), 0, productWeight)

	return round(clamp(score, 0, MaxRecommendation), 1)
}

// Recommend returns up to limit shops ordered by recommendation score. Ties
// break by total reviews, then id.
func Recommend(shops []*domain.Shop, limit int) []*domain.Shop {
	ranked := make([]*domain.Shop, len(shops))
	copy(ranked, shops)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.RecommendationScore != b.RecommendationScore {
			return a.RecommendationScore > b.RecommendationScore
		}
		if a.TotalReviews != b.TotalReviews {
			return a.TotalReviews > b.TotalReviews
		}
		return a.ID < b.ID
	})
	if limit >= 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// RankProducts returns up to limit products ordered by popularity. Ties
// break by review count, then id. A negative limit keeps every product.
func RankProducts(products []*domain.Product, limit int) []*domain.Product {
	ranked := make([]*domain.Product, len(products))
	copy(ranked, products)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.PopularityScore != b.PopularityScore {
			return a.PopularityScore > b.PopularityScore
		}
		if a.ReviewCount != b.ReviewCount {
			return a.ReviewCount > b.ReviewCount
		}
		return a.ID < b.ID
	})
	if limit >= 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// Bestsellers returns the flagged products in batch order
func Bestsellers(products []*domain.Product) []*domain.Product {
	return filter(products, func(p *domain.Product) bool { return p.IsBestseller })
}

// Trending returns the flagged products in batch order
func Trending(products []*domain.Product) []*domain.Product {
	return filter(products, func(p *domain.Product) bool { return p.IsTrending })
}

// Summarize builds the summary block for a scored batch
func Summarize(products []*domain.Product, shops []*domain.Shop) domain.Summary {
	sum := domain.Summary{TotalShops: len(shops)}
	ratingSum, rated := 0.0, 0
	for _, p := range products {
		if p.IsBestseller {
			sum.BestsellerCount++
		}
		if p.IsTrending {
			sum.TrendingCount++
		}
		if p.Rating > 0 {
			ratingSum += p.Rating
			rated++
		}
	}
	if rated > 0 {
		sum.AvgRating = round(ratingSum/float64(rated), 2)
	}
	return sum
}

func filter(products []*domain.Product, keep func(*domain.Product) bool) []*domain.Product {
	out := make([]*domain.Product, 0)
	for _, p := range products {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// clamp sends NaN to the lower bound
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(v, hi))
}

// finite replaces NaN and infinities with zero
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func round(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}
