// ABOUTME: Mapping functions for the structured GraphQL search payloads
// ABOUTME: Handles searchProductV5 and the ace_search_product_v4/v3 shapes

package normalize

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"

	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/domain"
	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/errors"
	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/pkg/utils/parse"
	"github.com/shopspring/decimal"
)

type gqlEnvelope struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type gqlSection struct {
	Header *struct {
		TotalData    *flexInt   `json:"totalData"`
		ErrorMessage flexString `json:"errorMessage"`
	} `json:"header"`
	Data *struct {
		Products json.RawMessage `json:"products"`
	} `json:"data"`
	Products json.RawMessage `json:"products"`
}

// rawPrice is either a display string (ace) or a price object (v5)
type rawPrice struct {
	Text               flexString `json:"text"`
	Number             flexFloat  `json:"number"`
	Original           flexString `json:"original"`
	DiscountPercentage flexFloat  `json:"discountPercentage"`
}

func (p *rawPrice) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '{' {
		type plain rawPrice
		return json.Unmarshal(b, (*plain)(p))
	}
	return p.Text.UnmarshalJSON(b)
}

// rawCategory is either a category name or an object carrying one
type rawCategory struct {
	Name flexString `json:"name"`
}

func (c *rawCategory) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '{' {
		type plain rawCategory
		return json.Unmarshal(b, (*plain)(c))
	}
	return c.Name.UnmarshalJSON(b)
}

type rawProduct struct {
	ID       flexString `json:"id"`
	Name     flexString `json:"name"`
	URL      flexString `json:"url"`
	ImageURL flexString `json:"imageUrl"`
	MediaURL struct {
		Image    flexString `json:"image"`
		Image700 flexString `json:"image700"`
	} `json:"mediaURL"`

	Price              rawPrice   `json:"price"`
	OriginalPrice      flexString `json:"originalPrice"`
	DiscountPercentage flexFloat  `json:"discountPercentage"`

	Rating        flexFloat `json:"rating"`
	RatingAverage flexFloat `json:"ratingAverage"`
	CountReview   flexInt   `json:"countReview"`

	Badges      badgeList `json:"badges"`
	Badge       badgeList `json:"badge"`
	LabelGroups []struct {
		Title    flexString `json:"title"`
		Type     flexString `json:"type"`
		Position flexString `json:"position"`
	} `json:"labelGroups"`

	Category     rawCategory `json:"category"`
	CategoryName flexString  `json:"categoryName"`

	Stock struct {
		Sold flexString `json:"sold"`
	} `json:"stock"`

	Shop struct {
		ID           flexString `json:"id"`
		Name         flexString `json:"name"`
		URL          flexString `json:"url"`
		City         flexString `json:"city"`
		IsOfficial   flexBool   `json:"isOfficial"`
		IsPowerBadge flexBool   `json:"isPowerBadge"`
	} `json:"shop"`
}

// SearchV5 maps a searchProductV5 response
func SearchV5(body []byte, limit int) (*domain.Batch, error) {
	const root = "searchProductV5"

	data, err := decodeEnvelope(body)
	if err != nil {
		return nil, err
	}
	raw, ok := data[root]
	if !ok || isNull(raw) {
		return nil, &errors.SchemaError{Path: "data." + root}
	}
	var section gqlSection
	if err := json.Unmarshal(raw, &section); err != nil {
		return nil, &errors.SchemaError{Path: "data." + root, Detail: err.Error()}
	}
	if section.Data == nil || section.Data.Products == nil {
		return nil, &errors.SchemaError{Path: "data." + root + ".data.products"}
	}
	return mapProducts(section.Data.Products, section.totalData(), limit)
}

// AceSearch returns the mapping function for an ace_search_product root field.
// Older deployments exposed the same shape under searchProduct or data.
func AceSearch(rootField string) Normalizer {
	return func(body []byte, limit int) (*domain.Batch, error) {
		data, err := decodeEnvelope(body)
		if err != nil {
			return nil, err
		}

		for _, name := range []string{rootField, "searchProduct", "data"} {
			raw, ok := data[name]
			if !ok || isNull(raw) {
				continue
			}
			var section gqlSection
			if err := json.Unmarshal(raw, &section); err != nil {
				continue
			}
			switch {
			case section.Data != nil && section.Data.Products != nil:
				return mapProducts(section.Data.Products, section.totalData(), limit)
			case section.Products != nil:
				return mapProducts(section.Products, section.totalData(), limit)
			}
		}
		return nil, &errors.SchemaError{Path: "data." + rootField + ".data.products"}
	}
}

// decodeEnvelope parses the GraphQL envelope. A response carrying only
// errors is a schema failure since the query itself was rejected.
func decodeEnvelope(body []byte) (map[string]json.RawMessage, error) {
	var env gqlEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &errors.SchemaError{Path: "$", Detail: err.Error()}
	}
	if len(env.Data) == 0 {
		if len(env.Errors) > 0 {
			return nil, &errors.SchemaError{Path: "data", Detail: "graphql errors: " + env.Errors[0].Message}
		}
		return nil, &errors.SchemaError{Path: "data"}
	}
	return env.Data, nil
}

// totalData returns the header count, or -1 when no header was sent
func (s gqlSection) totalData() int {
	if s.Header == nil || s.Header.TotalData == nil {
		return -1
	}
	return int(*s.Header.TotalData)
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func mapProducts(raw json.RawMessage, totalData, limit int) (*domain.Batch, error) {
	var items []rawProduct
	if !isNull(raw) {
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, &errors.SchemaError{Path: "products", Detail: err.Error()}
		}
	}
	if len(items) == 0 || totalData == 0 {
		return nil, &errors.SoftFailureError{Reason: "empty product list", TotalData: max(totalData, 0)}
	}

	b := newBuilder(limit)
	for _, item := range items {
		p := item.toProduct(b)
		if p.Name == "" {
			continue
		}
		b.addProduct(p)
	}
	if len(b.products) == 0 {
		return nil, &errors.SoftFailureError{Reason: "no named products", TotalData: max(totalData, 0)}
	}
	return b.batch()
}

func (r rawProduct) toProduct(b *builder) *domain.Product {
	badges := append(r.Badges.titles(), r.Badge.titles()...)
	official, power := badgeFlags(badges)

	shopID := b.addShop(domain.Shop{
		ID:           strings.TrimSpace(string(r.Shop.ID)),
		Name:         string(r.Shop.Name),
		City:         string(r.Shop.City),
		URL:          absoluteURL(string(r.Shop.URL)),
		IsOfficial:   bool(r.Shop.IsOfficial) || official,
		IsPowerBadge: bool(r.Shop.IsPowerBadge) || power,
	})

	p := &domain.Product{
		ID:          strings.TrimSpace(string(r.ID)),
		Name:        strings.TrimSpace(string(r.Name)),
		URL:         absoluteURL(string(r.URL)),
		ImageURL:    firstNonEmpty(string(r.MediaURL.Image700), string(r.MediaURL.Image), string(r.ImageURL)),
		Category:    firstNonEmpty(string(r.Category.Name), string(r.CategoryName)),
		Rating:      r.rating(),
		ReviewCount: max(int(r.CountReview), 0),
		Badges:      badges,
		ShopID:      shopID,
	}

	for _, lg := range r.LabelGroups {
		title := strings.TrimSpace(string(lg.Title))
		if title == "" {
			continue
		}
		p.Labels = append(p.Labels, domain.Label{
			Title:    title,
			Type:     string(lg.Type),
			Position: string(lg.Position),
		})
	}
	p.SoldCount = max(parse.Count(string(r.Stock.Sold)), soldFromLabels(p.Labels))

	p.Price = strings.TrimSpace(string(r.Price.Text))
	p.PriceAmount = decimal.NewFromFloat(float64(r.Price.Number))
	if !p.PriceAmount.IsPositive() {
		p.PriceAmount = ParsePrice(p.Price)
	}
	if p.Price == "" && p.PriceAmount.IsPositive() {
		p.Price = FormatRupiah(p.PriceAmount)
	}
	p.OriginalPrice = strings.TrimSpace(firstNonEmpty(string(r.Price.Original), string(r.OriginalPrice)))

	p.DiscountPercent = math.Max(float64(r.Price.DiscountPercentage), float64(r.DiscountPercentage))
	if p.DiscountPercent <= 0 && p.OriginalPrice != "" {
		p.DiscountPercent = DiscountPercent(ParsePrice(p.OriginalPrice), p.PriceAmount)
	}
	if math.IsNaN(p.DiscountPercent) {
		p.DiscountPercent = 0
	}
	p.DiscountPercent = math.Min(math.Max(p.DiscountPercent, 0), 100)

	return p
}

// rating prefers the averaged value. Legacy payloads report a 0-100 scale.
func (r rawProduct) rating() float64 {
	v := float64(r.RatingAverage)
	if v <= 0 {
		v = float64(r.Rating)
	}
	if v > 5 && v <= 100 {
		v /= 20
	}
	return clampRating(v)
}

// badgeFlags detects official and power merchant badges by title
func badgeFlags(titles []string) (official, power bool) {
	for _, t := range titles {
		t = strings.ToLower(t)
		if strings.Contains(t, "official") || strings.Contains(t, "mall") {
			official = true
		}
		if strings.Contains(t, "power") || strings.HasSuffix(t, " pro") {
			power = true
		}
	}
	return official, power
}

// soldFromLabels returns the largest count found in sold-style labels
func soldFromLabels(labels []domain.Label) int {
	sold := 0
	for _, l := range labels {
		t := strings.ToLower(l.Title)
		if strings.Contains(t, "terjual") || strings.Contains(t, "sold") {
			sold = max(sold, parse.Count(t))
		}
	}
	return sold
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

