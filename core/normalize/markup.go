// ABOUTME: Mapping function for the server-rendered search result page
// ABOUTME: Uses goquery selector cascades since class names change frequently

package normalize

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/domain"
	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/errors"
	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/pkg/utils/parse"
	"github.com/PuerkitoBio/goquery"
)

var (
	// first selector that matches any element wins
	cardSelectors = []string{
		`div[data-testid="master-product-card"]`,
		`div[data-testid="divProductWrapper"]`,
		`div[data-testid*="product"]`,
		`div[class*="product-card"]`,
		`article[class*="product"]`,
		`[data-product-id]`,
	}

	nameSelectors = []string{
		`span[data-testid="spnSRPProdName"]`,
		`div[data-testid="spnSRPProdName"]`,
		`a[data-testid="lnkProductContainer"] span`,
		`[class*="product-name"]`,
		`span[class*="name"]`,
	}

	priceSelectors = []string{
		`span[data-testid="spnSRPProdPrice"]`,
		`div[data-testid="spnSRPProdPrice"]`,
		`[data-testid*="price"]`,
		`[class*="price"]`,
	}

	originalPriceSelectors = []string{
		`span[data-testid="lblProductSlashPrice"]`,
		`[class*="slash"]`,
		`del`,
	}

	ratingSelectors = []string{
		`span[data-testid="spnSRPProdRating"]`,
		`span[data-testid*="rating"]`,
		`[class*="rating"] span`,
		`[data-testid*="rating"]`,
	}

	reviewSelectors = []string{
		`span[data-testid="spnSRPProdReview"]`,
		`span[data-testid*="review"]`,
		`[class*="review"]`,
	}

	urlSelectors = []string{
		`a[data-testid="lnkProductContainer"]`,
		`a[href*="tokopedia.com"]`,
		`a[class*="product"]`,
		`a[href]`,
	}

	shopSelectors = []string{
		`span[data-testid="spnSRPShopName"]`,
		`[data-testid*="shop"]`,
		`[class*="shop"]`,
		`[class*="merchant"]`,
	}

	citySelectors = []string{
		`span[data-testid="spnSRPProdTabShopLoc"]`,
		`[class*="location"]`,
	}

	imageSelectors = []string{
		`img[alt*="product"]`,
		`img[src*="tokopedia-static.net"]`,
		`img[src*=".webp"]`,
		`img`,
	}

	// present on a real search page even when it carries no cards
	pageMarkers = []string{
		`[data-testid="divSRPContentProducts"]`,
		`#zeus-root`,
		`script#__NEXT_DATA__`,
	}

	challengeMarkers = []string{"captcha", "cf-chl", "access denied", "verifikasi keamanan"}

	rupiahPattern = regexp.MustCompile(`Rp\s?[\d.,]+`)
	ratingPattern = regexp.MustCompile(`\d+(?:[.,]\d+)?`)
)

// Markup maps a search result page
func Markup(body []byte, limit int) (*domain.Batch, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &errors.SchemaError{Path: "html", Detail: err.Error()}
	}

	cards := findCards(doc)
	if cards == nil {
		lower := strings.ToLower(string(body))
		for _, m := range challengeMarkers {
			if strings.Contains(lower, m) {
				return nil, &errors.SoftFailureError{Reason: "challenge page: " + m}
			}
		}
		for _, sel := range pageMarkers {
			if doc.Find(sel).Length() > 0 {
				return nil, &errors.SoftFailureError{Reason: "search page without product cards"}
			}
		}
		return nil, &errors.SchemaError{Path: "product cards"}
	}

	b := newBuilder(limit)
	cards.Each(func(_ int, card *goquery.Selection) {
		if p := mapCard(card, b); p != nil {
			b.addProduct(p)
		}
	})
	if len(b.products) == 0 {
		return nil, &errors.SoftFailureError{Reason: "product cards without names"}
	}
	return b.batch()
}

func findCards(doc *goquery.Document) *goquery.Selection {
	for _, sel := range cardSelectors {
		if found := doc.Find(sel); found.Length() > 0 {
			return found
		}
	}
	return nil
}

func mapCard(card *goquery.Selection, b *builder) *domain.Product {
	name := firstText(card, nameSelectors, nil)
	if name == "" {
		return nil
	}

	shopName := firstText(card, shopSelectors, nil)
	url := absoluteURL(firstAttr(card, urlSelectors, "href"))

	var badges []string
	card.Find(`img[alt*="badge"], [data-testid*="badge"]`).Each(func(_ int, s *goquery.Selection) {
		t := strings.TrimSpace(s.AttrOr("alt", s.Text()))
		if t != "" {
			badges = append(badges, t)
		}
	})
	official, power := badgeFlags(badges)

	shopID := b.addShop(domain.Shop{
		Name:         shopName,
		City:         firstText(card, citySelectors, nil),
		IsOfficial:   official,
		IsPowerBadge: power,
	})

	p := &domain.Product{
		ID:       strings.TrimSpace(card.AttrOr("data-product-id", "")),
		Name:     name,
		URL:      url,
		ImageURL: firstAttr(card, imageSelectors, "src"),
		Badges:   badges,
		ShopID:   shopID,
	}

	p.Price = firstText(card, priceSelectors, hasDigit)
	if p.Price == "" {
		p.Price = rupiahPattern.FindString(card.Text())
	}
	p.PriceAmount = ParsePrice(p.Price)
	p.OriginalPrice = firstText(card, originalPriceSelectors, hasDigit)
	p.DiscountPercent = DiscountPercent(ParsePrice(p.OriginalPrice), p.PriceAmount)

	if m := ratingPattern.FindString(firstText(card, ratingSelectors, hasDigit)); m != "" {
		r, _ := strconv.ParseFloat(strings.ReplaceAll(m, ",", "."), 64)
		p.Rating = clampRating(r)
	}
	p.ReviewCount = parse.Count(firstText(card, reviewSelectors, hasDigit))

	card.Find("span").Each(func(_ int, s *goquery.Selection) {
		t := strings.TrimSpace(s.Text())
		lower := strings.ToLower(t)
		if strings.Contains(lower, "terjual") || strings.Contains(lower, "sold") {
			p.Labels = append(p.Labels, domain.Label{Title: t, Type: "sold"})
		}
	})
	p.SoldCount = soldFromLabels(p.Labels)

	return p
}

// firstText returns the trimmed text of the first selector match accepted by ok
func firstText(s *goquery.Selection, selectors []string, ok func(string) bool) string {
	for _, sel := range selectors {
		text := strings.TrimSpace(s.Find(sel).First().Text())
		if text != "" && (ok == nil || ok(text)) {
			return text
		}
	}
	return ""
}

func firstAttr(s *goquery.Selection, selectors []string, attr string) string {
	for _, sel := range selectors {
		if v, ok := s.Find(sel).First().Attr(attr); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func hasDigit(s string) bool {
	return strings.ContainsAny(s, "0123456789")
}
