// ABOUTME: Normalizer registry mapping each payload kind to its mapping function
// ABOUTME: Also holds the batch builder that dedupes products and resolves shops

package normalize

import (
	"fmt"
	"hash/fnv"
	"math"
	"strings"

	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/domain"
)

// Kind identifies the payload shape a strategy produces. The set is closed:
// every Kind has exactly one Normalizer in DefaultRegistry.
type Kind string

const (
	// KindSearchV5 is the searchProductV5 GraphQL shape
	KindSearchV5 Kind = "search_v5"

	// KindAceV4 is the ace_search_product_v4 GraphQL shape
	KindAceV4 Kind = "ace_v4"

	// KindAceV3 is the ace_search_product_v3 GraphQL shape
	KindAceV3 Kind = "ace_v3"

	// KindMarkup is the server-rendered search page
	KindMarkup Kind = "markup"
)

// Default values for absent fields
const (
	UnknownCity     = "Unknown"
	UnknownShopName = "Unknown Shop"
	baseURL         = "https://www.tokopedia.com"
)

// Normalizer maps a raw payload into a batch of at most limit products.
//
// It returns *errors.SchemaError when the expected container is absent and
// *errors.SoftFailureError when the container is present but empty.
type Normalizer func(body []byte, limit int) (*domain.Batch, error)

// Registry selects a Normalizer by Kind
type Registry struct {
	byKind map[Kind]Normalizer
}

// DefaultRegistry binds every Kind to its mapping function
func DefaultRegistry() *Registry {
	return &Registry{byKind: map[Kind]Normalizer{
		KindSearchV5: SearchV5,
		KindAceV4:    AceSearch("ace_search_product_v4"),
		KindAceV3:    AceSearch("ace_search_product_v3"),
		KindMarkup:   Markup,
	}}
}

// Normalize runs the normalizer bound to kind
func (r *Registry) Normalize(kind Kind, body []byte, limit int) (*domain.Batch, error) {
	n, ok := r.byKind[kind]
	if !ok {
		return nil, fmt.Errorf("no normalizer registered for kind %q", kind)
	}
	return n(body, limit)
}

// hashID derives a stable identifier from the given parts
func hashID(prefix string, parts ...string) string {
	h := fnv.New64a()
	h.Write([]byte(strings.Join(parts, "|")))
	return fmt.Sprintf("%s%x", prefix, h.Sum64())
}

// builder accumulates products and shops for one payload
type builder struct {
	limit    int
	products []*domain.Product
	position map[string]int
	shops    map[string]*domain.Shop
}

func newBuilder(limit int) *builder {
	return &builder{
		limit:    limit,
		position: make(map[string]int),
		shops:    make(map[string]*domain.Shop),
	}
}

// addShop registers a shop and returns its id. A repeated id keeps the first
// record but fills missing fields and ORs the badge flags.
func (b *builder) addShop(s domain.Shop) string {
	s.Name = strings.TrimSpace(s.Name)
	if s.Name == "" {
		s.Name = UnknownShopName
	}
	if strings.TrimSpace(s.City) == "" {
		s.City = UnknownCity
	}
	if s.ID == "" || s.ID == "0" {
		s.ID = hashID("shop-", s.Name)
	}

	existing, ok := b.shops[s.ID]
	if !ok {
		shop := s
		b.shops[s.ID] = &shop
		return s.ID
	}
	if existing.City == UnknownCity {
		existing.City = s.City
	}
	if existing.URL == "" {
		existing.URL = s.URL
	}
	existing.IsOfficial = existing.IsOfficial || s.IsOfficial
	existing.IsPowerBadge = existing.IsPowerBadge || s.IsPowerBadge
	return s.ID
}

// addProduct stores p, replacing an earlier product with the same id in place
func (b *builder) addProduct(p *domain.Product) {
	if p.ID == "" || p.ID == "0" {
		p.ID = hashID("p-", p.Name, p.ShopID)
	}
	if i, ok := b.position[p.ID]; ok {
		b.products[i] = p
		return
	}
	b.position[p.ID] = len(b.products)
	b.products = append(b.products, p)
}

// batch truncates to the limit, keeps only referenced shops in first-seen
// order and links product shop pointers
func (b *builder) batch() (*domain.Batch, error) {
	products := b.products
	if b.limit > 0 && len(products) > b.limit {
		products = products[:b.limit]
	}

	out := &domain.Batch{Products: products, Shops: make([]*domain.Shop, 0)}
	seen := make(map[string]bool)
	for _, p := range products {
		if seen[p.ShopID] {
			continue
		}
		seen[p.ShopID] = true
		out.Shops = append(out.Shops, b.shops[p.ShopID])
	}

	if err := out.Link(); err != nil {
		return nil, err
	}
	return out, nil
}

// clampRating keeps ratings inside [0, 5]
func clampRating(r float64) float64 {
	switch {
	case math.IsNaN(r) || r < 0:
		return 0
	case r > 5:
		return 5
	}
	return r
}

// absoluteURL resolves site-relative links against the upstream origin
func absoluteURL(u string) string {
	u = strings.TrimSpace(u)
	switch {
	case u == "", strings.HasPrefix(u, "http://"), strings.HasPrefix(u, "https://"):
		return u
	case strings.HasPrefix(u, "//"):
		return "https:" + u
	case strings.HasPrefix(u, "/"):
		return baseURL + u
	}
	return baseURL + "/" + u
}
