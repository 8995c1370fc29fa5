// ABOUTME: Request DTOs for the scrape and listing endpoints
// ABOUTME: Provides validation tags and default values for incoming requests

package requests

import "github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/domain"

// ScrapeRequest represents the request body for a product search
type ScrapeRequest struct {
	// Query is the search term
	Query string `json:"query" minLength:"1" maxLength:"200" doc:"Search term" example:"sepatu lari"`

	// NumProducts is how many products to return
	NumProducts int `json:"num_products,omitempty" minimum:"1" maximum:"100" default:"10" doc:"Number of products to return"`

	// UseCache allows the answer to come from the result cache (default: true)
	UseCache *bool `json:"use_cache,omitempty" doc:"Serve from the result cache when possible (default true)"`
}

// ApplyDefaults sets default values for optional fields
func (r *ScrapeRequest) ApplyDefaults() {
	if r.NumProducts == 0 {
		r.NumProducts = domain.DefaultCount
	}
	if r.UseCache == nil {
		enabled := true
		r.UseCache = &enabled
	}
}

// ToQuery converts the request into a domain query. Defaults must be applied first.
func (r *ScrapeRequest) ToQuery() domain.Query {
	useCache := true
	if r.UseCache != nil {
		useCache = *r.UseCache
	}
	return domain.Query{
		Term:     r.Query,
		Count:    r.NumProducts,
		UseCache: useCache,
	}
}
