// ABOUTME: Query domain model describes one caller search request
// ABOUTME: Derives the normalized cache key from the search term and requested count

package domain

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

const (
	// MinCount is the smallest number of products a caller may request
	MinCount = 1

	// MaxCount is the largest number of products a caller may request
	MaxCount = 100

	// DefaultCount is used when the caller does not specify a count
	DefaultCount = 10

	// MaxTermLength bounds the search term in characters
	MaxTermLength = 200
)

// Query is an immutable search request issued by a caller
type Query struct {
	// Term is the search term as supplied by the caller
	Term string `json:"term" validate:"required,max=200"`

	// Count is the number of products requested
	Count int `json:"count" validate:"min=1,max=100"`

	// UseCache allows the pipeline to answer from the result cache
	UseCache bool `json:"use_cache"`
}

var folder = cases.Fold()

// NormalizeTerm collapses whitespace and folds case so that equivalent
// terms map to the same cache key
func NormalizeTerm(term string) string {
	term = norm.NFKC.String(term)
	term = strings.Join(strings.Fields(term), " ")
	return folder.String(term)
}

// CacheKey returns the result cache key for the query
func (q Query) CacheKey() string {
	return fmt.Sprintf("search:%s:%d", NormalizeTerm(q.Term), q.Count)
}
