package filter

import (
	"strings"

	"storefront/internal/product"
)

// NormalizeQuery lower-cases and trims raw search input.
func NormalizeQuery(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// MatchesSearch reports whether the lower-cased query is a substring of the
// product's name, description or brand. An empty query matches everything.
func MatchesSearch(p product.Product, lowercasedQuery string) bool {
	if lowercasedQuery == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), lowercasedQuery) ||
		strings.Contains(strings.ToLower(p.Description), lowercasedQuery) ||
		strings.Contains(strings.ToLower(p.Brand), lowercasedQuery)
}

// Search holds the current free-text predicate.
type Search struct {
	query string
}

// SetQuery stores the normalized query and returns it.
func (s *Search) SetQuery(raw string) string {
	s.query = NormalizeQuery(raw)
	return s.query
}

func (s *Search) Query() string {
	return s.query
}

func (s *Search) Matches(p product.Product) bool {
	return MatchesSearch(p, s.query)
}
