package filter

import (
	"slices"

	"storefront/internal/product"
)

// Count is the live number of products a candidate criterion would show.
type Count struct {
	Criterion
	Count int `json:"count"`
}

type Stats struct {
	Total         int `json:"total"`
	Visible       int `json:"visible"`
	Filtered      int `json:"filtered"`
	ActiveFilters int `json:"active_filters"`
}

// Result is the derived view of one visibility pass. Visible keeps catalog
// order and is followed by Hidden when the grid is re-laid out.
type Result struct {
	Visible []product.Product `json:"visible"`
	Hidden  []product.Product `json:"hidden"`
	Counts  []Count           `json:"counts"`
	Stats   Stats             `json:"stats"`
	// Empty is set when nothing is visible and the "no products" notice
	// should be shown.
	Empty bool `json:"empty"`
}

// Evaluate applies state and query to products and derives the counts for
// candidates.
func Evaluate(state State, query string, products []product.Product, candidates []Criterion) Result {
	res := Result{
		Visible: make([]product.Product, 0, len(products)),
		Hidden:  make([]product.Product, 0),
	}

	for _, p := range products {
		if state.Matches(p) && MatchesSearch(p, query) {
			res.Visible = append(res.Visible, p)
		} else {
			res.Hidden = append(res.Hidden, p)
		}
	}

	res.Counts = Counts(state, query, products, candidates)
	res.Stats = Stats{
		Total:         len(products),
		Visible:       len(res.Visible),
		Filtered:      len(products) - len(res.Visible),
		ActiveFilters: state.Len(),
	}
	res.Empty = len(res.Visible) == 0
	return res
}

// Counts reports, for each candidate, how many products carry its value
// while passing the search and every active constraint on other attributes.
// Sibling values of an already constrained attribute therefore keep counting
// what toggling them would add.
func Counts(state State, query string, products []product.Product, candidates []Criterion) []Count {
	counts := make([]Count, 0, len(candidates))
	for _, c := range candidates {
		n := 0
		for _, p := range products {
			v, ok := p.Attribute(c.Attribute)
			if !ok || v != c.Value {
				continue
			}
			if state.matchesExcept(p, c.Attribute) && MatchesSearch(p, query) {
				n++
			}
		}
		counts = append(counts, Count{Criterion: c, Count: n})
	}
	return counts
}

// Candidates lists the distinct values the catalog carries for the given
// attributes, the set a storefront renders checkboxes for.
func Candidates(products []product.Product, attributes ...string) []Criterion {
	var out []Criterion
	for _, attr := range attributes {
		seen := make(map[string]struct{})
		var values []string
		for _, p := range products {
			v, ok := p.Attribute(attr)
			if !ok {
				continue
			}
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			values = append(values, v)
		}
		slices.Sort(values)
		for _, v := range values {
			out = append(out, Criterion{Attribute: attr, Value: v})
		}
	}
	return out
}
