package filter

import "storefront/internal/product"

// Engine owns the active filter state. It is driven by a single owner (the
// storefront session loop) and does no locking of its own.
type Engine struct {
	state State
}

func NewEngine() *Engine {
	return &Engine{state: NewState(nil)}
}

// SetActiveCriteria rebuilds the state from the full set of checked pairs and
// swaps it in whole. The previous state is discarded, never patched.
func (e *Engine) SetActiveCriteria(pairs []Criterion) State {
	e.state = NewState(pairs)
	return e.state
}

// Clear drops every criterion.
func (e *Engine) Clear() {
	e.state = NewState(nil)
}

// Active returns the current snapshot.
func (e *Engine) Active() State {
	return e.state
}

func (e *Engine) Matches(p product.Product) bool {
	return e.state.Matches(p)
}

// Evaluate runs a visibility pass over the catalog with the current state.
func (e *Engine) Evaluate(products []product.Product, query string, candidates []Criterion) Result {
	return Evaluate(e.state, query, products, candidates)
}
