package storefront

import (
	"time"

	"storefront/internal/cart"
	"storefront/internal/filter"
)

// GridView is what the product grid shows after a visibility pass.
type GridView struct {
	filter.Result
	Query  string              `json:"query"`
	Active map[string][]string `json:"active"`
	// Reveal holds the entry offset of each visible product, in order.
	Reveal []time.Duration `json:"reveal"`
}

type CartView struct {
	Lines       []cart.Line `json:"lines"`
	Totals      cart.Totals `json:"totals"`
	MaxQuantity int         `json:"max_quantity"`
	// CanCheckout is false for an empty cart.
	CanCheckout bool   `json:"can_checkout"`
	Preview     string `json:"preview,omitempty"`
}

// Renderer receives views as the session state changes. Calls come from the
// session loop and must not call back into the session.
type Renderer interface {
	RenderGrid(GridView)
	RenderCart(CartView)
}

// RendererFuncs adapts plain funcs to Renderer. Nil fields are skipped.
type RendererFuncs struct {
	Grid func(GridView)
	Cart func(CartView)
}

func (r RendererFuncs) RenderGrid(v GridView) {
	if r.Grid != nil {
		r.Grid(v)
	}
}

func (r RendererFuncs) RenderCart(v CartView) {
	if r.Cart != nil {
		r.Cart(v)
	}
}
