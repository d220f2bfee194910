// Package httpapi exposes a storefront session over JSON HTTP.
package httpapi

import (
	"context"
	"net/http"

	"storefront/internal/cart"
	"storefront/internal/category"
	"storefront/internal/filter"
	"storefront/internal/order"
	"storefront/internal/storefront"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Storefront is the part of *storefront.Session the API drives.
type Storefront interface {
	Grid(ctx context.Context) (storefront.GridView, error)
	Stats(ctx context.Context) (filter.Stats, error)
	SetActiveCriteria(ctx context.Context, pairs []filter.Criterion) (filter.State, error)
	ClearFilters(ctx context.Context) error
	Search(ctx context.Context, raw string) error

	Cart(ctx context.Context) (storefront.CartView, error)
	AddToCart(ctx context.Context, attrs map[string]string, rawQty string) (cart.Line, error)
	AddByID(ctx context.Context, id string, qty int) (cart.Line, error)
	SetQuantity(ctx context.Context, id string, n int) (bool, error)
	Increment(ctx context.Context, id string) (bool, error)
	Decrement(ctx context.Context, id string) (bool, error)
	Remove(ctx context.Context, id string) (bool, error)
	ClearCart(ctx context.Context) error
	Checkout(ctx context.Context) (*order.Receipt, error)
}

type Options struct {
	// Phone is the business number checkout links point at. Empty omits
	// the link from checkout responses.
	Phone string
	// Gatherer backs GET /metrics; nil leaves the route out.
	Gatherer prometheus.Gatherer
	// Categories names the category filters; nil uses the default names.
	Categories *category.Directory
}

type handler struct {
	sf         Storefront
	phone      string
	categories *category.Directory
}

// NewHandler returns the API routes.
func NewHandler(sf Storefront, opts Options) http.Handler {
	if opts.Categories == nil {
		opts.Categories = category.NewDirectory(nil)
	}
	h := &handler{sf: sf, phone: opts.Phone, categories: opts.Categories}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /products", h.products)
	mux.HandleFunc("GET /stats", h.stats)
	mux.HandleFunc("GET /categories", h.listCategories)
	mux.HandleFunc("PUT /filters", h.setFilters)
	mux.HandleFunc("DELETE /filters", h.clearFilters)
	mux.HandleFunc("PUT /search", h.search)

	mux.HandleFunc("GET /cart", h.cart)
	mux.HandleFunc("DELETE /cart", h.clearCart)
	mux.HandleFunc("POST /cart/items", h.addItem)
	mux.HandleFunc("PATCH /cart/items/{id}", h.updateItem)
	mux.HandleFunc("DELETE /cart/items/{id}", h.removeItem)
	mux.HandleFunc("POST /cart/checkout", h.checkout)

	if opts.Gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}
	return mux
}
