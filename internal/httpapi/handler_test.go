package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"storefront/internal/cart"
	"storefront/internal/category"
	"storefront/internal/debounce"
	"storefront/internal/filter"
	"storefront/internal/metrics"
	"storefront/internal/order"
	"storefront/internal/product"
	"storefront/internal/storefront"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	srv   *httptest.Server
	clock *debounce.ManualClock

	mu   sync.Mutex
	sent []string
}

func (f *fixture) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{clock: debounce.NewManualClock()}
	reg := prometheus.NewRegistry()
	orders := order.NewService(order.ChannelFunc(func(_ context.Context, msg string) error {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.sent = append(f.sent, msg)
		return nil
	}), order.Options{BusinessName: "Suplementos Premium", Currency: "$"})

	products := []product.Product{
		{ID: "1", Name: "Whey Protein Isolate", Brand: "Optimum", Category: "proteina", Price: product.PriceOf(25), ImageURL: "1.jpg"},
		{ID: "2", Name: "Creatine", Brand: "Dymatize", Category: "creatina", ImageURL: "2.jpg"},
	}
	session := storefront.NewSession(products, storefront.Options{
		Clock:   f.clock,
		Orders:  orders,
		Metrics: metrics.New(reg),
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = session.Run(ctx) }()

	f.srv = httptest.NewServer(NewHandler(session, Options{Phone: "+54 9 264 661-5213", Gatherer: reg}))
	t.Cleanup(func() {
		f.srv.Close()
		cancel()
		<-session.Done()
	})
	return f
}

func (f *fixture) do(t *testing.T, method, path, body string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, f.srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestProductsAndFilters(t *testing.T) {
	f := newFixture(t)

	resp := f.do(t, "GET", "/products", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	grid := decodeBody[storefront.GridView](t, resp)
	assert.Len(t, grid.Visible, 2)

	resp = f.do(t, "PUT", "/filters", `{"criteria":[{"attribute":"category","value":"creatina"}]}`)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, map[string][]string{"category": {"creatina"}}, decodeBody[filtersResponse](t, resp).Active)

	f.clock.Advance(storefront.DefaultFilterDelay)

	resp = f.do(t, "GET", "/stats", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, filter.Stats{Total: 2, Visible: 1, Filtered: 1, ActiveFilters: 1}, decodeBody[filter.Stats](t, resp))

	resp = f.do(t, "DELETE", "/filters", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	grid = decodeBody[storefront.GridView](t, resp)
	assert.Len(t, grid.Visible, 2)
	assert.Equal(t, 0, grid.Stats.ActiveFilters)
}

func TestCategories(t *testing.T) {
	f := newFixture(t)

	resp := f.do(t, "GET", "/categories", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []category.Category{
		{ID: "creatina", Name: "Creatina", Count: 1},
		{ID: "proteina", Name: "Proteína", Count: 1},
	}, decodeBody[[]category.Category](t, resp))

	f.do(t, "PUT", "/filters", `{"criteria":[{"attribute":"brand","value":"Optimum"}]}`)
	f.clock.Advance(storefront.DefaultFilterDelay)

	resp = f.do(t, "GET", "/categories", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []category.Category{
		{ID: "creatina", Name: "Creatina", Count: 0},
		{ID: "proteina", Name: "Proteína", Count: 1},
	}, decodeBody[[]category.Category](t, resp))
}

func TestSearch(t *testing.T) {
	f := newFixture(t)

	resp := f.do(t, "PUT", "/search", `{"query":"WHEY"}`)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	f.clock.Advance(storefront.DefaultSearchDelay)

	grid := decodeBody[storefront.GridView](t, f.do(t, "GET", "/products", ""))
	require.Len(t, grid.Visible, 1)
	assert.Equal(t, "1", grid.Visible[0].ID)
	assert.Equal(t, "whey", grid.Query)

	resp = f.do(t, "PUT", "/search", `{"q":"x"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCartFlow(t *testing.T) {
	f := newFixture(t)

	resp := f.do(t, "POST", "/cart/checkout", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = f.do(t, "POST", "/cart/items", `{"product_id":"1","quantity":2}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = f.do(t, "POST", "/cart/items", `{"attributes":{"data-product-id":"a","data-product-name":"Pre","data-product-brand":"C4","data-product-image":"a.jpg"},"quantity":1}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = f.do(t, "POST", "/cart/items", `{"attributes":{"data-product-id":"b"}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = f.do(t, "POST", "/cart/items", `{"product_id":"nope"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = f.do(t, "POST", "/cart/items", `{}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = f.do(t, "PATCH", "/cart/items/1", `{"action":"increment"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	upd := decodeBody[updateItemResponse](t, resp)
	assert.True(t, upd.Changed)
	assert.Equal(t, 4, upd.Cart.Totals.Items)

	resp = f.do(t, "PATCH", "/cart/items/1", `{"quantity":500}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, decodeBody[updateItemResponse](t, resp).Changed)

	resp = f.do(t, "PATCH", "/cart/items/1", `{"action":"sideways"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = f.do(t, "POST", "/cart/checkout", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	co := decodeBody[checkoutResponse](t, resp)
	assert.True(t, strings.HasPrefix(co.Link, "https://wa.me/5492646615213?text="))
	assert.Equal(t, 75.0, co.Total)
	assert.Equal(t, 1, co.Unpriced)
	assert.Equal(t, 1, f.sentCount())

	resp = f.do(t, "DELETE", "/cart/items/a", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = f.do(t, "DELETE", "/cart/items/a", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = f.do(t, "DELETE", "/cart", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	view := decodeBody[storefront.CartView](t, f.do(t, "GET", "/cart", ""))
	assert.False(t, view.CanCheckout)
	assert.Empty(t, view.Lines)
}

func TestAddItem_Quantity(t *testing.T) {
	f := newFixture(t)

	for _, body := range []string{
		`{"product_id":"1","quantity":0}`,
		`{"product_id":"1","quantity":-5}`,
		`{"attributes":{"data-product-id":"a","data-product-name":"Pre","data-product-brand":"C4","data-product-image":"a.jpg"},"quantity":-1}`,
	} {
		resp := f.do(t, "POST", "/cart/items", body)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, body)
	}
	view := decodeBody[storefront.CartView](t, f.do(t, "GET", "/cart", ""))
	assert.Empty(t, view.Lines)

	resp := f.do(t, "POST", "/cart/items", `{"product_id":"1"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, 1, decodeBody[cart.Line](t, resp).Quantity)

	resp = f.do(t, "POST", "/cart/items", `{"product_id":"2","quantity":500}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, cart.DefaultMaxQuantity, decodeBody[cart.Line](t, resp).Quantity)
}

func TestCheckout_NoOrderService(t *testing.T) {
	session := storefront.NewSession([]product.Product{
		{ID: "1", Name: "Whey", Brand: "Optimum", Category: "proteina", ImageURL: "1.jpg"},
	}, storefront.Options{Clock: debounce.NewManualClock()})

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = session.Run(ctx) }()
	defer func() {
		cancel()
		<-session.Done()
	}()

	srv := httptest.NewServer(NewHandler(session, Options{}))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/cart/items", "application/json", strings.NewReader(`{"product_id":"1"}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/cart/checkout", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"empty cart", cart.ErrCartEmpty, http.StatusConflict},
		{"unknown product", storefront.ErrProductNotFound, http.StatusNotFound},
		{"unknown line", cart.ErrCartItemNotFound, http.StatusNotFound},
		{"missing attribute", &product.MissingAttributeError{Attribute: "name"}, http.StatusUnprocessableEntity},
		{"invalid quantity", cart.ErrInvalidQuantity, http.StatusUnprocessableEntity},
		{"session closed", storefront.ErrSessionClosed, http.StatusServiceUnavailable},
		{"no order service", storefront.ErrNoOrderService, http.StatusServiceUnavailable},
		{"caller gone", context.Canceled, http.StatusServiceUnavailable},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestMetricsRoute(t *testing.T) {
	f := newFixture(t)

	f.do(t, "POST", "/cart/items", `{"product_id":"1"}`)
	resp := f.do(t, "GET", "/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `storefront_cart_mutations_total{kind="add"} 1`)
}

func TestMethodNotAllowed(t *testing.T) {
	f := newFixture(t)
	resp := f.do(t, "POST", "/products", "")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
