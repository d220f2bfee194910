// Package storefront ties the filter engine, search, cart and order service
// into one session driven by a single event loop.
package storefront

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"storefront/internal/cart"
	"storefront/internal/debounce"
	"storefront/internal/filter"
	"storefront/internal/logger"
	"storefront/internal/metrics"
	"storefront/internal/order"
	"storefront/internal/product"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultFilterDelay   = 150 * time.Millisecond
	DefaultSearchDelay   = 300 * time.Millisecond
	DefaultRevealStagger = 50 * time.Millisecond
)

// DefaultFilterAttributes are the attributes the grid offers checkboxes for.
var DefaultFilterAttributes = []string{product.AttrCategory, product.AttrBrand}

type Options struct {
	FilterDelay   time.Duration
	SearchDelay   time.Duration
	RevealStagger time.Duration
	MaxQuantity   int
	// FilterAttributes selects which attributes get live counts.
	FilterAttributes []string

	Orders   order.Service
	Renderer Renderer
	Metrics  *metrics.Metrics
	Clock    debounce.Clock
}

// Session owns one shopper's storefront state. Every state change runs on the
// goroutine inside Run; the exported methods post work to it and wait.
// Calls made before Run starts wait for it, bounded only by their context,
// so a caller that never starts Run must pass a context that ends.
type Session struct {
	id      string
	opts    Options
	events  chan func()
	stopped chan struct{}
	running atomic.Bool
	ctx     context.Context

	// Owned by the loop.
	products   []product.Product
	candidates []filter.Criterion
	engine     *filter.Engine
	search     filter.Search
	store      *cart.Store
	result     filter.Result
	// applied is the filter state of the last filter pass. The engine may
	// be ahead of it while a pass is pending.
	applied filter.State

	filterPass *debounce.Debouncer
	searchPass *debounce.Debouncer
}

func NewSession(products []product.Product, opts Options) *Session {
	if opts.FilterDelay <= 0 {
		opts.FilterDelay = DefaultFilterDelay
	}
	if opts.SearchDelay <= 0 {
		opts.SearchDelay = DefaultSearchDelay
	}
	if opts.RevealStagger <= 0 {
		opts.RevealStagger = DefaultRevealStagger
	}
	if len(opts.FilterAttributes) == 0 {
		opts.FilterAttributes = DefaultFilterAttributes
	}
	if opts.Clock == nil {
		opts.Clock = debounce.RealClock
	}

	s := &Session{
		id:      uuid.NewString(),
		opts:    opts,
		events:  make(chan func(), 64),
		stopped: make(chan struct{}),
		ctx:     context.Background(),
		engine:  filter.NewEngine(),
		store:   cart.NewStore(opts.MaxQuantity),
	}
	s.filterPass = debounce.New(opts.FilterDelay, opts.Clock, s.post)
	s.searchPass = debounce.New(opts.SearchDelay, opts.Clock, s.post)
	s.setProducts(products)
	s.applied = s.engine.Active()
	s.result = filter.Evaluate(s.applied, "", s.products, s.candidates)
	return s
}

func (s *Session) ID() string {
	return s.id
}

// Run processes session events until ctx is done. A session runs once.
func (s *Session) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer close(s.stopped)

	s.ctx = logger.WithSessionID(ctx, s.id)
	log := logger.FromCtx(s.ctx).With(zap.String("layer", "storefront"))
	log.Info("session started", zap.Int("products", len(s.products)))

	defer func() {
		s.filterPass.Cancel()
		s.searchPass.Cancel()
		log.Info("session stopped")
	}()

	s.renderGrid()
	s.renderCart()

	for {
		select {
		case <-ctx.Done():
			return nil
		case fn := <-s.events:
			fn()
		}
	}
}

// Done is closed once Run has returned.
func (s *Session) Done() <-chan struct{} {
	return s.stopped
}

// post hands fn to the loop without waiting for it. Debounced passes arrive
// this way; after the loop stops they are dropped.
func (s *Session) post(fn func()) {
	select {
	case s.events <- fn:
	case <-s.stopped:
	}
}

// do runs fn on the loop and waits for it to finish. Before Run starts the
// event is queued and served once the loop begins.
func (s *Session) do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	select {
	case s.events <- func() { fn(); close(done) }:
	case <-s.stopped:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-done:
		return nil
	case <-s.stopped:
		select {
		case <-done:
			return nil
		default:
			return ErrSessionClosed
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) log(method string) *zap.Logger {
	return logger.FromCtx(s.ctx).With(
		zap.String("layer", "storefront"),
		zap.String("method", method),
	)
}

// SetActiveCriteria replaces the active filter state with one rebuilt from
// pairs. The new state is returned at once; the visibility pass follows
// after the filter delay.
func (s *Session) SetActiveCriteria(ctx context.Context, pairs []filter.Criterion) (filter.State, error) {
	var state filter.State
	err := s.do(ctx, func() {
		state = s.engine.SetActiveCriteria(pairs)
		if s.filterPass.Trigger(s.applyFilters) {
			s.opts.Metrics.Coalesced("filter")
		}
	})
	return state, err
}

// ClearFilters drops every criterion and recomputes immediately. The search
// query is kept.
func (s *Session) ClearFilters(ctx context.Context) error {
	return s.do(ctx, func() {
		s.engine.Clear()
		s.filterPass.Cancel()
		s.applyFilters()
	})
}

// Search schedules a search pass for raw after the search delay. Only the
// last query of a burst is applied.
func (s *Session) Search(ctx context.Context, raw string) error {
	return s.do(ctx, func() {
		replaced := s.searchPass.Trigger(func() {
			s.search.SetQuery(raw)
			s.recompute("search")
		})
		if replaced {
			s.opts.Metrics.Coalesced("search")
		}
	})
}

// Flush runs any pending filter or search pass now.
func (s *Session) Flush(ctx context.Context) error {
	return s.do(ctx, func() {
		s.searchPass.Flush()
		s.filterPass.Flush()
	})
}

// Rescan replaces the catalog, e.g. after the source changed, and
// recomputes with the current criteria and query. Cart lines keep the
// product data they were added with.
func (s *Session) Rescan(ctx context.Context, products []product.Product) error {
	return s.do(ctx, func() {
		s.setProducts(products)
		s.filterPass.Cancel()
		s.applied = s.engine.Active()
		s.recompute("rescan")
		s.log("Rescan").Info("catalog rescanned", zap.Int("products", len(s.products)))
	})
}

func (s *Session) setProducts(products []product.Product) {
	if products == nil {
		products = []product.Product{}
	}
	s.products = products
	s.candidates = filter.Candidates(products, s.opts.FilterAttributes...)
	s.opts.Metrics.Catalog(len(products))
}

// applyFilters is the filter pass: the engine's criteria become the
// applied state and the grid is recomputed.
func (s *Session) applyFilters() {
	s.applied = s.engine.Active()
	s.recompute("filter")
}

// recompute evaluates the applied filter state and the current query. A
// search pass never picks up criteria whose filter pass is still pending.
func (s *Session) recompute(trigger string) {
	timer := metrics.StartTimer()
	s.result = filter.Evaluate(s.applied, s.search.Query(), s.products, s.candidates)
	s.opts.Metrics.Pass(trigger, timer.Duration())

	s.log("recompute").Debug("visibility pass",
		zap.String("trigger", trigger),
		zap.Int("visible", s.result.Stats.Visible),
		zap.Int("active_filters", s.result.Stats.ActiveFilters),
	)
	s.renderGrid()
}

// Grid returns the view of the last completed pass.
func (s *Session) Grid(ctx context.Context) (GridView, error) {
	var v GridView
	err := s.do(ctx, func() { v = s.gridView() })
	return v, err
}

func (s *Session) Stats(ctx context.Context) (filter.Stats, error) {
	var st filter.Stats
	err := s.do(ctx, func() { st = s.result.Stats })
	return st, err
}

// Active returns the current filter state, which may be ahead of the grid
// while a filter pass is pending.
func (s *Session) Active(ctx context.Context) (filter.State, error) {
	var st filter.State
	err := s.do(ctx, func() { st = s.engine.Active() })
	return st, err
}

func (s *Session) Products(ctx context.Context) ([]product.Product, error) {
	var out []product.Product
	err := s.do(ctx, func() { out = append([]product.Product(nil), s.products...) })
	return out, err
}

func (s *Session) gridView() GridView {
	return GridView{
		Result: s.result,
		Query:  s.search.Query(),
		Active: s.engine.Active().Map(),
		Reveal: debounce.RevealSchedule(len(s.result.Visible), s.opts.RevealStagger),
	}
}

func (s *Session) renderGrid() {
	if s.opts.Renderer != nil {
		s.opts.Renderer.RenderGrid(s.gridView())
	}
}

// AddToCart extracts a product from an attribute bag, as carried by an
// add-to-cart control, and adds the clamped quantity. A bag missing a
// required attribute is logged and leaves the cart unchanged.
func (s *Session) AddToCart(ctx context.Context, attrs map[string]string, rawQty string) (cart.Line, error) {
	p, rejected, err := product.Extract(attrs)
	log := logger.FromCtx(logger.WithSessionID(ctx, s.id)).With(
		zap.String("layer", "storefront"),
		zap.String("method", "AddToCart"),
	)
	for _, r := range rejected {
		log.Warn("rejected product attribute", zap.String("key", r.Key), zap.Error(r.Err))
	}
	if err != nil {
		log.Warn("product not added", zap.Error(err))
		return cart.Line{}, err
	}

	var line cart.Line
	err = s.do(ctx, func() {
		line = s.add(p, cart.ClampQuantity(rawQty, s.store.MaxQuantity()))
	})
	return line, err
}

// AddByID adds a catalog product by id.
func (s *Session) AddByID(ctx context.Context, id string, qty int) (cart.Line, error) {
	var (
		line  cart.Line
		found bool
	)
	err := s.do(ctx, func() {
		for _, p := range s.products {
			if p.ID == id {
				found = true
				line = s.add(p, cart.Clamp(qty, s.store.MaxQuantity()))
				return
			}
		}
	})
	if err != nil {
		return cart.Line{}, err
	}
	if !found {
		return cart.Line{}, ErrProductNotFound
	}
	return line, nil
}

func (s *Session) add(p product.Product, qty int) cart.Line {
	s.store.AddItem(p, qty)
	s.cartChanged(metrics.MutationAdd)
	line, _ := s.store.Get(p.ID)
	return line
}

// SetQuantity sets a line's quantity. n <= 0 removes the line and n above
// the maximum is ignored. It reports whether the cart changed.
func (s *Session) SetQuantity(ctx context.Context, id string, n int) (bool, error) {
	return s.mutate(ctx, metrics.MutationSet, func() bool { return s.store.SetQuantity(id, n) })
}

func (s *Session) Increment(ctx context.Context, id string) (bool, error) {
	return s.mutate(ctx, metrics.MutationIncrement, func() bool { return s.store.Increment(id) })
}

func (s *Session) Decrement(ctx context.Context, id string) (bool, error) {
	return s.mutate(ctx, metrics.MutationDecrement, func() bool { return s.store.Decrement(id) })
}

func (s *Session) Remove(ctx context.Context, id string) (bool, error) {
	return s.mutate(ctx, metrics.MutationRemove, func() bool { return s.store.RemoveItem(id) })
}

func (s *Session) ClearCart(ctx context.Context) error {
	_, err := s.mutate(ctx, metrics.MutationClear, func() bool {
		s.store.Clear()
		return true
	})
	return err
}

func (s *Session) mutate(ctx context.Context, kind string, fn func() bool) (bool, error) {
	var changed bool
	err := s.do(ctx, func() {
		if changed = fn(); changed {
			s.cartChanged(kind)
		}
	})
	return changed, err
}

func (s *Session) cartChanged(kind string) {
	s.opts.Metrics.CartMutation(kind, s.store.TotalItems())
	s.renderCart()
}

// Cart returns the current cart with its order preview.
func (s *Session) Cart(ctx context.Context) (CartView, error) {
	var v CartView
	err := s.do(ctx, func() { v = s.cartView() })
	return v, err
}

func (s *Session) cartView() CartView {
	v := CartView{
		Lines:       s.store.Lines(),
		Totals:      s.store.Totals(),
		MaxQuantity: s.store.MaxQuantity(),
		CanCheckout: !s.store.IsEmpty(),
	}
	if v.CanCheckout && s.opts.Orders != nil {
		v.Preview = s.opts.Orders.Preview(v.Lines, v.Totals)
	}
	return v
}

func (s *Session) renderCart() {
	if s.opts.Renderer != nil {
		s.opts.Renderer.RenderCart(s.cartView())
	}
}

// Checkout sends the cart as one order message. An empty cart yields
// cart.ErrCartEmpty and sends nothing. The cart is kept after sending.
func (s *Session) Checkout(ctx context.Context) (*order.Receipt, error) {
	if s.opts.Orders == nil {
		return nil, ErrNoOrderService
	}

	var (
		lines  []cart.Line
		totals cart.Totals
	)
	if err := s.do(ctx, func() {
		lines = s.store.Lines()
		totals = s.store.Totals()
	}); err != nil {
		return nil, err
	}

	receipt, err := s.opts.Orders.Checkout(logger.WithSessionID(ctx, s.id), lines, totals)
	switch {
	case errors.Is(err, cart.ErrCartEmpty):
		s.opts.Metrics.Checkout(metrics.OutcomeEmpty)
	case err != nil:
		s.opts.Metrics.Checkout(metrics.OutcomeFailed)
	default:
		s.opts.Metrics.Checkout(metrics.OutcomeSent)
	}
	return receipt, err
}
