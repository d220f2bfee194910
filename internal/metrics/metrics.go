// Package metrics exposes the storefront session counters to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// Mutation kinds recorded by CartMutation.
const (
	MutationAdd       = "add"
	MutationSet       = "set"
	MutationIncrement = "increment"
	MutationDecrement = "decrement"
	MutationRemove    = "remove"
	MutationClear     = "clear"
)

// Checkout outcomes.
const (
	OutcomeSent   = "sent"
	OutcomeEmpty  = "empty"
	OutcomeFailed = "failed"
)

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	filterPasses  prometheus.Counter
	searchPasses  prometheus.Counter
	passDuration  *prometheus.HistogramVec
	coalesced     *prometheus.CounterVec
	cartMutations *prometheus.CounterVec
	checkouts     *prometheus.CounterVec
	cartItems     prometheus.Gauge
	products      prometheus.Gauge
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		filterPasses: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "filter_passes_total",
			Help:      "Visibility passes run after a criteria change.",
		}),
		searchPasses: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_passes_total",
			Help:      "Visibility passes run after a search query change.",
		}),
		passDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pass_duration_seconds",
			Help:      "Time spent evaluating the product grid.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"trigger"}),
		coalesced: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coalesced_triggers_total",
			Help:      "Debounced triggers that replaced a pending run.",
		}, []string{"debouncer"}),
		cartMutations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_mutations_total",
			Help:      "Cart mutations that changed the cart, by kind.",
		}, []string{"kind"}),
		checkouts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkouts_total",
			Help:      "Checkout attempts by outcome.",
		}, []string{"outcome"}),
		cartItems: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cart_items",
			Help:      "Units currently in the cart.",
		}),
		products: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_products",
			Help:      "Products in the current catalog scan.",
		}),
	}
}

// Pass records one visibility pass. trigger is "filter", "search" or
// "rescan".
func (m *Metrics) Pass(trigger string, d time.Duration) {
	if m == nil {
		return
	}
	switch trigger {
	case "filter":
		m.filterPasses.Inc()
	case "search":
		m.searchPasses.Inc()
	}
	m.passDuration.WithLabelValues(trigger).Observe(d.Seconds())
}

func (m *Metrics) Coalesced(debouncer string) {
	if m == nil {
		return
	}
	m.coalesced.WithLabelValues(debouncer).Inc()
}

func (m *Metrics) CartMutation(kind string, items int) {
	if m == nil {
		return
	}
	m.cartMutations.WithLabelValues(kind).Inc()
	m.cartItems.Set(float64(items))
}

func (m *Metrics) Checkout(outcome string) {
	if m == nil {
		return
	}
	m.checkouts.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Catalog(products int) {
	if m == nil {
		return
	}
	m.products.Set(float64(products))
}

// Timer measures one operation.
type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
