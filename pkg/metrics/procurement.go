package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "procurement"

// Outcome labels for vendor order submissions.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
)

// ProcurementMetrics records order placement and catalog caching activity.
type ProcurementMetrics struct {
	submissions     *prometheus.CounterVec
	placements      *prometheus.CounterVec
	placementTime   prometheus.Histogram
	vendorsPerOrder prometheus.Histogram
	catalogCache    *prometheus.CounterVec
	cartLines       *prometheus.CounterVec
}

// NewProcurementMetrics registers the collectors on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewProcurementMetrics(reg prometheus.Registerer) *ProcurementMetrics {
	if reg == nil {
		return &ProcurementMetrics{}
	}
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "vendor_order_submissions_total",
		Help:      "Vendor order creation calls by outcome.",
	}, []string{"outcome"})
	placements := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_placements_total",
		Help:      "Checkout attempts by outcome; partial counts attempts where some vendor orders were created.",
	}, []string{"outcome"})
	placementTime := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "order_placement_duration_seconds",
		Help:      "Time to settle every vendor submission of one checkout.",
		Buckets:   prometheus.DefBuckets,
	})
	vendorsPerOrder := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "order_placement_vendor_groups",
		Help:      "Vendor groups per checkout.",
		Buckets:   []float64{1, 2, 3, 5, 8, 13},
	})
	catalogCache := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_cache_lookups_total",
		Help:      "Catalog cache lookups by result.",
	}, []string{"result"})
	cartLines := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_line_mutations_total",
		Help:      "Cart line mutations by operation.",
	}, []string{"op"})
	reg.MustRegister(submissions, placements, placementTime, vendorsPerOrder, catalogCache, cartLines)
	return &ProcurementMetrics{
		submissions:     submissions,
		placements:      placements,
		placementTime:   placementTime,
		vendorsPerOrder: vendorsPerOrder,
		catalogCache:    catalogCache,
		cartLines:       cartLines,
	}
}

// IncSubmission counts one vendor order call.
func (m *ProcurementMetrics) IncSubmission(outcome string) {
	if m == nil || m.submissions == nil {
		return
	}
	m.submissions.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// ObservePlacement records one settled checkout.
func (m *ProcurementMetrics) ObservePlacement(outcome string, groups int, duration time.Duration) {
	if m == nil || m.placements == nil {
		return
	}
	m.placements.WithLabelValues(normalizeLabel(outcome)).Inc()
	m.placementTime.Observe(duration.Seconds())
	m.vendorsPerOrder.Observe(float64(groups))
}

// IncCatalogCache counts a cache lookup; hit is false on a miss.
func (m *ProcurementMetrics) IncCatalogCache(hit bool) {
	if m == nil || m.catalogCache == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.catalogCache.WithLabelValues(result).Inc()
}

// IncCartMutation counts an add/remove/clear on a cart.
func (m *ProcurementMetrics) IncCartMutation(op string) {
	if m == nil || m.cartLines == nil {
		return
	}
	m.cartLines.WithLabelValues(normalizeLabel(op)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
