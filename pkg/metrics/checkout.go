package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records order submission outcomes.
type CheckoutMetrics struct {
	duration         *prometheus.HistogramVec
	ordersPlaced     prometheus.Counter
	ordersFailed     prometheus.Counter
	promoRedemptions prometheus.Counter
	oversells        prometheus.Counter
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Duration of checkout submissions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	ordersPlaced := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Orders successfully written at checkout.",
	})
	ordersFailed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_failed_total",
		Help: "Checkout submissions that failed before the order was written.",
	})
	promoRedemptions := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "promo_redemptions_total",
		Help: "Promotion codes redeemed against placed orders.",
	})
	oversells := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stock_oversells_total",
		Help: "Orders accepted while the stock decrement reported insufficient stock.",
	})
	reg.MustRegister(duration, ordersPlaced, ordersFailed, promoRedemptions, oversells)
	return &CheckoutMetrics{
		duration:         duration,
		ordersPlaced:     ordersPlaced,
		ordersFailed:     ordersFailed,
		promoRedemptions: promoRedemptions,
		oversells:        oversells,
	}
}

// ObserveDuration records how long a submission took for the given outcome.
func (c *CheckoutMetrics) ObserveDuration(outcome string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	if outcome == "" {
		outcome = "unknown"
	}
	c.duration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// IncOrderPlaced increments the placed-order counter.
func (c *CheckoutMetrics) IncOrderPlaced() {
	if c == nil || c.ordersPlaced == nil {
		return
	}
	c.ordersPlaced.Inc()
}

// IncOrderFailed increments the failed-submission counter.
func (c *CheckoutMetrics) IncOrderFailed() {
	if c == nil || c.ordersFailed == nil {
		return
	}
	c.ordersFailed.Inc()
}

// IncPromoRedemption increments the promo redemption counter.
func (c *CheckoutMetrics) IncPromoRedemption() {
	if c == nil || c.promoRedemptions == nil {
		return
	}
	c.promoRedemptions.Inc()
}

// IncOversell increments the accepted-oversell counter.
func (c *CheckoutMetrics) IncOversell() {
	if c == nil || c.oversells == nil {
		return
	}
	c.oversells.Inc()
}
