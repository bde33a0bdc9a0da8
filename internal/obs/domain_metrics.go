package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// DiscountResolvedTotal counts discount code validation outcomes.
	DiscountResolvedTotal *prometheus.CounterVec
	// CheckoutGateBlockedTotal counts carts blocked below the minimum order.
	CheckoutGateBlockedTotal prometheus.Counter
	// NewsletterSignupTotal counts newsletter signup outcomes.
	NewsletterSignupTotal *prometheus.CounterVec
	// CartSummaryLatency records cart recompute latency in milliseconds.
	CartSummaryLatency prometheus.Histogram
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		DiscountResolvedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discount_resolved_total",
			Help:      "Count of discount code validations by outcome.",
		}, []string{"result"})
		CheckoutGateBlockedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_gate_blocked_total",
			Help:      "Number of carts blocked for being under the minimum order.",
		})
		NewsletterSignupTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "newsletter_signup_total",
			Help:      "Count of newsletter signups by outcome.",
		}, []string{"result"})
		CartSummaryLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cart_summary_duration_ms",
			Help:      "Latency for cart total recomputation in milliseconds.",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100, 250},
		})

		mustRegisterCollector(reg, DiscountResolvedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				DiscountResolvedTotal = v
			}
		})
		mustRegisterCollector(reg, CheckoutGateBlockedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				CheckoutGateBlockedTotal = v
			}
		})
		mustRegisterCollector(reg, NewsletterSignupTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				NewsletterSignupTotal = v
			}
		})
		mustRegisterCollector(reg, CartSummaryLatency, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Histogram); ok {
				CartSummaryLatency = v
			}
		})
	})
}

// IncDiscountResolved records a discount validation outcome.
func IncDiscountResolved(result string) {
	if DiscountResolvedTotal != nil {
		DiscountResolvedTotal.WithLabelValues(result).Inc()
	}
}

// IncCheckoutGateBlocked records a cart blocked by the minimum order gate.
func IncCheckoutGateBlocked() {
	if CheckoutGateBlockedTotal != nil {
		CheckoutGateBlockedTotal.Inc()
	}
}

// IncNewsletterSignup records a newsletter signup outcome.
func IncNewsletterSignup(result string) {
	if NewsletterSignupTotal != nil {
		NewsletterSignupTotal.WithLabelValues(result).Inc()
	}
}

// ObserveCartSummary records a cart recompute duration in milliseconds.
func ObserveCartSummary(ms float64) {
	if CartSummaryLatency != nil {
		CartSummaryLatency.Observe(ms)
	}
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}
