package session

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for a run.
type Metrics struct {
	Registry             *prometheus.Registry
	RequestsTotal        *prometheus.CounterVec
	RequestDuration      prometheus.Histogram
	ErrorsTotal          *prometheus.CounterVec
	ProductsScrapedTotal prometheus.Counter
	CheckoutStepsTotal   *prometheus.CounterVec
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "selectm_requests_total",
			Help: "Total HTTP requests issued through the session.",
		},
		[]string{"path"},
	)
	requestDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "selectm_request_duration_seconds",
			Help:    "HTTP request latency for session requests.",
			Buckets: prometheus.DefBuckets,
		},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "selectm_errors_total",
			Help: "Total number of transport errors by type.",
		},
		[]string{"error_type"},
	)
	productsScraped := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "selectm_products_scraped_total",
			Help: "Total number of products parsed from the listing.",
		},
	)
	checkoutSteps := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "selectm_checkout_steps_total",
			Help: "Checkout workflow steps by outcome.",
		},
		[]string{"step", "outcome"},
	)

	registry.MustRegister(requests, requestDuration, errorsTotal, productsScraped, checkoutSteps)

	return &Metrics{
		Registry:             registry,
		RequestsTotal:        requests,
		RequestDuration:      requestDuration,
		ErrorsTotal:          errorsTotal,
		ProductsScrapedTotal: productsScraped,
		CheckoutStepsTotal:   checkoutSteps,
	}
}

// IncRequest increments the requests counter for a path.
func (m *Metrics) IncRequest(path string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(path).Inc()
}

// ObserveDuration records an HTTP request duration.
func (m *Metrics) ObserveDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.Observe(d.Seconds())
}

// IncError increments the errors counter for a type label.
func (m *Metrics) IncError(errorType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}

// AddProducts adds n to the scraped products counter.
func (m *Metrics) AddProducts(n int) {
	if m == nil {
		return
	}
	m.ProductsScrapedTotal.Add(float64(n))
}

// IncStep records a checkout step outcome.
func (m *Metrics) IncStep(step, outcome string) {
	if m == nil {
		return
	}
	m.CheckoutStepsTotal.WithLabelValues(step, outcome).Inc()
}
