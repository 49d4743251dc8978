// Package metrics provides Prometheus metrics for the rating service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector for the service.
type Manager struct {
	namespace string
	registry  *prometheus.Registry

	// Write path
	ratingsSubmitted prometheus.Counter
	ratingsAccepted  prometheus.Counter
	ratingsThrottled prometheus.Counter
	ratingsRejected  *prometheus.CounterVec

	// Reconciliation
	backfills          prometheus.Counter
	reconcileAnomalies prometheus.Counter

	// Storage
	storeLatency *prometheus.HistogramVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Catalog seeding
	seedCards          prometheus.Counter
	seedDuration       prometheus.Histogram
	catalogCollections prometheus.Gauge
}

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithRegistry sets the registry collectors are registered with.
func WithRegistry(r *prometheus.Registry) Option {
	return func(m *Manager) {
		if r != nil {
			m.registry = r
		}
	}
}

// NewManager creates a metrics manager and registers all collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "rater",
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}

	factory := promauto.With(m.registry)

	m.ratingsSubmitted = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "ratings_submitted_total",
		Help:      "Rating submissions received, before any validation.",
	})
	m.ratingsAccepted = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "ratings_accepted_total",
		Help:      "Rating submissions acknowledged to the caller.",
	})
	m.ratingsThrottled = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "ratings_throttled_total",
		Help:      "Rating submissions rejected by the admission gate.",
	})
	m.ratingsRejected = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "ratings_rejected_total",
		Help:      "Rating submissions rejected by validation, by reason.",
	}, []string{"reason"})

	m.backfills = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "backfills_total",
		Help:      "Catalog rows inserted on demand for newly released cards.",
	})
	m.reconcileAnomalies = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "reconcile_anomalies_total",
		Help:      "Reconciliation outcomes absorbed instead of surfaced.",
	})

	m.storeLatency = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "store_latency_ms",
		Help:      "Storage operation latency in milliseconds.",
		Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
	}, []string{"op"})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by endpoint, method and status code.",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request duration in milliseconds.",
		Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	}, []string{"endpoint", "method", "status"})

	m.seedCards = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "seed_cards_total",
		Help:      "Cards registered during catalog seeding.",
	})
	m.seedDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "seed_duration_ms",
		Help:      "Per-collection seeding duration in milliseconds.",
		Buckets:   []float64{100, 500, 1000, 5000, 10000, 30000, 60000},
	})
	m.catalogCollections = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "catalog_collections",
		Help:      "Collections loaded into the catalog index.",
	})

	return m
}

// Global manager backing the package-level helpers.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager()
}

// GetRegistry returns the registry the global manager registers with.
func GetRegistry() *prometheus.Registry {
	return globalManager.registry
}

// Package-level helpers, mirroring the Manager surface.

func RecordRatingSubmitted() { globalManager.ratingsSubmitted.Inc() }
func RecordRatingAccepted()  { globalManager.ratingsAccepted.Inc() }
func RecordRatingThrottled() { globalManager.ratingsThrottled.Inc() }

func RecordRatingRejected(reason string) {
	globalManager.ratingsRejected.WithLabelValues(reason).Inc()
}

func RecordBackfill()          { globalManager.backfills.Inc() }
func RecordReconcileAnomaly()  { globalManager.reconcileAnomalies.Inc() }

func RecordStoreLatency(op string, latencyMs float64) {
	globalManager.storeLatency.WithLabelValues(op).Observe(latencyMs)
}

func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

func RecordHTTPRequestDuration(endpoint, method, status string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(durationMs)
}

func RecordSeedCards(n int) { globalManager.seedCards.Add(float64(n)) }

func RecordSeedDuration(durationMs float64) { globalManager.seedDuration.Observe(durationMs) }

func UpdateCatalogCollections(n int) { globalManager.catalogCollections.Set(float64(n)) }
