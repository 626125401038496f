package providers

import (
	"statekeeper/internal/structures"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObservePersistenceDuration(op string, duration time.Duration)
	IncPersistenceFailures(op string)
	IncMigrations(path string)
	IncDeltasApplied()
	SetStateRevision(revision int64)
	IncLimitChecks(scope string, allowed bool)
	AddConversions(count int)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	persistenceDuration *prometheus.HistogramVec
	persistenceFailures *prometheus.CounterVec
	migrations          *prometheus.CounterVec
	deltasApplied       prometheus.Counter
	stateRevision       prometheus.Gauge
	limitChecks         *prometheus.CounterVec
	conversions         prometheus.Counter
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(op string, duration time.Duration) {
	m.persistenceDuration.WithLabelValues(op).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncPersistenceFailures(op string) {
	m.persistenceFailures.WithLabelValues(op).Inc()
}

func (m *MetricsProvider) IncMigrations(path string) {
	m.migrations.WithLabelValues(path).Inc()
}

func (m *MetricsProvider) IncDeltasApplied() {
	m.deltasApplied.Inc()
}

func (m *MetricsProvider) SetStateRevision(revision int64) {
	m.stateRevision.Set(float64(revision))
}

func (m *MetricsProvider) IncLimitChecks(scope string, allowed bool) {
	m.limitChecks.WithLabelValues(scope, strconv.FormatBool(allowed)).Inc()
}

func (m *MetricsProvider) AddConversions(count int) {
	m.conversions.Add(float64(count))
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "statekeeper_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "statekeeper_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "statekeeper_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "statekeeper_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		persistenceDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "statekeeper_persistence_duration_seconds",
			Help:    "Duration of save/load operations in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),

		persistenceFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "statekeeper_persistence_failures_total",
			Help: "Failed save/load/delete operations",
		}, []string{"op"}),

		migrations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "statekeeper_migrations_total",
			Help: "Applied schema migration steps by path (explicit or fallback)",
		}, []string{"path"}),

		deltasApplied: promauto.NewCounter(prometheus.CounterOpts{
			Name: "statekeeper_deltas_applied_total",
			Help: "Deltas applied to the local state",
		}),

		stateRevision: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "statekeeper_state_revision",
			Help: "Revision of the in-memory state",
		}),

		limitChecks: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "statekeeper_limit_checks_total",
			Help: "Limit evaluations by scope and outcome",
		}, []string{"scope", "allowed"}),

		conversions: promauto.NewCounter(prometheus.CounterOpts{
			Name: "statekeeper_event_conversions_total",
			Help: "Expired event currency balances converted",
		}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                     {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration)     {}
func (n *noopMetrics) IncCacheHits()                                        {}
func (n *noopMetrics) IncCacheMisses()                                      {}
func (n *noopMetrics) ObservePersistenceDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncPersistenceFailures(_ string)                      {}
func (n *noopMetrics) IncMigrations(_ string)                               {}
func (n *noopMetrics) IncDeltasApplied()                                    {}
func (n *noopMetrics) SetStateRevision(_ int64)                             {}
func (n *noopMetrics) IncLimitChecks(_ string, _ bool)                      {}
func (n *noopMetrics) AddConversions(_ int)                                 {}
