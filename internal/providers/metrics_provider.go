package providers

import (
	"strconv"
	"time"
	"vehlog/internal/services"
	"vehlog/internal/structures"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObservePersistenceDuration(duration time.Duration)
	IncPersistenceFailures()
	SetSnapshotsTotal(count int)
	AddParsedRecords(source string, count int)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	persistenceDuration prometheus.Histogram
	persistenceFailures prometheus.Counter
	snapshotsTotal      prometheus.Gauge
	parsedRecords       *prometheus.CounterVec
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, statusClass(status)).Inc()
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

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) IncPersistenceFailures() {
	m.persistenceFailures.Inc()
}

func (m *MetricsProvider) SetSnapshotsTotal(count int) {
	m.snapshotsTotal.Set(float64(count))
}

// AddParsedRecords counts records produced by the parser, labelled by where
// the text came from.
func (m *MetricsProvider) AddParsedRecords(source string, count int) {
	m.parsedRecords.WithLabelValues(source).Add(float64(count))
}

// statusClass folds a status code into its class ("2xx", "4xx", ...).
// Codes outside 100..599 count as server errors.
func statusClass(code int) string {
	if code < 100 || code > 599 {
		return "5xx"
	}
	return strconv.Itoa(code/100) + "xx"
}

const metricsNamespace = "vehlog"

// Request latencies range from sub-millisecond cached views to multi-second
// exports, so the buckets span 0.5ms to ~8s.
var requestBuckets = prometheus.ExponentialBuckets(0.0005, 4, 8)

func NewMetricsProvider(conf *structures.Config, workingSet services.WorkingSetServiceInterface) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	counter := func(subsystem, name, help string) prometheus.Counter {
		return promauto.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace, Subsystem: subsystem, Name: name, Help: help,
		})
	}

	m := &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by endpoint and status class",
		}, []string{"endpoint", "status"}),
		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by endpoint",
			Buckets:   requestBuckets,
		}, []string{"endpoint"}),
		cacheHits:   counter("view_cache", "hits_total", "Views served from the cache"),
		cacheMisses: counter("view_cache", "misses_total", "Views computed because the cache had no entry"),
		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "store",
			Name:      "persist_duration_seconds",
			Help:      "Time spent writing the snapshot store",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 7),
		}),
		persistenceFailures: counter("store", "persist_failures_total", "Snapshot store writes that failed"),
		snapshotsTotal: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "store",
			Name:      "snapshots",
			Help:      "Snapshots currently held",
		}),
		parsedRecords: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "parser",
			Name:      "records_total",
			Help:      "Records produced by the parser by input source",
		}, []string{"source"}),
	}

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: "working_set",
		Name:      "records",
		Help:      "Records in the working set",
	}, func() float64 {
		return float64(workingSet.Len())
	})

	return m
}

type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (n *noopMetrics) IncPersistenceFailures()                          {}
func (n *noopMetrics) SetSnapshotsTotal(_ int)                          {}
func (n *noopMetrics) AddParsedRecords(_ string, _ int)                 {}
