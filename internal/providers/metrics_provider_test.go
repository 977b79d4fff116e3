package providers

import (
	"testing"
	"time"
	"vehlog/internal/models"
	"vehlog/internal/services"
	"vehlog/internal/structures"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useFreshRegistry(t *testing.T) *prometheus.Registry {
	t.Helper()
	reg := prometheus.NewRegistry()
	prevReg, prevGather := prometheus.DefaultRegisterer, prometheus.DefaultGatherer
	prometheus.DefaultRegisterer = reg
	prometheus.DefaultGatherer = reg
	t.Cleanup(func() {
		prometheus.DefaultRegisterer = prevReg
		prometheus.DefaultGatherer = prevGather
	})
	return reg
}

func TestNoopMetrics_WhenDisabled(t *testing.T) {
	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: false},
	}
	m := NewMetricsProvider(conf, services.NewWorkingSetService())
	_, ok := m.(*noopMetrics)
	assert.True(t, ok, "should return noopMetrics when disabled")

	m.IncRequestsTotal("GET /stats", 200)
	m.ObserveRequestDuration("GET /stats", time.Millisecond)
	m.IncCacheHits()
	m.IncCacheMisses()
	m.ObservePersistenceDuration(time.Millisecond)
	m.IncPersistenceFailures()
	m.SetSnapshotsTotal(3)
	m.AddParsedRecords("http", 10)
}

func TestMetricsProvider_Counters(t *testing.T) {
	reg := useFreshRegistry(t)

	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: true},
	}
	m := NewMetricsProvider(conf, services.NewWorkingSetService())
	mp, ok := m.(*MetricsProvider)
	require.True(t, ok, "should return MetricsProvider when enabled")

	m.IncRequestsTotal("GET /stats", 200)
	m.IncRequestsTotal("GET /stats", 404)
	m.ObserveRequestDuration("GET /stats", 5*time.Millisecond)
	m.IncCacheHits()
	m.IncCacheMisses()
	m.IncCacheMisses()
	m.ObservePersistenceDuration(100 * time.Millisecond)
	m.IncPersistenceFailures()
	m.SetSnapshotsTotal(4)
	m.AddParsedRecords("http", 10)
	m.AddParsedRecords("http", 5)

	assert.Equal(t, 1.0, testutil.ToFloat64(mp.cacheHits))
	assert.Equal(t, 2.0, testutil.ToFloat64(mp.cacheMisses))
	assert.Equal(t, 1.0, testutil.ToFloat64(mp.persistenceFailures))
	assert.Equal(t, 4.0, testutil.ToFloat64(mp.snapshotsTotal))
	assert.Equal(t, 15.0, testutil.ToFloat64(mp.parsedRecords.WithLabelValues("http")))
	assert.Equal(t, 1.0, testutil.ToFloat64(mp.requestsTotal.WithLabelValues("GET /stats", "4xx")))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestMetricsProvider_WorkingSetGauge(t *testing.T) {
	reg := useFreshRegistry(t)

	ws := services.NewWorkingSetService()
	ws.SetRecords([]models.Record{{User: "a"}, {User: "b"}})

	NewMetricsProvider(&structures.Config{Metrics: structures.MetricsConfig{Enabled: true}}, ws)

	count, err := testutil.GatherAndCount(reg, "vehlog_working_set_records")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == "vehlog_working_set_records" {
			assert.Equal(t, 2.0, f.GetMetric()[0].GetGauge().GetValue())
		}
	}
}

func TestMetricsProvider_RegistersNamespacedFamilies(t *testing.T) {
	reg := useFreshRegistry(t)
	m := NewMetricsProvider(&structures.Config{Metrics: structures.MetricsConfig{Enabled: true}}, services.NewWorkingSetService())

	m.IncRequestsTotal("POST /records", 201)
	m.ObserveRequestDuration("POST /records", time.Millisecond)
	m.IncCacheHits()
	m.IncCacheMisses()
	m.ObservePersistenceDuration(time.Millisecond)
	m.IncPersistenceFailures()
	m.AddParsedRecords("file", 1)

	count, err := testutil.GatherAndCount(reg,
		"vehlog_http_requests_total",
		"vehlog_http_request_duration_seconds",
		"vehlog_view_cache_hits_total",
		"vehlog_view_cache_misses_total",
		"vehlog_store_persist_duration_seconds",
		"vehlog_store_persist_failures_total",
		"vehlog_store_snapshots",
		"vehlog_parser_records_total",
		"vehlog_working_set_records",
	)
	require.NoError(t, err)
	assert.Equal(t, 9, count)
}

func TestStatusClass(t *testing.T) {
	tests := map[int]string{
		100: "1xx",
		200: "2xx",
		201: "2xx",
		301: "3xx",
		404: "4xx",
		405: "4xx",
		503: "5xx",
		0:   "5xx",
		999: "5xx",
	}
	for code, expected := range tests {
		assert.Equal(t, expected, statusClass(code), "code %d", code)
	}
}
