package providers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"vehlog/internal/structures"

	"github.com/stretchr/testify/assert"
)

type mockMetrics struct {
	endpoints     []string
	statuses      []int
	durationCalls int
	hits          int
	misses        int
}

func (m *mockMetrics) IncRequestsTotal(endpoint string, status int) {
	m.endpoints = append(m.endpoints, endpoint)
	m.statuses = append(m.statuses, status)
}
func (m *mockMetrics) ObserveRequestDuration(_ string, _ time.Duration) { m.durationCalls++ }
func (m *mockMetrics) IncCacheHits()                                    { m.hits++ }
func (m *mockMetrics) IncCacheMisses()                                  { m.misses++ }
func (m *mockMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (m *mockMetrics) IncPersistenceFailures()                          {}
func (m *mockMetrics) SetSnapshotsTotal(_ int)                          {}
func (m *mockMetrics) AddParsedRecords(_ string, _ int)                 {}

type recordingLogger struct {
	cacheTestLogger
	debugTypes []TypeEnum
}

func (l *recordingLogger) Debugf(t TypeEnum, _ string, _ ...interface{}) {
	l.debugTypes = append(l.debugTypes, t)
}

var middlewareRoutes = []structures.Route{
	{Url: "/snapshots"},
	{Url: "/stats"},
}

func hit(mw http.Handler, method, target string) {
	mw.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(method, target, nil))
}

func TestMetricsMiddleware_LabelsByMethodAndPath(t *testing.T) {
	metrics := &mockMetrics{}
	logger := &recordingLogger{}
	created := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	mw := MetricsMiddleware(metrics, logger, middlewareRoutes, created)
	hit(mw, http.MethodPost, "/snapshots?name=x")
	hit(mw, http.MethodGet, "/stats")

	assert.Equal(t, []string{"POST /snapshots", "GET /stats"}, metrics.endpoints)
	assert.Equal(t, []int{http.StatusCreated, http.StatusCreated}, metrics.statuses)
	assert.Equal(t, 2, metrics.durationCalls)
	assert.Equal(t, []TypeEnum{TypePost, TypeGet}, logger.debugTypes)
}

func TestMetricsMiddleware_UnroutedPathsShareOneLabel(t *testing.T) {
	metrics := &mockMetrics{}
	mw := MetricsMiddleware(metrics, &cacheTestLogger{}, middlewareRoutes, http.NotFoundHandler())

	hit(mw, http.MethodGet, "/wp-login.php")
	hit(mw, http.MethodGet, "/.env")

	assert.Equal(t, []string{"GET other", "GET other"}, metrics.endpoints)
	assert.Equal(t, []int{http.StatusNotFound, http.StatusNotFound}, metrics.statuses)
}

func TestMetricsMiddleware_DefaultsToOK(t *testing.T) {
	metrics := &mockMetrics{}
	wrote := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	hit(MetricsMiddleware(metrics, &cacheTestLogger{}, nil, wrote), http.MethodGet, "/stats")

	assert.Equal(t, []int{http.StatusOK}, metrics.statuses)
	assert.Equal(t, []string{"GET other"}, metrics.endpoints)
}
