package internal

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"vehlog/internal/controllers"
	"vehlog/internal/services"
	"vehlog/internal/snapshot"
	"vehlog/internal/structures"
	"vehlog/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockScheduler struct {
	inits, stops, restores, persists int
	persistErr                       error
}

func (m *mockScheduler) Init()    { m.inits++ }
func (m *mockScheduler) Stop()    { m.stops++ }
func (m *mockScheduler) Restore() { m.restores++ }
func (m *mockScheduler) Persist() error {
	m.persists++
	return m.persistErr
}

func newTestApp(t *testing.T, sched *mockScheduler, metricsEnabled bool) *App {
	t.Helper()
	conf := &structures.Config{
		AppName:   "VehicleLogService",
		WebServer: structures.Server{Host: "127.0.0.1", Port: 0},
		Snapshots: structures.SnapshotConfig{Capacity: 5},
		Metrics:   structures.MetricsConfig{Enabled: metricsEnabled},
	}
	logger := &testutil.MockLogger{}
	ws := services.NewWorkingSetService()
	store := snapshot.NewStore(conf, testutil.NewMockKV(), logger, &testutil.MockMetrics{})
	cache := testutil.NewMockCache()
	router := InitRoutes(
		controllers.NewApiController(conf, logger, ws, cache, &testutil.MockMetrics{}),
		controllers.NewSnapshotController(logger, store, ws),
	)
	return NewApp(controllers.NewHealthController(ws, store, cache), sched, conf, logger, router, &testutil.MockMetrics{})
}

func TestNewApp_RestoresAndServes(t *testing.T) {
	sched := &mockScheduler{}
	app := newTestApp(t, sched, false)

	assert.Equal(t, 1, sched.restores)
	assert.Equal(t, 0, sched.inits)
	assert.Equal(t, "127.0.0.1:0", app.WebServer.Addr)

	rr := httptest.NewRecorder()
	app.WebServer.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	app.WebServer.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/snapshots", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())

	rr = httptest.NewRecorder()
	app.WebServer.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestNewApp_MetricsEndpoint(t *testing.T) {
	app := newTestApp(t, &mockScheduler{}, true)

	rr := httptest.NewRecorder()
	app.WebServer.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestApp_RunStopsOnContextCancel(t *testing.T) {
	sched := &mockScheduler{}
	app := newTestApp(t, sched, false)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
	}
	assert.Equal(t, 1, sched.inits)
	assert.Equal(t, 1, sched.stops)
	assert.Equal(t, 1, sched.persists)
}

func TestApp_RunReturnsPersistError(t *testing.T) {
	sched := &mockScheduler{persistErr: errors.New("disk full")}
	app := newTestApp(t, sched, false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := app.Run(ctx)
	assert.EqualError(t, err, "disk full")
}
