package internal

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"vehlog/internal/controllers"
	"vehlog/internal/providers"
	"vehlog/internal/services"
	"vehlog/internal/snapshot"
	"vehlog/internal/structures"
	"vehlog/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) providers.RouterProviderInterface {
	t.Helper()
	conf := &structures.Config{Snapshots: structures.SnapshotConfig{Capacity: 5}}
	logger := &testutil.MockLogger{}
	metrics := &testutil.MockMetrics{}
	ws := services.NewWorkingSetService()
	store := snapshot.NewStore(conf, testutil.NewMockKV(), logger, metrics)

	ac := controllers.NewApiController(conf, logger, ws, testutil.NewMockCache(), metrics)
	sc := controllers.NewSnapshotController(logger, store, ws)
	return InitRoutes(ac, sc)
}

func newTestMux(t *testing.T) *http.ServeMux {
	mux := http.NewServeMux()
	for _, r := range newTestRouter(t).GetRoutes() {
		mux.Handle(r.Url, r.Handler)
	}
	return mux
}

func TestInitRoutes_RegistersEveryPath(t *testing.T) {
	routes := newTestRouter(t).GetRoutes()

	urls := make([]string, len(routes))
	for i, r := range routes {
		urls[i] = r.Url
	}

	require.Len(t, routes, 25)
	for _, u := range []string{
		"/records", "/record", "/record/update", "/record/delete", "/records/clean",
		"/categories", "/grouped", "/stats", "/validate", "/periods", "/export",
		"/snapshots", "/snapshot", "/snapshot/current", "/snapshots/history",
		"/snapshot/update", "/snapshot/rename", "/snapshot/delete", "/snapshot/load",
		"/snapshot/transform", "/snapshot/export", "/snapshots/clear",
		"/compare", "/search", "/snapshots/stats",
	} {
		assert.Contains(t, urls, u)
	}
}

func TestInitRoutes_MethodEnforcement(t *testing.T) {
	mux := newTestMux(t)

	req := httptest.NewRequest(http.MethodPost, "/categories", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	req = httptest.NewRequest(http.MethodGet, "/snapshot/delete", nil)
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, "POST", rr.Header().Get("Allow"))

	req = httptest.NewRequest(http.MethodDelete, "/records", nil)
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, "GET, POST", rr.Header().Get("Allow"))
}

func TestInitRoutes_LoadThenSnapshot(t *testing.T) {
	mux := newTestMux(t)

	req := httptest.NewRequest(http.MethodPost, "/records", strings.NewReader("2024-01-01T10:00,alice,0994-1,ACME,TR1,TRA1"))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)

	req = httptest.NewRequest(http.MethodPost, "/snapshots?name=first", nil)
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)

	req = httptest.NewRequest(http.MethodGet, "/snapshots", nil)
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"name":"first"`)
	assert.Contains(t, rr.Body.String(), `"record_count":1`)
}
