package controllers

import (
	"fmt"
	"net/http"
	"time"
	"vehlog/internal/providers"
	"vehlog/internal/services"
	"vehlog/internal/snapshot"
)

// HealthController reports liveness together with the size of everything the
// process holds in memory.
type HealthController struct {
	workingSet services.WorkingSetServiceInterface
	store      snapshot.StoreInterface
	cache      providers.CacheProviderInterface
	startTime  time.Time
}

type healthResponse struct {
	Status         string  `json:"status"`
	Uptime         string  `json:"uptime"`
	UptimeSeconds  float64 `json:"uptime_seconds"`
	Records        int     `json:"records"`
	RecordsVersion uint64  `json:"records_version"`
	Snapshots      int     `json:"snapshots"`
	CachedViews    int64   `json:"cached_views"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	writeJSON(w, http.StatusOK, healthResponse{
		Status:         "ok",
		Uptime:         formatUptime(uptime),
		UptimeSeconds:  uptime.Seconds(),
		Records:        hc.workingSet.Len(),
		RecordsVersion: hc.workingSet.Version(),
		Snapshots:      hc.store.Len(),
		CachedViews:    hc.cache.EntryCount(),
	})
}

func formatUptime(d time.Duration) string {
	d = d.Truncate(time.Second)
	return fmt.Sprintf("%dh%dm%ds", int(d.Hours()), int(d.Minutes())%60, int(d.Seconds())%60)
}

func NewHealthController(workingSet services.WorkingSetServiceInterface, store snapshot.StoreInterface, cache providers.CacheProviderInterface) *HealthController {
	return &HealthController{
		workingSet: workingSet,
		store:      store,
		cache:      cache,
		startTime:  time.Now(),
	}
}
