package controllers

import (
	"io"
	"net/http"
	"strings"
	"vehlog/internal/activity"
	"vehlog/internal/models"
	"vehlog/internal/providers"
	"vehlog/internal/services"
	"vehlog/internal/snapshot"
)

// SnapshotController exposes the snapshot store. Snapshots are always taken
// from, and loaded back into, the working set.
type SnapshotController struct {
	logger     providers.Logger
	store      snapshot.StoreInterface
	workingSet services.WorkingSetServiceInterface
}

type compareResponse struct {
	models.DiffResult
	Diff string `json:"diff,omitempty"`
}

func NewSnapshotController(logger providers.Logger, store snapshot.StoreInterface, workingSet services.WorkingSetServiceInterface) *SnapshotController {
	return &SnapshotController{
		logger:     logger,
		store:      store,
		workingSet: workingSet,
	}
}

func snapshotID(r *http.Request) string {
	return r.URL.Query().Get("id")
}

func derivedView(r *http.Request, records []models.Record) *models.CategorizedBuckets {
	if !queryFlag(r, "transform") {
		return nil
	}
	buckets := activity.Categorize(activity.CleanAll(records))
	return &buckets
}

// Create snapshots the working set. ?transform=1 also stores its
// categorization.
func (sc *SnapshotController) Create(w http.ResponseWriter, r *http.Request) {
	records := sc.workingSet.Records()
	id := sc.store.Create(r.URL.Query().Get("name"), records, derivedView(r, records))
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (sc *SnapshotController) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sc.store.List())
}

func (sc *SnapshotController) Get(w http.ResponseWriter, r *http.Request) {
	snap, ok := sc.store.Get(snapshotID(r))
	if !ok {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (sc *SnapshotController) Current(w http.ResponseWriter, r *http.Request) {
	snap, ok := sc.store.Current()
	if !ok {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (sc *SnapshotController) History(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sc.store.History())
}

// Update overwrites the snapshot with the current working set.
func (sc *SnapshotController) Update(w http.ResponseWriter, r *http.Request) {
	records := sc.workingSet.Records()
	if !sc.store.Update(snapshotID(r), records, derivedView(r, records)) {
		notFound(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (sc *SnapshotController) Rename(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	if !sc.store.Rename(snapshotID(r), name) {
		notFound(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (sc *SnapshotController) Delete(w http.ResponseWriter, r *http.Request) {
	if !sc.store.Delete(snapshotID(r)) {
		notFound(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Load replaces the working set with the snapshot's records and makes the
// snapshot current.
func (sc *SnapshotController) Load(w http.ResponseWriter, r *http.Request) {
	id := snapshotID(r)
	snap, ok := sc.store.Get(id)
	if !ok {
		notFound(w)
		return
	}
	sc.workingSet.SetRecords(snap.Records)
	sc.store.SetCurrent(id)
	sc.logger.Infof(providers.TypePost, "Loaded snapshot %s into working set (%d records)", id, snap.RecordCount)
	writeJSON(w, http.StatusOK, map[string]int{"total": snap.RecordCount})
}

func (sc *SnapshotController) Transform(w http.ResponseWriter, r *http.Request) {
	buckets, ok := sc.store.Transform(snapshotID(r))
	if !ok {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, buckets)
}

func (sc *SnapshotController) Export(w http.ResponseWriter, r *http.Request) {
	sep, err := activity.ParseSeparator(r.URL.Query().Get("sep"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	out, ok := sc.store.Export(snapshotID(r), sep)
	if !ok {
		notFound(w)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, out)
}

func (sc *SnapshotController) Clear(w http.ResponseWriter, r *http.Request) {
	sc.store.Clear()
	w.WriteHeader(http.StatusNoContent)
}

// Compare diffs snapshots ?a= and ?b=. With ?diff=1 the response also
// carries a line diff of both exports.
func (sc *SnapshotController) Compare(w http.ResponseWriter, r *http.Request) {
	idA, idB := r.URL.Query().Get("a"), r.URL.Query().Get("b")
	result, ok := sc.store.Compare(idA, idB)
	if !ok {
		notFound(w)
		return
	}
	resp := compareResponse{DiffResult: result}
	if queryFlag(r, "diff") {
		a, okA := sc.store.Get(idA)
		b, okB := sc.store.Get(idB)
		if okA && okB {
			resp.Diff = activity.TextDiff(a.Records, b.Records)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (sc *SnapshotController) Search(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sc.store.Search(r.URL.Query().Get("q")))
}

func (sc *SnapshotController) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sc.store.Stats())
}
