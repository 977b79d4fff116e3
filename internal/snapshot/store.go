package snapshot

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
	"vehlog/internal/activity"
	"vehlog/internal/models"
	"vehlog/internal/providers"
	"vehlog/internal/storage/interfaces"
	"vehlog/internal/structures"

	"github.com/dustin/go-humanize"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

const (
	DefaultCapacity = 10

	KeySnapshots = "vehlog.snapshots"
	KeyCurrent   = "vehlog.current"
	KeyHistory   = "vehlog.history"

	idPrefix = "snap_"
)

type StoreInterface interface {
	Create(name string, records []models.Record, derived *models.CategorizedBuckets) string
	Get(id string) (*models.Snapshot, bool)
	Current() (*models.Snapshot, bool)
	SetCurrent(id string) bool
	History() []string
	Update(id string, records []models.Record, derived *models.CategorizedBuckets) bool
	Rename(id, name string) bool
	Delete(id string) bool
	Clear()
	Transform(id string) (*models.CategorizedBuckets, bool)
	Export(id, sep string) (string, bool)
	List() []models.SnapshotSummary
	Compare(idA, idB string) (models.DiffResult, bool)
	Search(query string) []models.SearchResult
	Stats() models.StoreStats
	Len() int
	Load()
	Flush() error
}

// Store keeps named snapshots of record collections in memory and writes
// the whole table through to a key-value collaborator after every change.
// The in-memory state stays authoritative when a write fails.
type Store struct {
	mu        sync.Mutex
	capacity  int
	kv        interfaces.KeyValueInterface
	logger    providers.Logger
	metrics   providers.MetricsProviderInterface
	snapshots map[string]*models.Snapshot
	currentID string
	history   []string
	seq       uint64

	now   func() time.Time
	newID func() string
}

func NewStore(conf *structures.Config, kv interfaces.KeyValueInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) StoreInterface {
	capacity := conf.Snapshots.Capacity
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{
		capacity:  capacity,
		kv:        kv,
		logger:    logger,
		metrics:   metrics,
		snapshots: make(map[string]*models.Snapshot),
		history:   []string{},
		now:       func() time.Time { return time.Now().UTC() },
		newID:     func() string { return idPrefix + uuid.NewString() },
	}
}

func recordsSize(records []models.Record) int {
	data, err := json.Marshal(records)
	if err != nil {
		return 0
	}
	return len(data)
}

func ownedRecords(records []models.Record) []models.Record {
	out := models.CloneRecords(records)
	if out == nil {
		out = []models.Record{}
	}
	return out
}

// Create stores a copy of records, makes it current and evicts the least
// recently accessed snapshots beyond capacity.
func (s *Store) Create(name string, records []models.Record, derived *models.CategorizedBuckets) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(name) == "" {
		name = fmt.Sprintf("Snapshot %d", len(s.snapshots)+1)
	}
	now := s.now()
	s.seq++
	snap := &models.Snapshot{
		ID:             s.newID(),
		Name:           name,
		CreatedAt:      now,
		LastAccessedAt: now,
		Records:        ownedRecords(records),
		DerivedView:    derived.Clone(),
		RecordCount:    len(records),
		SizeBytes:      recordsSize(records),
		Seq:            s.seq,
	}
	s.snapshots[snap.ID] = snap
	s.currentID = snap.ID
	s.pushHistory(snap.ID)
	s.evict()

	s.logger.Infof(providers.TypeStore, "Created snapshot %s %q (%d records)", snap.ID, snap.Name, snap.RecordCount)
	s.persist()
	return snap.ID
}

func (s *Store) pushHistory(id string) {
	h := make([]string, 0, len(s.history)+1)
	h = append(h, id)
	for _, existing := range s.history {
		if existing != id {
			h = append(h, existing)
		}
	}
	if len(h) > s.capacity {
		h = h[:s.capacity]
	}
	s.history = h
}

// oldest returns the snapshot with the earliest LastAccessedAt, lower Seq
// first on ties.
func (s *Store) oldest() *models.Snapshot {
	var victim *models.Snapshot
	for _, snap := range s.snapshots {
		if victim == nil ||
			snap.LastAccessedAt.Before(victim.LastAccessedAt) ||
			(snap.LastAccessedAt.Equal(victim.LastAccessedAt) && snap.Seq < victim.Seq) {
			victim = snap
		}
	}
	return victim
}

func (s *Store) evict() {
	for len(s.snapshots) > s.capacity {
		victim := s.oldest()
		s.remove(victim.ID)
		s.logger.Infof(providers.TypeStore, "Evicted snapshot %s %q", victim.ID, victim.Name)
	}
}

func (s *Store) remove(id string) bool {
	if _, ok := s.snapshots[id]; !ok {
		return false
	}
	delete(s.snapshots, id)
	if s.currentID == id {
		s.currentID = ""
	}
	h := s.history[:0]
	for _, existing := range s.history {
		if existing != id {
			h = append(h, existing)
		}
	}
	s.history = h
	return true
}

// Get returns a deep copy of the snapshot and marks it as accessed.
func (s *Store) Get(id string) (*models.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touch(id)
}

func (s *Store) touch(id string) (*models.Snapshot, bool) {
	snap, ok := s.snapshots[id]
	if !ok {
		return nil, false
	}
	snap.LastAccessedAt = s.now()
	s.persist()
	return snap.Clone(), true
}

func (s *Store) Current() (*models.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentID == "" {
		return nil, false
	}
	return s.touch(s.currentID)
}

func (s *Store) SetCurrent(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.snapshots[id]; !ok {
		return false
	}
	s.currentID = id
	s.persist()
	return true
}

// History lists recently created snapshot ids, most recent first.
func (s *Store) History() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.history...)
}

func (s *Store) Update(id string, records []models.Record, derived *models.CategorizedBuckets) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.snapshots[id]
	if !ok {
		return false
	}
	snap.Records = ownedRecords(records)
	snap.DerivedView = derived.Clone()
	snap.LastAccessedAt = s.now()
	snap.RecordCount = len(records)
	snap.SizeBytes = recordsSize(records)
	s.persist()
	return true
}

func (s *Store) Rename(id, name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.snapshots[id]
	if !ok {
		return false
	}
	snap.Name = name
	s.persist()
	return true
}

func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.remove(id) {
		return false
	}
	s.logger.Infof(providers.TypeStore, "Deleted snapshot %s", id)
	s.persist()
	return true
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots = make(map[string]*models.Snapshot)
	s.currentID = ""
	s.history = []string{}
	s.logger.Infof(providers.TypeStore, "Cleared all snapshots")
	s.persist()
}

// Transform cleans the snapshot's records and stores their categorization
// as the derived view. The original records are kept as they are.
func (s *Store) Transform(id string) (*models.CategorizedBuckets, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.snapshots[id]
	if !ok {
		return nil, false
	}
	buckets := activity.Categorize(activity.CleanAll(snap.Records))
	snap.DerivedView = &buckets
	snap.LastAccessedAt = s.now()
	s.persist()
	return buckets.Clone(), true
}

func (s *Store) Export(id, sep string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.snapshots[id]
	if !ok {
		return "", false
	}
	return activity.Export(snap.Records, sep), true
}

// sorted returns snapshots in creation order.
func (s *Store) sorted() []*models.Snapshot {
	out := make([]*models.Snapshot, 0, len(s.snapshots))
	for _, snap := range s.snapshots {
		out = append(out, snap)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out
}

func (s *Store) List() []models.SnapshotSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.SnapshotSummary, 0, len(s.snapshots))
	for _, snap := range s.sorted() {
		out = append(out, models.SnapshotSummary{
			ID:             snap.ID,
			Name:           snap.Name,
			CreatedAt:      snap.CreatedAt,
			LastAccessedAt: snap.LastAccessedAt,
			RecordCount:    snap.RecordCount,
			HasDerivedView: snap.DerivedView != nil,
			Size:           humanize.IBytes(uint64(snap.SizeBytes)),
		})
	}
	return out
}

// Compare diffs the records of two snapshots without touching them.
func (s *Store) Compare(idA, idB string) (models.DiffResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, okA := s.snapshots[idA]
	b, okB := s.snapshots[idB]
	if !okA || !okB {
		return models.DiffResult{}, false
	}
	return activity.Compare(a.Records, b.Records), true
}

// Search returns, per snapshot, the records having any field that contains
// query case-insensitively. Snapshots without matches are omitted.
func (s *Store) Search(query string) []models.SearchResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := strings.ToLower(query)
	results := []models.SearchResult{}
	for _, snap := range s.sorted() {
		var matches []models.Record
		for _, r := range snap.Records {
			for _, v := range r.Values() {
				if strings.Contains(strings.ToLower(v), q) {
					matches = append(matches, r)
					break
				}
			}
		}
		if len(matches) > 0 {
			results = append(results, models.SearchResult{
				SnapshotID:   snap.ID,
				SnapshotName: snap.Name,
				Matches:      matches,
				MatchCount:   len(matches),
			})
		}
	}
	return results
}

func (s *Store) Stats() models.StoreStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	var st models.StoreStats
	var oldest, newest *models.Snapshot
	for _, snap := range s.sorted() {
		st.TotalSnapshots++
		st.TotalRecords += snap.RecordCount
		st.TotalSizeBytes += snap.SizeBytes
		if snap.DerivedView != nil {
			st.DerivedSnapshots++
		}
		if oldest == nil || snap.CreatedAt.Before(oldest.CreatedAt) {
			oldest = snap
		}
		if newest == nil || !snap.CreatedAt.Before(newest.CreatedAt) {
			newest = snap
		}
	}
	if oldest != nil {
		st.OldestID = oldest.ID
		st.NewestID = newest.ID
	}
	return st
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.snapshots)
}

func (s *Store) persist() {
	s.metrics.SetSnapshotsTotal(len(s.snapshots))
	if err := s.write(); err != nil {
		s.metrics.IncPersistenceFailures()
		s.logger.Errorf(providers.TypeStore, "Could not persist snapshots: %s", err)
	}
}

func (s *Store) write() error {
	start := time.Now()
	defer func() { s.metrics.ObservePersistenceDuration(time.Since(start)) }()

	table, err := json.Marshal(s.sorted())
	if err != nil {
		return fmt.Errorf("encode snapshots: %w", err)
	}
	history, err := json.Marshal(s.history)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	if err := s.kv.Set(KeySnapshots, string(table)); err != nil {
		return fmt.Errorf("write %s: %w", KeySnapshots, err)
	}
	if err := s.kv.Set(KeyCurrent, s.currentID); err != nil {
		return fmt.Errorf("write %s: %w", KeyCurrent, err)
	}
	if err := s.kv.Set(KeyHistory, string(history)); err != nil {
		return fmt.Errorf("write %s: %w", KeyHistory, err)
	}
	return nil
}

// Flush writes the current state out and reports the failure, if any.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write()
}

// Load replaces the in-memory state with what the key-value collaborator
// holds. Unreadable or corrupt entries are logged and skipped.
func (s *Store) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshots, err := s.readSnapshots()
	if err != nil {
		s.logger.Errorf(providers.TypeStore, "Could not load snapshots: %s", err)
	}
	s.snapshots = make(map[string]*models.Snapshot, len(snapshots))
	s.seq = 0
	for _, snap := range snapshots {
		if snap == nil || snap.ID == "" {
			continue
		}
		if snap.Records == nil {
			snap.Records = []models.Record{}
		}
		s.snapshots[snap.ID] = snap
		if snap.Seq > s.seq {
			s.seq = snap.Seq
		}
	}

	s.currentID = ""
	if current, ok, err := s.kv.Get(KeyCurrent); err != nil {
		s.logger.Errorf(providers.TypeStore, "Could not load current snapshot id: %s", err)
	} else if ok {
		if _, exists := s.snapshots[current]; exists {
			s.currentID = current
		}
	}

	s.history = []string{}
	history, err := s.readHistory()
	if err != nil {
		s.logger.Errorf(providers.TypeStore, "Could not load snapshot history: %s", err)
	}
	for _, id := range history {
		if _, exists := s.snapshots[id]; exists && len(s.history) < s.capacity {
			s.history = append(s.history, id)
		}
	}

	s.evict()
	s.metrics.SetSnapshotsTotal(len(s.snapshots))
	s.logger.Infof(providers.TypeStore, "Loaded %d snapshots", len(s.snapshots))
}

var errCorrupt = errors.New("corrupt entry")

func (s *Store) readSnapshots() ([]*models.Snapshot, error) {
	raw, ok, err := s.kv.Get(KeySnapshots)
	if err != nil || !ok {
		return nil, err
	}
	var snapshots []*models.Snapshot
	if err := json.Unmarshal([]byte(raw), &snapshots); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", KeySnapshots, errCorrupt, err)
	}
	return snapshots, nil
}

func (s *Store) readHistory() ([]string, error) {
	raw, ok, err := s.kv.Get(KeyHistory)
	if err != nil || !ok {
		return nil, err
	}
	var history []string
	if err := json.Unmarshal([]byte(raw), &history); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", KeyHistory, errCorrupt, err)
	}
	return history, nil
}
