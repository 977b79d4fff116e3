package models

import "time"

// Snapshot is a named copy of a record collection plus an optional derived
// categorization. A snapshot never shares slices with the working set.
type Snapshot struct {
	ID             string              `json:"id"`
	Name           string              `json:"name"`
	CreatedAt      time.Time           `json:"created"`
	LastAccessedAt time.Time           `json:"last_accessed"`
	Records        []Record            `json:"original_data"`
	DerivedView    *CategorizedBuckets `json:"transformed_data"`
	RecordCount    int                 `json:"record_count"`
	SizeBytes      int                 `json:"size"`
	Seq            uint64              `json:"seq"`
}

// Clone returns a deep copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	c := *s
	c.Records = CloneRecords(s.Records)
	c.DerivedView = s.DerivedView.Clone()
	return &c
}

type SnapshotSummary struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	CreatedAt      time.Time `json:"created"`
	LastAccessedAt time.Time `json:"last_accessed"`
	RecordCount    int       `json:"record_count"`
	HasDerivedView bool      `json:"has_transformed"`
	Size           string    `json:"size"`
}

// StoreStats aggregates all snapshots held by the store.
type StoreStats struct {
	TotalSnapshots   int    `json:"total_buffers"`
	TotalRecords     int    `json:"total_records"`
	TotalSizeBytes   int    `json:"total_size"`
	DerivedSnapshots int    `json:"transformed_buffers"`
	OldestID         string `json:"oldest_buffer,omitempty"`
	NewestID         string `json:"newest_buffer,omitempty"`
}

type SearchResult struct {
	SnapshotID   string   `json:"buffer_id"`
	SnapshotName string   `json:"buffer_name"`
	Matches      []Record `json:"matches"`
	MatchCount   int      `json:"match_count"`
}

// DiffResult describes the overlap of two record collections keyed by
// (timestamp, user, vrid).
type DiffResult struct {
	Common            []Record `json:"common"`
	UniqueToA         []Record `json:"unique_a"`
	UniqueToB         []Record `json:"unique_b"`
	TotalA            int      `json:"total_a"`
	TotalB            int      `json:"total_b"`
	CommonCount       int      `json:"common_count"`
	UniqueACount      int      `json:"unique_a_count"`
	UniqueBCount      int      `json:"unique_b_count"`
	SimilarityPercent float64  `json:"similarity"`
}

// Source is raw text handed over by a file or stream collaborator.
type Source struct {
	Content string    `json:"-"`
	Name    string    `json:"file_name"`
	Size    int64     `json:"file_size"`
	ModTime time.Time `json:"last_modified"`
}
