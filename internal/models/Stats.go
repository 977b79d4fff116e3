package models

import "time"

type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type VehicleStats struct {
	Tractors   int `json:"tractors"`
	Trailers   int `json:"trailers"`
	VSTrailers int `json:"vs_trailers"`
}

type QualityStats struct {
	ValidPercent   float64 `json:"valid"`
	MissingPercent float64 `json:"missing"`
	ErrorCount     int     `json:"errors"`
}

// Stats summarizes a record collection. DateRange is nil when no timestamp parses.
type Stats struct {
	TotalRecords int          `json:"total_records"`
	UniqueUsers  int          `json:"unique_users"`
	DateRange    *DateRange   `json:"date_range"`
	Vehicles     VehicleStats `json:"vehicle_stats"`
	Quality      QualityStats `json:"data_quality"`
}

// FileStats describes a freshly parsed file.
type FileStats struct {
	TotalRows  int `json:"total_rows"`
	ValidRows  int `json:"valid_rows"`
	EmptyRows  int `json:"empty_rows"`
	Duplicates int `json:"duplicates"`
}
