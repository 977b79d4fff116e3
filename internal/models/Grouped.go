package models

import "strings"

// GroupedActivity aggregates the vehicles seen for one (timestamp, user) pair.
type GroupedActivity struct {
	Timestamp string   `json:"timestamp"`
	User      string   `json:"user"`
	Tractors  []string `json:"traktors"`
	Trailers  []string `json:"trailers"`
}

// GroupedVridScac aggregates VRIDs, SCACs and vehicles for one (timestamp, user) pair.
type GroupedVridScac struct {
	Timestamp string   `json:"timestamp"`
	User      string   `json:"user"`
	VRIDs     []string `json:"vrids"`
	SCACs     []string `json:"scacs"`
	Tractors  []string `json:"traktors"`
	Trailers  []string `json:"trailers"`
}

type GroupedViews struct {
	Activity []GroupedActivity `json:"user_activity"`
	VridScac []GroupedVridScac `json:"vrid_scac"`
}

// ActivityRow is the display form of GroupedActivity: every set is
// flattened into a newline-joined string.
type ActivityRow struct {
	Timestamp string `json:"timestamp"`
	User      string `json:"user"`
	Tractor   string `json:"traktor"`
	Trailer   string `json:"trailer"`
}

type VridScacRow struct {
	Timestamp string `json:"timestamp"`
	User      string `json:"user"`
	VRID      string `json:"vrid"`
	SCAC      string `json:"scac"`
	Tractor   string `json:"traktor"`
	Trailer   string `json:"trailer"`
}

type GroupedRows struct {
	Activity []ActivityRow `json:"user_activity"`
	VridScac []VridScacRow `json:"vrid_scac"`
}

func (g GroupedActivity) Row() ActivityRow {
	return ActivityRow{
		Timestamp: g.Timestamp,
		User:      g.User,
		Tractor:   strings.Join(g.Tractors, "\n"),
		Trailer:   strings.Join(g.Trailers, "\n"),
	}
}

func (g GroupedVridScac) Row() VridScacRow {
	return VridScacRow{
		Timestamp: g.Timestamp,
		User:      g.User,
		VRID:      strings.Join(g.VRIDs, "\n"),
		SCAC:      strings.Join(g.SCACs, "\n"),
		Tractor:   strings.Join(g.Tractors, "\n"),
		Trailer:   strings.Join(g.Trailers, "\n"),
	}
}

// Rows flattens both views for presentation.
func (v GroupedViews) Rows() GroupedRows {
	rows := GroupedRows{
		Activity: make([]ActivityRow, 0, len(v.Activity)),
		VridScac: make([]VridScacRow, 0, len(v.VridScac)),
	}
	for _, g := range v.Activity {
		rows.Activity = append(rows.Activity, g.Row())
	}
	for _, g := range v.VridScac {
		rows.VridScac = append(rows.VridScac, g.Row())
	}
	return rows
}

// PeriodGroup holds the records falling into one time bucket.
type PeriodGroup struct {
	Key     string   `json:"key"`
	Records []Record `json:"records"`
}
