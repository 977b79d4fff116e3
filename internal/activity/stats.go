package activity

import (
	"strings"
	"vehlog/internal/models"
)

// ComputeStats summarizes records. Empty input yields a zero Stats with a
// nil DateRange.
func ComputeStats(records []models.Record) models.Stats {
	stats := models.Stats{}
	if len(records) == 0 {
		return stats
	}

	users := make(map[string]struct{})
	tractors := make(map[string]struct{})
	trailers := make(map[string]struct{})
	var valid, missing int

	for _, r := range records {
		users[r.User] = struct{}{}

		if t, ok := ParseTimestamp(r.Timestamp); ok {
			if stats.DateRange == nil {
				stats.DateRange = &models.DateRange{Start: t, End: t}
			} else {
				if t.Before(stats.DateRange.Start) {
					stats.DateRange.Start = t
				}
				if t.After(stats.DateRange.End) {
					stats.DateRange.End = t
				}
			}
		} else if !blank(r.Timestamp) {
			stats.Quality.ErrorCount++
		}

		if tr := strings.TrimSpace(r.Tractor); tr != "" {
			tractors[tr] = struct{}{}
		}
		if tr := strings.TrimSpace(r.Trailer); tr != "" {
			trailers[tr] = struct{}{}
		}
		if strings.Contains(strings.ToUpper(r.Trailer), "VS") {
			stats.Vehicles.VSTrailers++
		}

		hasKey := !blank(r.Timestamp) && !blank(r.User)
		if hasKey && (!blank(r.Tractor) || !blank(r.Trailer)) {
			valid++
		}
		if !hasKey {
			missing++
		}
	}

	total := float64(len(records))
	stats.TotalRecords = len(records)
	stats.UniqueUsers = len(users)
	stats.Vehicles.Tractors = len(tractors)
	stats.Vehicles.Trailers = len(trailers)
	stats.Quality.ValidPercent = float64(valid) / total * 100
	stats.Quality.MissingPercent = float64(missing) / total * 100
	return stats
}
