package activity

import (
	"sort"
	"time"
	"vehlog/internal/models"
)

const (
	PeriodHour  = "hour"
	PeriodDay   = "day"
	PeriodWeek  = "week"
	PeriodMonth = "month"
)

func ValidatePeriod(period string) error {
	switch period {
	case PeriodHour, PeriodDay, PeriodWeek, PeriodMonth:
		return nil
	}
	return ErrUnknownPeriod
}

func periodKey(t time.Time, period string) string {
	switch period {
	case PeriodHour:
		return t.Format("2006-01-02 15:00")
	case PeriodWeek:
		start := t.AddDate(0, 0, -int(t.Weekday()))
		return start.Format("2006-01-02")
	case PeriodMonth:
		return t.Format("2006-01")
	default:
		return t.Format("2006-01-02")
	}
}

// GroupByPeriod buckets records by hour, day, week (starting Sunday) or
// month of their timestamp. Records without a parseable timestamp are left
// out. Groups are sorted by key.
func GroupByPeriod(records []models.Record, period string) ([]models.PeriodGroup, error) {
	if period == "" {
		period = PeriodDay
	}
	if err := ValidatePeriod(period); err != nil {
		return nil, err
	}

	groups := make(map[string][]models.Record)
	for _, r := range records {
		t, ok := ParseTimestamp(r.Timestamp)
		if !ok {
			continue
		}
		key := periodKey(t, period)
		groups[key] = append(groups[key], r)
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]models.PeriodGroup, 0, len(keys))
	for _, k := range keys {
		out = append(out, models.PeriodGroup{Key: k, Records: groups[k]})
	}
	return out, nil
}
