package activity

import (
	"fmt"
	"strings"
	"vehlog/internal/models"

	"github.com/gookit/validate"
)

func containsFold(value, sub string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(sub))
}

// Filter returns the records matching every non-empty criterion. Once a date
// bound is given, records whose timestamp does not parse are dropped; a bound
// that does not parse itself excludes nothing.
func Filter(records []models.Record, c models.Criteria) []models.Record {
	from, hasFrom := ParseTimestamp(c.DateFrom)
	to, hasTo := ParseTimestamp(c.DateTo)
	dated := c.DateFrom != "" || c.DateTo != ""

	out := make([]models.Record, 0)
	for _, r := range records {
		if dated {
			t, ok := ParseTimestamp(r.Timestamp)
			if !ok {
				continue
			}
			if hasFrom && t.Before(from) {
				continue
			}
			if hasTo && t.After(to) {
				continue
			}
		}
		if c.User != "" && !containsFold(r.User, c.User) {
			continue
		}
		if c.Vehicle != "" && !containsFold(r.Tractor, c.Vehicle) && !containsFold(r.Trailer, c.Vehicle) {
			continue
		}
		if c.SCAC != "" && !containsFold(r.SCAC, c.SCAC) {
			continue
		}
		if c.VRID != "" && !containsFold(r.VRID, c.VRID) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// ValidateCriteria rejects date bounds that do not parse.
func ValidateCriteria(c models.Criteria) error {
	v := validate.Struct(&c)
	v.AddValidator("timestamp", func(val interface{}) bool {
		s, ok := val.(string)
		if !ok {
			return false
		}
		_, parsed := ParseTimestamp(s)
		return parsed
	})
	v.AddMessages(map[string]string{
		"timestamp": "{field} is not a valid date",
	})
	if !v.Validate() {
		return fmt.Errorf("invalid criteria: %s", v.Errors.One())
	}
	return nil
}
