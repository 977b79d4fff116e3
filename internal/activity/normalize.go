package activity

import (
	"regexp"
	"strings"
	"vehlog/internal/models"
)

var (
	tractorPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^[A-Z]{3}\d{5}$`),
		regexp.MustCompile(`(?i)^[A-Z]{2,3}\d{4,6}$`),
		regexp.MustCompile(`(?i)^\d{3,4}[A-Z]{2,3}$`),
		regexp.MustCompile(`(?i)^[A-Z0-9]{4,6}$`),
	}
	trailerPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^[A-Z0-9]{4,8}$`),
		regexp.MustCompile(`(?i)^[A-Z]{2,3}\d{4,6}$`),
		regexp.MustCompile(`(?i)^[A-Z]{2,3}\d{4,6}[A-Z]?$`),
		regexp.MustCompile(`(?i)^\d{4,6}[A-Z]{2,3}$`),
	}
	scacPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^[A-Z]{2,4}$`),
	}

	implicitScac = regexp.MustCompile(`^VS([A-Z]{2,4})`)
)

// Clean returns a normalized copy of r: every field trimmed, SCAC and
// vehicles upper-cased, and a parseable timestamp rewritten in CanonicalLayout.
func Clean(r models.Record) models.Record {
	return models.Record{
		Timestamp: FormatTimestamp(strings.TrimSpace(r.Timestamp)),
		User:      strings.TrimSpace(r.User),
		VRID:      strings.TrimSpace(r.VRID),
		SCAC:      strings.ToUpper(strings.TrimSpace(r.SCAC)),
		Tractor:   strings.ToUpper(strings.TrimSpace(r.Tractor)),
		Trailer:   strings.ToUpper(strings.TrimSpace(r.Trailer)),
	}
}

func CleanAll(records []models.Record) []models.Record {
	out := make([]models.Record, len(records))
	for i, r := range records {
		out[i] = Clean(r)
	}
	return out
}

// ExtractImplicitSCAC returns the carrier code embedded in a VS-prefixed
// trailer, e.g. "VSACME" -> "ACME".
func ExtractImplicitSCAC(trailer string) (string, bool) {
	m := implicitScac.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(trailer)))
	if m == nil {
		return "", false
	}
	return m[1], true
}

func matchAny(patterns []*regexp.Regexp, value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	for _, p := range patterns {
		if p.MatchString(value) {
			return true
		}
	}
	return false
}

func IsValidTractor(v string) bool { return matchAny(tractorPatterns, v) }
func IsValidTrailer(v string) bool { return matchAny(trailerPatterns, v) }
func IsValidSCAC(v string) bool    { return matchAny(scacPatterns, v) }

// Validate reports data-quality errors (bad timestamp, missing user) and
// vehicle/SCAC format warnings. Records are never modified or dropped.
func Validate(records []models.Record) models.ValidationResult {
	result := models.ValidationResult{
		Errors:   make([]models.ValidationIssue, 0),
		Warnings: make([]models.ValidationIssue, 0),
	}
	for i, r := range records {
		row := i + 1
		if strings.TrimSpace(r.Timestamp) != "" {
			if _, ok := ParseTimestamp(r.Timestamp); !ok {
				result.Errors = append(result.Errors, models.ValidationIssue{Row: row, Message: "Invalid date format"})
			}
		}
		if strings.TrimSpace(r.User) == "" {
			result.Errors = append(result.Errors, models.ValidationIssue{Row: row, Message: "Missing user ID"})
		}
		if strings.TrimSpace(r.Tractor) != "" && !IsValidTractor(r.Tractor) {
			result.Warnings = append(result.Warnings, models.ValidationIssue{Row: row, Message: "Invalid tractor format"})
		}
		if strings.TrimSpace(r.Trailer) != "" && !IsValidTrailer(r.Trailer) {
			result.Warnings = append(result.Warnings, models.ValidationIssue{Row: row, Message: "Invalid trailer format"})
		}
		if strings.TrimSpace(r.SCAC) != "" && !IsValidSCAC(r.SCAC) {
			result.Warnings = append(result.Warnings, models.ValidationIssue{Row: row, Message: "Invalid SCAC format"})
		}
	}
	return result
}
