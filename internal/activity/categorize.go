package activity

import (
	"strings"
	"vehlog/internal/models"
)

// CategoryOf classifies a record. First match wins:
// trailer containing "VS" -> ATSEU, empty VRID -> OTHER,
// VRID containing "0994" -> IB, anything else -> OB.
func CategoryOf(r models.Record) models.Category {
	vrid := strings.TrimSpace(r.VRID)
	trailer := strings.ToUpper(strings.TrimSpace(r.Trailer))

	switch {
	case strings.Contains(trailer, "VS"):
		return models.CategoryATSEU
	case vrid == "":
		return models.CategoryOther
	case strings.Contains(vrid, "0994"):
		return models.CategoryIB
	default:
		return models.CategoryOB
	}
}

// Categorize splits records into the four category buckets, keeping the
// input order inside each bucket.
func Categorize(records []models.Record) models.CategorizedBuckets {
	buckets := models.CategorizedBuckets{
		IB:    make([]models.Record, 0),
		OB:    make([]models.Record, 0),
		ATSEU: make([]models.Record, 0),
		Other: make([]models.Record, 0),
	}
	for _, r := range records {
		buckets.Add(CategoryOf(r), r)
	}
	return buckets
}

func CountCategories(records []models.Record) map[models.Category]int {
	counts := make(map[models.Category]int, len(models.Categories))
	for _, c := range models.Categories {
		counts[c] = 0
	}
	for _, r := range records {
		counts[CategoryOf(r)]++
	}
	return counts
}
