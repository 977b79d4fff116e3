package activity

import (
	"math"
	"vehlog/internal/models"

	"github.com/RoaringBitmap/roaring/v2"
)

// positionsByKey maps every compare key to the positions it occupies.
func positionsByKey(records []models.Record) map[models.RecordKey][]uint32 {
	index := make(map[models.RecordKey][]uint32, len(records))
	for i, r := range records {
		k := r.Key()
		index[k] = append(index[k], uint32(i))
	}
	return index
}

// pick returns the records at the positions set in bm, in ascending order.
func pick(records []models.Record, bm *roaring.Bitmap) []models.Record {
	out := make([]models.Record, 0, bm.GetCardinality())
	bm.Iterate(func(i uint32) bool {
		out = append(out, records[i])
		return true
	})
	return out
}

// matchPositions walks a once and marks, for every record of a whose key
// occurs in b, its own position in matchedA and all positions of that key in
// matchedB.
func matchPositions(a, b []models.Record) (matchedA, matchedB *roaring.Bitmap) {
	inB := positionsByKey(b)
	matchedA, matchedB = roaring.New(), roaring.New()
	for i, r := range a {
		positions, ok := inB[r.Key()]
		if !ok {
			continue
		}
		matchedA.Add(uint32(i))
		if !matchedB.Contains(positions[0]) {
			matchedB.AddMany(positions)
		}
	}
	return matchedA, matchedB
}

// Compare reports which records of a have a (timestamp, user, vrid) match in
// b and which records of b have none in a. Every duplicate of a shared key
// in a counts as common, while duplicates in b collapse onto the single
// match in a, so CommonCount+UniqueBCount can be less than TotalB.
func Compare(a, b []models.Record) models.DiffResult {
	matchedA, matchedB := matchPositions(a, b)

	result := models.DiffResult{
		Common:    pick(a, matchedA),
		UniqueToA: pick(a, roaring.Flip(matchedA, 0, uint64(len(a)))),
		UniqueToB: pick(b, roaring.Flip(matchedB, 0, uint64(len(b)))),
		TotalA:    len(a),
		TotalB:    len(b),
	}
	result.CommonCount = int(matchedA.GetCardinality())
	result.UniqueACount = len(result.UniqueToA)
	result.UniqueBCount = len(result.UniqueToB)
	result.SimilarityPercent = Similarity(result.CommonCount, result.TotalA, result.TotalB)
	return result
}

// Similarity is common / max(totalA, totalB) as a percentage rounded to one
// decimal place, and 0 when both totals are 0.
func Similarity(common, totalA, totalB int) float64 {
	denom := max(totalA, totalB)
	if denom == 0 {
		return 0
	}
	return math.Round(float64(common)/float64(denom)*1000) / 10
}
