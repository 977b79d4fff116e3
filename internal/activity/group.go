package activity

import (
	"strings"
	"vehlog/internal/models"
)

// orderedSet keeps the first-seen order of its members.
type orderedSet struct {
	seen  map[string]struct{}
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{})}
}

func (s *orderedSet) add(v string) {
	if v == "" {
		return
	}
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
}

func (s *orderedSet) values() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

type groupKey struct {
	timestamp string
	user      string
}

type groupAcc struct {
	timestamp string
	user      string
	vrids     *orderedSet
	scacs     *orderedSet
	tractors  *orderedSet
	trailers  *orderedSet
}

func blank(v string) bool {
	return strings.TrimSpace(v) == ""
}

func vehicle(v string) string {
	return strings.ToUpper(strings.TrimSpace(v))
}

// BuildGroupedViews groups records by (timestamp, user). Records missing
// either field are skipped. Groups appear in first-seen order.
func BuildGroupedViews(records []models.Record) models.GroupedViews {
	index := make(map[groupKey]*groupAcc)
	order := make([]*groupAcc, 0)

	for _, r := range records {
		if blank(r.Timestamp) || blank(r.User) {
			continue
		}
		key := groupKey{timestamp: r.Timestamp, user: r.User}
		acc, ok := index[key]
		if !ok {
			acc = &groupAcc{
				timestamp: r.Timestamp,
				user:      r.User,
				vrids:     newOrderedSet(),
				scacs:     newOrderedSet(),
				tractors:  newOrderedSet(),
				trailers:  newOrderedSet(),
			}
			index[key] = acc
			order = append(order, acc)
		}

		acc.tractors.add(vehicle(r.Tractor))
		acc.trailers.add(vehicle(r.Trailer))
		acc.vrids.add(strings.TrimSpace(r.VRID))
		acc.scacs.add(strings.TrimSpace(r.SCAC))
		if scac, ok := ExtractImplicitSCAC(r.Trailer); ok {
			acc.scacs.add(scac)
		}
	}

	views := models.GroupedViews{
		Activity: make([]models.GroupedActivity, 0, len(order)),
		VridScac: make([]models.GroupedVridScac, 0, len(order)),
	}
	for _, acc := range order {
		views.Activity = append(views.Activity, models.GroupedActivity{
			Timestamp: acc.timestamp,
			User:      acc.user,
			Tractors:  acc.tractors.values(),
			Trailers:  acc.trailers.values(),
		})
		views.VridScac = append(views.VridScac, models.GroupedVridScac{
			Timestamp: acc.timestamp,
			User:      acc.user,
			VRIDs:     acc.vrids.values(),
			SCACs:     acc.scacs.values(),
			Tractors:  acc.tractors.values(),
			Trailers:  acc.trailers.values(),
		})
	}
	return views
}
