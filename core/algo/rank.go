package algo

import (
	"sort"

	"github.com/huangsam/orghealth/schema"
)

// severity orders health values from most to least urgent.
var severity = map[schema.HealthValue]int{
	schema.OffTrack:     0,
	schema.AtRisk:       1,
	schema.OnTrack:      2,
	schema.NotAvailable: 3,
}

// RankEntities sorts entities from most to least urgent health and returns the
// top 'limit' entities. Ties are broken by the lower raw score, then kind and ID.
// A non-positive limit returns every entity.
func RankEntities(entities []schema.EntityHealth, limit int) []schema.EntityHealth {
	sort.SliceStable(entities, func(i, j int) bool {
		a, b := entities[i], entities[j]
		if sa, sb := severityOf(a.Health), severityOf(b.Health); sa != sb {
			return sa < sb
		}
		if a.RawScore != nil && b.RawScore != nil && *a.RawScore != *b.RawScore {
			return *a.RawScore < *b.RawScore
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.ID < b.ID
	})
	if limit > 0 && len(entities) > limit {
		return entities[:limit]
	}
	return entities
}

func severityOf(h schema.HealthValue) int {
	if s, ok := severity[h]; ok {
		return s
	}
	return len(severity)
}
