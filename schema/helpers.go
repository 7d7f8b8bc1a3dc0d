package schema

import (
	"sort"
	"strings"
)

// SortProjects orders projects by position, then name, then ID.
func SortProjects(projects []Project) {
	sort.SliceStable(projects, func(i, j int) bool {
		if projects[i].Position != projects[j].Position {
			return projects[i].Position < projects[j].Position
		}
		if projects[i].Name != projects[j].Name {
			return projects[i].Name < projects[j].Name
		}
		return projects[i].ID < projects[j].ID
	})
}

// SortTeams orders teams by position, then name, then ID.
func SortTeams(teams []Team) {
	sort.SliceStable(teams, func(i, j int) bool {
		if teams[i].Position != teams[j].Position {
			return teams[i].Position < teams[j].Position
		}
		if teams[i].Name != teams[j].Name {
			return teams[i].Name < teams[j].Name
		}
		return teams[i].ID < teams[j].ID
	})
}

// SortUpdates orders health updates by date ascending.
func SortUpdates(updates []HealthUpdate) {
	sort.SliceStable(updates, func(i, j int) bool {
		return updates[i].Date.Before(updates[j].Date)
	})
}

// ProjectIDs returns the IDs of the projects in order.
func ProjectIDs(projects []Project) []string {
	ids := make([]string, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}
	return ids
}

// HealthGlyph returns a single-character marker for a health value.
func HealthGlyph(h HealthValue) string {
	switch h {
	case OnTrack:
		return "+"
	case AtRisk:
		return "~"
	case OffTrack:
		return "-"
	default:
		return "."
	}
}

// FormatTrend renders a trend as a compact glyph strip, oldest first.
func FormatTrend(points []TrendPoint) string {
	var sb strings.Builder
	for _, p := range points {
		sb.WriteString(HealthGlyph(p.Health))
	}
	return sb.String()
}
