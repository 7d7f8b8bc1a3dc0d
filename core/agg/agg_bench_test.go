package agg

import (
	"context"
	"fmt"
	"testing"

	"github.com/huangsam/orghealth/schema"
)

// benchOrg builds teams of teams owning shallow project trees.
func benchOrg(teams, projectsPerTeam int) *fakeOrg {
	org := newFakeOrg().team("root", "")
	healths := []schema.HealthValue{schema.OnTrack, schema.AtRisk, schema.OffTrack}
	for t := range teams {
		teamID := fmt.Sprintf("t%d", t)
		org.team(teamID, "root")
		for p := range projectsPerTeam {
			id := fmt.Sprintf("%s-p%d", teamID, p)
			org.project(id, schema.StateInProgress, "", teamID)
			for c := range 3 {
				childID := fmt.Sprintf("%s-c%d", id, c)
				org.project(childID, schema.StateInProgress, id, "")
				org.update(childID, day(3, 16), healths[(t+p+c)%3])
			}
		}
	}
	return org
}

func BenchmarkTeamRollup(b *testing.B) {
	org := benchOrg(10, 10)
	root := org.getTeam("root")
	for b.Loop() {
		_, _ = org.graph().Team(root).Health(context.Background())
	}
}

func BenchmarkTeamLeaves(b *testing.B) {
	org := benchOrg(10, 10)
	root := org.getTeam("root")
	for b.Loop() {
		_, _ = org.graph().Team(root).LeafDescendants(context.Background())
	}
}
