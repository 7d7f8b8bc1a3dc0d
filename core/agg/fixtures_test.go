package agg

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/huangsam/orghealth/internal/contract"
	"github.com/huangsam/orghealth/schema"
)

var testToday = time.Date(2026, 3, 18, 0, 0, 0, 0, time.UTC)

func day(m time.Month, d int) time.Time {
	return time.Date(2026, m, d, 0, 0, 0, 0, time.UTC)
}

// fakeOrg is an in-memory org graph that counts loader calls.
type fakeOrg struct {
	mu       sync.Mutex
	projects []schema.Project
	teams    []schema.Team
	links    map[string][]string
	updates  map[string][]schema.HealthUpdate
	calls    map[string]int
}

func newFakeOrg() *fakeOrg {
	return &fakeOrg{
		links:   make(map[string][]string),
		updates: make(map[string][]schema.HealthUpdate),
		calls:   make(map[string]int),
	}
}

func (o *fakeOrg) project(id string, state schema.WorkState, parentID, teamID string) *fakeOrg {
	o.projects = append(o.projects, schema.Project{
		ID: id, Name: "Project " + id, State: state, ParentID: parentID, TeamID: teamID, Position: len(o.projects),
	})
	return o
}

func (o *fakeOrg) team(id, parentID string) *fakeOrg {
	o.teams = append(o.teams, schema.Team{ID: id, Name: "Team " + id, ParentID: parentID, Position: len(o.teams)})
	return o
}

func (o *fakeOrg) link(initiativeID string, projectIDs ...string) *fakeOrg {
	o.links[initiativeID] = append(o.links[initiativeID], projectIDs...)
	return o
}

func (o *fakeOrg) update(ownerID string, date time.Time, h schema.HealthValue) *fakeOrg {
	id := fmt.Sprintf("%s-%s", ownerID, schema.FormatDay(date))
	o.updates[ownerID] = append(o.updates[ownerID], schema.NewHealthUpdate(id, ownerID, date, h, ""))
	return o
}

func (o *fakeOrg) get(id string) schema.Project {
	for _, p := range o.projects {
		if p.ID == id {
			return p
		}
	}
	panic("unknown project " + id)
}

func (o *fakeOrg) getTeam(id string) schema.Team {
	for _, t := range o.teams {
		if t.ID == id {
			return t
		}
	}
	panic("unknown team " + id)
}

func (o *fakeOrg) count(name string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.calls[name]
}

func (o *fakeOrg) hit(name string) {
	o.mu.Lock()
	o.calls[name]++
	o.mu.Unlock()
}

func (o *fakeOrg) loader() contract.LoaderFuncs {
	return contract.LoaderFuncs{
		Children: func(_ context.Context, id string) ([]schema.Project, error) {
			o.hit("children:" + id)
			var out []schema.Project
			for _, p := range o.projects {
				if p.ParentID == id {
					out = append(out, p)
				}
			}
			return out, nil
		},
		Parent: func(_ context.Context, id string) (*schema.Project, error) {
			child := o.get(id)
			if child.ParentID == "" {
				return nil, nil
			}
			parent := o.get(child.ParentID)
			return &parent, nil
		},
		OwnedProjects: func(_ context.Context, teamID string) ([]schema.Project, error) {
			var out []schema.Project
			for _, p := range o.projects {
				if p.TeamID == teamID {
					out = append(out, p)
				}
			}
			return out, nil
		},
		SubordinateTeams: func(_ context.Context, teamID string) ([]schema.Team, error) {
			var out []schema.Team
			for _, t := range o.teams {
				if t.ParentID == teamID {
					out = append(out, t)
				}
			}
			return out, nil
		},
		ParentTeam: func(_ context.Context, teamID string) (*schema.Team, error) {
			t := o.getTeam(teamID)
			if t.ParentID == "" {
				return nil, nil
			}
			parent := o.getTeam(t.ParentID)
			return &parent, nil
		},
		RelatedProjects: func(_ context.Context, initiativeID string) ([]schema.Project, error) {
			var out []schema.Project
			for _, id := range o.links[initiativeID] {
				out = append(out, o.get(id))
			}
			return out, nil
		},
		HealthUpdates: func(_ context.Context, ownerID string) ([]schema.HealthUpdate, error) {
			o.hit("updates:" + ownerID)
			out := make([]schema.HealthUpdate, len(o.updates[ownerID]))
			copy(out, o.updates[ownerID])
			return out, nil
		},
	}
}

func (o *fakeOrg) graph(opts ...Option) *Graph {
	return NewGraph(o.loader(), contract.FixedClock{Day: testToday}, opts...)
}
