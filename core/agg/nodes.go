package agg

import (
	"context"
	"fmt"

	"github.com/huangsam/orghealth/core/algo"
	"github.com/huangsam/orghealth/schema"
)

// ProjectNode is a project bound to a Graph.
type ProjectNode struct {
	g       *Graph
	Project schema.Project
}

// Children returns the direct children ordered by position.
func (n ProjectNode) Children(ctx context.Context) ([]ProjectNode, error) {
	children, err := n.g.loadChildren(ctx, n.Project.ID)
	if err != nil {
		return nil, err
	}
	nodes := make([]ProjectNode, len(children))
	for i, c := range children {
		nodes[i] = n.g.Project(c)
	}
	return nodes, nil
}

// Parent returns the parent project, or nil for a root.
func (n ProjectNode) Parent(ctx context.Context) (*ProjectNode, error) {
	parent, err := n.g.loader.ParentOf(ctx, n.Project.ID)
	if err != nil {
		return nil, fmt.Errorf("load parent of project %s: %w", n.Project.ID, err)
	}
	if parent == nil {
		return nil, nil
	}
	node := n.g.Project(*parent)
	return &node, nil
}

// IsLeaf reports whether the project has no children.
func (n ProjectNode) IsLeaf(ctx context.Context) (bool, error) {
	children, err := n.g.loadChildren(ctx, n.Project.ID)
	return len(children) == 0, err
}

// Health returns the rolled-up health of the project.
func (n ProjectNode) Health(ctx context.Context) (schema.HealthValue, error) {
	r, err := n.g.projectRollup(ctx, n.Project, n.g.newWalk())
	return r.health, err
}

// HealthRawScore returns the pre-classification mean, or nil when nothing was averaged.
func (n ProjectNode) HealthRawScore(ctx context.Context) (*float64, error) {
	r, err := n.g.projectRollup(ctx, n.Project, n.g.newWalk())
	return r.raw, err
}

// LatestUpdate returns the project's own most recent update, or nil.
func (n ProjectNode) LatestUpdate(ctx context.Context) (*schema.HealthUpdate, error) {
	updates, err := n.g.loadUpdates(ctx, n.Project.ID)
	if err != nil {
		return nil, err
	}
	return algo.LatestUpdate(updates), nil
}

// WeeklyTrend returns every bucket including the in-progress point.
func (n ProjectNode) WeeklyTrend(ctx context.Context) ([]schema.TrendPoint, error) {
	return n.g.weeklyTrend(ctx, n.Project.ID)
}

// HealthTrend returns the last six weekly buckets.
func (n ProjectNode) HealthTrend(ctx context.Context) ([]schema.TrendPoint, error) {
	return n.g.healthTrend(ctx, n.Project.ID)
}

// LeafDescendants returns the project itself when it is a leaf, or else every leaf below it.
func (n ProjectNode) LeafDescendants(ctx context.Context) ([]schema.Project, error) {
	out := newLeafCollector()
	if err := n.g.collectLeaves(ctx, n.Project, n.g.newWalk(), out); err != nil {
		return nil, err
	}
	return out.leaves, nil
}

// TeamNode is a team bound to a Graph.
type TeamNode struct {
	g    *Graph
	Team schema.Team
}

// OwnedProjects returns the projects the team owns directly.
func (n TeamNode) OwnedProjects(ctx context.Context) ([]ProjectNode, error) {
	owned, err := n.g.loadOwned(ctx, n.Team.ID)
	if err != nil {
		return nil, err
	}
	nodes := make([]ProjectNode, len(owned))
	for i, p := range owned {
		nodes[i] = n.g.Project(p)
	}
	return nodes, nil
}

// SubordinateTeams returns the direct subordinate teams.
func (n TeamNode) SubordinateTeams(ctx context.Context) ([]TeamNode, error) {
	subs, err := n.g.loadSubTeams(ctx, n.Team.ID)
	if err != nil {
		return nil, err
	}
	nodes := make([]TeamNode, len(subs))
	for i, t := range subs {
		nodes[i] = n.g.Team(t)
	}
	return nodes, nil
}

// ParentTeam returns the parent team, or nil for a top-level team.
func (n TeamNode) ParentTeam(ctx context.Context) (*TeamNode, error) {
	parent, err := n.g.loader.ParentTeamOf(ctx, n.Team.ID)
	if err != nil {
		return nil, fmt.Errorf("load parent of team %s: %w", n.Team.ID, err)
	}
	if parent == nil {
		return nil, nil
	}
	node := n.g.Team(*parent)
	return &node, nil
}

// Health returns the voted health of the team.
func (n TeamNode) Health(ctx context.Context) (schema.HealthValue, error) {
	r, err := n.g.teamRollup(ctx, n.Team, n.g.newWalk())
	return r.health, err
}

// HealthRawScore returns the mean of the votes, or nil when nobody voted.
func (n TeamNode) HealthRawScore(ctx context.Context) (*float64, error) {
	r, err := n.g.teamRollup(ctx, n.Team, n.g.newWalk())
	return r.raw, err
}

// WeeklyTrend buckets the team's own updates.
func (n TeamNode) WeeklyTrend(ctx context.Context) ([]schema.TrendPoint, error) {
	return n.g.weeklyTrend(ctx, n.Team.ID)
}

// HealthTrend returns the last six weekly buckets of the team's own updates.
func (n TeamNode) HealthTrend(ctx context.Context) ([]schema.TrendPoint, error) {
	return n.g.healthTrend(ctx, n.Team.ID)
}

// LeafDescendants returns the leaves of every owned project and subordinate team.
func (n TeamNode) LeafDescendants(ctx context.Context) ([]schema.Project, error) {
	out := newLeafCollector()
	if err := n.g.collectTeamLeaves(ctx, n.Team, n.g.newWalk(), out); err != nil {
		return nil, err
	}
	return out.leaves, nil
}

// InitiativeNode is an initiative bound to a Graph.
type InitiativeNode struct {
	g          *Graph
	Initiative schema.Initiative
}

// RelatedProjects returns the linked root projects ordered by position.
func (n InitiativeNode) RelatedProjects(ctx context.Context) ([]ProjectNode, error) {
	related, err := n.g.loadRelated(ctx, n.Initiative.ID)
	if err != nil {
		return nil, err
	}
	nodes := make([]ProjectNode, len(related))
	for i, p := range related {
		nodes[i] = n.g.Project(p)
	}
	return nodes, nil
}

// Health returns the classified leaf health of the initiative.
func (n InitiativeNode) Health(ctx context.Context) (schema.HealthValue, error) {
	r, err := n.g.initiativeRollup(ctx, n.Initiative)
	return r.health, err
}

// HealthRawScore returns the mean leaf score, or nil when no leaf reports health.
func (n InitiativeNode) HealthRawScore(ctx context.Context) (*float64, error) {
	r, err := n.g.initiativeRollup(ctx, n.Initiative)
	return r.raw, err
}

// WeeklyTrend buckets the initiative's own updates.
func (n InitiativeNode) WeeklyTrend(ctx context.Context) ([]schema.TrendPoint, error) {
	return n.g.weeklyTrend(ctx, n.Initiative.ID)
}

// HealthTrend returns the last six weekly buckets of the initiative's own updates.
func (n InitiativeNode) HealthTrend(ctx context.Context) ([]schema.TrendPoint, error) {
	return n.g.healthTrend(ctx, n.Initiative.ID)
}

// LeafDescendants returns the deduplicated leaves of all related projects.
func (n InitiativeNode) LeafDescendants(ctx context.Context) ([]schema.Project, error) {
	return n.g.initiativeLeaves(ctx, n.Initiative.ID)
}

func (g *Graph) weeklyTrend(ctx context.Context, ownerID string) ([]schema.TrendPoint, error) {
	updates, err := g.loadUpdates(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return algo.WeeklyForOwner(updates, g.Today()), nil
}

func (g *Graph) healthTrend(ctx context.Context, ownerID string) ([]schema.TrendPoint, error) {
	points, err := g.weeklyTrend(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return algo.LastN(points, algo.TrendWeeks), nil
}
