package agg

import (
	"context"

	"github.com/huangsam/orghealth/core/algo"
	"github.com/huangsam/orghealth/schema"
)

// Node is the evaluation surface shared by projects, teams and initiatives.
type Node interface {
	Health(ctx context.Context) (schema.HealthValue, error)
	HealthRawScore(ctx context.Context) (*float64, error)
	HealthTrend(ctx context.Context) ([]schema.TrendPoint, error)
	LeafDescendants(ctx context.Context) ([]schema.Project, error)
}

var (
	_ Node = ProjectNode{}
	_ Node = TeamNode{}
	_ Node = InitiativeNode{}
)

// Evaluate returns the health, raw score, trend and leaf count of a project.
func (n ProjectNode) Evaluate(ctx context.Context) (schema.EntityHealth, error) {
	return evaluate(ctx, n, schema.EntityHealth{
		Kind:  schema.ProjectKind,
		ID:    n.Project.ID,
		Name:  n.Project.Name,
		State: n.Project.State,
	})
}

// Evaluate returns the health, raw score, trend and leaf count of a team.
func (n TeamNode) Evaluate(ctx context.Context) (schema.EntityHealth, error) {
	return evaluate(ctx, n, schema.EntityHealth{
		Kind: schema.TeamKind,
		ID:   n.Team.ID,
		Name: n.Team.Name,
	})
}

// Evaluate returns the health, raw score, trend and leaf count of an initiative.
func (n InitiativeNode) Evaluate(ctx context.Context) (schema.EntityHealth, error) {
	return evaluate(ctx, n, schema.EntityHealth{
		Kind:  schema.InitiativeKind,
		ID:    n.Initiative.ID,
		Name:  n.Initiative.Name,
		State: n.Initiative.State,
	})
}

func evaluate(ctx context.Context, n Node, out schema.EntityHealth) (schema.EntityHealth, error) {
	var err error
	if out.Health, err = n.Health(ctx); err != nil {
		return out, err
	}
	if out.RawScore, err = n.HealthRawScore(ctx); err != nil {
		return out, err
	}
	if out.Trend, err = n.HealthTrend(ctx); err != nil {
		return out, err
	}
	leaves, err := n.LeafDescendants(ctx)
	if err != nil {
		return out, err
	}
	out.Leaves = len(leaves)
	return out, nil
}

// RootHistories pairs every root project with its own update history
// for the system-wide trend scorer.
func (g *Graph) RootHistories(ctx context.Context, projects []schema.Project) ([]algo.ProjectHistory, error) {
	histories := make([]algo.ProjectHistory, 0, len(projects))
	for _, p := range projects {
		if !p.IsRoot() {
			continue
		}
		updates, err := g.loadUpdates(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		histories = append(histories, algo.ProjectHistory{Project: p, Updates: updates})
	}
	return histories, nil
}

// TrendConfidence scores the system-wide trend over the root projects as of the graph's day.
func (g *Graph) TrendConfidence(ctx context.Context, projects []schema.Project) (schema.TrendConfidenceResult, error) {
	histories, err := g.RootHistories(ctx, projects)
	if err != nil {
		return schema.TrendConfidenceResult{}, err
	}
	return algo.TrendConfidence(histories, g.Today()), nil
}
