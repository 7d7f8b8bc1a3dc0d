package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/huangsam/orghealth/core/agg"
	"github.com/huangsam/orghealth/core/algo"
	"github.com/huangsam/orghealth/core/lifecycle"
	"github.com/huangsam/orghealth/internal/contract"
	"github.com/huangsam/orghealth/schema"
	"golang.org/x/sync/errgroup"
)

// evaluable is a graph node that can produce a full health row and its weekly trend.
type evaluable interface {
	agg.Node
	Evaluate(ctx context.Context) (schema.EntityHealth, error)
	WeeklyTrend(ctx context.Context) ([]schema.TrendPoint, error)
}

// resolvedNode is a node found by kind and ID.
type resolvedNode struct {
	kind       schema.EntityKind
	node       evaluable
	initiative *schema.Initiative // set for initiatives only
}

// newGraph builds a request-scoped graph honouring the configured day and policy.
func newGraph(s contract.Store, cfg *contract.Config) *agg.Graph {
	return agg.NewGraph(s, cfg.Clock(), agg.WithNodePolicy(policyOf(cfg)))
}

// resolveNode looks up an entity by ID. With no kind it tries project, team
// and initiative in that order.
func resolveNode(ctx context.Context, s contract.Store, g *agg.Graph, kind schema.EntityKind, id string) (resolvedNode, error) {
	if id == "" {
		return resolvedNode{}, errors.New("an entity id is required")
	}

	kinds := []schema.EntityKind{kind}
	if kind == "" {
		kinds = []schema.EntityKind{schema.ProjectKind, schema.TeamKind, schema.InitiativeKind}
	}

	for _, k := range kinds {
		var (
			out resolvedNode
			err error
		)
		switch k {
		case schema.ProjectKind:
			var p schema.Project
			if p, err = s.GetProject(ctx, id); err == nil {
				out = resolvedNode{kind: k, node: g.Project(p)}
			}
		case schema.TeamKind:
			var t schema.Team
			if t, err = s.GetTeam(ctx, id); err == nil {
				out = resolvedNode{kind: k, node: g.Team(t)}
			}
		case schema.InitiativeKind:
			var i schema.Initiative
			if i, err = s.GetInitiative(ctx, id); err == nil {
				out = resolvedNode{kind: k, node: g.Initiative(i), initiative: &i}
			}
		default:
			return resolvedNode{}, fmt.Errorf("invalid entity kind '%s'. must be project, team, initiative", k)
		}
		if err == nil {
			return out, nil
		}
		if !errors.Is(err, contract.ErrNotFound) {
			return resolvedNode{}, fmt.Errorf("failed to load %s %s: %w", k, id, err)
		}
	}

	if kind != "" {
		return resolvedNode{}, contract.NotFound(string(kind), id)
	}
	return resolvedNode{}, fmt.Errorf("no project, team or initiative with id %q: %w", id, contract.ErrNotFound)
}

// GetEntityHealthResult evaluates the configured entity. With a kind and no ID it
// evaluates every entity of that kind, ranked worst-first and cut to the result limit.
func GetEntityHealthResult(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) ([]schema.EntityHealth, error) {
	s, err := storeOf(mgr)
	if err != nil {
		return nil, err
	}
	g := newGraph(s, cfg)

	if cfg.EntityID == "" {
		if cfg.EntityKind == "" {
			return nil, errors.New("an entity id or kind is required")
		}
		nodes, err := listNodes(ctx, s, g, cfg.EntityKind)
		if err != nil {
			return nil, err
		}
		entities, err := evaluateAll(ctx, nodes, cfg.Workers)
		if err != nil {
			return nil, err
		}
		return algo.RankEntities(entities, cfg.ResultLimit), nil
	}

	r, err := resolveNode(ctx, s, g, cfg.EntityKind, cfg.EntityID)
	if err != nil {
		return nil, err
	}
	entity, err := r.node.Evaluate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate %s %s: %w", r.kind, cfg.EntityID, err)
	}
	return []schema.EntityHealth{entity}, nil
}

// GetTrendResult evaluates one entity and replaces its six-week trend with every
// weekly bucket, including the in-progress point when one exists.
func GetTrendResult(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.EntityHealth, error) {
	s, err := storeOf(mgr)
	if err != nil {
		return schema.EntityHealth{}, err
	}
	g := newGraph(s, cfg)
	r, err := resolveNode(ctx, s, g, cfg.EntityKind, cfg.EntityID)
	if err != nil {
		return schema.EntityHealth{}, err
	}

	entity, err := r.node.Evaluate(ctx)
	if err != nil {
		return schema.EntityHealth{}, fmt.Errorf("failed to evaluate %s %s: %w", r.kind, cfg.EntityID, err)
	}
	if entity.Trend, err = r.node.WeeklyTrend(ctx); err != nil {
		return schema.EntityHealth{}, fmt.Errorf("failed to compute weekly trend of %s %s: %w", r.kind, cfg.EntityID, err)
	}
	return entity, nil
}

// GetConfidenceResult scores the system-wide trend over every active root project.
func GetConfidenceResult(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.TrendConfidenceResult, error) {
	s, err := storeOf(mgr)
	if err != nil {
		return schema.TrendConfidenceResult{}, err
	}
	projects, err := s.ListProjects(ctx)
	if err != nil {
		return schema.TrendConfidenceResult{}, fmt.Errorf("failed to list projects: %w", err)
	}
	return newGraph(s, cfg).TrendConfidence(ctx, projects)
}

// GetReportResult evaluates every team, initiative and non-archived project and
// pairs the ranked rows with the system-wide confidence block. All rows share one
// graph, so each subtree is rolled up once.
func GetReportResult(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.ReportResult, error) {
	s, err := storeOf(mgr)
	if err != nil {
		return schema.ReportResult{}, err
	}
	g := newGraph(s, cfg)

	var nodes []evaluable
	for _, kind := range []schema.EntityKind{schema.TeamKind, schema.InitiativeKind, schema.ProjectKind} {
		batch, err := listNodes(ctx, s, g, kind)
		if err != nil {
			return schema.ReportResult{}, err
		}
		nodes = append(nodes, batch...)
	}

	entities, err := evaluateAll(ctx, nodes, cfg.Workers)
	if err != nil {
		return schema.ReportResult{}, err
	}

	projects, err := s.ListProjects(ctx)
	if err != nil {
		return schema.ReportResult{}, fmt.Errorf("failed to list projects: %w", err)
	}
	confidence, err := g.TrendConfidence(ctx, projects)
	if err != nil {
		return schema.ReportResult{}, fmt.Errorf("failed to score trend confidence: %w", err)
	}

	return schema.ReportResult{
		Entities:   algo.RankEntities(entities, cfg.ResultLimit),
		Confidence: confidence,
	}, nil
}

// GetLeavesResult lists the leaf projects beneath a node. For an initiative it
// also derives a single state from those leaves.
func GetLeavesResult(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.LeavesResult, error) {
	s, err := storeOf(mgr)
	if err != nil {
		return schema.LeavesResult{}, err
	}
	r, err := resolveNode(ctx, s, newGraph(s, cfg), cfg.EntityKind, cfg.EntityID)
	if err != nil {
		return schema.LeavesResult{}, err
	}

	leaves, err := r.node.LeafDescendants(ctx)
	if err != nil {
		return schema.LeavesResult{}, fmt.Errorf("failed to resolve leaves of %s %s: %w", r.kind, cfg.EntityID, err)
	}
	if leaves == nil {
		leaves = []schema.Project{}
	}

	out := schema.LeavesResult{Kind: r.kind, ID: cfg.EntityID, Leaves: leaves}
	if r.initiative != nil {
		out.DerivedState = lifecycle.DeriveState(r.initiative.State, leaves)
	}
	return out, nil
}

// CheckProjectTransition reports whether the configured project may move to the
// target state without changing anything.
func CheckProjectTransition(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.TransitionCheckResult, error) {
	out := schema.TransitionCheckResult{ProjectID: cfg.EntityID, To: cfg.TargetState, Allowed: []schema.WorkState{}}

	s, err := storeOf(mgr)
	if err != nil {
		return out, err
	}
	p, err := s.GetProject(ctx, cfg.EntityID)
	if errors.Is(err, contract.ErrNotFound) {
		out.Add(fmt.Sprintf("project %q not found", cfg.EntityID))
		return out, nil
	}
	if err != nil {
		return out, fmt.Errorf("failed to load project %s: %w", cfg.EntityID, err)
	}

	out.From = p.State
	out.Allowed = append(out.Allowed, lifecycle.AllowedTransitions(p.State)...)
	out.Result = lifecycle.ValidateProjectTransition(p.State, cfg.TargetState)
	return out, nil
}

// listNodes binds every entity of a kind to the graph. Archived projects are skipped.
func listNodes(ctx context.Context, s contract.Store, g *agg.Graph, kind schema.EntityKind) ([]evaluable, error) {
	var nodes []evaluable
	switch kind {
	case schema.ProjectKind:
		projects, err := s.ListProjects(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list projects: %w", err)
		}
		for _, p := range projects {
			if p.Archived {
				continue
			}
			nodes = append(nodes, g.Project(p))
		}
	case schema.TeamKind:
		teams, err := s.ListTeams(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list teams: %w", err)
		}
		for _, t := range teams {
			nodes = append(nodes, g.Team(t))
		}
	case schema.InitiativeKind:
		initiatives, err := s.ListInitiatives(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list initiatives: %w", err)
		}
		for _, i := range initiatives {
			nodes = append(nodes, g.Initiative(i))
		}
	default:
		return nil, fmt.Errorf("invalid entity kind '%s'. must be project, team, initiative", kind)
	}
	return nodes, nil
}

// evaluateAll evaluates nodes with a bounded worker pool, keeping input order.
func evaluateAll(ctx context.Context, nodes []evaluable, workers int) ([]schema.EntityHealth, error) {
	if workers <= 0 {
		workers = contract.DefaultWorkers
	}
	results := make([]schema.EntityHealth, len(nodes))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, n := range nodes {
		eg.Go(func() error {
			entity, err := n.Evaluate(egCtx)
			if err != nil {
				return err
			}
			results[i] = entity
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("failed to evaluate entities: %w", err)
	}
	return results, nil
}
