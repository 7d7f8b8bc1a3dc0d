// Package agg has the hierarchical health rollups over the org graph.
package agg

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/huangsam/orghealth/core/algo"
	"github.com/huangsam/orghealth/internal/contract"
	"github.com/huangsam/orghealth/schema"
)

// DefaultMaxDepth bounds every recursive walk over the org graph.
const DefaultMaxDepth = 64

// Option configures a Graph.
type Option func(*Graph)

// WithNodePolicy selects the classifier used by project, team and initiative rollups.
func WithNodePolicy(policy schema.NodePolicy) Option {
	return func(g *Graph) {
		g.policy = policy
		g.classify = algo.ClassifierFor(policy)
	}
}

// WithMaxDepth overrides the traversal depth guard.
func WithMaxDepth(depth int) Option {
	return func(g *Graph) {
		if depth > 0 {
			g.maxDepth = depth
		}
	}
}

// nodeResult is a memoized rollup.
type nodeResult struct {
	health schema.HealthValue
	raw    *float64
}

// Graph evaluates rollups for one logical request. It memoizes loader results
// and computed rollups for its own lifetime, so build a new Graph after writes.
// A Graph is safe for concurrent use.
type Graph struct {
	loader   contract.Loader
	clock    contract.Clock
	policy   schema.NodePolicy
	classify algo.Classifier
	maxDepth int

	mu       sync.Mutex
	children map[string][]schema.Project
	owned    map[string][]schema.Project
	subTeams map[string][]schema.Team
	related  map[string][]schema.Project
	updates  map[string][]schema.HealthUpdate
	projects map[string]nodeResult
	teams    map[string]nodeResult
}

// NewGraph binds a loader and clock into a request-scoped graph.
// A nil loader means no relationships. A nil clock reads the wall clock.
func NewGraph(loader contract.Loader, clock contract.Clock, opts ...Option) *Graph {
	if loader == nil {
		loader = contract.LoaderFuncs{}
	}
	if clock == nil {
		clock = contract.SystemClock{}
	}
	g := &Graph{
		loader:   loader,
		clock:    clock,
		policy:   schema.StrictPolicy,
		classify: algo.ClassifyNode,
		maxDepth: DefaultMaxDepth,
		children: make(map[string][]schema.Project),
		owned:    make(map[string][]schema.Project),
		subTeams: make(map[string][]schema.Team),
		related:  make(map[string][]schema.Project),
		updates:  make(map[string][]schema.HealthUpdate),
		projects: make(map[string]nodeResult),
		teams:    make(map[string]nodeResult),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Policy returns the node policy in use.
func (g *Graph) Policy() schema.NodePolicy {
	return g.policy
}

// Today returns the evaluation day.
func (g *Graph) Today() time.Time {
	return g.clock.Today()
}

// Project binds a project record to the graph.
func (g *Graph) Project(p schema.Project) ProjectNode {
	return ProjectNode{g: g, Project: p}
}

// Team binds a team record to the graph.
func (g *Graph) Team(t schema.Team) TeamNode {
	return TeamNode{g: g, Team: t}
}

// Initiative binds an initiative record to the graph.
func (g *Graph) Initiative(i schema.Initiative) InitiativeNode {
	return InitiativeNode{g: g, Initiative: i}
}

// memoLoad returns the cached value for id or loads and caches it.
// The load runs outside the lock; concurrent loads of the same key are harmless.
func memoLoad[T any](g *Graph, cache map[string]T, id string, load func() (T, error)) (T, error) {
	g.mu.Lock()
	if v, ok := cache[id]; ok {
		g.mu.Unlock()
		return v, nil
	}
	g.mu.Unlock()

	v, err := load()
	if err != nil {
		return v, err
	}

	g.mu.Lock()
	cache[id] = v
	g.mu.Unlock()
	return v, nil
}

func (g *Graph) loadChildren(ctx context.Context, projectID string) ([]schema.Project, error) {
	return memoLoad(g, g.children, projectID, func() ([]schema.Project, error) {
		children, err := g.loader.ChildrenOf(ctx, projectID)
		if err != nil {
			return nil, fmt.Errorf("load children of project %s: %w", projectID, err)
		}
		schema.SortProjects(children)
		return children, nil
	})
}

func (g *Graph) loadOwned(ctx context.Context, teamID string) ([]schema.Project, error) {
	return memoLoad(g, g.owned, teamID, func() ([]schema.Project, error) {
		owned, err := g.loader.OwnedProjectsOf(ctx, teamID)
		if err != nil {
			return nil, fmt.Errorf("load projects of team %s: %w", teamID, err)
		}
		schema.SortProjects(owned)
		return owned, nil
	})
}

func (g *Graph) loadSubTeams(ctx context.Context, teamID string) ([]schema.Team, error) {
	return memoLoad(g, g.subTeams, teamID, func() ([]schema.Team, error) {
		teams, err := g.loader.SubordinateTeamsOf(ctx, teamID)
		if err != nil {
			return nil, fmt.Errorf("load subordinate teams of %s: %w", teamID, err)
		}
		schema.SortTeams(teams)
		return teams, nil
	})
}

func (g *Graph) loadRelated(ctx context.Context, initiativeID string) ([]schema.Project, error) {
	return memoLoad(g, g.related, initiativeID, func() ([]schema.Project, error) {
		projects, err := g.loader.RelatedProjectsOf(ctx, initiativeID)
		if err != nil {
			return nil, fmt.Errorf("load projects of initiative %s: %w", initiativeID, err)
		}
		schema.SortProjects(projects)
		return projects, nil
	})
}

func (g *Graph) loadUpdates(ctx context.Context, ownerID string) ([]schema.HealthUpdate, error) {
	return memoLoad(g, g.updates, ownerID, func() ([]schema.HealthUpdate, error) {
		updates, err := g.loader.HealthUpdatesOf(ctx, ownerID)
		if err != nil {
			return nil, fmt.Errorf("load health updates of %s: %w", ownerID, err)
		}
		schema.SortUpdates(updates)
		return updates, nil
	})
}
