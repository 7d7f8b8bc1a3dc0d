package agg

import (
	"context"
	"fmt"

	"github.com/huangsam/orghealth/internal/contract"
	"github.com/huangsam/orghealth/schema"
)

// walk guards a recursive descent against cycles and runaway depth.
// The single-parent invariant is only enforced at write time, so the
// loaded graph is not trusted to be a tree.
type walk struct {
	maxDepth int
	depth    int
	onPath   map[string]struct{}
}

func (g *Graph) newWalk() *walk {
	return &walk{maxDepth: g.maxDepth, onPath: make(map[string]struct{})}
}

func (w *walk) enter(kind schema.EntityKind, id string) error {
	key := string(kind) + ":" + id
	if _, ok := w.onPath[key]; ok {
		return &contract.InvariantError{Kind: string(kind), ID: id, Reason: "cycle detected"}
	}
	if w.depth >= w.maxDepth {
		return &contract.InvariantError{Kind: string(kind), ID: id, Reason: fmt.Sprintf("exceeds maximum depth %d", w.maxDepth)}
	}
	w.onPath[key] = struct{}{}
	w.depth++
	return nil
}

func (w *walk) leave(kind schema.EntityKind, id string) {
	delete(w.onPath, string(kind)+":"+id)
	w.depth--
}

// leafCollector gathers leaves in traversal order without duplicates.
type leafCollector struct {
	seen   map[string]struct{}
	leaves []schema.Project
}

func newLeafCollector() *leafCollector {
	return &leafCollector{seen: make(map[string]struct{})}
}

func (c *leafCollector) add(p schema.Project) {
	if _, ok := c.seen[p.ID]; ok {
		return
	}
	c.seen[p.ID] = struct{}{}
	c.leaves = append(c.leaves, p)
}

// collectLeaves adds p itself when it has no children, or else its leaf descendants.
func (g *Graph) collectLeaves(ctx context.Context, p schema.Project, w *walk, out *leafCollector) error {
	if err := w.enter(schema.ProjectKind, p.ID); err != nil {
		return err
	}
	defer w.leave(schema.ProjectKind, p.ID)

	children, err := g.loadChildren(ctx, p.ID)
	if err != nil {
		return err
	}
	if len(children) == 0 {
		out.add(p)
		return nil
	}
	for _, child := range children {
		if err := g.collectLeaves(ctx, child, w, out); err != nil {
			return err
		}
	}
	return nil
}

// collectTeamLeaves adds the leaves of every owned project and subordinate team.
func (g *Graph) collectTeamLeaves(ctx context.Context, t schema.Team, w *walk, out *leafCollector) error {
	if err := w.enter(schema.TeamKind, t.ID); err != nil {
		return err
	}
	defer w.leave(schema.TeamKind, t.ID)

	owned, err := g.loadOwned(ctx, t.ID)
	if err != nil {
		return err
	}
	for _, p := range owned {
		if err := g.collectLeaves(ctx, p, w, out); err != nil {
			return err
		}
	}

	subs, err := g.loadSubTeams(ctx, t.ID)
	if err != nil {
		return err
	}
	for _, sub := range subs {
		if err := g.collectTeamLeaves(ctx, sub, w, out); err != nil {
			return err
		}
	}
	return nil
}

// initiativeLeaves resolves the deduplicated leaves of every related project.
func (g *Graph) initiativeLeaves(ctx context.Context, initiativeID string) ([]schema.Project, error) {
	related, err := g.loadRelated(ctx, initiativeID)
	if err != nil {
		return nil, err
	}
	out := newLeafCollector()
	for _, p := range related {
		if err := g.collectLeaves(ctx, p, g.newWalk(), out); err != nil {
			return nil, err
		}
	}
	return out.leaves, nil
}
