package agg

import (
	"context"

	"github.com/huangsam/orghealth/core/algo"
	"github.com/huangsam/orghealth/schema"
)

func (g *Graph) cached(cache map[string]nodeResult, id string) (nodeResult, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	r, ok := cache[id]
	return r, ok
}

func (g *Graph) store(cache map[string]nodeResult, id string, r nodeResult) {
	g.mu.Lock()
	cache[id] = r
	g.mu.Unlock()
}

// projectRollup evaluates a project: only working projects report health. A working
// project classifies its working children; with no child signal it falls back to
// its own latest update.
func (g *Graph) projectRollup(ctx context.Context, p schema.Project, w *walk) (nodeResult, error) {
	if r, ok := g.cached(g.projects, p.ID); ok {
		return r, nil
	}
	if !p.State.IsWorking() {
		r := nodeResult{health: schema.NotAvailable}
		g.store(g.projects, p.ID, r)
		return r, nil
	}

	if err := w.enter(schema.ProjectKind, p.ID); err != nil {
		return nodeResult{}, err
	}
	defer w.leave(schema.ProjectKind, p.ID)

	children, err := g.loadChildren(ctx, p.ID)
	if err != nil {
		return nodeResult{}, err
	}

	scores := make([]float64, 0, len(children))
	for _, child := range children {
		if !child.State.IsWorking() {
			continue
		}
		cr, err := g.projectRollup(ctx, child, w)
		if err != nil {
			return nodeResult{}, err
		}
		if s, ok := algo.Score(cr.health); ok {
			scores = append(scores, s)
		}
	}

	health, raw := algo.Classify(scores, g.classify)
	if health == schema.NotAvailable {
		updates, err := g.loadUpdates(ctx, p.ID)
		if err != nil {
			return nodeResult{}, err
		}
		if latest := algo.LatestUpdate(updates); latest != nil {
			health = latest.Health
			if s, ok := algo.Score(latest.Health); ok {
				raw = &s
			}
		}
	}

	r := nodeResult{health: health, raw: raw}
	g.store(g.projects, p.ID, r)
	return r, nil
}

// teamRollup evaluates a team by voting. Owned working projects collapse into one
// vote and every subordinate team casts one vote, so a large subordinate team
// weighs the same as a small one.
func (g *Graph) teamRollup(ctx context.Context, t schema.Team, w *walk) (nodeResult, error) {
	if r, ok := g.cached(g.teams, t.ID); ok {
		return r, nil
	}

	if err := w.enter(schema.TeamKind, t.ID); err != nil {
		return nodeResult{}, err
	}
	defer w.leave(schema.TeamKind, t.ID)

	owned, err := g.loadOwned(ctx, t.ID)
	if err != nil {
		return nodeResult{}, err
	}

	var ownedScores []float64
	for _, p := range owned {
		if !p.State.IsWorking() {
			continue
		}
		pr, err := g.projectRollup(ctx, p, w)
		if err != nil {
			return nodeResult{}, err
		}
		if s, ok := algo.Score(pr.health); ok {
			ownedScores = append(ownedScores, s)
		}
	}

	var votes []float64
	if mean, ok := algo.Mean(ownedScores); ok {
		votes = append(votes, mean)
	}

	subs, err := g.loadSubTeams(ctx, t.ID)
	if err != nil {
		return nodeResult{}, err
	}
	for _, sub := range subs {
		sr, err := g.teamRollup(ctx, sub, w)
		if err != nil {
			return nodeResult{}, err
		}
		if s, ok := algo.Score(sr.health); ok {
			votes = append(votes, s)
		}
	}

	health, raw := algo.Classify(votes, g.classify)
	r := nodeResult{health: health, raw: raw}
	g.store(g.teams, t.ID, r)
	return r, nil
}

// initiativeRollup classifies the deduplicated leaf health of all related projects.
// The initiative's own state does not gate the result.
func (g *Graph) initiativeRollup(ctx context.Context, i schema.Initiative) (nodeResult, error) {
	leaves, err := g.initiativeLeaves(ctx, i.ID)
	if err != nil {
		return nodeResult{}, err
	}

	scores := make([]float64, 0, len(leaves))
	for _, leaf := range leaves {
		lr, err := g.projectRollup(ctx, leaf, g.newWalk())
		if err != nil {
			return nodeResult{}, err
		}
		if s, ok := algo.Score(lr.health); ok {
			scores = append(scores, s)
		}
	}

	health, raw := algo.Classify(scores, g.classify)
	return nodeResult{health: health, raw: raw}, nil
}
