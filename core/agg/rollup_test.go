package agg

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/huangsam/orghealth/internal/contract"
	"github.com/huangsam/orghealth/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectHealth(t *testing.T) {
	tests := []struct {
		name     string
		org      func() *fakeOrg
		target   string
		expected schema.HealthValue
		raw      *float64
	}{
		{
			name: "non-working project is not available even with updates",
			org: func() *fakeOrg {
				return newFakeOrg().project("p", schema.StateTodo, "", "").update("p", day(3, 16), schema.OnTrack)
			},
			target:   "p",
			expected: schema.NotAvailable,
		},
		{
			name: "working leaf uses its latest update",
			org: func() *fakeOrg {
				return newFakeOrg().project("p", schema.StateBlocked, "", "").
					update("p", day(3, 2), schema.OnTrack).
					update("p", day(3, 16), schema.OffTrack)
			},
			target:   "p",
			expected: schema.OffTrack,
			raw:      ptr(-1),
		},
		{
			name: "working leaf without updates is not available",
			org: func() *fakeOrg {
				return newFakeOrg().project("p", schema.StateInProgress, "", "")
			},
			target:   "p",
			expected: schema.NotAvailable,
		},
		{
			name: "working children are classified and others ignored",
			org: func() *fakeOrg {
				return newFakeOrg().
					project("root", schema.StateInProgress, "", "").
					project("a", schema.StateInProgress, "root", "").
					project("b", schema.StateBlocked, "root", "").
					project("c", schema.StateDone, "root", "").
					update("a", day(3, 10), schema.OnTrack).
					update("b", day(3, 10), schema.OnTrack).
					update("c", day(3, 10), schema.OffTrack).
					update("root", day(3, 10), schema.OffTrack)
			},
			target:   "root",
			expected: schema.OnTrack,
			raw:      ptr(1),
		},
		{
			name: "child rollup of exactly half stays at risk",
			org: func() *fakeOrg {
				return newFakeOrg().
					project("root", schema.StateInProgress, "", "").
					project("a", schema.StateInProgress, "root", "").
					project("b", schema.StateInProgress, "root", "").
					update("a", day(3, 10), schema.OnTrack).
					update("b", day(3, 10), schema.AtRisk)
			},
			target:   "root",
			expected: schema.AtRisk,
			raw:      ptr(0.5),
		},
		{
			name: "falls back to own update when children have no signal",
			org: func() *fakeOrg {
				return newFakeOrg().
					project("root", schema.StateInProgress, "", "").
					project("a", schema.StateInProgress, "root", "").
					project("b", schema.StateBlocked, "root", "").
					update("root", day(3, 1), schema.OnTrack).
					update("root", day(3, 12), schema.OffTrack)
			},
			target:   "root",
			expected: schema.OffTrack,
			raw:      ptr(-1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			org := tt.org()
			node := org.graph().Project(org.get(tt.target))

			h, err := node.Health(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.expected, h)

			raw, err := node.HealthRawScore(context.Background())
			require.NoError(t, err)
			if tt.raw == nil {
				assert.Nil(t, raw)
			} else {
				require.NotNil(t, raw)
				assert.InDelta(t, *tt.raw, *raw, 1e-9)
			}
		})
	}
}

// TestTeamVotingIgnoresSubteamSize checks that a subordinate team casts one vote
// no matter how many leaves it owns.
func TestTeamVotingIgnoresSubteamSize(t *testing.T) {
	for _, leaves := range []int{1, 5} {
		t.Run(fmt.Sprintf("%d subteam leaves", leaves), func(t *testing.T) {
			org := newFakeOrg().
				team("top", "").
				team("sub", "top").
				project("mine", schema.StateInProgress, "", "top").
				update("mine", day(3, 16), schema.OnTrack)
			for i := range leaves {
				id := fmt.Sprintf("sub-%d", i)
				org.project(id, schema.StateInProgress, "", "sub").update(id, day(3, 16), schema.OffTrack)
			}

			node := org.graph().Team(org.getTeam("top"))
			h, err := node.Health(context.Background())
			require.NoError(t, err)
			assert.Equal(t, schema.AtRisk, h)

			raw, err := node.HealthRawScore(context.Background())
			require.NoError(t, err)
			require.NotNil(t, raw)
			assert.Zero(t, *raw)
		})
	}
}

func TestTeamHealth(t *testing.T) {
	t.Run("owned projects collapse into one vote", func(t *testing.T) {
		org := newFakeOrg().
			team("t", "").
			project("a", schema.StateInProgress, "", "t").
			project("b", schema.StateInProgress, "", "t").
			project("c", schema.StateInProgress, "", "t").
			project("idle", schema.StateOnHold, "", "t").
			project("quiet", schema.StateInProgress, "", "t").
			update("a", day(3, 16), schema.OnTrack).
			update("b", day(3, 16), schema.OnTrack).
			update("c", day(3, 16), schema.OffTrack).
			update("idle", day(3, 16), schema.OffTrack)

		node := org.graph().Team(org.getTeam("t"))
		h, err := node.Health(context.Background())
		require.NoError(t, err)
		assert.Equal(t, schema.AtRisk, h)

		raw, err := node.HealthRawScore(context.Background())
		require.NoError(t, err)
		require.NotNil(t, raw)
		assert.InDelta(t, 1.0/3.0, *raw, 1e-9)
	})

	t.Run("no votes is not available", func(t *testing.T) {
		org := newFakeOrg().
			team("t", "").
			team("empty", "t").
			project("todo", schema.StateTodo, "", "t")

		node := org.graph().Team(org.getTeam("t"))
		h, err := node.Health(context.Background())
		require.NoError(t, err)
		assert.Equal(t, schema.NotAvailable, h)
		raw, err := node.HealthRawScore(context.Background())
		require.NoError(t, err)
		assert.Nil(t, raw)
	})

	t.Run("rounded policy diverges at one half", func(t *testing.T) {
		org := newFakeOrg().
			team("t", "").
			team("s1", "t").
			team("s2", "t").
			project("a", schema.StateInProgress, "", "s1").
			project("b", schema.StateInProgress, "", "s2").
			update("a", day(3, 16), schema.OnTrack).
			update("b", day(3, 16), schema.AtRisk)

		strict, err := org.graph().Team(org.getTeam("t")).Health(context.Background())
		require.NoError(t, err)
		assert.Equal(t, schema.AtRisk, strict)

		g := org.graph(WithNodePolicy(schema.RoundedPolicy))
		assert.Equal(t, schema.RoundedPolicy, g.Policy())
		rounded, err := g.Team(org.getTeam("t")).Health(context.Background())
		require.NoError(t, err)
		assert.Equal(t, schema.OnTrack, rounded)
	})
}

func TestInitiativeHealth(t *testing.T) {
	org := newFakeOrg().
		project("r1", schema.StateInProgress, "", "").
		project("l1", schema.StateInProgress, "r1", "").
		project("l2", schema.StateBlocked, "r1", "").
		project("l3", schema.StateTodo, "r1", "").
		project("r2", schema.StateInProgress, "", "").
		update("l1", day(3, 16), schema.OnTrack).
		update("l2", day(3, 16), schema.OffTrack).
		update("l3", day(3, 16), schema.OffTrack).
		update("r2", day(3, 16), schema.OnTrack).
		link("i", "r1", "r2", "r2")

	initiative := schema.Initiative{ID: "i", Name: "Migrate", State: schema.StateDone}
	node := org.graph().Initiative(initiative)

	h, err := node.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, schema.AtRisk, h, "initiative state does not gate health")

	raw, err := node.HealthRawScore(context.Background())
	require.NoError(t, err)
	require.NotNil(t, raw)
	assert.InDelta(t, 1.0/3.0, *raw, 1e-9)

	leaves, err := node.LeafDescendants(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"l1", "l2", "l3", "r2"}, schema.ProjectIDs(leaves))
}

func TestInitiativeWithoutProjects(t *testing.T) {
	node := newFakeOrg().graph().Initiative(schema.Initiative{ID: "lonely", State: schema.StateTodo})
	h, err := node.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, schema.NotAvailable, h)
}

func TestNilLoaderMeansNoRelationships(t *testing.T) {
	g := NewGraph(nil, nil)
	p := schema.Project{ID: "p", State: schema.StateInProgress}

	h, err := g.Project(p).Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, schema.NotAvailable, h)

	leaves, err := g.Project(p).LeafDescendants(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"p"}, schema.ProjectIDs(leaves))

	parent, err := g.Project(p).Parent(context.Background())
	require.NoError(t, err)
	assert.Nil(t, parent)
}

func TestHealthCycleIsInvariantError(t *testing.T) {
	loader := contract.LoaderFuncs{
		Children: func(_ context.Context, id string) ([]schema.Project, error) {
			next := map[string]string{"a": "b", "b": "a"}[id]
			return []schema.Project{{ID: next, State: schema.StateInProgress, ParentID: id}}, nil
		},
	}
	g := NewGraph(loader, contract.FixedClock{Day: testToday})

	_, err := g.Project(schema.Project{ID: "a", State: schema.StateInProgress}).Health(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, contract.ErrInvariantViolated))
}

func TestLoaderErrorsPropagate(t *testing.T) {
	boom := errors.New("connection reset")
	loader := contract.LoaderFuncs{
		Children: func(context.Context, string) ([]schema.Project, error) { return nil, boom },
	}
	g := NewGraph(loader, nil)

	_, err := g.Project(schema.Project{ID: "a", State: schema.StateInProgress}).Health(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestGraphMemoizesLoads(t *testing.T) {
	org := newFakeOrg().
		project("root", schema.StateInProgress, "", "").
		project("a", schema.StateInProgress, "root", "").
		update("a", day(3, 16), schema.OnTrack)
	g := org.graph()
	node := g.Project(org.get("root"))

	for range 3 {
		_, err := node.Health(context.Background())
		require.NoError(t, err)
		_, err = node.HealthTrend(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, 1, org.count("children:root"))
	assert.Equal(t, 1, org.count("updates:root"))

	// A fresh graph reloads.
	_, err := org.graph().Project(org.get("root")).Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, org.count("children:root"))
}

func TestGraphConcurrentEvaluation(t *testing.T) {
	org := newFakeOrg().team("t", "")
	for i := range 20 {
		id := fmt.Sprintf("p%d", i)
		org.project(id, schema.StateInProgress, "", "t").update(id, day(3, 16), schema.OnTrack)
	}
	g := org.graph()

	var wg sync.WaitGroup
	results := make([]schema.HealthValue, 20)
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h, err := g.Project(org.get(fmt.Sprintf("p%d", i))).Health(context.Background())
			assert.NoError(t, err)
			results[i] = h
		}()
	}
	wg.Wait()

	for _, h := range results {
		assert.Equal(t, schema.OnTrack, h)
	}
	h, err := g.Team(org.getTeam("t")).Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, schema.OnTrack, h)
}

func ptr(v float64) *float64 {
	return &v
}
