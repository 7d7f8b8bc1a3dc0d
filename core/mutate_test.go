package core

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/orghealth/internal/contract"
	"github.com/huangsam/orghealth/internal/store"
	"github.com/huangsam/orghealth/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readMutation(t *testing.T, path string) schema.MutationResult {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got schema.MutationResult
	require.NoError(t, json.Unmarshal(data, &got))
	return got
}

func TestExecuteRecordUpdate(t *testing.T) {
	ctx := context.Background()
	s := seedOrg(t)
	mgr := managerFor(s)

	cfg := testConfig(t)
	cfg.EntityID = "b"
	cfg.Health = schema.AtRisk
	cfg.UpdateDate = day(3, 16)
	cfg.Description = "replanned"
	require.NoError(t, ExecuteRecordUpdate(ctx, cfg, mgr))

	got := readMutation(t, cfg.OutputFile)
	assert.True(t, got.OK())
	assert.Equal(t, "at_risk on 2026-03-16", got.Detail)

	// Same day replaces the earlier off_track update.
	updates, err := s.HealthUpdatesOf(ctx, "b")
	require.NoError(t, err)
	require.Len(t, updates, 1)
	assert.Equal(t, schema.AtRisk, updates[0].Health)
	assert.Equal(t, "replanned", updates[0].Description)

	cfg.Health = schema.NotAvailable
	err = ExecuteRecordUpdate(ctx, cfg, mgr)
	assert.True(t, IsRejected(err))
	assert.False(t, readMutation(t, cfg.OutputFile).OK())
}

func TestExecuteTransition(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		kind     schema.EntityKind
		id       string
		target   schema.WorkState
		cascade  bool
		rejected bool
		check    func(t *testing.T, s contract.Store, got schema.MutationResult)
	}{
		{
			name: "project moves along the table", kind: schema.ProjectKind, id: "a", target: schema.StateBlocked,
			check: func(t *testing.T, s contract.Store, got schema.MutationResult) {
				assert.Equal(t, "in_progress -> blocked", got.Detail)
				p, err := s.GetProject(ctx, "a")
				require.NoError(t, err)
				assert.Equal(t, schema.StateBlocked, p.State)
			},
		},
		{name: "done to todo is rejected", id: "c", target: schema.StateTodo, rejected: true},
		{name: "self transition is rejected", id: "a", target: schema.StateInProgress, rejected: true},
		{
			name: "initiative cascade forces leaves", kind: schema.InitiativeKind, id: "i1", target: schema.StateDone, cascade: true,
			check: func(t *testing.T, s contract.Store, got schema.MutationResult) {
				assert.Equal(t, []string{"a", "b", "c"}, got.Cascaded)
				for _, id := range got.Cascaded {
					p, err := s.GetProject(ctx, id)
					require.NoError(t, err)
					assert.Equal(t, schema.StateDone, p.State)
				}
			},
		},
		{
			name: "initiative without cascade leaves projects alone", kind: schema.InitiativeKind, id: "i1", target: schema.StateOnHold,
			check: func(t *testing.T, s contract.Store, got schema.MutationResult) {
				assert.Empty(t, got.Cascaded)
				p, err := s.GetProject(ctx, "a")
				require.NoError(t, err)
				assert.Equal(t, schema.StateInProgress, p.State)
			},
		},
		{name: "initiative cannot be new", kind: schema.InitiativeKind, id: "i1", target: schema.StateNew, rejected: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := seedOrg(t)
			cfg := testConfig(t)
			cfg.EntityKind = tt.kind
			cfg.EntityID = tt.id
			cfg.TargetState = tt.target
			cfg.Cascade = tt.cascade

			err := ExecuteTransition(ctx, cfg, managerFor(s))
			if tt.rejected {
				assert.True(t, IsRejected(err))
				return
			}
			require.NoError(t, err)
			got := readMutation(t, cfg.OutputFile)
			if tt.check != nil {
				tt.check(t, s, got)
			}
		})
	}

	cfg := testConfig(t)
	cfg.EntityKind = schema.TeamKind
	assert.Error(t, ExecuteTransition(ctx, cfg, managerFor(seedOrg(t))))
}

func TestExecuteCreate(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		kind     schema.EntityKind
		entity   string
		parent   string
		team     string
		rejected bool
		wantErr  bool
	}{
		{name: "project under parent and team", kind: schema.ProjectKind, entity: "Refunds", parent: "root", team: "web"},
		{name: "duplicate name ignores case", kind: schema.ProjectKind, entity: "cart", rejected: true},
		{name: "team", kind: schema.TeamKind, entity: "Platform"},
		{name: "team cannot lead a team that owns projects", kind: schema.TeamKind, entity: "Infra", parent: "web", rejected: true},
		{name: "initiative", kind: schema.InitiativeKind, entity: "Reliability"},
		{name: "initiative takes no parent", kind: schema.InitiativeKind, entity: "X", parent: "root", wantErr: true},
		{name: "empty name", kind: schema.InitiativeKind, entity: "  ", rejected: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := seedOrg(t)
			cfg := testConfig(t)
			cfg.EntityKind = tt.kind
			cfg.Name = tt.entity
			cfg.ParentID = tt.parent
			cfg.TeamID = tt.team

			err := ExecuteCreate(ctx, cfg, managerFor(s))
			switch {
			case tt.wantErr:
				assert.Error(t, err)
				assert.False(t, IsRejected(err))
				return
			case tt.rejected:
				assert.True(t, IsRejected(err))
				return
			}
			require.NoError(t, err)

			got := readMutation(t, cfg.OutputFile)
			assert.Equal(t, "Created", got.Action)
			assert.NotEmpty(t, got.ID)
			if tt.kind == schema.ProjectKind {
				p, err := s.GetProject(ctx, got.ID)
				require.NoError(t, err)
				assert.Equal(t, schema.StateNew, p.State)
				assert.Equal(t, tt.parent, p.ParentID)
				assert.Equal(t, tt.team, p.TeamID)
			}
		})
	}
}

func TestExecuteAssign(t *testing.T) {
	ctx := context.Background()
	s := seedOrg(t)
	mgr := managerFor(s)
	require.NoError(t, s.SaveProject(ctx, schema.Project{ID: "d", Name: "Search", State: schema.StateTodo, Position: 5}))
	require.NoError(t, s.SaveTeam(ctx, schema.Team{ID: "org", Name: "Org", Position: 1}))

	cfg := testConfig(t)
	cfg.EntityKind = schema.ProjectKind
	cfg.EntityID = "d"
	cfg.ParentID = "root"
	cfg.TeamID = "web"
	require.NoError(t, ExecuteAssign(ctx, cfg, mgr))
	assert.Equal(t, "parent root, team web", readMutation(t, cfg.OutputFile).Detail)

	// A second parent breaks the tree invariant.
	cfg.ParentID = "a"
	cfg.TeamID = ""
	err := ExecuteAssign(ctx, cfg, mgr)
	assert.ErrorIs(t, err, contract.ErrInvariantViolated)

	// A cycle is a validation failure.
	cfg.EntityID = "root"
	cfg.ParentID = "d"
	assert.True(t, IsRejected(ExecuteAssign(ctx, cfg, mgr)))

	// root is linked to i1, so it cannot gain a parent.
	cfg.ParentID = "old"
	assert.True(t, IsRejected(ExecuteAssign(ctx, cfg, mgr)))

	// Teams own leaf projects only.
	cfg.ParentID = ""
	cfg.TeamID = "web"
	assert.True(t, IsRejected(ExecuteAssign(ctx, cfg, mgr)))
	cfg.TeamID = ""

	cfg.EntityKind = schema.TeamKind
	cfg.EntityID = "org"
	cfg.ParentID = "web"
	assert.True(t, IsRejected(ExecuteAssign(ctx, cfg, mgr)), "web owns projects")

	cfg.ParentID = ""
	assert.Error(t, ExecuteAssign(ctx, cfg, mgr))

	cfg.EntityKind = schema.InitiativeKind
	cfg.ParentID = "x"
	assert.Error(t, ExecuteAssign(ctx, cfg, mgr))
}

func TestExecuteLink(t *testing.T) {
	ctx := context.Background()
	s := seedOrg(t)
	mgr := managerFor(s)
	require.NoError(t, s.SaveProject(ctx, schema.Project{ID: "d", Name: "Search", State: schema.StateTodo, Position: 5}))

	cfg := testConfig(t)
	cfg.EntityID = "i1"
	cfg.ProjectID = "d"
	require.NoError(t, ExecuteLink(ctx, cfg, mgr))
	related, err := s.RelatedProjectsOf(ctx, "i1")
	require.NoError(t, err)
	assert.Contains(t, schema.ProjectIDs(related), "d")

	cfg.ProjectID = "a"
	assert.True(t, IsRejected(ExecuteLink(ctx, cfg, mgr)), "a is not a root project")
}

func TestWriteMutationText(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output = schema.TextOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "out.txt")

	err := writeMutation(cfg, schema.MutationResult{Result: schema.Fail("boom"), Action: "Linked", Detail: "hidden"})
	assert.True(t, IsRejected(err))

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "❌ Linked"))
	assert.NotContains(t, string(data), "hidden")

	require.NoError(t, writeMutation(cfg, schema.MutationResult{Action: "Linked", Kind: "initiative", ID: "i1"}))
}

func TestMutationsNeedStore(t *testing.T) {
	mgr := &store.MockStoreManager{}
	mgr.On("GetStore").Return(nil)
	cfg := testConfig(t)
	cfg.EntityKind = schema.ProjectKind
	cfg.ParentID = "p"

	for _, fn := range []ExecutorFunc{ExecuteRecordUpdate, ExecuteTransition, ExecuteInitiativeState, ExecuteCreate, ExecuteAssign, ExecuteLink} {
		assert.ErrorIs(t, fn(context.Background(), cfg, mgr), errNoStore)
	}
}
