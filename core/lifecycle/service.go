package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/orghealth/core/agg"
	"github.com/huangsam/orghealth/internal/contract"
	"github.com/huangsam/orghealth/schema"
)

// Service applies validated mutations to a store. Validation failures come back
// as a schema.Result; infrastructure failures and broken invariants as errors.
type Service struct {
	store contract.Store
	newID func() string
}

// Option configures a Service.
type Option func(*Service)

// WithIDGenerator overrides how new entity and update IDs are minted.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) {
		s.newID = gen
	}
}

// NewService creates a Service over the given store.
func NewService(store contract.Store, opts ...Option) *Service {
	s := &Service{store: store, newID: uuid.NewString}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TransitionProject moves a project along the transition table.
func (s *Service) TransitionProject(ctx context.Context, projectID string, target schema.WorkState) (schema.Result, error) {
	p, res, err := s.project(ctx, projectID)
	if err != nil || !res.OK() {
		return res, err
	}
	if res = ValidateProjectTransition(p.State, target); !res.OK() {
		return res, nil
	}
	if err := s.store.SetProjectState(ctx, p.ID, target); err != nil {
		return schema.Result{}, fmt.Errorf("set state of project %s: %w", p.ID, err)
	}
	return schema.Result{}, nil
}

// SetInitiativeState sets an initiative's state. With cascade and a cascading target,
// every leaf of every related project is forced to the same state, bypassing the
// project transition table. The cascade is best-effort: a failed leaf is reported
// and the remaining leaves are still written.
func (s *Service) SetInitiativeState(ctx context.Context, initiativeID string, target schema.WorkState, cascade bool) (schema.CascadeResult, error) {
	out := schema.CascadeResult{InitiativeID: initiativeID, State: target}

	i, err := s.store.GetInitiative(ctx, initiativeID)
	if errors.Is(err, contract.ErrNotFound) {
		out.Add(fmt.Sprintf("initiative %q not found", initiativeID))
		return out, nil
	}
	if err != nil {
		return out, fmt.Errorf("get initiative %s: %w", initiativeID, err)
	}
	if !IsInitiativeState(target) {
		out.Add(fmt.Sprintf("invalid target state %q for an initiative", target))
		return out, nil
	}

	if err := s.store.SetInitiativeState(ctx, i.ID, target); err != nil {
		return out, fmt.Errorf("set state of initiative %s: %w", i.ID, err)
	}
	if !cascade || !CascadesState(target) {
		return out, nil
	}

	leaves, err := agg.NewGraph(s.store, nil).Initiative(i).LeafDescendants(ctx)
	if err != nil {
		return out, fmt.Errorf("resolve leaves of initiative %s: %w", i.ID, err)
	}
	for _, leaf := range leaves {
		if err := s.store.SetProjectState(ctx, leaf.ID, target); err != nil {
			out.Add(fmt.Sprintf("cascade to project %q failed: %v", leaf.ID, err))
			continue
		}
		out.Cascaded = append(out.Cascaded, leaf.ID)
	}
	return out, nil
}

// DerivedState summarises the initiative's leaves into one state.
func (s *Service) DerivedState(ctx context.Context, initiativeID string) (schema.WorkState, error) {
	i, err := s.store.GetInitiative(ctx, initiativeID)
	if err != nil {
		return "", err
	}
	leaves, err := agg.NewGraph(s.store, nil).Initiative(i).LeafDescendants(ctx)
	if err != nil {
		return "", err
	}
	return DeriveState(i.State, leaves), nil
}

// CreateProject adds a new project in the new state, optionally under a parent and team.
func (s *Service) CreateProject(ctx context.Context, name, parentID, teamID string) (schema.Project, schema.Result, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return schema.Project{}, schema.Fail("project name is required"), nil
	}
	existing, err := s.store.ListProjects(ctx)
	if err != nil {
		return schema.Project{}, schema.Result{}, fmt.Errorf("list projects: %w", err)
	}
	for _, p := range existing {
		if strings.EqualFold(p.Name, name) {
			return schema.Project{}, schema.Fail(fmt.Sprintf("a project named %q already exists", name)), nil
		}
	}

	// Validate relationships before anything is written.
	if parentID != "" {
		if _, res, err := s.project(ctx, parentID); err != nil || !res.OK() {
			return schema.Project{}, res, err
		}
	}
	if teamID != "" {
		if res, err := s.checkTeamCanOwn(ctx, teamID); err != nil || !res.OK() {
			return schema.Project{}, res, err
		}
	}

	p := schema.Project{ID: s.newID(), Name: name, State: schema.StateNew, Position: len(existing)}
	if err := s.store.SaveProject(ctx, p); err != nil {
		return schema.Project{}, schema.Result{}, fmt.Errorf("save project %s: %w", p.ID, err)
	}
	if parentID != "" {
		res, err := s.AssignParent(ctx, p.ID, parentID)
		if err != nil || !res.OK() {
			return p, res, err
		}
		p.ParentID = parentID
	}
	if teamID != "" {
		res, err := s.AssignTeam(ctx, p.ID, teamID)
		if err != nil || !res.OK() {
			return p, res, err
		}
		p.TeamID = teamID
	}
	return p, schema.Result{}, nil
}

// CreateTeam adds a new team, optionally under a parent team.
func (s *Service) CreateTeam(ctx context.Context, name, parentID string) (schema.Team, schema.Result, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return schema.Team{}, schema.Fail("team name is required"), nil
	}
	existing, err := s.store.ListTeams(ctx)
	if err != nil {
		return schema.Team{}, schema.Result{}, fmt.Errorf("list teams: %w", err)
	}
	for _, t := range existing {
		if strings.EqualFold(t.Name, name) {
			return schema.Team{}, schema.Fail(fmt.Sprintf("a team named %q already exists", name)), nil
		}
	}
	if parentID != "" {
		if res, err := s.checkTeamCanLead(ctx, parentID); err != nil || !res.OK() {
			return schema.Team{}, res, err
		}
	}

	t := schema.Team{ID: s.newID(), Name: name, ParentID: parentID, Position: len(existing)}
	if err := s.store.SaveTeam(ctx, t); err != nil {
		return schema.Team{}, schema.Result{}, fmt.Errorf("save team %s: %w", t.ID, err)
	}
	return t, schema.Result{}, nil
}

// CreateInitiative adds a new initiative in the todo state.
func (s *Service) CreateInitiative(ctx context.Context, name string) (schema.Initiative, schema.Result, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return schema.Initiative{}, schema.Fail("initiative name is required"), nil
	}
	existing, err := s.store.ListInitiatives(ctx)
	if err != nil {
		return schema.Initiative{}, schema.Result{}, fmt.Errorf("list initiatives: %w", err)
	}
	for _, i := range existing {
		if strings.EqualFold(i.Name, name) {
			return schema.Initiative{}, schema.Fail(fmt.Sprintf("an initiative named %q already exists", name)), nil
		}
	}

	i := schema.Initiative{ID: s.newID(), Name: name, State: schema.StateTodo}
	if err := s.store.SaveInitiative(ctx, i); err != nil {
		return schema.Initiative{}, schema.Result{}, fmt.Errorf("save initiative %s: %w", i.ID, err)
	}
	return i, schema.Result{}, nil
}

// AssignParent places a project under a parent. Giving a project a second parent
// breaks the tree invariant and is returned as an *contract.InvariantError.
func (s *Service) AssignParent(ctx context.Context, projectID, parentID string) (schema.Result, error) {
	child, res, err := s.project(ctx, projectID)
	if err != nil || !res.OK() {
		return res, err
	}
	if _, res, err = s.project(ctx, parentID); err != nil || !res.OK() {
		return res, err
	}

	if child.ParentID == parentID {
		return schema.Result{}, nil
	}
	if child.ParentID != "" {
		return schema.Result{}, &contract.InvariantError{
			Kind:   string(schema.ProjectKind),
			ID:     child.ID,
			Reason: fmt.Sprintf("already has parent %s", child.ParentID),
		}
	}

	// Walk up from the new parent; meeting the child means a cycle.
	seen := map[string]struct{}{}
	for cur := parentID; cur != ""; {
		if cur == child.ID {
			return schema.Fail(fmt.Sprintf("project %q cannot be placed under its own descendant %q", child.ID, parentID)), nil
		}
		if _, ok := seen[cur]; ok || len(seen) >= agg.DefaultMaxDepth {
			return schema.Result{}, &contract.InvariantError{Kind: string(schema.ProjectKind), ID: cur, Reason: "ancestor chain does not terminate"}
		}
		seen[cur] = struct{}{}
		parent, err := s.store.ParentOf(ctx, cur)
		if err != nil {
			return schema.Result{}, fmt.Errorf("load parent of project %s: %w", cur, err)
		}
		if parent == nil {
			break
		}
		cur = parent.ID
	}

	// Initiatives relate root projects only, so a linked project stays a root.
	linked, err := s.linkedInitiatives(ctx, child.ID)
	if err != nil {
		return schema.Result{}, err
	}
	if len(linked) > 0 {
		return schema.Fail(fmt.Sprintf("project %q is linked to initiative %q and must stay a root project", child.ID, linked[0])), nil
	}

	if err := s.store.SetProjectParent(ctx, child.ID, parentID); err != nil {
		return schema.Result{}, fmt.Errorf("set parent of project %s: %w", child.ID, err)
	}
	return schema.Result{}, nil
}

// AssignTeam makes a team the owner of a leaf project. Teams with subordinate teams
// cannot own projects.
func (s *Service) AssignTeam(ctx context.Context, projectID, teamID string) (schema.Result, error) {
	p, res, err := s.project(ctx, projectID)
	if err != nil || !res.OK() {
		return res, err
	}
	if res, err := s.checkOwnableProject(ctx, p); err != nil || !res.OK() {
		return res, err
	}
	if res, err := s.checkTeamCanOwn(ctx, teamID); err != nil || !res.OK() {
		return res, err
	}
	if err := s.store.SetProjectTeam(ctx, p.ID, teamID); err != nil {
		return schema.Result{}, fmt.Errorf("set team of project %s: %w", p.ID, err)
	}
	return schema.Result{}, nil
}

// AttachSubordinateTeam places a team under a parent team. Teams that own
// projects cannot have subordinate teams.
func (s *Service) AttachSubordinateTeam(ctx context.Context, teamID, parentID string) (schema.Result, error) {
	t, err := s.store.GetTeam(ctx, teamID)
	if errors.Is(err, contract.ErrNotFound) {
		return schema.Fail(fmt.Sprintf("team %q not found", teamID)), nil
	}
	if err != nil {
		return schema.Result{}, fmt.Errorf("get team %s: %w", teamID, err)
	}
	if t.ParentID == parentID {
		return schema.Result{}, nil
	}
	if t.ParentID != "" {
		return schema.Fail(fmt.Sprintf("team %q already reports to %q", t.ID, t.ParentID)), nil
	}
	if res, err := s.checkTeamCanLead(ctx, parentID); err != nil || !res.OK() {
		return res, err
	}

	seen := map[string]struct{}{}
	for cur := parentID; cur != ""; {
		if cur == t.ID {
			return schema.Fail(fmt.Sprintf("team %q cannot report to its own subordinate %q", t.ID, parentID)), nil
		}
		if _, ok := seen[cur]; ok || len(seen) >= agg.DefaultMaxDepth {
			return schema.Result{}, &contract.InvariantError{Kind: string(schema.TeamKind), ID: cur, Reason: "ancestor chain does not terminate"}
		}
		seen[cur] = struct{}{}
		parent, err := s.store.ParentTeamOf(ctx, cur)
		if err != nil {
			return schema.Result{}, fmt.Errorf("load parent of team %s: %w", cur, err)
		}
		if parent == nil {
			break
		}
		cur = parent.ID
	}

	if err := s.store.SetTeamParent(ctx, t.ID, parentID); err != nil {
		return schema.Result{}, fmt.Errorf("set parent of team %s: %w", t.ID, err)
	}
	return schema.Result{}, nil
}

// LinkProject relates a root project to an initiative.
func (s *Service) LinkProject(ctx context.Context, initiativeID, projectID string) (schema.Result, error) {
	if _, err := s.store.GetInitiative(ctx, initiativeID); errors.Is(err, contract.ErrNotFound) {
		return schema.Fail(fmt.Sprintf("initiative %q not found", initiativeID)), nil
	} else if err != nil {
		return schema.Result{}, fmt.Errorf("get initiative %s: %w", initiativeID, err)
	}
	p, res, err := s.project(ctx, projectID)
	if err != nil || !res.OK() {
		return res, err
	}
	if !p.IsRoot() {
		return schema.Fail(fmt.Sprintf("only root projects can be linked to an initiative; %q has parent %q", p.ID, p.ParentID)), nil
	}
	if err := s.store.LinkInitiativeProject(ctx, initiativeID, p.ID); err != nil {
		return schema.Result{}, fmt.Errorf("link project %s to initiative %s: %w", p.ID, initiativeID, err)
	}
	return schema.Result{}, nil
}

// RecordHealthUpdate upserts the update for an owner and day. A second update for
// the same day replaces the first.
func (s *Service) RecordHealthUpdate(ctx context.Context, ownerID string, date time.Time, health schema.HealthValue, description string) (schema.HealthUpdate, schema.Result, error) {
	if !health.IsReportable() {
		return schema.HealthUpdate{}, schema.Fail(fmt.Sprintf("invalid health value %q (expected on_track, at_risk, off_track)", health)), nil
	}
	if date.IsZero() {
		return schema.HealthUpdate{}, schema.Fail("update date is required"), nil
	}
	if _, res, err := s.ownerKind(ctx, ownerID); err != nil || !res.OK() {
		return schema.HealthUpdate{}, res, err
	}

	u := schema.NewHealthUpdate(s.newID(), ownerID, date, health, strings.TrimSpace(description))
	if err := s.store.UpsertHealthUpdate(ctx, u); err != nil {
		return schema.HealthUpdate{}, schema.Result{}, fmt.Errorf("upsert health update for %s: %w", ownerID, err)
	}
	return u, schema.Result{}, nil
}

// project fetches a project, turning a miss into a validation failure.
func (s *Service) project(ctx context.Context, id string) (schema.Project, schema.Result, error) {
	p, err := s.store.GetProject(ctx, id)
	if errors.Is(err, contract.ErrNotFound) {
		return schema.Project{}, schema.Fail(fmt.Sprintf("project %q not found", id)), nil
	}
	if err != nil {
		return schema.Project{}, schema.Result{}, fmt.Errorf("get project %s: %w", id, err)
	}
	return p, schema.Result{}, nil
}

// ownerKind finds which kind of entity an update owner is.
func (s *Service) ownerKind(ctx context.Context, id string) (schema.EntityKind, schema.Result, error) {
	lookups := []struct {
		kind schema.EntityKind
		get  func() error
	}{
		{schema.ProjectKind, func() error { _, err := s.store.GetProject(ctx, id); return err }},
		{schema.TeamKind, func() error { _, err := s.store.GetTeam(ctx, id); return err }},
		{schema.InitiativeKind, func() error { _, err := s.store.GetInitiative(ctx, id); return err }},
	}
	for _, l := range lookups {
		err := l.get()
		if err == nil {
			return l.kind, schema.Result{}, nil
		}
		if !errors.Is(err, contract.ErrNotFound) {
			return "", schema.Result{}, fmt.Errorf("get %s %s: %w", l.kind, id, err)
		}
	}
	return "", schema.Fail(fmt.Sprintf("no project, team or initiative with id %q", id)), nil
}

// checkTeamCanOwn enforces that only teams without subordinates own projects.
func (s *Service) checkTeamCanOwn(ctx context.Context, teamID string) (schema.Result, error) {
	if _, err := s.store.GetTeam(ctx, teamID); errors.Is(err, contract.ErrNotFound) {
		return schema.Fail(fmt.Sprintf("team %q not found", teamID)), nil
	} else if err != nil {
		return schema.Result{}, fmt.Errorf("get team %s: %w", teamID, err)
	}
	subs, err := s.store.SubordinateTeamsOf(ctx, teamID)
	if err != nil {
		return schema.Result{}, fmt.Errorf("load subordinate teams of %s: %w", teamID, err)
	}
	if len(subs) > 0 {
		return schema.Fail(fmt.Sprintf("team %q has subordinate teams and cannot own projects", teamID)), nil
	}
	return schema.Result{}, nil
}

// checkOwnableProject enforces that teams own leaf projects only.
func (s *Service) checkOwnableProject(ctx context.Context, p schema.Project) (schema.Result, error) {
	children, err := s.store.ChildrenOf(ctx, p.ID)
	if err != nil {
		return schema.Result{}, fmt.Errorf("load children of project %s: %w", p.ID, err)
	}
	if len(children) > 0 {
		return schema.Fail(fmt.Sprintf("project %q has child projects and cannot be owned by a team", p.ID)), nil
	}
	return schema.Result{}, nil
}

// linkedInitiatives returns the initiatives a project is related to.
func (s *Service) linkedInitiatives(ctx context.Context, projectID string) ([]string, error) {
	initiatives, err := s.store.ListInitiatives(ctx)
	if err != nil {
		return nil, fmt.Errorf("list initiatives: %w", err)
	}
	var linked []string
	for _, i := range initiatives {
		related, err := s.store.RelatedProjectsOf(ctx, i.ID)
		if err != nil {
			return nil, fmt.Errorf("load projects of initiative %s: %w", i.ID, err)
		}
		if slices.Contains(schema.ProjectIDs(related), projectID) {
			linked = append(linked, i.ID)
		}
	}
	return linked, nil
}

// checkTeamCanLead enforces that only teams without projects have subordinates.
func (s *Service) checkTeamCanLead(ctx context.Context, teamID string) (schema.Result, error) {
	if _, err := s.store.GetTeam(ctx, teamID); errors.Is(err, contract.ErrNotFound) {
		return schema.Fail(fmt.Sprintf("team %q not found", teamID)), nil
	} else if err != nil {
		return schema.Result{}, fmt.Errorf("get team %s: %w", teamID, err)
	}
	owned, err := s.store.OwnedProjectsOf(ctx, teamID)
	if err != nil {
		return schema.Result{}, fmt.Errorf("load projects of team %s: %w", teamID, err)
	}
	if len(owned) > 0 {
		return schema.Fail(fmt.Sprintf("team %q owns projects and cannot have subordinate teams", teamID)), nil
	}
	return schema.Result{}, nil
}
