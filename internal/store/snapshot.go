package store

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/huangsam/orghealth/internal/contract"
	"github.com/huangsam/orghealth/schema"
	"gopkg.in/yaml.v3"
)

// Snapshot is a declarative org file. Teams and projects nest their subordinates,
// so the tree shape is visible in the file itself.
type Snapshot struct {
	Teams       []TeamSpec       `yaml:"teams,omitempty"`
	Projects    []ProjectSpec    `yaml:"projects,omitempty"`
	Initiatives []InitiativeSpec `yaml:"initiatives,omitempty"`
}

// TeamSpec describes a team and its subordinate teams.
type TeamSpec struct {
	ID      string       `yaml:"id,omitempty"`
	Name    string       `yaml:"name"`
	Teams   []TeamSpec   `yaml:"teams,omitempty"`
	Updates []UpdateSpec `yaml:"updates,omitempty"`
}

// ProjectSpec describes a project and its children.
type ProjectSpec struct {
	ID       string           `yaml:"id,omitempty"`
	Name     string           `yaml:"name"`
	State    schema.WorkState `yaml:"state,omitempty"`
	Archived bool             `yaml:"archived,omitempty"`
	Team     string           `yaml:"team,omitempty"`
	Children []ProjectSpec    `yaml:"children,omitempty"`
	Updates  []UpdateSpec     `yaml:"updates,omitempty"`
}

// InitiativeSpec describes an initiative and the root projects it relates to.
type InitiativeSpec struct {
	ID       string           `yaml:"id,omitempty"`
	Name     string           `yaml:"name"`
	State    schema.WorkState `yaml:"state,omitempty"`
	Projects []string         `yaml:"projects,omitempty"`
	Updates  []UpdateSpec     `yaml:"updates,omitempty"`
}

// UpdateSpec is one dated health update.
type UpdateSpec struct {
	Date        string             `yaml:"date"`
	Health      schema.HealthValue `yaml:"health"`
	Description string             `yaml:"description,omitempty"`
}

// ImportSummary counts what an import wrote.
type ImportSummary struct {
	Teams       int
	Projects    int
	Initiatives int
	Updates     int
	Links       int
}

// ReadSnapshot decodes a YAML snapshot.
func ReadSnapshot(r io.Reader) (Snapshot, error) {
	var snap Snapshot
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&snap); err != nil {
		if errors.Is(err, io.EOF) {
			return Snapshot{}, nil
		}
		return Snapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return snap, nil
}

// WriteSnapshot encodes a snapshot as YAML.
func WriteSnapshot(w io.Writer, snap Snapshot) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return enc.Close()
}

// importer carries state across one snapshot import.
type importer struct {
	ctx     context.Context
	w       contract.Writer
	summary ImportSummary
}

// ImportSnapshot writes every entity in the snapshot to the store.
// Entities without an ID get a generated one. Records are written as-is, so an
// import can restore states a lifecycle transition would not allow.
func ImportSnapshot(ctx context.Context, w contract.Writer, snap Snapshot) (ImportSummary, error) {
	im := &importer{ctx: ctx, w: w}

	for i, t := range snap.Teams {
		if err := im.team(t, "", i); err != nil {
			return im.summary, err
		}
	}
	for i, p := range snap.Projects {
		if err := im.project(p, "", i); err != nil {
			return im.summary, err
		}
	}
	for _, spec := range snap.Initiatives {
		if err := im.initiative(spec); err != nil {
			return im.summary, err
		}
	}
	return im.summary, nil
}

func (im *importer) team(spec TeamSpec, parentID string, position int) error {
	if spec.Name == "" {
		return fmt.Errorf("team %q has no name", spec.ID)
	}
	t := schema.Team{ID: idOrNew(spec.ID), Name: spec.Name, ParentID: parentID, Position: position}
	if err := im.w.SaveTeam(im.ctx, t); err != nil {
		return err
	}
	im.summary.Teams++
	if err := im.updates(t.ID, spec.Updates); err != nil {
		return err
	}
	for i, sub := range spec.Teams {
		if err := im.team(sub, t.ID, i); err != nil {
			return err
		}
	}
	return nil
}

func (im *importer) project(spec ProjectSpec, parentID string, position int) error {
	if spec.Name == "" {
		return fmt.Errorf("project %q has no name", spec.ID)
	}
	state := spec.State
	if state == "" {
		state = schema.StateNew
	}
	if !state.IsValid() {
		return fmt.Errorf("project %q has invalid state %q", spec.Name, state)
	}
	p := schema.Project{
		ID:       idOrNew(spec.ID),
		Name:     spec.Name,
		State:    state,
		Archived: spec.Archived,
		ParentID: parentID,
		TeamID:   spec.Team,
		Position: position,
	}
	if err := im.w.SaveProject(im.ctx, p); err != nil {
		return err
	}
	im.summary.Projects++
	if err := im.updates(p.ID, spec.Updates); err != nil {
		return err
	}
	for i, child := range spec.Children {
		if err := im.project(child, p.ID, i); err != nil {
			return err
		}
	}
	return nil
}

func (im *importer) initiative(spec InitiativeSpec) error {
	if spec.Name == "" {
		return fmt.Errorf("initiative %q has no name", spec.ID)
	}
	state := spec.State
	if state == "" {
		state = schema.StateTodo
	}
	if !state.IsValid() {
		return fmt.Errorf("initiative %q has invalid state %q", spec.Name, state)
	}
	i := schema.Initiative{ID: idOrNew(spec.ID), Name: spec.Name, State: state}
	if err := im.w.SaveInitiative(im.ctx, i); err != nil {
		return err
	}
	im.summary.Initiatives++
	if err := im.updates(i.ID, spec.Updates); err != nil {
		return err
	}
	for _, projectID := range spec.Projects {
		if err := im.w.LinkInitiativeProject(im.ctx, i.ID, projectID); err != nil {
			return fmt.Errorf("link %s to initiative %s: %w", projectID, i.Name, err)
		}
		im.summary.Links++
	}
	return nil
}

func (im *importer) updates(ownerID string, specs []UpdateSpec) error {
	for _, spec := range specs {
		date, err := schema.ParseDay(spec.Date)
		if err != nil {
			return fmt.Errorf("invalid update date %q for %s: %w", spec.Date, ownerID, err)
		}
		if !spec.Health.IsReportable() {
			return fmt.Errorf("invalid health %q for %s on %s", spec.Health, ownerID, spec.Date)
		}
		u := schema.NewHealthUpdate(uuid.NewString(), ownerID, date, spec.Health, spec.Description)
		if err := im.w.UpsertHealthUpdate(im.ctx, u); err != nil {
			return err
		}
		im.summary.Updates++
	}
	return nil
}

// ExportSnapshot reads the whole store back into a snapshot.
func ExportSnapshot(ctx context.Context, s contract.Store) (Snapshot, error) {
	var snap Snapshot

	teams, err := s.ListTeams(ctx)
	if err != nil {
		return snap, err
	}
	for _, t := range teams {
		if t.ParentID != "" {
			continue
		}
		spec, err := exportTeam(ctx, s, t, 0)
		if err != nil {
			return snap, err
		}
		snap.Teams = append(snap.Teams, spec)
	}

	projects, err := s.ListProjects(ctx)
	if err != nil {
		return snap, err
	}
	for _, p := range projects {
		if !p.IsRoot() {
			continue
		}
		spec, err := exportProject(ctx, s, p, 0)
		if err != nil {
			return snap, err
		}
		snap.Projects = append(snap.Projects, spec)
	}

	initiatives, err := s.ListInitiatives(ctx)
	if err != nil {
		return snap, err
	}
	for _, i := range initiatives {
		related, err := s.RelatedProjectsOf(ctx, i.ID)
		if err != nil {
			return snap, err
		}
		updates, err := exportUpdates(ctx, s, i.ID)
		if err != nil {
			return snap, err
		}
		snap.Initiatives = append(snap.Initiatives, InitiativeSpec{
			ID: i.ID, Name: i.Name, State: i.State, Projects: schema.ProjectIDs(related), Updates: updates,
		})
	}
	return snap, nil
}

func exportTeam(ctx context.Context, s contract.Store, t schema.Team, depth int) (TeamSpec, error) {
	if depth > maxSnapshotDepth {
		return TeamSpec{}, &contract.InvariantError{Kind: string(schema.TeamKind), ID: t.ID, Reason: "team tree too deep"}
	}
	spec := TeamSpec{ID: t.ID, Name: t.Name}
	updates, err := exportUpdates(ctx, s, t.ID)
	if err != nil {
		return spec, err
	}
	spec.Updates = updates
	subs, err := s.SubordinateTeamsOf(ctx, t.ID)
	if err != nil {
		return spec, err
	}
	for _, sub := range subs {
		child, err := exportTeam(ctx, s, sub, depth+1)
		if err != nil {
			return spec, err
		}
		spec.Teams = append(spec.Teams, child)
	}
	return spec, nil
}

func exportProject(ctx context.Context, s contract.Store, p schema.Project, depth int) (ProjectSpec, error) {
	if depth > maxSnapshotDepth {
		return ProjectSpec{}, &contract.InvariantError{Kind: string(schema.ProjectKind), ID: p.ID, Reason: "project tree too deep"}
	}
	spec := ProjectSpec{ID: p.ID, Name: p.Name, State: p.State, Archived: p.Archived, Team: p.TeamID}
	updates, err := exportUpdates(ctx, s, p.ID)
	if err != nil {
		return spec, err
	}
	spec.Updates = updates
	children, err := s.ChildrenOf(ctx, p.ID)
	if err != nil {
		return spec, err
	}
	for _, c := range children {
		child, err := exportProject(ctx, s, c, depth+1)
		if err != nil {
			return spec, err
		}
		spec.Children = append(spec.Children, child)
	}
	return spec, nil
}

func exportUpdates(ctx context.Context, s contract.Loader, ownerID string) ([]UpdateSpec, error) {
	updates, err := s.HealthUpdatesOf(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	schema.SortUpdates(updates)
	var specs []UpdateSpec
	for _, u := range updates {
		specs = append(specs, UpdateSpec{Date: schema.FormatDay(u.Date), Health: u.Health, Description: u.Description})
	}
	return specs, nil
}

// maxSnapshotDepth stops export of a corrupted, cyclic tree.
const maxSnapshotDepth = 64

func idOrNew(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}
