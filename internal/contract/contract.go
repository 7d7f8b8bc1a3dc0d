// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/huangsam/orghealth/schema"
)

// Loader exposes the relationships the rollup engine walks.
// This allows the core aggregation logic to be tested without a real store.
type Loader interface {
	// --- Project Tree ---

	// ChildrenOf returns the direct children of a project, ordered by position.
	ChildrenOf(ctx context.Context, projectID string) ([]schema.Project, error)

	// ParentOf returns the parent of a project, or nil for a root project.
	ParentOf(ctx context.Context, projectID string) (*schema.Project, error)

	// --- Team Tree ---

	// OwnedProjectsOf returns the projects a team owns directly.
	OwnedProjectsOf(ctx context.Context, teamID string) ([]schema.Project, error)

	// SubordinateTeamsOf returns the direct subordinate teams of a team.
	SubordinateTeamsOf(ctx context.Context, teamID string) ([]schema.Team, error)

	// ParentTeamOf returns the parent of a team, or nil for a top-level team.
	ParentTeamOf(ctx context.Context, teamID string) (*schema.Team, error)

	// --- Initiatives / Updates ---

	// RelatedProjectsOf returns the root projects linked to an initiative, ordered by position.
	RelatedProjectsOf(ctx context.Context, initiativeID string) ([]schema.Project, error)

	// HealthUpdatesOf returns every health update recorded for an owner, in any order.
	HealthUpdatesOf(ctx context.Context, ownerID string) ([]schema.HealthUpdate, error)
}

// Catalog looks up entities by ID and lists them.
// Missing entities are reported as ErrNotFound.
type Catalog interface {
	GetProject(ctx context.Context, id string) (schema.Project, error)
	GetTeam(ctx context.Context, id string) (schema.Team, error)
	GetInitiative(ctx context.Context, id string) (schema.Initiative, error)
	ListProjects(ctx context.Context) ([]schema.Project, error)
	ListTeams(ctx context.Context) ([]schema.Team, error)
	ListInitiatives(ctx context.Context) ([]schema.Initiative, error)
}

// Writer persists entity records and relationships.
// It performs no validation; callers enforce lifecycle and tree rules.
type Writer interface {
	SaveProject(ctx context.Context, p schema.Project) error
	SaveTeam(ctx context.Context, t schema.Team) error
	SaveInitiative(ctx context.Context, i schema.Initiative) error

	// UpsertHealthUpdate replaces any existing update for the same owner and date.
	UpsertHealthUpdate(ctx context.Context, u schema.HealthUpdate) error

	SetProjectState(ctx context.Context, projectID string, state schema.WorkState) error
	SetInitiativeState(ctx context.Context, initiativeID string, state schema.WorkState) error
	SetProjectParent(ctx context.Context, projectID, parentID string) error
	SetProjectTeam(ctx context.Context, projectID, teamID string) error
	SetTeamParent(ctx context.Context, teamID, parentID string) error
	LinkInitiativeProject(ctx context.Context, initiativeID, projectID string) error
}

// Store is the full persistence surface for one backend.
type Store interface {
	Loader
	Catalog
	Writer

	// GetStatus returns status information about the store
	GetStatus() (schema.StoreStatus, error)

	// Close closes the underlying connection
	Close() error
}

// StoreManager defines the interface for managing the active store.
// This allows the persistence layer to be mocked for testing.
type StoreManager interface {
	GetStore() Store
}

// LoaderFuncs adapts plain functions to the Loader interface.
// A nil function yields an empty result.
type LoaderFuncs struct {
	Children         func(ctx context.Context, projectID string) ([]schema.Project, error)
	Parent           func(ctx context.Context, projectID string) (*schema.Project, error)
	OwnedProjects    func(ctx context.Context, teamID string) ([]schema.Project, error)
	SubordinateTeams func(ctx context.Context, teamID string) ([]schema.Team, error)
	ParentTeam       func(ctx context.Context, teamID string) (*schema.Team, error)
	RelatedProjects  func(ctx context.Context, initiativeID string) ([]schema.Project, error)
	HealthUpdates    func(ctx context.Context, ownerID string) ([]schema.HealthUpdate, error)
}

var _ Loader = LoaderFuncs{}

// ChildrenOf implements Loader.
func (f LoaderFuncs) ChildrenOf(ctx context.Context, projectID string) ([]schema.Project, error) {
	if f.Children == nil {
		return nil, nil
	}
	return f.Children(ctx, projectID)
}

// ParentOf implements Loader.
func (f LoaderFuncs) ParentOf(ctx context.Context, projectID string) (*schema.Project, error) {
	if f.Parent == nil {
		return nil, nil
	}
	return f.Parent(ctx, projectID)
}

// OwnedProjectsOf implements Loader.
func (f LoaderFuncs) OwnedProjectsOf(ctx context.Context, teamID string) ([]schema.Project, error) {
	if f.OwnedProjects == nil {
		return nil, nil
	}
	return f.OwnedProjects(ctx, teamID)
}

// SubordinateTeamsOf implements Loader.
func (f LoaderFuncs) SubordinateTeamsOf(ctx context.Context, teamID string) ([]schema.Team, error) {
	if f.SubordinateTeams == nil {
		return nil, nil
	}
	return f.SubordinateTeams(ctx, teamID)
}

// ParentTeamOf implements Loader.
func (f LoaderFuncs) ParentTeamOf(ctx context.Context, teamID string) (*schema.Team, error) {
	if f.ParentTeam == nil {
		return nil, nil
	}
	return f.ParentTeam(ctx, teamID)
}

// RelatedProjectsOf implements Loader.
func (f LoaderFuncs) RelatedProjectsOf(ctx context.Context, initiativeID string) ([]schema.Project, error) {
	if f.RelatedProjects == nil {
		return nil, nil
	}
	return f.RelatedProjects(ctx, initiativeID)
}

// HealthUpdatesOf implements Loader.
func (f LoaderFuncs) HealthUpdatesOf(ctx context.Context, ownerID string) ([]schema.HealthUpdate, error) {
	if f.HealthUpdates == nil {
		return nil, nil
	}
	return f.HealthUpdates(ctx, ownerID)
}
