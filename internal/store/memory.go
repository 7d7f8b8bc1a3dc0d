package store

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/huangsam/orghealth/internal/contract"
	"github.com/huangsam/orghealth/schema"
)

// MemoryStore keeps the org graph in process memory. Every read returns copies,
// so callers may sort or modify what they get back.
type MemoryStore struct {
	mu          sync.RWMutex
	projects    map[string]schema.Project
	teams       map[string]schema.Team
	initiatives map[string]schema.Initiative
	links       map[string][]string                     // initiative -> project IDs
	updates     map[string]map[string]schema.HealthUpdate // owner -> day -> update
}

var _ contract.Store = &MemoryStore{} // Compile-time check

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		projects:    make(map[string]schema.Project),
		teams:       make(map[string]schema.Team),
		initiatives: make(map[string]schema.Initiative),
		links:       make(map[string][]string),
		updates:     make(map[string]map[string]schema.HealthUpdate),
	}
}

// ChildrenOf implements contract.Loader.
func (s *MemoryStore) ChildrenOf(_ context.Context, projectID string) ([]schema.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []schema.Project
	for _, p := range s.projects {
		if p.ParentID == projectID {
			out = append(out, p)
		}
	}
	schema.SortProjects(out)
	return out, nil
}

// ParentOf implements contract.Loader.
func (s *MemoryStore) ParentOf(_ context.Context, projectID string) (*schema.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[projectID]
	if !ok || p.ParentID == "" {
		return nil, nil
	}
	parent, ok := s.projects[p.ParentID]
	if !ok {
		return nil, nil
	}
	return &parent, nil
}

// OwnedProjectsOf implements contract.Loader.
func (s *MemoryStore) OwnedProjectsOf(_ context.Context, teamID string) ([]schema.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []schema.Project
	for _, p := range s.projects {
		if p.TeamID == teamID {
			out = append(out, p)
		}
	}
	schema.SortProjects(out)
	return out, nil
}

// SubordinateTeamsOf implements contract.Loader.
func (s *MemoryStore) SubordinateTeamsOf(_ context.Context, teamID string) ([]schema.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []schema.Team
	for _, t := range s.teams {
		if t.ParentID == teamID {
			out = append(out, t)
		}
	}
	schema.SortTeams(out)
	return out, nil
}

// ParentTeamOf implements contract.Loader.
func (s *MemoryStore) ParentTeamOf(_ context.Context, teamID string) (*schema.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.teams[teamID]
	if !ok || t.ParentID == "" {
		return nil, nil
	}
	parent, ok := s.teams[t.ParentID]
	if !ok {
		return nil, nil
	}
	return &parent, nil
}

// RelatedProjectsOf implements contract.Loader.
func (s *MemoryStore) RelatedProjectsOf(_ context.Context, initiativeID string) ([]schema.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []schema.Project
	for _, id := range s.links[initiativeID] {
		if p, ok := s.projects[id]; ok {
			out = append(out, p)
		}
	}
	schema.SortProjects(out)
	return out, nil
}

// HealthUpdatesOf implements contract.Loader.
func (s *MemoryStore) HealthUpdatesOf(_ context.Context, ownerID string) ([]schema.HealthUpdate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byDay := s.updates[ownerID]
	out := make([]schema.HealthUpdate, 0, len(byDay))
	for _, u := range byDay {
		out = append(out, u)
	}
	schema.SortUpdates(out)
	return out, nil
}

// AllHealthUpdates returns every stored update ordered by owner and date.
func (s *MemoryStore) AllHealthUpdates(_ context.Context) ([]schema.HealthUpdate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []schema.HealthUpdate
	for _, byDay := range s.updates {
		for _, u := range byDay {
			out = append(out, u)
		}
	}
	slices.SortFunc(out, func(a, b schema.HealthUpdate) int {
		if c := cmp.Compare(a.OwnerID, b.OwnerID); c != 0 {
			return c
		}
		return a.Date.Compare(b.Date)
	})
	return out, nil
}

// GetProject implements contract.Catalog.
func (s *MemoryStore) GetProject(_ context.Context, id string) (schema.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[id]
	if !ok {
		return schema.Project{}, contract.NotFound(string(schema.ProjectKind), id)
	}
	return p, nil
}

// GetTeam implements contract.Catalog.
func (s *MemoryStore) GetTeam(_ context.Context, id string) (schema.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.teams[id]
	if !ok {
		return schema.Team{}, contract.NotFound(string(schema.TeamKind), id)
	}
	return t, nil
}

// GetInitiative implements contract.Catalog.
func (s *MemoryStore) GetInitiative(_ context.Context, id string) (schema.Initiative, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.initiatives[id]
	if !ok {
		return schema.Initiative{}, contract.NotFound(string(schema.InitiativeKind), id)
	}
	return i, nil
}

// ListProjects implements contract.Catalog.
func (s *MemoryStore) ListProjects(_ context.Context) ([]schema.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]schema.Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, p)
	}
	schema.SortProjects(out)
	return out, nil
}

// ListTeams implements contract.Catalog.
func (s *MemoryStore) ListTeams(_ context.Context) ([]schema.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]schema.Team, 0, len(s.teams))
	for _, t := range s.teams {
		out = append(out, t)
	}
	schema.SortTeams(out)
	return out, nil
}

// ListInitiatives implements contract.Catalog.
func (s *MemoryStore) ListInitiatives(_ context.Context) ([]schema.Initiative, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]schema.Initiative, 0, len(s.initiatives))
	for _, i := range s.initiatives {
		out = append(out, i)
	}
	slices.SortFunc(out, compareInitiatives)
	return out, nil
}

// SaveProject implements contract.Writer.
func (s *MemoryStore) SaveProject(_ context.Context, p schema.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[p.ID] = p
	return nil
}

// SaveTeam implements contract.Writer.
func (s *MemoryStore) SaveTeam(_ context.Context, t schema.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teams[t.ID] = t
	return nil
}

// SaveInitiative implements contract.Writer.
func (s *MemoryStore) SaveInitiative(_ context.Context, i schema.Initiative) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initiatives[i.ID] = i
	return nil
}

// UpsertHealthUpdate implements contract.Writer.
func (s *MemoryStore) UpsertHealthUpdate(_ context.Context, u schema.HealthUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.Date = schema.Day(u.Date)
	byDay, ok := s.updates[u.OwnerID]
	if !ok {
		byDay = make(map[string]schema.HealthUpdate)
		s.updates[u.OwnerID] = byDay
	}
	byDay[schema.FormatDay(u.Date)] = u
	return nil
}

// SetProjectState implements contract.Writer.
func (s *MemoryStore) SetProjectState(_ context.Context, projectID string, state schema.WorkState) error {
	return s.updateProject(projectID, func(p *schema.Project) { p.State = state })
}

// SetProjectParent implements contract.Writer.
func (s *MemoryStore) SetProjectParent(_ context.Context, projectID, parentID string) error {
	return s.updateProject(projectID, func(p *schema.Project) { p.ParentID = parentID })
}

// SetProjectTeam implements contract.Writer.
func (s *MemoryStore) SetProjectTeam(_ context.Context, projectID, teamID string) error {
	return s.updateProject(projectID, func(p *schema.Project) { p.TeamID = teamID })
}

// SetInitiativeState implements contract.Writer.
func (s *MemoryStore) SetInitiativeState(_ context.Context, initiativeID string, state schema.WorkState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.initiatives[initiativeID]
	if !ok {
		return contract.NotFound(string(schema.InitiativeKind), initiativeID)
	}
	s.initiatives[initiativeID] = i.WithState(state)
	return nil
}

// SetTeamParent implements contract.Writer.
func (s *MemoryStore) SetTeamParent(_ context.Context, teamID, parentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.teams[teamID]
	if !ok {
		return contract.NotFound(string(schema.TeamKind), teamID)
	}
	t.ParentID = parentID
	s.teams[teamID] = t
	return nil
}

// LinkInitiativeProject implements contract.Writer. Linking twice is a no-op.
func (s *MemoryStore) LinkInitiativeProject(_ context.Context, initiativeID, projectID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.initiatives[initiativeID]; !ok {
		return contract.NotFound(string(schema.InitiativeKind), initiativeID)
	}
	if _, ok := s.projects[projectID]; !ok {
		return contract.NotFound(string(schema.ProjectKind), projectID)
	}
	if slices.Contains(s.links[initiativeID], projectID) {
		return nil
	}
	s.links[initiativeID] = append(s.links[initiativeID], projectID)
	return nil
}

// GetStatus implements contract.Store.
func (s *MemoryStore) GetStatus() (schema.StoreStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	status := schema.StoreStatus{
		Backend:   string(schema.MemoryBackend),
		Connected: true,
		TableSizes: map[string]int64{
			projectsTable:           int64(len(s.projects)),
			teamsTable:              int64(len(s.teams)),
			initiativesTable:        int64(len(s.initiatives)),
			initiativeProjectsTable: 0,
			healthUpdatesTable:      0,
		},
	}
	for _, ids := range s.links {
		status.TableSizes[initiativeProjectsTable] += int64(len(ids))
	}
	for _, byDay := range s.updates {
		for _, u := range byDay {
			status.TotalUpdates++
			if status.LatestUpdateDate.IsZero() || u.Date.After(status.LatestUpdateDate) {
				status.LatestUpdateDate = u.Date
			}
			if status.OldestUpdateDate.IsZero() || u.Date.Before(status.OldestUpdateDate) {
				status.OldestUpdateDate = u.Date
			}
		}
	}
	status.TableSizes[healthUpdatesTable] = int64(status.TotalUpdates)
	return status, nil
}

// Close implements contract.Store.
func (s *MemoryStore) Close() error {
	return nil
}

func (s *MemoryStore) updateProject(projectID string, apply func(*schema.Project)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[projectID]
	if !ok {
		return contract.NotFound(string(schema.ProjectKind), projectID)
	}
	apply(&p)
	s.projects[projectID] = p
	return nil
}
