package store

import (
	"context"

	"github.com/huangsam/orghealth/internal/contract"
	"github.com/huangsam/orghealth/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetStore implements the StoreManager interface.
func (m *MockStoreManager) GetStore() contract.Store {
	ret := m.Called()
	s, _ := ret.Get(0).(contract.Store)
	return s
}

// MockStore is a mock implementation of Store for testing.
type MockStore struct {
	mock.Mock
}

var _ contract.Store = &MockStore{} // Compile-time check

func projectsArg(args mock.Arguments, i int) []schema.Project {
	v, _ := args.Get(i).([]schema.Project)
	return v
}

// ChildrenOf implements the Store interface.
func (m *MockStore) ChildrenOf(ctx context.Context, projectID string) ([]schema.Project, error) {
	args := m.Called(ctx, projectID)
	return projectsArg(args, 0), args.Error(1)
}

// ParentOf implements the Store interface.
func (m *MockStore) ParentOf(ctx context.Context, projectID string) (*schema.Project, error) {
	args := m.Called(ctx, projectID)
	p, _ := args.Get(0).(*schema.Project)
	return p, args.Error(1)
}

// OwnedProjectsOf implements the Store interface.
func (m *MockStore) OwnedProjectsOf(ctx context.Context, teamID string) ([]schema.Project, error) {
	args := m.Called(ctx, teamID)
	return projectsArg(args, 0), args.Error(1)
}

// SubordinateTeamsOf implements the Store interface.
func (m *MockStore) SubordinateTeamsOf(ctx context.Context, teamID string) ([]schema.Team, error) {
	args := m.Called(ctx, teamID)
	teams, _ := args.Get(0).([]schema.Team)
	return teams, args.Error(1)
}

// ParentTeamOf implements the Store interface.
func (m *MockStore) ParentTeamOf(ctx context.Context, teamID string) (*schema.Team, error) {
	args := m.Called(ctx, teamID)
	t, _ := args.Get(0).(*schema.Team)
	return t, args.Error(1)
}

// RelatedProjectsOf implements the Store interface.
func (m *MockStore) RelatedProjectsOf(ctx context.Context, initiativeID string) ([]schema.Project, error) {
	args := m.Called(ctx, initiativeID)
	return projectsArg(args, 0), args.Error(1)
}

// HealthUpdatesOf implements the Store interface.
func (m *MockStore) HealthUpdatesOf(ctx context.Context, ownerID string) ([]schema.HealthUpdate, error) {
	args := m.Called(ctx, ownerID)
	updates, _ := args.Get(0).([]schema.HealthUpdate)
	return updates, args.Error(1)
}

// GetProject implements the Store interface.
func (m *MockStore) GetProject(ctx context.Context, id string) (schema.Project, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(schema.Project)
	return p, args.Error(1)
}

// GetTeam implements the Store interface.
func (m *MockStore) GetTeam(ctx context.Context, id string) (schema.Team, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(schema.Team)
	return t, args.Error(1)
}

// GetInitiative implements the Store interface.
func (m *MockStore) GetInitiative(ctx context.Context, id string) (schema.Initiative, error) {
	args := m.Called(ctx, id)
	i, _ := args.Get(0).(schema.Initiative)
	return i, args.Error(1)
}

// ListProjects implements the Store interface.
func (m *MockStore) ListProjects(ctx context.Context) ([]schema.Project, error) {
	args := m.Called(ctx)
	return projectsArg(args, 0), args.Error(1)
}

// ListTeams implements the Store interface.
func (m *MockStore) ListTeams(ctx context.Context) ([]schema.Team, error) {
	args := m.Called(ctx)
	teams, _ := args.Get(0).([]schema.Team)
	return teams, args.Error(1)
}

// ListInitiatives implements the Store interface.
func (m *MockStore) ListInitiatives(ctx context.Context) ([]schema.Initiative, error) {
	args := m.Called(ctx)
	initiatives, _ := args.Get(0).([]schema.Initiative)
	return initiatives, args.Error(1)
}

// SaveProject implements the Store interface.
func (m *MockStore) SaveProject(ctx context.Context, p schema.Project) error {
	return m.Called(ctx, p).Error(0)
}

// SaveTeam implements the Store interface.
func (m *MockStore) SaveTeam(ctx context.Context, t schema.Team) error {
	return m.Called(ctx, t).Error(0)
}

// SaveInitiative implements the Store interface.
func (m *MockStore) SaveInitiative(ctx context.Context, i schema.Initiative) error {
	return m.Called(ctx, i).Error(0)
}

// UpsertHealthUpdate implements the Store interface.
func (m *MockStore) UpsertHealthUpdate(ctx context.Context, u schema.HealthUpdate) error {
	return m.Called(ctx, u).Error(0)
}

// SetProjectState implements the Store interface.
func (m *MockStore) SetProjectState(ctx context.Context, projectID string, state schema.WorkState) error {
	return m.Called(ctx, projectID, state).Error(0)
}

// SetInitiativeState implements the Store interface.
func (m *MockStore) SetInitiativeState(ctx context.Context, initiativeID string, state schema.WorkState) error {
	return m.Called(ctx, initiativeID, state).Error(0)
}

// SetProjectParent implements the Store interface.
func (m *MockStore) SetProjectParent(ctx context.Context, projectID, parentID string) error {
	return m.Called(ctx, projectID, parentID).Error(0)
}

// SetProjectTeam implements the Store interface.
func (m *MockStore) SetProjectTeam(ctx context.Context, projectID, teamID string) error {
	return m.Called(ctx, projectID, teamID).Error(0)
}

// SetTeamParent implements the Store interface.
func (m *MockStore) SetTeamParent(ctx context.Context, teamID, parentID string) error {
	return m.Called(ctx, teamID, parentID).Error(0)
}

// LinkInitiativeProject implements the Store interface.
func (m *MockStore) LinkInitiativeProject(ctx context.Context, initiativeID, projectID string) error {
	return m.Called(ctx, initiativeID, projectID).Error(0)
}

// GetStatus implements the Store interface.
func (m *MockStore) GetStatus() (schema.StoreStatus, error) {
	args := m.Called()
	status, _ := args.Get(0).(schema.StoreStatus)
	return status, args.Error(1)
}

// Close implements the Store interface.
func (m *MockStore) Close() error {
	return m.Called().Error(0)
}
