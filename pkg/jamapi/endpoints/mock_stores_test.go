package endpoints

import (
	"github.com/stretchr/testify/mock"

	"github.com/python-discord/sir-robin-go/pkg/jamapi/model"
)

// MockJamsStore implements store.JamsStore for testing using testify/mock
type MockJamsStore struct {
	mock.Mock
}

func NewMockJamsStore() *MockJamsStore {
	return &MockJamsStore{}
}

func (m *MockJamsStore) ListJams() ([]model.Jam, error) {
	args := m.Called()
	return args.Get(0).([]model.Jam), args.Error(1)
}

func (m *MockJamsStore) GetJam(jamID uint) (*model.Jam, error) {
	args := m.Called(jamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Jam), args.Error(1)
}

func (m *MockJamsStore) GetCurrentJam() (*model.Jam, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Jam), args.Error(1)
}

func (m *MockJamsStore) CreateJam(jam *model.Jam) error {
	args := m.Called(jam)
	return args.Error(0)
}

func (m *MockJamsStore) UpdateJam(jamID uint, name *string, ongoing *bool) (*model.Jam, error) {
	args := m.Called(jamID, name, ongoing)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Jam), args.Error(1)
}

func (m *MockJamsStore) EndJam(jamID uint) error {
	args := m.Called(jamID)
	return args.Error(0)
}

// MockTeamsStore implements store.TeamsStore for testing using testify/mock
type MockTeamsStore struct {
	mock.Mock
}

func NewMockTeamsStore() *MockTeamsStore {
	return &MockTeamsStore{}
}

func (m *MockTeamsStore) ListTeams(currentJamOnly bool) ([]model.Team, error) {
	args := m.Called(currentJamOnly)
	return args.Get(0).([]model.Team), args.Error(1)
}

func (m *MockTeamsStore) GetTeam(teamID uint) (*model.Team, error) {
	args := m.Called(teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Team), args.Error(1)
}

func (m *MockTeamsStore) FindTeam(name string, jamID uint) (*model.Team, error) {
	args := m.Called(name, jamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Team), args.Error(1)
}

func (m *MockTeamsStore) AddUser(teamID uint, userID int64, isLeader bool) error {
	args := m.Called(teamID, userID, isLeader)
	return args.Error(0)
}

func (m *MockTeamsStore) RemoveUser(teamID uint, userID int64) error {
	args := m.Called(teamID, userID)
	return args.Error(0)
}

// MockUsersStore implements store.UsersStore for testing using testify/mock
type MockUsersStore struct {
	mock.Mock
}

func NewMockUsersStore() *MockUsersStore {
	return &MockUsersStore{}
}

func (m *MockUsersStore) ListUsers() ([]model.User, error) {
	args := m.Called()
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUsersStore) GetUser(userID int64) (*model.User, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUsersStore) GetCurrentTeam(userID int64) (*model.Team, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Team), args.Error(1)
}

// MockWinnersStore implements store.WinnersStore for testing using testify/mock
type MockWinnersStore struct {
	mock.Mock
}

func NewMockWinnersStore() *MockWinnersStore {
	return &MockWinnersStore{}
}

func (m *MockWinnersStore) ListWinners(jamID uint) ([]model.Winner, error) {
	args := m.Called(jamID)
	return args.Get(0).([]model.Winner), args.Error(1)
}

func (m *MockWinnersStore) AddWinners(jamID uint, winners []model.Winner) error {
	args := m.Called(jamID, winners)
	return args.Error(0)
}

// MockInfractionsStore implements store.InfractionsStore for testing using testify/mock
type MockInfractionsStore struct {
	mock.Mock
}

func NewMockInfractionsStore() *MockInfractionsStore {
	return &MockInfractionsStore{}
}

func (m *MockInfractionsStore) ListInfractions() ([]model.Infraction, error) {
	args := m.Called()
	return args.Get(0).([]model.Infraction), args.Error(1)
}

func (m *MockInfractionsStore) GetInfraction(infractionID uint) (*model.Infraction, error) {
	args := m.Called(infractionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Infraction), args.Error(1)
}

func (m *MockInfractionsStore) CreateInfraction(infraction *model.Infraction) error {
	args := m.Called(infraction)
	return args.Error(0)
}

// MockHealthStore implements store.HealthStore for testing using testify/mock
type MockHealthStore struct {
	mock.Mock
}

func NewMockHealthStore() *MockHealthStore {
	return &MockHealthStore{}
}

func (m *MockHealthStore) CheckConnectivity() error {
	args := m.Called()
	return args.Error(0)
}
