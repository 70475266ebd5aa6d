package store

import (
	"errors"

	"github.com/python-discord/sir-robin-go/pkg/jamapi/model"
)

// ErrTeamNotFound is returned when a team doesn't exist.
var ErrTeamNotFound = errors.New("team not found")

// ErrUserNotOnTeam is returned when removing a user who isn't a member.
var ErrUserNotOnTeam = errors.New("user is not a member of the team")

// ErrUserAlreadyOnTeam is returned when adding a user who is already a
// member.
var ErrUserAlreadyOnTeam = errors.New("user is already a member of the team")

// TeamsStore abstracts team storage operations.
type TeamsStore interface {
	// ListTeams returns teams, optionally limited to the ongoing jam.
	ListTeams(currentJamOnly bool) ([]model.Team, error)

	// GetTeam returns a single team with its members.
	// Returns ErrTeamNotFound if the team doesn't exist.
	GetTeam(teamID uint) (*model.Team, error)

	// FindTeam looks a team up by name within a jam.
	// Returns ErrTeamNotFound if no team matches.
	FindTeam(name string, jamID uint) (*model.Team, error)

	// AddUser adds a user to a team.
	// Returns ErrTeamNotFound or ErrUserAlreadyOnTeam as appropriate.
	AddUser(teamID uint, userID int64, isLeader bool) error

	// RemoveUser removes a user from a team.
	// Returns ErrTeamNotFound or ErrUserNotOnTeam as appropriate.
	RemoveUser(teamID uint, userID int64) error
}
