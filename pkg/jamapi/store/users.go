package store

import (
	"errors"

	"github.com/python-discord/sir-robin-go/pkg/jamapi/model"
)

// ErrUserNotFound is returned when a user doesn't exist or has no
// current team.
var ErrUserNotFound = errors.New("user not found")

// UsersStore abstracts participant storage operations.
type UsersStore interface {
	// ListUsers returns all known participants.
	ListUsers() ([]model.User, error)

	// GetUser returns a single participant.
	// Returns ErrUserNotFound if the user doesn't exist.
	GetUser(userID int64) (*model.User, error)

	// GetCurrentTeam returns the user's team in the ongoing jam.
	// Returns ErrUserNotFound when the user has no team in the
	// ongoing jam, or ErrNoOngoingJam when no jam is ongoing.
	GetCurrentTeam(userID int64) (*model.Team, error)
}
