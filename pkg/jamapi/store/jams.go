package store

import (
	"errors"

	"github.com/python-discord/sir-robin-go/pkg/jamapi/model"
)

// ErrJamNotFound is returned when a jam doesn't exist.
var ErrJamNotFound = errors.New("jam not found")

// ErrNoOngoingJam is returned when no jam is currently ongoing.
var ErrNoOngoingJam = errors.New("there is no ongoing jam")

// JamsStore abstracts code jam storage operations.
type JamsStore interface {
	// ListJams returns all jams with their teams.
	ListJams() ([]model.Jam, error)

	// GetJam returns a single jam with its teams.
	// Returns ErrJamNotFound if the jam doesn't exist.
	GetJam(jamID uint) (*model.Jam, error)

	// GetCurrentJam returns the ongoing jam.
	// Returns ErrNoOngoingJam when no jam is ongoing.
	GetCurrentJam() (*model.Jam, error)

	// CreateJam persists a new jam with its teams and memberships.
	// Creating an ongoing jam ends any previously ongoing one.
	CreateJam(jam *model.Jam) error

	// UpdateJam changes a jam's name and/or ongoing flag. Nil fields
	// are left untouched. Marking a jam ongoing ends any other ongoing
	// jam. Returns ErrJamNotFound if the jam doesn't exist.
	UpdateJam(jamID uint, name *string, ongoing *bool) (*model.Jam, error)

	// EndJam marks a jam as no longer ongoing.
	EndJam(jamID uint) error
}
