package store

import (
	"errors"

	"github.com/python-discord/sir-robin-go/pkg/jamapi/model"
)

// ErrInfractionNotFound is returned when an infraction doesn't exist.
var ErrInfractionNotFound = errors.New("infraction not found")

// InfractionsStore abstracts infraction storage operations.
type InfractionsStore interface {
	// ListInfractions returns all infractions.
	ListInfractions() ([]model.Infraction, error)

	// GetInfraction returns a single infraction.
	// Returns ErrInfractionNotFound if it doesn't exist.
	GetInfraction(infractionID uint) (*model.Infraction, error)

	// CreateInfraction persists a new infraction.
	// Returns ErrJamNotFound if the referenced jam doesn't exist.
	CreateInfraction(infraction *model.Infraction) error
}
