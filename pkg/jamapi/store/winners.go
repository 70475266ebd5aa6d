package store

import (
	"github.com/python-discord/sir-robin-go/pkg/jamapi/model"
)

// WinnersStore abstracts winner storage operations.
type WinnersStore interface {
	// ListWinners returns the winners of a jam.
	ListWinners(jamID uint) ([]model.Winner, error)

	// AddWinners records winners for a jam.
	// Returns ErrJamNotFound if the jam doesn't exist.
	AddWinners(jamID uint, winners []model.Winner) error
}
