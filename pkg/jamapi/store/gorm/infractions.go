package gorm

import (
	"errors"

	"gorm.io/gorm"

	"github.com/python-discord/sir-robin-go/pkg/jamapi/model"
	"github.com/python-discord/sir-robin-go/pkg/jamapi/store"
)

// Ensure InfractionsStore implements store.InfractionsStore
var _ store.InfractionsStore = (*InfractionsStore)(nil)

// InfractionsStore implements store.InfractionsStore using GORM
type InfractionsStore struct {
	db *gorm.DB
}

// NewInfractionsStore creates a new InfractionsStore
func NewInfractionsStore(db *gorm.DB) *InfractionsStore {
	return &InfractionsStore{db: db}
}

// ListInfractions returns all infractions.
func (s *InfractionsStore) ListInfractions() ([]model.Infraction, error) {
	var infractions []model.Infraction
	tx := s.db.Find(&infractions)
	return infractions, tx.Error
}

// GetInfraction returns a single infraction.
func (s *InfractionsStore) GetInfraction(infractionID uint) (*model.Infraction, error) {
	var infraction model.Infraction
	tx := s.db.First(&infraction, infractionID)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrInfractionNotFound
		}
		return nil, tx.Error
	}
	return &infraction, nil
}

// CreateInfraction persists a new infraction.
func (s *InfractionsStore) CreateInfraction(infraction *model.Infraction) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var jam model.Jam
		if err := tx.First(&jam, infraction.JamID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return store.ErrJamNotFound
			}
			return err
		}

		user := model.User{ID: infraction.UserID}
		if err := tx.Where(user).FirstOrCreate(&user).Error; err != nil {
			return err
		}

		return tx.Create(infraction).Error
	})
}
