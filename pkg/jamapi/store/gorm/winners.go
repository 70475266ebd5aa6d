package gorm

import (
	"errors"

	"gorm.io/gorm"

	"github.com/python-discord/sir-robin-go/pkg/jamapi/model"
	"github.com/python-discord/sir-robin-go/pkg/jamapi/store"
)

// Ensure WinnersStore implements store.WinnersStore
var _ store.WinnersStore = (*WinnersStore)(nil)

// WinnersStore implements store.WinnersStore using GORM
type WinnersStore struct {
	db *gorm.DB
}

// NewWinnersStore creates a new WinnersStore
func NewWinnersStore(db *gorm.DB) *WinnersStore {
	return &WinnersStore{db: db}
}

// ListWinners returns the winners of a jam.
func (s *WinnersStore) ListWinners(jamID uint) ([]model.Winner, error) {
	var winners []model.Winner
	tx := s.db.Where("jam_id = ?", jamID).Find(&winners)
	return winners, tx.Error
}

// AddWinners records winners for a jam.
func (s *WinnersStore) AddWinners(jamID uint, winners []model.Winner) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var jam model.Jam
		if err := tx.First(&jam, jamID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return store.ErrJamNotFound
			}
			return err
		}

		for i := range winners {
			winners[i].JamID = jamID

			user := model.User{ID: winners[i].UserID}
			if err := tx.Where(user).FirstOrCreate(&user).Error; err != nil {
				return err
			}
		}
		return tx.Create(&winners).Error
	})
}
