package gorm

import (
	"errors"

	"gorm.io/gorm"

	"github.com/python-discord/sir-robin-go/pkg/jamapi/model"
	"github.com/python-discord/sir-robin-go/pkg/jamapi/store"
)

// Ensure JamsStore implements store.JamsStore
var _ store.JamsStore = (*JamsStore)(nil)

// JamsStore implements store.JamsStore using GORM
type JamsStore struct {
	db *gorm.DB
}

// NewJamsStore creates a new JamsStore
func NewJamsStore(db *gorm.DB) *JamsStore {
	return &JamsStore{db: db}
}

// ListJams returns all jams with their teams.
func (s *JamsStore) ListJams() ([]model.Jam, error) {
	var jams []model.Jam
	tx := s.db.Preload("Teams.Users").Preload("Teams").Find(&jams)
	return jams, tx.Error
}

// GetJam returns a single jam with its teams.
func (s *JamsStore) GetJam(jamID uint) (*model.Jam, error) {
	var jam model.Jam
	tx := s.db.Preload("Teams.Users").Preload("Teams").First(&jam, jamID)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrJamNotFound
		}
		return nil, tx.Error
	}
	return &jam, nil
}

// GetCurrentJam returns the ongoing jam.
func (s *JamsStore) GetCurrentJam() (*model.Jam, error) {
	var jam model.Jam
	tx := s.db.Preload("Teams.Users").Preload("Teams").Where("ongoing = ?", true).First(&jam)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrNoOngoingJam
		}
		return nil, tx.Error
	}
	return &jam, nil
}

// CreateJam persists a new jam with its teams and memberships. Any
// previously ongoing jam is ended first so at most one jam is ongoing.
func (s *JamsStore) CreateJam(jam *model.Jam) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if jam.Ongoing {
			if err := tx.Model(&model.Jam{}).Where("ongoing = ?", true).Update("ongoing", false).Error; err != nil {
				return err
			}
		}

		// Users referenced by memberships must exist first.
		for _, team := range jam.Teams {
			for _, member := range team.Users {
				user := model.User{ID: member.UserID}
				if err := tx.Where(user).FirstOrCreate(&user).Error; err != nil {
					return err
				}
			}
		}

		return tx.Create(jam).Error
	})
}

// UpdateJam changes a jam's name and/or ongoing flag.
func (s *JamsStore) UpdateJam(jamID uint, name *string, ongoing *bool) (*model.Jam, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var jam model.Jam
		if err := tx.First(&jam, jamID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return store.ErrJamNotFound
			}
			return err
		}

		updates := map[string]interface{}{}
		if name != nil {
			updates["name"] = *name
		}
		if ongoing != nil {
			updates["ongoing"] = *ongoing
			if *ongoing {
				if err := tx.Model(&model.Jam{}).
					Where("ongoing = ? AND id <> ?", true, jamID).
					Update("ongoing", false).Error; err != nil {
					return err
				}
			}
		}
		if len(updates) == 0 {
			return nil
		}

		return tx.Model(&model.Jam{}).Where("id = ?", jamID).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	return s.GetJam(jamID)
}

// EndJam marks a jam as no longer ongoing.
func (s *JamsStore) EndJam(jamID uint) error {
	tx := s.db.Model(&model.Jam{}).Where("id = ?", jamID).Update("ongoing", false)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrJamNotFound
	}
	return nil
}
