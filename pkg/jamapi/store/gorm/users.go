package gorm

import (
	"errors"

	"gorm.io/gorm"

	"github.com/python-discord/sir-robin-go/pkg/jamapi/model"
	"github.com/python-discord/sir-robin-go/pkg/jamapi/store"
)

// Ensure UsersStore implements store.UsersStore
var _ store.UsersStore = (*UsersStore)(nil)

// UsersStore implements store.UsersStore using GORM
type UsersStore struct {
	db *gorm.DB
}

// NewUsersStore creates a new UsersStore
func NewUsersStore(db *gorm.DB) *UsersStore {
	return &UsersStore{db: db}
}

// ListUsers returns all known participants.
func (s *UsersStore) ListUsers() ([]model.User, error) {
	var users []model.User
	tx := s.db.Find(&users)
	return users, tx.Error
}

// GetUser returns a single participant.
func (s *UsersStore) GetUser(userID int64) (*model.User, error) {
	var user model.User
	tx := s.db.First(&user, userID)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrUserNotFound
		}
		return nil, tx.Error
	}
	return &user, nil
}

// GetCurrentTeam returns the user's team in the ongoing jam.
func (s *UsersStore) GetCurrentTeam(userID int64) (*model.Team, error) {
	var jam model.Jam
	if err := s.db.Where("ongoing = ?", true).First(&jam).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrNoOngoingJam
		}
		return nil, err
	}

	var team model.Team
	tx := s.db.Preload("Users").
		Joins("JOIN team_has_user ON team_has_user.team_id = teams.id").
		Where("team_has_user.user_id = ? AND teams.jam_id = ?", userID, jam.ID).
		First(&team)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrUserNotFound
		}
		return nil, tx.Error
	}
	return &team, nil
}
