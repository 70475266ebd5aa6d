package gorm

import (
	"errors"

	"gorm.io/gorm"

	"github.com/python-discord/sir-robin-go/pkg/jamapi/model"
	"github.com/python-discord/sir-robin-go/pkg/jamapi/store"
)

// Ensure TeamsStore implements store.TeamsStore
var _ store.TeamsStore = (*TeamsStore)(nil)

// TeamsStore implements store.TeamsStore using GORM
type TeamsStore struct {
	db *gorm.DB
}

// NewTeamsStore creates a new TeamsStore
func NewTeamsStore(db *gorm.DB) *TeamsStore {
	return &TeamsStore{db: db}
}

// ListTeams returns teams, optionally limited to the ongoing jam.
func (s *TeamsStore) ListTeams(currentJamOnly bool) ([]model.Team, error) {
	var teams []model.Team
	query := s.db.Preload("Users")
	if currentJamOnly {
		query = query.Joins("JOIN jams ON jams.id = teams.jam_id").Where("jams.ongoing = ?", true)
	}
	tx := query.Find(&teams)
	return teams, tx.Error
}

// GetTeam returns a single team with its members.
func (s *TeamsStore) GetTeam(teamID uint) (*model.Team, error) {
	var team model.Team
	tx := s.db.Preload("Users").First(&team, teamID)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrTeamNotFound
		}
		return nil, tx.Error
	}
	return &team, nil
}

// FindTeam looks a team up by name within a jam. Name matching is
// case-insensitive, matching how team names arrive from the CSV import.
func (s *TeamsStore) FindTeam(name string, jamID uint) (*model.Team, error) {
	var team model.Team
	tx := s.db.Preload("Users").
		Where("LOWER(name) = LOWER(?) AND jam_id = ?", name, jamID).
		First(&team)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrTeamNotFound
		}
		return nil, tx.Error
	}
	return &team, nil
}

// AddUser adds a user to a team.
func (s *TeamsStore) AddUser(teamID uint, userID int64, isLeader bool) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var team model.Team
		if err := tx.First(&team, teamID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return store.ErrTeamNotFound
			}
			return err
		}

		var existing model.TeamUser
		err := tx.Where("team_id = ? AND user_id = ?", teamID, userID).First(&existing).Error
		if err == nil {
			return store.ErrUserAlreadyOnTeam
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		user := model.User{ID: userID}
		if err := tx.Where(user).FirstOrCreate(&user).Error; err != nil {
			return err
		}

		return tx.Create(&model.TeamUser{
			TeamID:   teamID,
			UserID:   userID,
			IsLeader: isLeader,
		}).Error
	})
}

// RemoveUser removes a user from a team.
func (s *TeamsStore) RemoveUser(teamID uint, userID int64) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var team model.Team
		if err := tx.First(&team, teamID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return store.ErrTeamNotFound
			}
			return err
		}

		result := tx.Where("team_id = ? AND user_id = ?", teamID, userID).Delete(&model.TeamUser{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return store.ErrUserNotOnTeam
		}
		return nil
	})
}
