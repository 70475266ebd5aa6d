package model

// Team is a code jam team, tied to the Discord role and channel that
// were created for it.
type Team struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	JamID            uint       `json:"jam_id"`
	Name             string     `json:"name"`
	DiscordRoleID    int64      `json:"discord_role_id"`
	DiscordChannelID int64      `json:"discord_channel_id"`
	Users            []TeamUser `gorm:"foreignKey:TeamID" json:"users"`
}

// TeamUser is a user's membership on a team.
type TeamUser struct {
	TeamID   uint  `gorm:"primaryKey" json:"-"`
	UserID   int64 `gorm:"primaryKey" json:"user_id"`
	IsLeader bool  `json:"is_leader"`
}

// TableName keeps the historical join table name.
func (TeamUser) TableName() string {
	return "team_has_user"
}
