package model

//go:generate go run github.com/dmarkham/enumer -type InfractionType -trimprefix InfractionType -transform lower -json -sql -output infraction_type.gen.go

// InfractionType classifies an infraction raised against a participant.
type InfractionType int

const (
	InfractionTypeNote InfractionType = iota
	InfractionTypeWarning
	InfractionTypeBan
)

// Infraction is a moderation record against a jam participant.
type Infraction struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	UserID         int64          `json:"user_id"`
	JamID          uint           `json:"jam_id"`
	Reason         string         `json:"reason"`
	InfractionType InfractionType `gorm:"type:text" json:"infraction_type"`
}
