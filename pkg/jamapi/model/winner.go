package model

// Winner records a user who placed in a jam.
type Winner struct {
	JamID      uint  `gorm:"primaryKey" json:"jam_id"`
	UserID     int64 `gorm:"primaryKey" json:"user_id"`
	FirstPlace bool  `json:"first_place"`
}
