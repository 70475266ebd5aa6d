package model

// User is a jam participant, identified by their Discord ID.
type User struct {
	ID int64 `gorm:"primaryKey" json:"id"`
}
