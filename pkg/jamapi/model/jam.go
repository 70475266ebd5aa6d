package model

// Jam is a single code jam event.
type Jam struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `json:"name"`
	Ongoing bool   `json:"ongoing"`
	Teams   []Team `gorm:"foreignKey:JamID" json:"teams"`
}
