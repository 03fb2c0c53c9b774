package models

import "time"

// Statistic is a key/value counter shown on the public site (online players,
// faction counts and the like). Writes upsert on the key.
type Statistic struct {
	Key       string    `json:"key" gorm:"primaryKey;type:varchar(100)"`
	Value     string    `json:"value" gorm:"type:varchar(255);not null"`
	UpdatedAt time.Time `json:"updated_at"`
}
