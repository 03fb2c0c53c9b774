package models

import "time"

// Faction represents a named group players can belong to. Faction names are
// expected to be unique in practice but no constraint enforces it, so a
// duplicate create succeeds at the storage layer.
type Faction struct {
	ID              string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name            string    `json:"name" gorm:"index;type:varchar(100);not null" validate:"required,min=1,max=100"`
	Type            string    `json:"type" gorm:"type:varchar(50);default:'open'"`
	IsOpen          bool      `json:"is_open" gorm:"default:true"`
	GeneralUsername *string   `json:"general_username" gorm:"type:varchar(100)"`
	Description     string    `json:"description" gorm:"type:text"`
	CreatedAt       time.Time `json:"created_at"`
}
