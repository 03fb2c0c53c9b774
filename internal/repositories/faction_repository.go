package repositories

import "garrison/internal/models"

// FactionRepository defines the interface for faction data access. There is
// no existence pre-check: faction names carry no unique constraint, so a
// duplicate create is accepted by the store.
type FactionRepository interface {
	Create(faction *models.Faction) error
	GetAll() ([]models.Faction, error)
	UpdateFields(id string, fields map[string]interface{}) error
}
