package repositories

import (
	"fmt"

	"garrison/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMFactionRepository is a GORM implementation of FactionRepository.
type GORMFactionRepository struct {
	db *gorm.DB
}

// NewGORMFactionRepository creates a new instance of GORMFactionRepository.
func NewGORMFactionRepository(db *gorm.DB) *GORMFactionRepository {
	return &GORMFactionRepository{
		db: db,
	}
}

// Create inserts a new faction row.
func (r *GORMFactionRepository) Create(faction *models.Faction) error {
	if faction.ID == "" {
		faction.ID = uuid.New().String()
	}
	if err := r.db.Create(faction).Error; err != nil {
		return fmt.Errorf("failed to create faction: %w", err)
	}
	return nil
}

// GetAll retrieves every faction grouped by type, then name.
func (r *GORMFactionRepository) GetAll() ([]models.Faction, error) {
	var factions []models.Faction
	if err := r.db.Order("type, name").Find(&factions).Error; err != nil {
		return nil, fmt.Errorf("failed to get all factions: %w", err)
	}
	return factions, nil
}

// UpdateFields applies a single UPDATE statement setting exactly the given
// columns on one faction row.
func (r *GORMFactionRepository) UpdateFields(id string, fields map[string]interface{}) error {
	res := r.db.Model(&models.Faction{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("failed to update faction %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("faction with ID %s: %w", id, ErrNotFound)
	}
	return nil
}
