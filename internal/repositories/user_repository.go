package repositories

import "garrison/internal/models"

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByUsername(username string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	ExistsByUsername(username string) (bool, error)
	GetAll() ([]models.User, error)
	UpdateFields(id string, fields map[string]interface{}) error
}
