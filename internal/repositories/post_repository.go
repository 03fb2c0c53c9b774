package repositories

import "garrison/internal/models"

// PostRepository defines the interface for forum post data access.
type PostRepository interface {
	Create(post *models.Post) error
	GetAll(postType string) ([]models.PostView, error)
}

// StatisticRepository defines the interface for key/value statistics.
type StatisticRepository interface {
	GetAll() ([]models.Statistic, error)
	Upsert(stat *models.Statistic) error
}
