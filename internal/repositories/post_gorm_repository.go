package repositories

import (
	"fmt"
	"time"

	"garrison/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMPostRepository is a GORM implementation of PostRepository.
type GORMPostRepository struct {
	db *gorm.DB
}

// NewGORMPostRepository creates a new instance of GORMPostRepository.
func NewGORMPostRepository(db *gorm.DB) *GORMPostRepository {
	return &GORMPostRepository{
		db: db,
	}
}

// Create inserts a new forum post.
func (r *GORMPostRepository) Create(post *models.Post) error {
	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	if err := r.db.Create(post).Error; err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// GetAll retrieves posts with author and faction names resolved, newest
// first. postType "all" or "" returns everything, any other value filters.
func (r *GORMPostRepository) GetAll(postType string) ([]models.PostView, error) {
	query := r.db.Table("posts AS p").
		Select("p.id, p.author_id, u.username AS author_username, p.faction_id, f.name AS faction_name, p.title, p.content, p.post_type, p.created_at, p.updated_at").
		Joins("LEFT JOIN users u ON p.author_id = u.id").
		Joins("LEFT JOIN factions f ON p.faction_id = f.id").
		Order("p.created_at DESC")
	if postType != "" && postType != "all" {
		query = query.Where("p.post_type = ?", postType)
	}

	var posts []models.PostView
	if err := query.Scan(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to get posts: %w", err)
	}
	return posts, nil
}

// GORMStatisticRepository is a GORM implementation of StatisticRepository.
type GORMStatisticRepository struct {
	db *gorm.DB
}

// NewGORMStatisticRepository creates a new instance of GORMStatisticRepository.
func NewGORMStatisticRepository(db *gorm.DB) *GORMStatisticRepository {
	return &GORMStatisticRepository{
		db: db,
	}
}

// GetAll retrieves every statistic row.
func (r *GORMStatisticRepository) GetAll() ([]models.Statistic, error) {
	var stats []models.Statistic
	if err := r.db.Find(&stats).Error; err != nil {
		return nil, fmt.Errorf("failed to get statistics: %w", err)
	}
	return stats, nil
}

// Upsert inserts a statistic or, on key conflict, replaces its value and
// updated_at in a single statement.
func (r *GORMStatisticRepository) Upsert(stat *models.Statistic) error {
	stat.UpdatedAt = time.Now()
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(stat).Error
	if err != nil {
		return fmt.Errorf("failed to upsert statistic %s: %w", stat.Key, err)
	}
	return nil
}
