package services

import (
	"errors"
	"strings"

	"garrison/internal/models"
	"garrison/internal/repositories"
)

// Forum validation errors.
var (
	ErrMissingPostFields = errors.New("author, title and content required")
	ErrMissingStatFields = errors.New("key and value required")
)

// ForumService handles forum posts and the site statistics counters.
type ForumService struct {
	postRepo repositories.PostRepository
	statRepo repositories.StatisticRepository
}

// NewForumService creates a new ForumService.
func NewForumService(postRepo repositories.PostRepository, statRepo repositories.StatisticRepository) *ForumService {
	return &ForumService{
		postRepo: postRepo,
		statRepo: statRepo,
	}
}

// ListPosts retrieves posts, optionally filtered by type. "all" or "" means
// no filter.
func (s *ForumService) ListPosts(postType string) ([]models.PostView, error) {
	return s.postRepo.GetAll(postType)
}

// CreatePost creates a forum post. PostType defaults to "general".
func (s *ForumService) CreatePost(authorID, title, content, postType string, factionID *string) (*models.Post, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if authorID == "" || title == "" || content == "" {
		return nil, ErrMissingPostFields
	}
	if postType == "" {
		postType = "general"
	}

	post := &models.Post{
		AuthorID:  authorID,
		FactionID: factionID,
		Title:     title,
		Content:   content,
		PostType:  postType,
	}
	if err := s.postRepo.Create(post); err != nil {
		return nil, err
	}
	return post, nil
}

// GetStatistics retrieves every statistic counter.
func (s *ForumService) GetStatistics() ([]models.Statistic, error) {
	return s.statRepo.GetAll()
}

// SetStatistic upserts a statistic counter by key.
func (s *ForumService) SetStatistic(key, value string) error {
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)
	if key == "" || value == "" {
		return ErrMissingStatFields
	}
	return s.statRepo.Upsert(&models.Statistic{Key: key, Value: value})
}
