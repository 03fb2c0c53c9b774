package services

import (
	"fmt"
	"log"

	"garrison/internal/models"
	"garrison/internal/repositories"
	"garrison/internal/updates"
)

// UserService handles listing users and applying moderation updates.
type UserService struct {
	userRepo repositories.UserRepository
	events   EventPublisher
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repositories.UserRepository, events EventPublisher) *UserService {
	return &UserService{
		userRepo: userRepo,
		events:   events,
	}
}

// ListUsers retrieves every user, newest first.
func (s *UserService) ListUsers() ([]models.User, error) {
	return s.userRepo.GetAll()
}

// Moderate applies a partial update to a user, restricted to the moderation
// whitelist. Non-whitelisted keys in the request are dropped; if nothing
// remains, updates.ErrNoUpdates is returned and no write happens.
func (s *UserService) Moderate(userID string, requested map[string]interface{}) error {
	fields, err := updates.UserFields.Filter(requested)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdateFields(userID, fields); err != nil {
		return fmt.Errorf("failed to moderate user: %w", err)
	}

	s.publish("user.moderated", userID, fields)
	return nil
}

// publish emits a moderation event with the touched field names. Event
// delivery is best-effort: a broker failure is logged, not surfaced.
func (s *UserService) publish(event, userID string, fields map[string]interface{}) {
	if s.events == nil {
		return
	}
	changed := make([]string, 0, len(fields))
	for field := range fields {
		changed = append(changed, field)
	}
	err := s.events.Publish(event, map[string]interface{}{
		"user_id": userID,
		"fields":  changed,
	})
	if err != nil {
		log.Printf("Failed to publish %s event for user %s: %v", event, userID, err)
	}
}
