package repositories

import "garrison/internal/models"

// SessionRepository defines the interface for session token persistence.
type SessionRepository interface {
	Create(session *models.Session) error
	GetByToken(token string) (*models.Session, error)
}
