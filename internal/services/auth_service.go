package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"garrison/internal/models"
	"garrison/internal/repositories"
	"garrison/internal/sessions"
)

// AuthService handles registration and login.
type AuthService struct {
	userRepo    repositories.UserRepository
	sessionRepo repositories.SessionRepository
	sessionTTL  time.Duration
}

// NewAuthService creates a new AuthService. sessionTTL bounds how long an
// issued token stays resolvable by the admin gate.
func NewAuthService(userRepo repositories.UserRepository, sessionRepo repositories.SessionRepository, sessionTTL time.Duration) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		sessionTTL:  sessionTTL,
	}
}

// Register creates a new user with a bcrypt-hashed password and mints a
// session token for them.
//
// The existence pre-check and the insert are not atomic. Two concurrent
// registrations of the same username can both pass the check; the unique
// index on username then rejects the second insert, which surfaces as an
// internal error rather than a conflict.
func (s *AuthService) Register(username, password, email string) (*models.User, string, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	email = strings.TrimSpace(email)

	if username == "" || password == "" {
		return nil, "", ErrMissingCredentials
	}

	exists, err := s.userRepo.ExistsByUsername(username)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check username availability: %w", err)
	}
	if exists {
		return nil, "", fmt.Errorf("username '%s': %w", username, ErrUsernameTaken)
	}

	passwordHash, err := HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		Username:     username,
		PasswordHash: passwordHash,
		Role:         "user",
	}
	if email != "" {
		user.Email = &email
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, "", fmt.Errorf("failed to register user: %w", err)
	}

	token, err := s.mintSession(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login authenticates a user and mints a fresh session token. A missing user
// and a wrong password both return ErrInvalidCredentials so the response
// does not reveal whether the username exists. Banned accounts are rejected
// before the password is checked.
func (s *AuthService) Login(username, password string) (*models.User, string, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)

	if username == "" || password == "" {
		return nil, "", ErrMissingCredentials
	}

	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}

	if user.IsBanned {
		return nil, "", ErrUserBanned
	}

	if !CheckPassword(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.mintSession(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) mintSession(userID string) (string, error) {
	token, err := sessions.Issue()
	if err != nil {
		return "", err
	}
	session := &models.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: time.Now().Add(s.sessionTTL),
	}
	if err := s.sessionRepo.Create(session); err != nil {
		return "", fmt.Errorf("failed to persist session: %w", err)
	}
	return token, nil
}
