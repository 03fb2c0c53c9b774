package services

import "errors"

// Sentinel errors surfaced to handlers, which translate them to HTTP status
// codes. ErrInvalidCredentials covers both "no such user" and "wrong
// password" so responses cannot be used to enumerate usernames.
var (
	ErrMissingCredentials = errors.New("username and password required")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserBanned         = errors.New("user is banned")
)
