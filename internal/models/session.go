package models

import "time"

// Session stores an issued login token so the admin gate can resolve the
// caller on later requests. Tokens are opaque random strings; nothing about
// the user is derivable from the token itself.
type Session struct {
	Token     string    `json:"-" gorm:"primaryKey;type:varchar(64)"`
	UserID    string    `json:"-" gorm:"index;type:varchar(36);not null"`
	ExpiresAt time.Time `json:"-" gorm:"index;not null"`
	CreatedAt time.Time `json:"-"`
}
