package models

import "time"

// Post is a forum entry: a general discussion post, a complaint or an
// application form, discriminated by PostType.
type Post struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	AuthorID  string    `json:"author_id" gorm:"index;type:varchar(36);not null" validate:"required"`
	FactionID *string   `json:"faction_id" gorm:"index;type:varchar(36)"`
	Title     string    `json:"title" gorm:"type:varchar(255);not null" validate:"required"`
	Content   string    `json:"content" gorm:"type:text;not null" validate:"required"`
	PostType  string    `json:"post_type" gorm:"type:varchar(50);default:'general'"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostView is a Post joined with its author and faction names for listing.
type PostView struct {
	ID             string    `json:"id"`
	AuthorID       string    `json:"author_id"`
	AuthorUsername string    `json:"author_username"`
	FactionID      *string   `json:"faction_id"`
	FactionName    *string   `json:"faction_name"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	PostType       string    `json:"post_type"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
