package models

import "time"

// User represents a member of the community.
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username     string    `json:"username" gorm:"uniqueIndex;type:varchar(100);not null" validate:"required,min=1,max=100"`
	Email        *string   `json:"email" gorm:"type:varchar(255)" validate:"omitempty,email"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255);not null"` // No json tag for security
	Role         string    `json:"role" gorm:"type:varchar(50);default:'user'"`
	Status       string    `json:"status" gorm:"type:varchar(100)"`
	IsAdmin      bool      `json:"is_admin" gorm:"default:false"`
	IsBanned     bool      `json:"is_banned" gorm:"default:false"`
	IsMuted      bool      `json:"is_muted" gorm:"default:false"`
	AvatarURL    string    `json:"avatar_url" gorm:"type:varchar(500)"`
	CreatedAt    time.Time `json:"created_at"`
}

// PublicUser is the projection of a User returned by the register and login
// endpoints. Moderation state beyond is_admin is deliberately omitted.
type PublicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	IsAdmin  bool   `json:"is_admin"`
}

// Public converts a full User row into its register/login projection.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Username: u.Username,
		Role:     u.Role,
		IsAdmin:  u.IsAdmin,
	}
}
