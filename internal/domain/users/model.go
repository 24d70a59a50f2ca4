package users

import (
	"time"
)

// Roles recognized by the authorization gate.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `json:"name"`
	Email    string `gorm:"not null;uniqueIndex:idx_users_email" json:"email"`
	Password string `json:"-"`
	Role     string `gorm:"not null;default:'viewer'" json:"role"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
