// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Role is the platform-wide role of a user account.
type Role string

const (
	// RoleUser is the default role for every new account.
	RoleUser Role = "user"
	// RoleAdmin grants moderation rights over all content and users.
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a recognized role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents a user account in the Murmur application.
type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Username    string    `gorm:"uniqueIndex;size:30;not null" json:"username"`
	DisplayName string    `gorm:"size:60" json:"display_name"`
	Email       string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password    string    `gorm:"not null" json:"-"`
	Bio         string    `gorm:"size:500" json:"bio"`
	Role        Role      `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
