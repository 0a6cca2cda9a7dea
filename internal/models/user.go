package models

import "time"

// Roles. Card owners hold "owner"; "admin" additionally unlocks the
// user-administration endpoints.
const (
	RoleOwner = "owner"
	RoleAdmin = "admin"
)

// User is the authentication principal. Cards reference users by
// username, which is what ends up inside token claims.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
