// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an account that owns categories and todos. PasswordHash is empty
// for users authenticated by an external provider, in which case
// AuthProvider names that provider.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Image        string
	IsActive     bool
	Roles        []string
	AuthProvider string
	CreatedAt    time.Time
}

// IsExternal reports whether the user signs in through an external provider.
func (u *User) IsExternal() bool {
	return u.AuthProvider != ""
}
