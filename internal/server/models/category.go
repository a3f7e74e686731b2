package models

import "time"

// Category groups todos. Slug is unique per owner.
type Category struct {
	ID        string
	Name      string
	Slug      string
	UserID    string
	CreatedAt time.Time
}
