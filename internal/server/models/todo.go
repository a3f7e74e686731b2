package models

import "time"

// Todo is a single task. Categories is populated by list queries and holds
// the categories the todo is linked to, ordered by name.
type Todo struct {
	ID         string
	Title      string
	Completed  bool
	UserID     string
	CreatedAt  time.Time
	Categories []*Category
}
