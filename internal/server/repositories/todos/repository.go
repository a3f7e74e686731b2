// Package todos declares and implements persistence for todos and their
// category links. Every method is scoped by the owning user id.
package todos

import (
	"context"

	"github.com/dmitrijs2005/todokeeper/internal/server/models"
)

type Repository interface {
	// Create inserts t and fills Completed and CreatedAt from the row.
	Create(ctx context.Context, t *models.Todo) error

	// UpdateTitle changes the title of (t.ID, t.UserID); common.ErrorNotFound
	// when the owner has no such todo.
	UpdateTitle(ctx context.Context, t *models.Todo) error

	// SetCompleted stores completed for (id, userID) and returns the row.
	SetCompleted(ctx context.Context, id, userID string, completed bool) (*models.Todo, error)

	// Delete removes (id, userID); common.ErrorNotFound when nothing matched.
	Delete(ctx context.Context, id, userID string) error

	// LinkCategories associates the todo with categoryIDs.
	LinkCategories(ctx context.Context, todoID string, categoryIDs []string) error

	// UnlinkAllCategories drops every category link of the todo.
	UnlinkAllCategories(ctx context.Context, todoID string) error

	// CountByCategory counts the owner's todos linked to categoryID.
	CountByCategory(ctx context.Context, userID, categoryID string) (int, error)

	// GetByID returns one owned todo with its categories.
	GetByID(ctx context.Context, id, userID string) (*models.Todo, error)

	// ListByUser returns the owner's todos with their categories, pending
	// before completed and newest first within each group. A non-empty
	// categoryFilter keeps todos linked to a category whose id or slug
	// equals it.
	ListByUser(ctx context.Context, userID, categoryFilter string) ([]*models.Todo, error)
}
