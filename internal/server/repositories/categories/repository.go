// Package categories declares and implements persistence for user-owned
// categories. Every method is scoped by the owning user id.
package categories

import (
	"context"

	"github.com/dmitrijs2005/todokeeper/internal/server/models"
)

type Repository interface {
	// Create inserts c and sets CreatedAt. A duplicate (user_id, slug) surfaces
	// as a unique_violation from the database.
	Create(ctx context.Context, c *models.Category) error

	// Update renames the category identified by (c.ID, c.UserID). It returns
	// common.ErrorNotFound when no such row exists for that owner.
	Update(ctx context.Context, c *models.Category) error

	// Delete removes (id, userID); common.ErrorNotFound when nothing matched.
	Delete(ctx context.Context, id, userID string) error

	// ListByUser returns the owner's categories ordered by name.
	ListByUser(ctx context.Context, userID string) ([]*models.Category, error)

	// FindByIDOrSlug returns the first owned category whose id or slug equals
	// identifier, or common.ErrorNotFound.
	FindByIDOrSlug(ctx context.Context, identifier, userID string) (*models.Category, error)

	// SlugTaken reports whether userID already has a category with slug,
	// ignoring excludeID when it is not empty.
	SlugTaken(ctx context.Context, userID, slug, excludeID string) (bool, error)

	// CountOwned counts how many of ids belong to userID.
	CountOwned(ctx context.Context, userID string, ids []string) (int, error)
}
