// Package refreshtokens declares the server-side repository contract for
// refresh tokens issued at sign-in.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/server/models"
)

// Repository issues, looks up and revokes refresh tokens.
type Repository interface {
	// Create stores a new refresh token for userID with an expiry of now+validity.
	Create(ctx context.Context, userID string, token string, validity time.Duration) error

	// Find returns common.ErrorNotFound when the token is absent.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Delete revokes a token. It returns common.ErrorNotFound when nothing was
	// deleted, so two concurrent rotations of one token cannot both succeed.
	Delete(ctx context.Context, token string) error
}
