// Package services contains server-side business logic: category and todo
// management scoped by owner, the identity-gated facade in front of them
// and account operations (sign-in, token refresh, profile).
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/google/uuid"
)

// storageError passes domain errors through and classifies everything else
// as common.ErrStorage, keeping the cause in the chain for logging.
func storageError(err error) error {
	if err == nil {
		return nil
	}
	for _, known := range []error{
		common.ErrValidation,
		common.ErrConflict,
		common.ErrorNotFound,
		common.ErrorUnauthorized,
		common.ErrStorage,
		common.ErrInvalidToken,
		common.ErrRefreshTokenExpired,
		common.ErrRateLimited,
	} {
		if errors.Is(err, known) {
			return err
		}
	}
	return fmt.Errorf("%w: %w", common.ErrStorage, err)
}

func requireOwner(ownerID string) error {
	if strings.TrimSpace(ownerID) == "" {
		return common.NewValidationError("user_id", "user id is required")
	}
	return nil
}

func requireField(field, value string) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", common.NewValidationError(field, field+" is required")
	}
	return v, nil
}

// isID reports whether s can be a primary key. Anything else cannot match
// a row, so callers answer NotFound without a round trip.
func isID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// uniqueIDs drops duplicates and keeps the first-seen order. UUIDs are
// compared in canonical form, so case and brace variants of one id collapse.
func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if u, err := uuid.Parse(id); err == nil {
			id = u.String()
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
