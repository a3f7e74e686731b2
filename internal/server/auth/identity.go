package auth

import "context"

type ctxKey struct{}

// Resolver reports the verified user id of a request, if any.
type Resolver interface {
	CurrentUserID(ctx context.Context) (string, bool)
}

// WithUserID returns a context carrying a verified user id.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

// ContextResolver reads the user id placed by WithUserID.
type ContextResolver struct{}

func (ContextResolver) CurrentUserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
