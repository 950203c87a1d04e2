package middleware

import (
	"context"

	"ember_server/models"
)

type userContextKey struct{}

// WithUser attaches the resolved user record to the request context.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext returns the user attached by the session authenticator.
// Handlers behind the authenticator can rely on it being present and must
// not re-query the store for identity fields.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey{}).(*models.User)
	return user, ok
}
