package middleware

import (
	"context"

	"github.com/angelmondragon/wishlist-backend/internal/auth"
)

type contextKey string

const ctxIdentity contextKey = "identity"

// IdentityFromContext returns the authenticated principal, if any.
func IdentityFromContext(ctx context.Context) (*auth.Identity, bool) {
	if ctx == nil {
		return nil, false
	}
	id, ok := ctx.Value(ctxIdentity).(*auth.Identity)
	return id, ok && id != nil
}

// WithIdentity injects the principal into the context.
func WithIdentity(ctx context.Context, id *auth.Identity) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxIdentity, id)
}
