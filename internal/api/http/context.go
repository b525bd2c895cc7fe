package http

import (
	"context"

	"unify-backend/internal/domain"
)

type identityKey struct{}

func withIdentity(ctx context.Context, id *domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the caller set by the auth middleware.
func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(*domain.Identity)
	if !ok || id == nil {
		return domain.Identity{}, false
	}
	return *id, true
}
