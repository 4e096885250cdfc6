package service

import (
	"context"

	"shop-service/internal/models"

	"github.com/google/uuid"
)

type ctxKey string

const ctxIdentityKey ctxKey = "identity"

func WithIdentity(ctx context.Context, id AuthIdentity) context.Context {
	return context.WithValue(ctx, ctxIdentityKey, id)
}

func IdentityFromContext(ctx context.Context) (AuthIdentity, bool) {
	v, ok := ctx.Value(ctxIdentityKey).(AuthIdentity)
	return v, ok
}

func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := IdentityFromContext(ctx)
	return id.ID, ok
}

func RoleFromContext(ctx context.Context) (models.Role, bool) {
	id, ok := IdentityFromContext(ctx)
	return id.Role, ok
}

func requireAuth(ctx context.Context) (AuthIdentity, error) {
	id, ok := IdentityFromContext(ctx)
	if !ok || id.ID == uuid.Nil {
		return AuthIdentity{}, ErrUnauthorized
	}
	return id, nil
}
