package service

import (
	"shop-service/internal/models"

	"github.com/google/uuid"
)

// AuthIdentity is what the request context carries about the caller.
type AuthIdentity struct {
	ID       uuid.UUID
	Username string
	Email    string
	Role     models.Role
}

func ToAuthIdentity(a models.Account) AuthIdentity {
	return AuthIdentity{
		ID:       a.ID,
		Username: a.Username,
		Email:    a.Email,
		Role:     a.Role,
	}
}

// VisibleRoles returns the roles whose privilege is at or below caller's,
// most privileged first.
func VisibleRoles(caller models.Role) []models.Role {
	out := make([]models.Role, 0, len(models.Roles))
	for _, r := range models.Roles {
		if caller.AtLeast(r) {
			out = append(out, r)
		}
	}
	return out
}
