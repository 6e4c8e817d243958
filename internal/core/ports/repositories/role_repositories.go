package repositories

import (
	"context"

	"github.com/SscSPs/church_finance_app/internal/core/domain"
)

// RoleRepository reads and writes (user, church, role) assignments.
type RoleRepository interface {
	// ListUserRoles returns every role the user holds in the church.
	ListUserRoles(ctx context.Context, userID, churchID string) ([]domain.Role, error)

	// AssignRole grants a role; assigning an existing role is a no-op.
	AssignRole(ctx context.Context, assignment domain.RoleAssignment) error
}
