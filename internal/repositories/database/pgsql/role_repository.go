package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/church_finance_app/internal/apperrors"
	"github.com/SscSPs/church_finance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/church_finance_app/internal/core/ports/repositories"
	"github.com/SscSPs/church_finance_app/internal/models"
	"github.com/SscSPs/church_finance_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxRoleRepository struct {
	BaseRepository
}

// newPgxRoleRepository creates a new repository for user roles in churches.
func newPgxRoleRepository(pool *pgxpool.Pool) portsrepo.RoleRepository {
	return &PgxRoleRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.RoleRepository = (*PgxRoleRepository)(nil)

func (r *PgxRoleRepository) ListUserRoles(ctx context.Context, userID, churchID string) ([]domain.Role, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT user_id, church_id, role
		FROM user_church_roles
		WHERE user_id = $1 AND church_id = $2;
	`, userID, churchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query roles of user %s: %w", userID, err)
	}
	assignments, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.UserChurchRole])
	if err != nil {
		return nil, fmt.Errorf("failed to collect role rows: %w", err)
	}
	return mapping.ToDomainRoles(assignments), nil
}

func (r *PgxRoleRepository) AssignRole(ctx context.Context, assignment domain.RoleAssignment) error {
	if !assignment.Role.IsValid() {
		return apperrors.NewValidationFailedError(fmt.Sprintf("unknown role %q", assignment.Role))
	}
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO user_church_roles (user_id, church_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, church_id, role) DO NOTHING;
	`, assignment.UserID, assignment.ChurchID, string(assignment.Role))
	if err != nil {
		if pgErrorCode(err) == pgForeignKeyViolation {
			return apperrors.NewNotFoundError("church not found")
		}
		return fmt.Errorf("failed to assign role %s to user %s: %w", assignment.Role, assignment.UserID, err)
	}
	return nil
}
