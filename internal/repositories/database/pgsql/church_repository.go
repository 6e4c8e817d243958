package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/church_finance_app/internal/apperrors"
	"github.com/SscSPs/church_finance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/church_finance_app/internal/core/ports/repositories"
	"github.com/SscSPs/church_finance_app/internal/models"
	"github.com/SscSPs/church_finance_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxChurchRepository struct {
	BaseRepository
}

// newPgxChurchRepository creates a new repository for church data.
func newPgxChurchRepository(pool *pgxpool.Pool) portsrepo.ChurchRepository {
	return &PgxChurchRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ChurchRepository = (*PgxChurchRepository)(nil)

func (r *PgxChurchRepository) FindChurchByID(ctx context.Context, churchID string) (*domain.Church, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT church_id, name, timezone, created_at, created_by, last_updated_at, last_updated_by
		FROM churches
		WHERE church_id = $1;
	`, churchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query church %s: %w", churchID, err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Church])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("church not found")
		}
		return nil, fmt.Errorf("failed to collect church %s: %w", churchID, err)
	}
	church := mapping.ToDomainChurch(m)
	return &church, nil
}
