package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/church_finance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/church_finance_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	uncategorizedName = "Sem categoria"
	noMinistryName    = "Sem ministério"
)

// reportingRepository implements the ReportingRepository interface
type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository
func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.ReportingRepository = (*reportingRepository)(nil)

// GetTotalsByCategory aggregates paid revenue and expense per category.
func (r *reportingRepository) GetTotalsByCategory(ctx context.Context, churchID string, from, to time.Time) ([]domain.GroupAmount, error) {
	query := `
		SELECT
			COALESCE(c.category_id::text, '') AS group_id,
			COALESCE(c.name, $4) AS group_name,
			COALESCE(SUM(t.amount) FILTER (WHERE t.type = 'Receita'), 0) AS revenue,
			COALESCE(SUM(t.amount) FILTER (WHERE t.type = 'Despesa'), 0) AS expense
		FROM transactions t
		LEFT JOIN categories c ON c.category_id = t.category_id AND c.church_id = t.church_id
		WHERE t.church_id = $1
			AND t.status = 'Pago'
			AND t.payment_date BETWEEN $2 AND $3
		GROUP BY c.category_id, c.name
		ORDER BY group_name
	`
	return r.groupTotals(ctx, "category", query, churchID, from, to, uncategorizedName)
}

// GetTotalsByMinistry aggregates paid revenue and expense per ministry.
func (r *reportingRepository) GetTotalsByMinistry(ctx context.Context, churchID string, from, to time.Time) ([]domain.GroupAmount, error) {
	query := `
		SELECT
			COALESCE(m.ministry_id::text, '') AS group_id,
			COALESCE(m.name, $4) AS group_name,
			COALESCE(SUM(t.amount) FILTER (WHERE t.type = 'Receita'), 0) AS revenue,
			COALESCE(SUM(t.amount) FILTER (WHERE t.type = 'Despesa'), 0) AS expense
		FROM transactions t
		LEFT JOIN ministries m ON m.ministry_id = t.ministry_id AND m.church_id = t.church_id
		WHERE t.church_id = $1
			AND t.status = 'Pago'
			AND t.payment_date BETWEEN $2 AND $3
		GROUP BY m.ministry_id, m.name
		ORDER BY group_name
	`
	return r.groupTotals(ctx, "ministry", query, churchID, from, to, noMinistryName)
}

func (r *reportingRepository) groupTotals(ctx context.Context, grouping, query, churchID string, from, to time.Time, unassigned string) ([]domain.GroupAmount, error) {
	rows, err := r.Pool.Query(ctx, query, churchID, domain.NormalizeDate(from), domain.NormalizeDate(to), unassigned)
	if err != nil {
		return nil, fmt.Errorf("error querying totals by %s: %w", grouping, err)
	}
	defer rows.Close()

	result := []domain.GroupAmount{}
	for rows.Next() {
		var row domain.GroupAmount
		if err := rows.Scan(&row.GroupID, &row.Name, &row.Revenue, &row.Expense); err != nil {
			return nil, fmt.Errorf("error scanning %s totals row: %w", grouping, err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s totals rows: %w", grouping, err)
	}
	return result, nil
}
