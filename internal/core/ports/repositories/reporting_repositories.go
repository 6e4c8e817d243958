package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/church_finance_app/internal/core/domain"
)

// ReportingRepository defines aggregate queries over paid transactions.
type ReportingRepository interface {
	// GetTotalsByCategory aggregates paid transactions with a payment date in [from, to].
	GetTotalsByCategory(ctx context.Context, churchID string, from, to time.Time) ([]domain.GroupAmount, error)

	// GetTotalsByMinistry aggregates paid transactions with a payment date in [from, to].
	GetTotalsByMinistry(ctx context.Context, churchID string, from, to time.Time) ([]domain.GroupAmount, error)
}
