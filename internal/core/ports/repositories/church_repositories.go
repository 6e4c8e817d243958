package repositories

import (
	"context"

	"github.com/SscSPs/church_finance_app/internal/core/domain"
)

// ChurchRepository reads tenant records.
type ChurchRepository interface {
	FindChurchByID(ctx context.Context, churchID string) (*domain.Church, error)
}
