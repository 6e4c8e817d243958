package services

import (
	"context"
	"time"

	"github.com/SscSPs/church_finance_app/internal/core/domain"
)

// ReportingSvc defines operations for generating financial reports
type ReportingSvc interface {
	// PeriodSummary reports paid revenue and expense in [from, to] by category and ministry.
	PeriodSummary(ctx context.Context, churchID string, from, to time.Time) (*domain.PeriodSummary, error)
}
