package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/church_finance_app/internal/apperrors"
	"github.com/SscSPs/church_finance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/church_finance_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/church_finance_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// maxReportSpan keeps a single report from scanning a church's whole history.
const maxReportSpan = 366 * 24 * time.Hour

// reportingService implements the ReportingSvc interface
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
}

// NewReportingService creates a new reporting service
func NewReportingService(repo portsrepo.ReportingRepository) portssvc.ReportingSvc {
	return &reportingService{reportingRepo: repo}
}

var _ portssvc.ReportingSvc = (*reportingService)(nil)

// PeriodSummary reports paid revenue and expense in [from, to]. Totals are
// taken from the category breakdown, which covers every paid row once
// (uncategorized rows form their own line).
func (s *reportingService) PeriodSummary(ctx context.Context, churchID string, from, to time.Time) (*domain.PeriodSummary, error) {
	if churchID == "" {
		return nil, apperrors.NewValidationFailedError("church ID is required")
	}
	from, to = domain.NormalizeDate(from), domain.NormalizeDate(to)
	if to.Before(from) {
		return nil, apperrors.NewValidationFailedError("'to' date must not be before 'from' date")
	}
	if to.Sub(from) > maxReportSpan {
		return nil, apperrors.NewValidationFailedError("report period must not exceed one year")
	}

	byCategory, err := s.reportingRepo.GetTotalsByCategory(ctx, churchID, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve totals by category",
			slog.String("church_id", churchID),
			slog.String("from", from.Format(domain.DateLayout)),
			slog.String("to", to.Format(domain.DateLayout)))
		return nil, fmt.Errorf("failed to retrieve totals by category: %w", err)
	}

	byMinistry, err := s.reportingRepo.GetTotalsByMinistry(ctx, churchID, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve totals by ministry",
			slog.String("church_id", churchID))
		return nil, fmt.Errorf("failed to retrieve totals by ministry: %w", err)
	}

	totalRevenue := decimal.Zero
	totalExpense := decimal.Zero
	for _, g := range byCategory {
		totalRevenue = totalRevenue.Add(g.Revenue)
		totalExpense = totalExpense.Add(g.Expense)
	}

	summary := &domain.PeriodSummary{
		From:         from,
		To:           to,
		TotalRevenue: totalRevenue,
		TotalExpense: totalExpense,
		Balance:      totalRevenue.Sub(totalExpense),
		ByCategory:   byCategory,
		ByMinistry:   byMinistry,
	}

	s.LogInfo(ctx, "Period summary generated successfully",
		slog.String("church_id", churchID),
		slog.Int("categories", len(byCategory)),
		slog.Int("ministries", len(byMinistry)))
	return summary, nil
}
