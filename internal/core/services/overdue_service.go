package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/SscSPs/church_finance_app/internal/cache"
	"github.com/SscSPs/church_finance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/church_finance_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/church_finance_app/internal/core/ports/services"
)

// overdueService derives overdue and due-soon sets from due dates. It does
// not rely on the sweep having run: Pendente rows past due count as overdue.
type overdueService struct {
	BaseService
	txnRepo  portsrepo.TransactionReader
	calendar Calendar
	cache    *cache.QueryCache
}

// OverdueServiceOption configures the overdue service.
type OverdueServiceOption func(*overdueService)

// WithOverdueCache serves reads through the query cache.
func WithOverdueCache(c *cache.QueryCache) OverdueServiceOption {
	return func(s *overdueService) {
		s.cache = c
	}
}

// NewOverdueService creates a new overdue service.
func NewOverdueService(txnRepo portsrepo.TransactionReader, calendar Calendar, opts ...OverdueServiceOption) portssvc.OverdueSvc {
	s := &overdueService{txnRepo: txnRepo, calendar: calendar}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.OverdueSvc = (*overdueService)(nil)

func dayVariant(today time.Time, extra ...string) string {
	v := today.Format(domain.DateLayout)
	for _, e := range extra {
		v += "|" + e
	}
	return v
}

func (s *overdueService) ListOverdue(ctx context.Context, churchID string) ([]domain.OverdueTransaction, error) {
	if churchID == "" {
		return []domain.OverdueTransaction{}, nil
	}
	today, err := s.calendar.Today(ctx, churchID)
	if err != nil {
		return nil, err
	}

	return cache.Fetch(ctx, s.cache, churchID, domain.KeyOverdueTransactions, dayVariant(today),
		func(ctx context.Context) ([]domain.OverdueTransaction, error) {
			q := domain.NewTransactionQuery(churchID).
				Filter(domain.Or(
					domain.Eq(domain.FieldStatus, domain.StatusOverdue),
					domain.And(
						domain.Eq(domain.FieldStatus, domain.StatusPending),
						domain.Lt(domain.FieldDueDate, today),
					),
				)).
				Sort(domain.FieldDueDate, false)

			rows, err := s.txnRepo.QueryTransactions(ctx, q)
			if err != nil {
				return nil, fmt.Errorf("failed to query overdue transactions: %w", err)
			}
			out := make([]domain.OverdueTransaction, len(rows))
			for i, t := range rows {
				out[i] = domain.NewOverdueTransaction(t, today)
			}
			return out, nil
		})
}

func (s *overdueService) ListDueSoon(ctx context.Context, churchID string, days int) ([]domain.DueTransaction, error) {
	if churchID == "" {
		return []domain.DueTransaction{}, nil
	}
	if days <= 0 {
		days = portssvc.DefaultDueAlertDays
	}
	today, err := s.calendar.Today(ctx, churchID)
	if err != nil {
		return nil, err
	}

	return cache.Fetch(ctx, s.cache, churchID, domain.KeyDueTransactionAlerts, dayVariant(today, strconv.Itoa(days)),
		func(ctx context.Context) ([]domain.DueTransaction, error) {
			q := domain.NewTransactionQuery(churchID).
				Filter(
					domain.Eq(domain.FieldStatus, domain.StatusPending),
					domain.Gte(domain.FieldDueDate, today),
					domain.Lte(domain.FieldDueDate, domain.AddDays(today, days)),
				).
				Sort(domain.FieldDueDate, false)

			rows, err := s.txnRepo.QueryTransactions(ctx, q)
			if err != nil {
				return nil, fmt.Errorf("failed to query due transactions: %w", err)
			}
			return annotateDue(rows, today), nil
		})
}

func (s *overdueService) ListDueToday(ctx context.Context, churchID string) ([]domain.DueTransaction, error) {
	if churchID == "" {
		return []domain.DueTransaction{}, nil
	}
	today, err := s.calendar.Today(ctx, churchID)
	if err != nil {
		return nil, err
	}

	return cache.Fetch(ctx, s.cache, churchID, domain.KeyTodaysDueTransactions, dayVariant(today),
		func(ctx context.Context) ([]domain.DueTransaction, error) {
			q := domain.NewTransactionQuery(churchID).
				Filter(
					domain.Eq(domain.FieldStatus, domain.StatusPending),
					domain.Eq(domain.FieldDueDate, today),
				).
				Sort(domain.FieldAmount, true)

			rows, err := s.txnRepo.QueryTransactions(ctx, q)
			if err != nil {
				return nil, fmt.Errorf("failed to query transactions due today: %w", err)
			}
			return annotateDue(rows, today), nil
		})
}

func annotateDue(rows []domain.Transaction, today time.Time) []domain.DueTransaction {
	out := make([]domain.DueTransaction, len(rows))
	for i, t := range rows {
		out[i] = domain.NewDueTransaction(t, today)
	}
	return out
}
