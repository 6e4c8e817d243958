package services

import (
	"context"

	"github.com/SscSPs/church_finance_app/internal/core/domain"
)

// DefaultDueAlertDays is the due-soon lookahead when the caller gives none.
const DefaultDueAlertDays = 7

// OverdueSvc derives overdue and due-soon sets from stored due dates.
// A missing church ID yields an empty result, not an error.
type OverdueSvc interface {
	// ListOverdue returns Vencido rows and Pendente rows past their due date,
	// oldest due date first.
	ListOverdue(ctx context.Context, churchID string) ([]domain.OverdueTransaction, error)

	// ListDueSoon returns Pendente rows due within [today, today+days].
	ListDueSoon(ctx context.Context, churchID string, days int) ([]domain.DueTransaction, error)

	// ListDueToday returns Pendente rows due today, largest amount first.
	ListDueToday(ctx context.Context, churchID string) ([]domain.DueTransaction, error)
}

// ReconcilerSvc runs the batch Pendente -> Vencido transition.
type ReconcilerSvc interface {
	// EnsureSwept fires the sweep at most once per (session, church). It
	// returns true when this call claimed the latch. The sweep itself runs in
	// the background and its errors are only logged.
	EnsureSwept(ctx context.Context, identity *domain.Identity, churchID string) bool

	// Reconcile runs the sweep synchronously and reports the updated row count.
	Reconcile(ctx context.Context, churchID string) (int64, error)
}
