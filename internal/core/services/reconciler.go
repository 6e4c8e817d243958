package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/church_finance_app/internal/apperrors"
	"github.com/SscSPs/church_finance_app/internal/cache"
	"github.com/SscSPs/church_finance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/church_finance_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/church_finance_app/internal/core/ports/services"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	defaultLatchCapacity = 10000
	defaultLatchTTL      = 24 * time.Hour
)

// Reconciler runs the batch Pendente -> Vencido sweep, automatically at most
// once per (session, church).
type Reconciler struct {
	BaseService
	sweeper     portsrepo.OverdueSweeper
	calendar    Calendar
	invalidator cache.Invalidator

	mu      sync.Mutex
	latches *expirable.LRU[string, struct{}]
	wg      sync.WaitGroup
}

// NewReconciler creates a reconciler. Latches live for sessionTTL, which
// should match the session token lifetime.
func NewReconciler(sweeper portsrepo.OverdueSweeper, calendar Calendar, invalidator cache.Invalidator, sessionTTL time.Duration) *Reconciler {
	if sessionTTL <= 0 {
		sessionTTL = defaultLatchTTL
	}
	return &Reconciler{
		sweeper:     sweeper,
		calendar:    calendar,
		invalidator: invalidator,
		latches:     expirable.NewLRU[string, struct{}](defaultLatchCapacity, nil, sessionTTL),
	}
}

var _ portssvc.ReconcilerSvc = (*Reconciler)(nil)

// EnsureSwept claims the (session, church) latch and, if this call won it,
// starts the sweep in the background. The latch is set before the sweep is
// issued, so concurrent callers never double-invoke it, and it is not
// released on failure. Without a church nothing is claimed.
func (r *Reconciler) EnsureSwept(ctx context.Context, identity *domain.Identity, churchID string) bool {
	if churchID == "" || identity.IsAnonymous() {
		return false
	}
	key := identity.SessionID + "|" + churchID

	r.mu.Lock()
	if r.latches.Contains(key) {
		r.mu.Unlock()
		return false
	}
	r.latches.Add(key, struct{}{})
	r.mu.Unlock()

	sweepCtx := context.WithoutCancel(ctx)
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if _, err := r.Reconcile(sweepCtx, churchID); err != nil {
			r.LogError(sweepCtx, err, "Overdue sweep failed", slog.String("church_id", churchID))
		}
	}()
	return true
}

// Reconcile runs the sweep now. When rows changed, every transaction-derived
// query of the church is invalidated.
func (r *Reconciler) Reconcile(ctx context.Context, churchID string) (int64, error) {
	if churchID == "" {
		return 0, apperrors.NewValidationFailedError("church ID is required")
	}
	today, err := r.calendar.Today(ctx, churchID)
	if err != nil {
		return 0, err
	}

	updated, err := r.sweeper.MarkOverdueTransactions(ctx, churchID, today)
	if err != nil {
		return 0, fmt.Errorf("failed to mark overdue transactions: %w", err)
	}

	if updated > 0 {
		r.invalidator.Invalidate(churchID, domain.TransactionQueryKeys...)
		r.LogInfo(ctx, "Overdue sweep transitioned transactions",
			slog.String("church_id", churchID),
			slog.Int64("updated_count", updated))
	}
	return updated, nil
}

// Wait blocks until background sweeps started so far have finished.
func (r *Reconciler) Wait() {
	r.wg.Wait()
}
