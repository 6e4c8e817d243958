package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/church_finance_app/internal/apperrors"
	"github.com/SscSPs/church_finance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/church_finance_app/internal/core/ports/repositories"
)

// overdueSweepActor matches last_updated_by of update_overdue_transactions().
const overdueSweepActor = "system:overdue-sweep"

type transactionRepository struct {
	store *Store
}

var _ portsrepo.TransactionRepositoryFacade = (*transactionRepository)(nil)

func (r *transactionRepository) QueryTransactions(_ context.Context, q *domain.TransactionQuery) ([]domain.Transaction, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	r.store.mu.RLock()
	out := make([]domain.Transaction, 0)
	for _, t := range r.store.transactions {
		if q.Matches(t) {
			out = append(out, t)
		}
	}
	r.store.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		for _, o := range q.OrderBy {
			c := domain.CompareByField(out[i], out[j], o.Field)
			if o.Desc {
				_, iok := domain.FieldValue(out[i], o.Field)
				_, jok := domain.FieldValue(out[j], o.Field)
				if iok && jok {
					c = -c
				}
			}
			if c != 0 {
				return c < 0
			}
		}
		return out[i].TransactionID > out[j].TransactionID
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (r *transactionRepository) FindTransactionByID(_ context.Context, churchID, transactionID string) (*domain.Transaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	t, ok := r.store.transactions[transactionID]
	if !ok || t.ChurchID != churchID {
		return nil, apperrors.NewNotFoundError("transaction not found")
	}
	return &t, nil
}

func (r *transactionRepository) SaveTransaction(_ context.Context, txn domain.Transaction) error {
	if txn.ChurchID == "" {
		return apperrors.NewValidationFailedError("church ID is required")
	}
	r.store.mu.Lock()
	if _, exists := r.store.transactions[txn.TransactionID]; exists {
		r.store.mu.Unlock()
		return fmt.Errorf("%w: transaction %s already exists", apperrors.ErrConflict, txn.TransactionID)
	}
	if txn.Version == 0 {
		txn.Version = 1
	}
	r.store.transactions[txn.TransactionID] = txn
	r.store.mu.Unlock()

	r.store.feed.publish(changeOf(domain.EventInsert, txn))
	return nil
}

func (r *transactionRepository) UpdateTransaction(_ context.Context, txn domain.Transaction) error {
	r.store.mu.Lock()
	stored, ok := r.store.transactions[txn.TransactionID]
	if !ok || stored.ChurchID != txn.ChurchID {
		r.store.mu.Unlock()
		return apperrors.NewNotFoundError("transaction not found")
	}
	if stored.Version != txn.Version {
		r.store.mu.Unlock()
		return fmt.Errorf("%w: transaction %s changed since version %d", apperrors.ErrConflict, txn.TransactionID, txn.Version)
	}
	txn.CreatedAt, txn.CreatedBy = stored.CreatedAt, stored.CreatedBy
	txn.InstallmentGroup, txn.InstallmentNumber, txn.InstallmentTotal = stored.InstallmentGroup, stored.InstallmentNumber, stored.InstallmentTotal
	txn.Version = stored.Version + 1
	r.store.transactions[txn.TransactionID] = txn
	r.store.mu.Unlock()

	r.store.feed.publish(changeOf(domain.EventUpdate, txn))
	return nil
}

func (r *transactionRepository) DeleteTransaction(_ context.Context, churchID, transactionID string) error {
	r.store.mu.Lock()
	stored, ok := r.store.transactions[transactionID]
	if !ok || stored.ChurchID != churchID {
		r.store.mu.Unlock()
		return apperrors.NewNotFoundError("transaction not found")
	}
	delete(r.store.transactions, transactionID)
	r.store.mu.Unlock()

	r.store.feed.publish(changeOf(domain.EventDelete, stored))
	return nil
}

func (r *transactionRepository) MarkOverdueTransactions(_ context.Context, churchID string, today time.Time) (int64, error) {
	if churchID == "" {
		return 0, apperrors.NewValidationFailedError("church ID is required")
	}
	today = domain.NormalizeDate(today)
	now := time.Now().UTC()

	r.store.mu.Lock()
	var changed []domain.Transaction
	for id, t := range r.store.transactions {
		if t.ChurchID != churchID || t.Status != domain.StatusPending || t.DueDate == nil {
			continue
		}
		if !domain.NormalizeDate(*t.DueDate).Before(today) {
			continue
		}
		t.Status = domain.StatusOverdue
		t.Version++
		t.LastUpdatedAt = now
		t.LastUpdatedBy = overdueSweepActor
		r.store.transactions[id] = t
		changed = append(changed, t)
	}
	r.store.mu.Unlock()

	for _, t := range changed {
		r.store.feed.publish(changeOf(domain.EventUpdate, t))
	}
	return int64(len(changed)), nil
}

func changeOf(kind domain.ChangeEventType, t domain.Transaction) domain.ChangeEvent {
	return domain.ChangeEvent{
		EventType:     kind,
		Table:         domain.TransactionsTable,
		ChurchID:      t.ChurchID,
		TransactionID: t.TransactionID,
		At:            time.Now().UTC(),
	}
}
