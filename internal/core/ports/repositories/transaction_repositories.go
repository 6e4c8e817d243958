package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/church_finance_app/internal/core/domain"
)

// TransactionReader defines tenant-scoped read operations for transaction data
type TransactionReader interface {
	// QueryTransactions runs a predicate-filtered select. The query's church ID
	// is always applied; an unscoped query is a validation error.
	QueryTransactions(ctx context.Context, q *domain.TransactionQuery) ([]domain.Transaction, error)

	// FindTransactionByID retrieves one transaction of a church.
	FindTransactionByID(ctx context.Context, churchID, transactionID string) (*domain.Transaction, error)
}

// TransactionWriter defines write operations for transaction data
type TransactionWriter interface {
	// SaveTransaction persists a new transaction.
	SaveTransaction(ctx context.Context, tx domain.Transaction) error

	// UpdateTransaction overwrites mutable fields using optimistic locking on Version.
	UpdateTransaction(ctx context.Context, tx domain.Transaction) error

	// DeleteTransaction removes a transaction of a church.
	DeleteTransaction(ctx context.Context, churchID, transactionID string) error
}

// OverdueSweeper is the batch reconciliation call.
type OverdueSweeper interface {
	// MarkOverdueTransactions transitions every Pendente row of the church whose
	// due date is before today into Vencido and reports how many rows changed.
	// It is idempotent.
	MarkOverdueTransactions(ctx context.Context, churchID string, today time.Time) (int64, error)
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
	OverdueSweeper
}
