package services

import (
	"context"

	"github.com/SscSPs/church_finance_app/internal/core/domain"
	"github.com/SscSPs/church_finance_app/internal/dto"
)

// TransactionReaderSvc defines the cached read side of transactions.
type TransactionReaderSvc interface {
	// GetTransaction retrieves a single transaction of a church.
	GetTransaction(ctx context.Context, churchID, transactionID string) (*domain.Transaction, error)

	// ListRecentTransactions returns the latest transactions of a church.
	ListRecentTransactions(ctx context.Context, churchID string, limit int) ([]domain.Transaction, error)

	// ListFilteredTransactions applies the filter screen parameters with token pagination.
	ListFilteredTransactions(ctx context.Context, churchID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)

	// GetTransactionStats computes the dashboard cards.
	GetTransactionStats(ctx context.Context, churchID string) (*domain.TransactionStats, error)

	// GetInstallmentStats summarizes parcelled transactions per installment group.
	GetInstallmentStats(ctx context.Context, churchID string) ([]domain.InstallmentGroupStats, error)
}

// TransactionWriterSvc defines mutations. Writes never touch the query cache;
// the change feed reports them.
type TransactionWriterSvc interface {
	CreateTransaction(ctx context.Context, churchID string, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error)
	UpdateTransaction(ctx context.Context, churchID, transactionID string, req dto.UpdateTransactionRequest, userID string) (*domain.Transaction, error)
	MarkTransactionPaid(ctx context.Context, churchID, transactionID string, req dto.MarkPaidRequest, userID string) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, churchID, transactionID string, userID string) error
}

// TransactionSvcFacade combines all transaction-related service interfaces
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
}
