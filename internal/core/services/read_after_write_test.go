package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/church_finance_app/internal/cache"
	"github.com/SscSPs/church_finance_app/internal/core/domain"
	"github.com/SscSPs/church_finance_app/internal/core/services"
	"github.com/SscSPs/church_finance_app/internal/dto"
	"github.com/SscSPs/church_finance_app/internal/realtime"
	"github.com/SscSPs/church_finance_app/internal/repositories/database/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// The change feed also invalidates on these writes, from its own goroutine;
// the writer's next read must not depend on that having happened yet.
func TestTransactionService_OwnWritesAreVisibleToTheNextRead(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositoryProvider(memory.NewStore())
	queryCache, err := cache.New(64)
	require.NoError(t, err)
	registry, err := realtime.NewRegistry(repos.ChangeFeed, queryCache, nil, 4, nil)
	require.NoError(t, err)
	defer registry.Close()
	require.NoError(t, registry.Watch(ctx, churchID))

	calendar := fixedCalendar{today: mustDate("2024-03-10")}
	txnSvc := services.NewTransactionService(repos.TransactionRepo, calendar, services.WithTransactionCache(queryCache))
	overdueSvc := services.NewOverdueService(repos.TransactionRepo, calendar, services.WithOverdueCache(queryCache))

	for i := 0; i < 50; i++ {
		before, err := txnSvc.ListRecentTransactions(ctx, churchID, 500)
		require.NoError(t, err)
		overdueBefore, err := overdueSvc.ListOverdue(ctx, churchID)
		require.NoError(t, err)

		created, err := txnSvc.CreateTransaction(ctx, churchID, dto.CreateTransactionRequest{
			Description: "Conta atrasada",
			Amount:      decimal.NewFromInt(15),
			Type:        string(domain.TypeExpense),
			DueDate:     strPtr("2024-03-01"),
		}, "user-1")
		require.NoError(t, err)

		after, err := txnSvc.ListRecentTransactions(ctx, churchID, 500)
		require.NoError(t, err)
		require.Len(t, after, len(before)+1, "list after create, iteration %d", i)
		overdueAfter, err := overdueSvc.ListOverdue(ctx, churchID)
		require.NoError(t, err)
		require.Len(t, overdueAfter, len(overdueBefore)+1, "overdue after create, iteration %d", i)

		_, err = txnSvc.MarkTransactionPaid(ctx, churchID, created.TransactionID, dto.MarkPaidRequest{}, "user-1")
		require.NoError(t, err)
		overduePaid, err := overdueSvc.ListOverdue(ctx, churchID)
		require.NoError(t, err)
		require.Len(t, overduePaid, len(overdueBefore), "overdue after payment, iteration %d", i)
	}
}
