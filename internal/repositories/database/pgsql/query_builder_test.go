package pgsql

import (
	"testing"
	"time"

	"github.com/SscSPs/church_finance_app/internal/apperrors"
	"github.com/SscSPs/church_finance_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testChurch = "6f1c7a52-3f43-4c55-9c1e-0d9b1b5f2a10"

func TestBuildTransactionSelect_ChurchScopeComesFirst(t *testing.T) {
	today := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	q := domain.NewTransactionQuery(testChurch).
		Filter(domain.Or(
			domain.Eq(domain.FieldStatus, domain.StatusOverdue),
			domain.And(domain.Eq(domain.FieldStatus, domain.StatusPending), domain.Lt(domain.FieldDueDate, today)),
		)).
		Sort(domain.FieldDueDate, false)

	sql, args, err := buildTransactionSelect(q)

	require.NoError(t, err)
	assert.Contains(t, sql, "WHERE t.church_id = $1 AND (t.status = $2 OR (t.status = $3 AND t.due_date < $4))")
	assert.Contains(t, sql, "ORDER BY t.due_date ASC NULLS LAST, t.transaction_id DESC")
	assert.NotContains(t, sql, "LIMIT")
	assert.Equal(t, []any{testChurch, "Vencido", "Pendente", today}, args)
}

func TestBuildTransactionSelect_CursorAndLimit(t *testing.T) {
	createdAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	q := domain.NewTransactionQuery(testChurch).
		Filter(domain.IsNull(domain.FieldMinistryID), domain.NotNull(domain.FieldCategoryID)).
		Sort(domain.FieldCreatedAt, true)
	q.After = &domain.Cursor{CreatedAt: createdAt, TransactionID: "b3d1"}
	q.Limit = 20

	sql, args, err := buildTransactionSelect(q)

	require.NoError(t, err)
	assert.Contains(t, sql, "t.ministry_id IS NULL AND t.category_id IS NOT NULL")
	assert.Contains(t, sql, "(t.created_at, t.transaction_id) < ($2, $3)")
	assert.Contains(t, sql, "ORDER BY t.created_at DESC NULLS LAST, t.transaction_id DESC LIMIT $4")
	assert.Equal(t, []any{testChurch, createdAt, "b3d1", 20}, args)
}

func TestBuildTransactionSelect_RejectsUnscopedQuery(t *testing.T) {
	_, _, err := buildTransactionSelect(domain.NewTransactionQuery(""))
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, _, err = buildTransactionSelect(domain.NewTransactionQuery(testChurch).Filter(domain.Eq("password", "x")))
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestChannelForChurch(t *testing.T) {
	assert.Equal(t, "txn_6f1c7a523f434c559c1e0d9b1b5f2a10", channelForChurch(testChurch))
}
