package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/church_finance_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterLoader(calls *int, value string) func(context.Context) (string, error) {
	return func(context.Context) (string, error) {
		*calls++
		return value, nil
	}
}

func TestFetch_CachesUntilInvalidated(t *testing.T) {
	c, err := New(16)
	require.NoError(t, err)
	ctx := context.Background()
	calls := 0

	v, err := Fetch(ctx, c, "church-a", domain.KeyOverdueTransactions, "", counterLoader(&calls, "first"))
	require.NoError(t, err)
	assert.Equal(t, "first", v)

	v, err = Fetch(ctx, c, "church-a", domain.KeyOverdueTransactions, "", counterLoader(&calls, "second"))
	require.NoError(t, err)
	assert.Equal(t, "first", v, "second read should be served from cache")
	assert.Equal(t, 1, calls)

	c.Invalidate("church-a", domain.KeyOverdueTransactions)

	v, err = Fetch(ctx, c, "church-a", domain.KeyOverdueTransactions, "", counterLoader(&calls, "third"))
	require.NoError(t, err)
	assert.Equal(t, "third", v)
	assert.Equal(t, 2, calls)
}

func TestInvalidate_CoversEveryVariant(t *testing.T) {
	c, err := New(16)
	require.NoError(t, err)
	ctx := context.Background()
	calls := 0

	_, _ = Fetch(ctx, c, "church-a", domain.KeyDueTransactionAlerts, "7", counterLoader(&calls, "7 days"))
	_, _ = Fetch(ctx, c, "church-a", domain.KeyDueTransactionAlerts, "30", counterLoader(&calls, "30 days"))
	require.Equal(t, 2, calls)

	c.Invalidate("church-a", domain.KeyDueTransactionAlerts)

	_, _ = Fetch(ctx, c, "church-a", domain.KeyDueTransactionAlerts, "7", counterLoader(&calls, "7 days"))
	_, _ = Fetch(ctx, c, "church-a", domain.KeyDueTransactionAlerts, "30", counterLoader(&calls, "30 days"))
	assert.Equal(t, 4, calls)
}

func TestInvalidate_IsScopedToChurchAndKey(t *testing.T) {
	c, err := New(16)
	require.NoError(t, err)
	ctx := context.Background()
	calls := 0

	_, _ = Fetch(ctx, c, "church-a", domain.KeyTransactions, "", counterLoader(&calls, "a"))
	_, _ = Fetch(ctx, c, "church-b", domain.KeyTransactions, "", counterLoader(&calls, "b"))
	_, _ = Fetch(ctx, c, "church-a", domain.KeyTransactionStats, "", counterLoader(&calls, "stats"))
	require.Equal(t, 3, calls)

	c.Invalidate("church-a", domain.KeyTransactions)

	v, _ := Fetch(ctx, c, "church-b", domain.KeyTransactions, "", counterLoader(&calls, "b2"))
	assert.Equal(t, "b", v, "other church must keep its entry")
	v, _ = Fetch(ctx, c, "church-a", domain.KeyTransactionStats, "", counterLoader(&calls, "stats2"))
	assert.Equal(t, "stats", v, "other key must keep its entry")
	assert.Equal(t, 3, calls)
}

func TestInvalidate_IdempotentAndCommutative(t *testing.T) {
	c1, _ := New(16)
	c2, _ := New(16)

	c1.Invalidate("church-a", domain.KeyTransactions, domain.KeyInstallmentStats)
	c1.Invalidate("church-a", domain.KeyTransactions)

	c2.Invalidate("church-a", domain.KeyInstallmentStats)
	c2.Invalidate("church-a", domain.KeyTransactions)

	ctx := context.Background()
	for _, c := range []*QueryCache{c1, c2} {
		calls := 0
		_, _ = Fetch(ctx, c, "church-a", domain.KeyTransactions, "", counterLoader(&calls, "x"))
		_, _ = Fetch(ctx, c, "church-a", domain.KeyTransactions, "", counterLoader(&calls, "x"))
		assert.Equal(t, 1, calls)
	}
}

func TestFetch_ErrorsAreNotCached(t *testing.T) {
	c, _ := New(16)
	ctx := context.Background()
	loadErr := errors.New("store unavailable")

	_, err := Fetch(ctx, c, "church-a", domain.KeyTransactions, "", func(context.Context) (string, error) {
		return "", loadErr
	})
	assert.ErrorIs(t, err, loadErr)

	calls := 0
	v, err := Fetch(ctx, c, "church-a", domain.KeyTransactions, "", counterLoader(&calls, "ok"))
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, 1, calls)
}

func TestFetch_InvalidationDuringLoadDiscardsResult(t *testing.T) {
	c, _ := New(16)
	ctx := context.Background()

	_, err := Fetch(ctx, c, "church-a", domain.KeyTransactions, "", func(context.Context) (string, error) {
		c.Invalidate("church-a", domain.KeyTransactions)
		return "stale", nil
	})
	require.NoError(t, err)

	calls := 0
	v, _ := Fetch(ctx, c, "church-a", domain.KeyTransactions, "", counterLoader(&calls, "fresh"))
	assert.Equal(t, "fresh", v)
	assert.Equal(t, 1, calls)
}

func TestFetch_NilCacheLoadsDirectly(t *testing.T) {
	var c *QueryCache
	calls := 0
	v, err := Fetch(context.Background(), c, "church-a", domain.KeyTransactions, "", counterLoader(&calls, "direct"))
	require.NoError(t, err)
	assert.Equal(t, "direct", v)
	assert.Equal(t, 1, calls)
}

func TestInvalidate_EmptyChurchIsIgnored(t *testing.T) {
	c, _ := New(16)
	c.Invalidate("", domain.TransactionQueryKeys...)
	assert.Empty(t, c.generations)
}

func TestSuspend_BypassesCacheUntilResumed(t *testing.T) {
	c, _ := New(16)
	ctx := context.Background()
	calls := 0

	_, _ = Fetch(ctx, c, "church-a", domain.KeyTransactions, "", counterLoader(&calls, "cached"))
	_, _ = Fetch(ctx, c, "church-b", domain.KeyTransactions, "", counterLoader(&calls, "other"))
	require.Equal(t, 2, calls)

	c.Suspend("church-a")
	assert.True(t, c.Suspended("church-a"))

	v, _ := Fetch(ctx, c, "church-a", domain.KeyTransactions, "", counterLoader(&calls, "live-1"))
	assert.Equal(t, "live-1", v, "suspended church must not be served from cache")
	v, _ = Fetch(ctx, c, "church-a", domain.KeyTransactions, "", counterLoader(&calls, "live-2"))
	assert.Equal(t, "live-2", v, "results loaded while suspended must not be stored")

	v, _ = Fetch(ctx, c, "church-b", domain.KeyTransactions, "", counterLoader(&calls, "other-2"))
	assert.Equal(t, "other", v, "other churches keep caching")
	assert.Equal(t, 4, calls)

	c.Invalidate("church-a", domain.TransactionQueryKeys...)
	c.Resume("church-a")
	assert.False(t, c.Suspended("church-a"))

	v, _ = Fetch(ctx, c, "church-a", domain.KeyTransactions, "", counterLoader(&calls, "fresh"))
	assert.Equal(t, "fresh", v)
	v, _ = Fetch(ctx, c, "church-a", domain.KeyTransactions, "", counterLoader(&calls, "unused"))
	assert.Equal(t, "fresh", v)
	assert.Equal(t, 5, calls)
}
