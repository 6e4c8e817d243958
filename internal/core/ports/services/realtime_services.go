package services

import (
	"context"

	"github.com/SscSPs/church_finance_app/internal/core/domain"
)

// RealtimeSvc keeps cache invalidation wired to the change feed and fans out
// notices to connected clients.
type RealtimeSvc interface {
	// Watch makes sure the church has an active change subscription.
	Watch(ctx context.Context, churchID string) error

	// SubscribeNotices streams notices of a church until cancel is called.
	SubscribeNotices(churchID string) (notices <-chan domain.Notice, cancel func())
}
