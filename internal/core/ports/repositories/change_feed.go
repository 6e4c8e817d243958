package repositories

import (
	"context"

	"github.com/SscSPs/church_finance_app/internal/core/domain"
)

// Subscription is a live stream of change events for one church and table.
type Subscription interface {
	// Events delivers change notifications. It is closed after Unsubscribe or
	// when the underlying transport fails.
	Events() <-chan domain.ChangeEvent

	// Err reports the transport failure that closed Events, if any.
	Err() error

	// Unsubscribe releases the subscription. It is safe to call more than once.
	Unsubscribe()
}

// ChangeFeed opens tenant-scoped change subscriptions on the store.
// Feeds do not reconnect: a transport failure closes Events and is reported by Err.
type ChangeFeed interface {
	Subscribe(ctx context.Context, churchID, table string, events []domain.ChangeEventType) (Subscription, error)
}
