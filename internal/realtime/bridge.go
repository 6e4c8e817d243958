// Package realtime turns store change notifications into cache invalidations
// and user notices.
package realtime

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/SscSPs/church_finance_app/internal/cache"
	"github.com/SscSPs/church_finance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/church_finance_app/internal/core/ports/repositories"
)

// Notice texts shown to users of the church.
const (
	NoticeInsertTitle = "Nova transação adicionada"
	NoticeDeleteTitle = "Transação removida"
	noticeMessage     = "Os dados foram atualizados automaticamente."
)

// Bridge holds at most one change subscription, for the church it watches.
// Every event of that church invalidates all transaction-derived queries;
// inserts and deletes also produce a notice, updates do not.
type Bridge struct {
	feed        portsrepo.ChangeFeed
	invalidator cache.Invalidator
	notifier    Notifier
	logger      *slog.Logger

	// onFailure replaces the plain invalidation after a transport failure.
	onFailure func(churchID string)

	mu       sync.Mutex
	churchID string
	sub      portsrepo.Subscription
	done     chan struct{}
}

// NewBridge creates an idle bridge.
func NewBridge(feed portsrepo.ChangeFeed, invalidator cache.Invalidator, notifier Notifier, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bridge{feed: feed, invalidator: invalidator, notifier: notifier, logger: logger}
}

// Watch subscribes to churchID. Switching to another church tears the old
// subscription down first, so no event of the previous church is handled
// afterwards. An empty church ID leaves the bridge idle.
func (b *Bridge) Watch(ctx context.Context, churchID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.sub != nil && b.churchID == churchID && b.isActiveLocked() {
		return nil
	}
	b.teardownLocked()
	b.churchID = churchID
	if churchID == "" {
		return nil
	}

	sub, err := b.feed.Subscribe(ctx, churchID, domain.TransactionsTable, domain.AllChangeEvents)
	if err != nil {
		b.logger.Error("Failed to subscribe to transaction changes",
			slog.String("church_id", churchID),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to subscribe to changes of church %s: %w", churchID, err)
	}

	b.sub = sub
	b.done = make(chan struct{})
	go b.consume(churchID, sub, b.done)
	return nil
}

// ChurchID returns the watched church, empty when idle.
func (b *Bridge) ChurchID() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.churchID
}

// Active reports whether the bridge still receives events.
func (b *Bridge) Active() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sub != nil && b.isActiveLocked()
}

func (b *Bridge) isActiveLocked() bool {
	select {
	case <-b.done:
		return false
	default:
		return true
	}
}

// Close tears the subscription down. It is safe to call more than once.
func (b *Bridge) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.teardownLocked()
	b.churchID = ""
}

func (b *Bridge) teardownLocked() {
	if b.sub == nil {
		return
	}
	b.sub.Unsubscribe()
	<-b.done
	b.sub = nil
}

func (b *Bridge) consume(churchID string, sub portsrepo.Subscription, done chan struct{}) {
	defer close(done)
	for ev := range sub.Events() {
		b.handle(churchID, ev)
	}
	if err := sub.Err(); err != nil {
		// No reconnect here; the next Watch of this church subscribes again.
		b.logger.Error("Transaction change subscription failed",
			slog.String("church_id", churchID),
			slog.String("error", err.Error()))
		if b.onFailure != nil {
			b.onFailure(churchID)
			return
		}
		b.invalidator.Invalidate(churchID, domain.TransactionQueryKeys...)
	}
}

func (b *Bridge) handle(churchID string, ev domain.ChangeEvent) {
	if ev.ChurchID != "" && !strings.EqualFold(ev.ChurchID, churchID) {
		b.logger.Debug("Ignoring change event of another church",
			slog.String("church_id", churchID),
			slog.String("event_church_id", ev.ChurchID))
		return
	}
	if ev.Table != "" && ev.Table != domain.TransactionsTable {
		return
	}

	b.invalidator.Invalidate(churchID, domain.TransactionQueryKeys...)

	var title string
	switch ev.EventType {
	case domain.EventInsert:
		title = NoticeInsertTitle
	case domain.EventDelete:
		title = NoticeDeleteTitle
	default:
		return
	}
	if b.notifier != nil {
		b.notifier.Publish(domain.Notice{
			ChurchID: churchID,
			Level:    domain.NoticeInfo,
			Title:    title,
			Message:  noticeMessage,
			At:       time.Now().UTC(),
		})
	}
}
