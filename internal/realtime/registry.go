package realtime

import (
	"context"
	"log/slog"

	"github.com/SscSPs/church_finance_app/internal/cache"
	"github.com/SscSPs/church_finance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/church_finance_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/church_finance_app/internal/core/ports/services"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// DefaultMaxWatched bounds the number of churches with a live subscription.
const DefaultMaxWatched = 256

// Registry keeps one bridge per recently active church. A church without a
// live bridge is invalidated and, when the invalidator supports it, kept out
// of the cache until a bridge covers it again.
type Registry struct {
	feed        portsrepo.ChangeFeed
	invalidator cache.Invalidator
	suspender   cache.Suspender
	hub         *Hub
	logger      *slog.Logger

	bridges *lru.Cache[string, *Bridge]
	watches singleflight.Group
}

// NewRegistry creates a registry watching at most maxWatched churches.
func NewRegistry(feed portsrepo.ChangeFeed, invalidator cache.Invalidator, hub *Hub, maxWatched int, logger *slog.Logger) (*Registry, error) {
	if maxWatched <= 0 {
		maxWatched = DefaultMaxWatched
	}
	if logger == nil {
		logger = slog.Default()
	}
	if hub == nil {
		hub = NewHub()
	}
	r := &Registry{feed: feed, invalidator: invalidator, hub: hub, logger: logger}
	r.suspender, _ = invalidator.(cache.Suspender)
	bridges, err := lru.NewWithEvict[string, *Bridge](maxWatched, r.onEvict)
	if err != nil {
		return nil, err
	}
	r.bridges = bridges
	return r, nil
}

var _ portssvc.RealtimeSvc = (*Registry)(nil)

func (r *Registry) onEvict(churchID string, b *Bridge) {
	b.Close()
	r.unwatched(churchID)
	r.logger.Debug("Stopped watching church", slog.String("church_id", churchID))
}

// unwatched is called whenever nothing invalidates the church any more.
func (r *Registry) unwatched(churchID string) {
	if r.suspender != nil {
		r.suspender.Suspend(churchID)
	}
	r.invalidator.Invalidate(churchID, domain.TransactionQueryKeys...)
}

// Watch ensures the church has a live bridge. The subscription outlives ctx.
// Concurrent calls for one church share a single subscribe; calls for other
// churches do not wait on it.
func (r *Registry) Watch(ctx context.Context, churchID string) error {
	if churchID == "" {
		return nil
	}
	if b, ok := r.bridges.Get(churchID); ok && b.Active() {
		return nil
	}

	_, err, _ := r.watches.Do(churchID, func() (any, error) {
		old, ok := r.bridges.Peek(churchID)
		if ok && old.Active() {
			return nil, nil
		}

		b := NewBridge(r.feed, r.invalidator, r.hub, r.logger)
		b.onFailure = r.unwatched
		if err := b.Watch(context.WithoutCancel(ctx), churchID); err != nil {
			r.unwatched(churchID)
			return nil, err
		}
		if ok {
			old.Close()
		}
		// Rows may have changed while nobody was listening.
		r.invalidator.Invalidate(churchID, domain.TransactionQueryKeys...)
		if r.suspender != nil {
			r.suspender.Resume(churchID)
		}
		r.bridges.Add(churchID, b)
		return nil, nil
	})
	return err
}

// SubscribeNotices streams the church's notices until cancel is called.
func (r *Registry) SubscribeNotices(churchID string) (<-chan domain.Notice, func()) {
	return r.hub.Subscribe(churchID)
}

// Watched reports how many churches currently have a bridge.
func (r *Registry) Watched() int {
	return r.bridges.Len()
}

// Close tears every bridge down.
func (r *Registry) Close() {
	r.bridges.Purge()
}
