package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/SscSPs/church_finance_app/internal/apperrors"
	"github.com/SscSPs/church_finance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/church_finance_app/internal/core/ports/repositories"
)

const subscriptionBuffer = 64

// changeFeed delivers repository mutations to subscribers of the same church.
type changeFeed struct {
	mu   sync.Mutex
	subs map[*subscription]struct{}
}

func newChangeFeed() *changeFeed {
	return &changeFeed{subs: make(map[*subscription]struct{})}
}

var _ portsrepo.ChangeFeed = (*changeFeed)(nil)

func (f *changeFeed) Subscribe(_ context.Context, churchID, table string, events []domain.ChangeEventType) (portsrepo.Subscription, error) {
	if churchID == "" {
		return nil, apperrors.NewValidationFailedError("church ID is required")
	}
	if table != domain.TransactionsTable {
		return nil, apperrors.NewValidationFailedError(fmt.Sprintf("no change feed for table %q", table))
	}
	sub := &subscription{
		feed:     f,
		churchID: churchID,
		wanted:   make(map[domain.ChangeEventType]bool, len(events)),
		events:   make(chan domain.ChangeEvent, subscriptionBuffer),
		done:     make(chan struct{}),
	}
	for _, e := range events {
		sub.wanted[e] = true
	}

	f.mu.Lock()
	f.subs[sub] = struct{}{}
	f.mu.Unlock()
	return sub, nil
}

// publish blocks until every matching subscriber took the event or went away.
func (f *changeFeed) publish(ev domain.ChangeEvent) {
	f.mu.Lock()
	targets := make([]*subscription, 0, len(f.subs))
	for sub := range f.subs {
		if sub.churchID == ev.ChurchID && sub.wanted[ev.EventType] {
			targets = append(targets, sub)
		}
	}
	f.mu.Unlock()

	for _, sub := range targets {
		sub.deliver(ev)
	}
}

func (f *changeFeed) remove(sub *subscription) {
	f.mu.Lock()
	delete(f.subs, sub)
	f.mu.Unlock()
}

type subscription struct {
	feed     *changeFeed
	churchID string
	wanted   map[domain.ChangeEventType]bool
	events   chan domain.ChangeEvent
	done     chan struct{}
	once     sync.Once

	// mu is held for reading by senders so events is only closed once no
	// send is in flight.
	mu     sync.RWMutex
	closed bool
}

func (s *subscription) Events() <-chan domain.ChangeEvent { return s.events }

// Err is always nil: the in-memory feed has no transport to fail.
func (s *subscription) Err() error { return nil }

func (s *subscription) Unsubscribe() {
	s.once.Do(func() {
		s.feed.remove(s)
		close(s.done)
		s.mu.Lock()
		s.closed = true
		close(s.events)
		s.mu.Unlock()
	})
}

func (s *subscription) deliver(ev domain.ChangeEvent) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return
	}
	select {
	case s.events <- ev:
	case <-s.done:
	}
}
