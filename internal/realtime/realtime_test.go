package realtime

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/church_finance_app/internal/cache"
	"github.com/SscSPs/church_finance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/church_finance_app/internal/core/ports/repositories"
	"github.com/stretchr/testify/suite"
)

const (
	churchA = "11111111-1111-1111-1111-111111111111"
	churchB = "22222222-2222-2222-2222-222222222222"
)

// --- fakes ---

type fakeSubscription struct {
	churchID string
	events   chan domain.ChangeEvent
	once     sync.Once
	mu       sync.Mutex
	err      error
	closed   bool
}

func (s *fakeSubscription) Events() <-chan domain.ChangeEvent { return s.events }

func (s *fakeSubscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *fakeSubscription) Unsubscribe() {
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		close(s.events)
	})
}

func (s *fakeSubscription) fail(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
	s.Unsubscribe()
}

func (s *fakeSubscription) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

type fakeFeed struct {
	mu    sync.Mutex
	subs  []*fakeSubscription
	err   error
	gates map[string]chan struct{}
}

// hold makes subscribes of churchID wait until the returned func is called.
func (f *fakeFeed) hold(churchID string) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gates == nil {
		f.gates = make(map[string]chan struct{})
	}
	gate := make(chan struct{})
	f.gates[churchID] = gate
	return func() { close(gate) }
}

func (f *fakeFeed) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeFeed) Subscribe(_ context.Context, churchID, _ string, _ []domain.ChangeEventType) (portsrepo.Subscription, error) {
	f.mu.Lock()
	gate := f.gates[churchID]
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	sub := &fakeSubscription{churchID: churchID, events: make(chan domain.ChangeEvent, 8)}
	f.subs = append(f.subs, sub)
	return sub, nil
}

func (f *fakeFeed) last() *fakeSubscription {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.subs[len(f.subs)-1]
}

func (f *fakeFeed) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

type recordingInvalidator struct {
	mu    sync.Mutex
	calls map[string][][]domain.QueryKey
}

func newRecordingInvalidator() *recordingInvalidator {
	return &recordingInvalidator{calls: make(map[string][][]domain.QueryKey)}
}

func (r *recordingInvalidator) Invalidate(churchID string, keys ...domain.QueryKey) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[churchID] = append(r.calls[churchID], keys)
}

func (r *recordingInvalidator) count(churchID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls[churchID])
}

func (r *recordingInvalidator) lastKeys(churchID string) []domain.QueryKey {
	r.mu.Lock()
	defer r.mu.Unlock()
	calls := r.calls[churchID]
	if len(calls) == 0 {
		return nil
	}
	return calls[len(calls)-1]
}

// --- suite ---

type RealtimeTestSuite struct {
	suite.Suite
	feed        *fakeFeed
	invalidator *recordingInvalidator
	hub         *Hub
	bridge      *Bridge
}

func (s *RealtimeTestSuite) SetupTest() {
	s.feed = &fakeFeed{}
	s.invalidator = newRecordingInvalidator()
	s.hub = NewHub()
	s.bridge = NewBridge(s.feed, s.invalidator, s.hub, nil)
}

func (s *RealtimeTestSuite) TearDownTest() {
	s.bridge.Close()
}

func (s *RealtimeTestSuite) waitInvalidations(churchID string, n int) {
	s.Eventually(func() bool { return s.invalidator.count(churchID) >= n }, time.Second, 5*time.Millisecond)
}

func (s *RealtimeTestSuite) expectNotice(ch <-chan domain.Notice) domain.Notice {
	select {
	case n := <-ch:
		return n
	case <-time.After(time.Second):
		s.FailNow("expected a notice")
	}
	return domain.Notice{}
}

func (s *RealtimeTestSuite) expectNoNotice(ch <-chan domain.Notice) {
	select {
	case n := <-ch:
		s.Failf("unexpected notice", "%+v", n)
	case <-time.After(50 * time.Millisecond):
	}
}

func (s *RealtimeTestSuite) TestInsert_InvalidatesAllKeysAndNotifiesOnce() {
	notices, cancel := s.hub.Subscribe(churchA)
	defer cancel()
	s.Require().NoError(s.bridge.Watch(context.Background(), churchA))

	s.feed.last().events <- domain.ChangeEvent{EventType: domain.EventInsert, Table: domain.TransactionsTable, ChurchID: churchA}

	s.waitInvalidations(churchA, 1)
	s.ElementsMatch(domain.TransactionQueryKeys, s.invalidator.lastKeys(churchA))

	n := s.expectNotice(notices)
	s.Equal(NoticeInsertTitle, n.Title)
	s.Equal(churchA, n.ChurchID)
	s.expectNoNotice(notices)
}

func (s *RealtimeTestSuite) TestDelete_Notifies() {
	notices, cancel := s.hub.Subscribe(churchA)
	defer cancel()
	s.Require().NoError(s.bridge.Watch(context.Background(), churchA))

	s.feed.last().events <- domain.ChangeEvent{EventType: domain.EventDelete, ChurchID: churchA}

	s.Equal(NoticeDeleteTitle, s.expectNotice(notices).Title)
	s.waitInvalidations(churchA, 1)
}

func (s *RealtimeTestSuite) TestUpdate_InvalidatesSilently() {
	notices, cancel := s.hub.Subscribe(churchA)
	defer cancel()
	s.Require().NoError(s.bridge.Watch(context.Background(), churchA))

	s.feed.last().events <- domain.ChangeEvent{EventType: domain.EventUpdate, ChurchID: churchA}

	s.waitInvalidations(churchA, 1)
	s.expectNoNotice(notices)
}

func (s *RealtimeTestSuite) TestEventOfOtherChurch_IsIgnored() {
	s.Require().NoError(s.bridge.Watch(context.Background(), churchA))

	s.feed.last().events <- domain.ChangeEvent{EventType: domain.EventInsert, ChurchID: churchB}
	s.feed.last().events <- domain.ChangeEvent{EventType: domain.EventUpdate, ChurchID: churchA}

	s.waitInvalidations(churchA, 1)
	s.Equal(0, s.invalidator.count(churchB))
	s.Equal(1, s.invalidator.count(churchA))
}

func (s *RealtimeTestSuite) TestWatch_SwitchingChurchTearsDownOldSubscription() {
	s.Require().NoError(s.bridge.Watch(context.Background(), churchA))
	subA := s.feed.last()

	s.Require().NoError(s.bridge.Watch(context.Background(), churchB))
	subB := s.feed.last()

	s.True(subA.isClosed())
	s.False(subB.isClosed())
	s.Equal(churchB, s.bridge.ChurchID())

	subB.events <- domain.ChangeEvent{EventType: domain.EventInsert, ChurchID: churchB}
	s.waitInvalidations(churchB, 1)
	s.Equal(0, s.invalidator.count(churchA))
}

func (s *RealtimeTestSuite) TestWatch_SameChurchKeepsSubscription() {
	s.Require().NoError(s.bridge.Watch(context.Background(), churchA))
	s.Require().NoError(s.bridge.Watch(context.Background(), churchA))
	s.Equal(1, s.feed.count())
}

func (s *RealtimeTestSuite) TestWatch_EmptyChurchStaysIdle() {
	s.Require().NoError(s.bridge.Watch(context.Background(), ""))
	s.Equal(0, s.feed.count())
	s.False(s.bridge.Active())
}

func (s *RealtimeTestSuite) TestWatch_SubscribeError() {
	s.feed.setErr(errors.New("listen failed"))
	s.Error(s.bridge.Watch(context.Background(), churchA))
	s.False(s.bridge.Active())
}

func (s *RealtimeTestSuite) TestTransportFailure_DeactivatesAndInvalidates() {
	s.Require().NoError(s.bridge.Watch(context.Background(), churchA))
	s.feed.last().fail(errors.New("connection reset"))

	s.Eventually(func() bool { return !s.bridge.Active() }, time.Second, 5*time.Millisecond)
	s.Equal(1, s.invalidator.count(churchA))
	s.Equal(1, s.feed.count(), "bridge must not reconnect on its own")
}

func (s *RealtimeTestSuite) TestRegistry_EvictionClosesBridgeAndInvalidates() {
	reg, err := NewRegistry(s.feed, s.invalidator, s.hub, 1, nil)
	s.Require().NoError(err)
	defer reg.Close()

	s.Require().NoError(reg.Watch(context.Background(), churchA))
	subA := s.feed.last()
	before := s.invalidator.count(churchA)

	s.Require().NoError(reg.Watch(context.Background(), churchB))

	s.True(subA.isClosed())
	s.Equal(before+1, s.invalidator.count(churchA))
	s.Equal(1, reg.Watched())
}

func (s *RealtimeTestSuite) TestRegistry_WatchIsIdempotentAndResubscribesDeadBridge() {
	reg, err := NewRegistry(s.feed, s.invalidator, s.hub, 4, nil)
	s.Require().NoError(err)
	defer reg.Close()

	s.Require().NoError(reg.Watch(context.Background(), churchA))
	s.Require().NoError(reg.Watch(context.Background(), churchA))
	s.Equal(1, s.feed.count())

	s.feed.last().fail(errors.New("connection reset"))
	s.Eventually(func() bool {
		b, ok := reg.bridges.Peek(churchA)
		return ok && !b.Active()
	}, time.Second, 5*time.Millisecond)

	s.Require().NoError(reg.Watch(context.Background(), churchA))
	s.Equal(2, s.feed.count())
}

func (s *RealtimeTestSuite) TestRegistry_NoticesReachSubscribers() {
	reg, err := NewRegistry(s.feed, s.invalidator, s.hub, 4, nil)
	s.Require().NoError(err)
	defer reg.Close()

	notices, cancel := reg.SubscribeNotices(churchA)
	defer cancel()
	otherNotices, cancelOther := reg.SubscribeNotices(churchB)
	defer cancelOther()

	s.Require().NoError(reg.Watch(context.Background(), churchA))
	s.feed.last().events <- domain.ChangeEvent{EventType: domain.EventInsert, ChurchID: churchA}

	s.Equal(NoticeInsertTitle, s.expectNotice(notices).Title)
	s.expectNoNotice(otherNotices)
}

func (s *RealtimeTestSuite) newCachedRegistry(maxWatched int) (*Registry, *cache.QueryCache) {
	queryCache, err := cache.New(64)
	s.Require().NoError(err)
	reg, err := NewRegistry(s.feed, queryCache, s.hub, maxWatched, nil)
	s.Require().NoError(err)
	return reg, queryCache
}

func (s *RealtimeTestSuite) TestRegistry_FailedWatchBypassesCacheUntilWatched() {
	reg, queryCache := s.newCachedRegistry(4)
	defer reg.Close()

	s.feed.setErr(errors.New("too many connections"))
	s.Error(reg.Watch(context.Background(), churchA))
	s.True(queryCache.Suspended(churchA))
	s.False(queryCache.Suspended(churchB))

	s.feed.setErr(nil)
	s.Require().NoError(reg.Watch(context.Background(), churchA))
	s.False(queryCache.Suspended(churchA))
}

func (s *RealtimeTestSuite) TestRegistry_TransportFailureBypassesCache() {
	reg, queryCache := s.newCachedRegistry(4)
	defer reg.Close()

	s.Require().NoError(reg.Watch(context.Background(), churchA))
	s.feed.last().fail(errors.New("connection reset"))

	s.Eventually(func() bool { return queryCache.Suspended(churchA) }, time.Second, 5*time.Millisecond)

	s.Require().NoError(reg.Watch(context.Background(), churchA))
	s.False(queryCache.Suspended(churchA))
}

func (s *RealtimeTestSuite) TestRegistry_EvictedChurchBypassesCache() {
	reg, queryCache := s.newCachedRegistry(1)
	defer reg.Close()

	s.Require().NoError(reg.Watch(context.Background(), churchA))
	s.Require().NoError(reg.Watch(context.Background(), churchB))

	s.True(queryCache.Suspended(churchA))
	s.False(queryCache.Suspended(churchB))
}

func (s *RealtimeTestSuite) TestRegistry_SlowSubscribeDoesNotBlockOtherChurches() {
	reg, err := NewRegistry(s.feed, s.invalidator, s.hub, 4, nil)
	s.Require().NoError(err)
	defer reg.Close()

	release := s.feed.hold(churchA)
	watchedA := make(chan error, 1)
	go func() { watchedA <- reg.Watch(context.Background(), churchA) }()

	watchedB := make(chan error, 1)
	go func() { watchedB <- reg.Watch(context.Background(), churchB) }()
	select {
	case err := <-watchedB:
		s.NoError(err)
	case <-time.After(time.Second):
		s.FailNow("watch of another church waited on a pending subscribe")
	}

	release()
	s.NoError(<-watchedA)
	s.Equal(2, reg.Watched())
}

func (s *RealtimeTestSuite) TestRegistry_ConcurrentWatchesShareOneSubscribe() {
	reg, err := NewRegistry(s.feed, s.invalidator, s.hub, 4, nil)
	s.Require().NoError(err)
	defer reg.Close()

	release := s.feed.hold(churchA)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.NoError(reg.Watch(context.Background(), churchA))
		}()
	}
	time.Sleep(20 * time.Millisecond)
	release()
	wg.Wait()

	s.Equal(1, s.feed.count())
}

func (s *RealtimeTestSuite) TestHub_CancelClosesChannel() {
	ch, cancel := s.hub.Subscribe(churchA)
	s.Equal(1, s.hub.Subscribers(churchA))
	cancel()
	cancel()
	_, open := <-ch
	s.False(open)
	s.Equal(0, s.hub.Subscribers(churchA))
	s.hub.Publish(domain.Notice{ChurchID: churchA})
}

func TestRealtimeTestSuite(t *testing.T) {
	suite.Run(t, new(RealtimeTestSuite))
}
