package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/SscSPs/church_finance_app/internal/apperrors"
	"github.com/SscSPs/church_finance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/church_finance_app/internal/core/ports/repositories"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	changeEventBuffer = 64
	listenTimeout     = 5 * time.Second
)

var errListenerStopped = errors.New("change listener stopped")

// channelForChurch names the NOTIFY channel the transactions trigger uses for
// a church. Keep in sync with notify_transaction_change() in the migrations.
func channelForChurch(churchID string) string {
	return "txn_" + strings.ToLower(strings.ReplaceAll(churchID, "-", ""))
}

// listenConn is the part of *pgx.Conn the listener uses.
type listenConn interface {
	WaitForNotification(ctx context.Context) (*pgconn.Notification, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Close(ctx context.Context) error
	IsClosed() bool
}

// pgxChangeFeed multiplexes every subscription over a single LISTEN
// connection taken out of the pool. The first subscription opens it and the
// last Unsubscribe releases it, so watching many churches costs one
// connection.
type pgxChangeFeed struct {
	connect func(ctx context.Context) (listenConn, error)

	mu       sync.Mutex
	listener *changeListener
}

func newPgxChangeFeed(pool *pgxpool.Pool) portsrepo.ChangeFeed {
	return &pgxChangeFeed{
		connect: func(ctx context.Context) (listenConn, error) {
			pooled, err := pool.Acquire(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to acquire listen connection: %w", err)
			}
			return pooled.Hijack(), nil
		},
	}
}

var _ portsrepo.ChangeFeed = (*pgxChangeFeed)(nil)

// Subscribe uses ctx only to open the connection; the subscription lives
// until Unsubscribe or a connection failure.
func (f *pgxChangeFeed) Subscribe(ctx context.Context, churchID, table string, events []domain.ChangeEventType) (portsrepo.Subscription, error) {
	if _, err := uuid.Parse(churchID); err != nil {
		return nil, apperrors.NewValidationFailedError("church ID must be a UUID")
	}
	if table != domain.TransactionsTable {
		return nil, apperrors.NewValidationFailedError(fmt.Sprintf("no change feed for table %q", table))
	}

	wanted := make(map[domain.ChangeEventType]bool, len(events))
	for _, e := range events {
		wanted[e] = true
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	// A listener that went idle between lookups refuses the request; one
	// fresh listener is enough to serve it.
	for attempt := 0; attempt < 2; attempt++ {
		if f.listener == nil || f.listener.stopped() {
			conn, err := f.connect(ctx)
			if err != nil {
				return nil, err
			}
			f.listener = newChangeListener(conn)
			go f.listener.run()
		}

		sub := &pgxSubscription{
			churchID: churchID,
			channel:  channelForChurch(churchID),
			table:    table,
			wanted:   wanted,
			events:   make(chan domain.ChangeEvent, changeEventBuffer),
			listener: f.listener,
		}
		err := f.listener.send(listenRequest{sub: sub, listen: true})
		if errors.Is(err, errListenerStopped) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return sub, nil
	}
	return nil, errListenerStopped
}

type listenRequest struct {
	sub    *pgxSubscription
	listen bool
	reply  chan error
}

// changeListener owns the connection. Only its run goroutine touches the
// connection, the subscription set and the subscriptions' event channels.
type changeListener struct {
	conn     listenConn
	requests chan listenRequest
	done     chan struct{}
	subs     map[string]map[*pgxSubscription]struct{}
}

func newChangeListener(conn listenConn) *changeListener {
	return &changeListener{
		conn:     conn,
		requests: make(chan listenRequest),
		done:     make(chan struct{}),
		subs:     make(map[string]map[*pgxSubscription]struct{}),
	}
}

func (l *changeListener) stopped() bool {
	select {
	case <-l.done:
		return true
	default:
		return false
	}
}

// send hands req to the run loop and waits for it to be applied.
func (l *changeListener) send(req listenRequest) error {
	req.reply = make(chan error, 1)
	select {
	case l.requests <- req:
		return <-req.reply
	case <-l.done:
		return errListenerStopped
	}
}

func (l *changeListener) run() {
	var failure error
	defer func() {
		l.shutdown(failure)
		close(l.done)
	}()

	for {
		n, req, err := l.next()
		if err != nil {
			failure = err
			if req != nil {
				req.reply <- err
			}
			return
		}
		if n != nil {
			if err := l.dispatch(n); err != nil {
				failure = err
				if req != nil {
					req.reply <- err
				}
				return
			}
		}
		if req != nil {
			if err := l.apply(*req); err != nil {
				failure = err
				req.reply <- err
				return
			}
			req.reply <- nil
		}
		if len(l.subs) == 0 {
			return
		}
	}
}

// next waits for a notification or a request, whichever comes first. A
// request interrupts the wait; the connection stays usable afterwards.
func (l *changeListener) next() (*pgconn.Notification, *listenRequest, error) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	type waitResult struct {
		n   *pgconn.Notification
		err error
	}
	waited := make(chan waitResult, 1)
	go func() {
		n, err := l.conn.WaitForNotification(ctx)
		waited <- waitResult{n: n, err: err}
	}()

	select {
	case res := <-waited:
		return res.n, nil, res.err
	case req := <-l.requests:
		cancel()
		res := <-waited
		if res.err != nil && !l.conn.IsClosed() {
			return nil, &req, nil
		}
		return res.n, &req, res.err
	}
}

func (l *changeListener) exec(sql string) error {
	ctx, cancel := context.WithTimeout(context.Background(), listenTimeout)
	defer cancel()
	_, err := l.conn.Exec(ctx, sql)
	return err
}

func (l *changeListener) apply(req listenRequest) error {
	sub := req.sub
	if req.listen {
		if len(l.subs[sub.channel]) == 0 {
			if err := l.exec("LISTEN " + pgx.Identifier{sub.channel}.Sanitize()); err != nil {
				return fmt.Errorf("failed to listen on %s: %w", sub.channel, err)
			}
			l.subs[sub.channel] = make(map[*pgxSubscription]struct{})
		}
		l.subs[sub.channel][sub] = struct{}{}
		return nil
	}
	return l.remove(sub, nil)
}

// remove ends sub with err and stops listening on its channel once nobody
// else uses it. Removing a subscription twice is a no-op.
func (l *changeListener) remove(sub *pgxSubscription, err error) error {
	set, ok := l.subs[sub.channel]
	if !ok {
		return nil
	}
	if _, ok := set[sub]; !ok {
		return nil
	}
	delete(set, sub)
	sub.finish(err)
	if len(set) > 0 {
		return nil
	}
	delete(l.subs, sub.channel)
	if uerr := l.exec("UNLISTEN " + pgx.Identifier{sub.channel}.Sanitize()); uerr != nil {
		return fmt.Errorf("failed to unlisten %s: %w", sub.channel, uerr)
	}
	return nil
}

func (l *changeListener) dispatch(n *pgconn.Notification) error {
	set := l.subs[n.Channel]
	if len(set) == 0 {
		return nil
	}

	var ev domain.ChangeEvent
	if err := json.Unmarshal([]byte(n.Payload), &ev); err != nil {
		slog.Warn("Dropping malformed change notification",
			slog.String("channel", n.Channel),
			slog.String("error", err.Error()))
		return nil
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}

	for sub := range set {
		if !sub.accepts(ev) {
			continue
		}
		select {
		case sub.events <- ev:
		default:
			// The consumer already missed events; ending the subscription
			// makes it invalidate and subscribe again.
			lag := fmt.Errorf("change feed of church %s fell behind", sub.churchID)
			if err := l.remove(sub, lag); err != nil {
				return err
			}
		}
	}
	return nil
}

func (l *changeListener) shutdown(failure error) {
	for _, set := range l.subs {
		for sub := range set {
			if failure != nil {
				sub.finish(fmt.Errorf("change feed of church %s stopped: %w", sub.churchID, failure))
			} else {
				sub.finish(nil)
			}
		}
	}
	l.subs = nil

	ctx, cancel := context.WithTimeout(context.Background(), listenTimeout)
	defer cancel()
	_ = l.conn.Close(ctx)
}

type pgxSubscription struct {
	churchID string
	channel  string
	table    string
	wanted   map[domain.ChangeEventType]bool
	events   chan domain.ChangeEvent
	listener *changeListener
	once     sync.Once

	mu  sync.Mutex
	err error
}

func (s *pgxSubscription) Events() <-chan domain.ChangeEvent { return s.events }

func (s *pgxSubscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Unsubscribe returns once Events is closed.
func (s *pgxSubscription) Unsubscribe() {
	s.once.Do(func() {
		_ = s.listener.send(listenRequest{sub: s})
	})
}

func (s *pgxSubscription) accepts(ev domain.ChangeEvent) bool {
	if !strings.EqualFold(ev.ChurchID, s.churchID) {
		return false
	}
	if ev.Table != "" && ev.Table != s.table {
		return false
	}
	return s.wanted[ev.EventType]
}

func (s *pgxSubscription) finish(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
	close(s.events)
}
