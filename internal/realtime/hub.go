package realtime

import (
	"sync"

	"github.com/SscSPs/church_finance_app/internal/core/domain"
)

const noticeBuffer = 16

// Notifier delivers user-facing notices.
type Notifier interface {
	Publish(n domain.Notice)
}

// Hub fans notices out to every subscriber of the same church. Slow
// subscribers lose notices rather than block the bridge.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan domain.Notice]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subscribers: make(map[string]map[chan domain.Notice]struct{})}
}

// Publish delivers n to the subscribers of n.ChurchID.
func (h *Hub) Publish(n domain.Notice) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subscribers[n.ChurchID] {
		select {
		case ch <- n:
		default:
		}
	}
}

// Subscribe registers a subscriber. The returned cancel func unregisters it
// and closes the channel; it is safe to call more than once.
func (h *Hub) Subscribe(churchID string) (<-chan domain.Notice, func()) {
	ch := make(chan domain.Notice, noticeBuffer)

	h.mu.Lock()
	if h.subscribers[churchID] == nil {
		h.subscribers[churchID] = make(map[chan domain.Notice]struct{})
	}
	h.subscribers[churchID][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subscribers[churchID], ch)
			if len(h.subscribers[churchID]) == 0 {
				delete(h.subscribers, churchID)
			}
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Subscribers reports how many subscribers a church has.
func (h *Hub) Subscribers(churchID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[churchID])
}
