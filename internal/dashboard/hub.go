// Package dashboard serves the live CorrectMyPosture web page.
package dashboard

import (
	"sync"

	"github.com/luki/posture/internal/monitor"
)

const subscriberBuffer = 4

// Hub keeps the latest snapshot and fans it out to live subscribers. Slow
// subscribers miss intermediate frames rather than blocking the monitor.
type Hub struct {
	mu     sync.RWMutex
	latest monitor.Snapshot
	subs   map[chan monitor.Snapshot]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan monitor.Snapshot]struct{})}
}

// Render implements monitor.Renderer.
func (h *Hub) Render(s monitor.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest = s
	for ch := range h.subs {
		select {
		case ch <- s:
		default:
			// drop the oldest frame and retry once
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- s:
			default:
			}
		}
	}
}

// Latest returns the most recent snapshot.
func (h *Hub) Latest() monitor.Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.latest
}

// Subscribe registers a subscriber. The returned cancel func must be
// called once the subscriber is done; it closes the channel.
func (h *Hub) Subscribe() (<-chan monitor.Snapshot, func()) {
	ch := make(chan monitor.Snapshot, subscriberBuffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
}

// Subscribers returns the number of live subscribers.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
