package preview

import (
	"sync"
	"time"
)

// Error is one runtime failure trapped inside a sandbox.
type Error struct {
	SessionID string    `json:"session_id"`
	Message   string    `json:"message"`
	At        time.Time `json:"at"`
}

// Hub fans trapped errors out to per-session subscribers. Slow subscribers
// drop messages instead of blocking the publisher.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[chan Error]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[chan Error]struct{})}
}

// Subscribe registers a listener for one session. The returned cancel func
// removes and closes the channel; it is safe to call more than once.
func (h *Hub) Subscribe(sessionID string) (<-chan Error, func()) {
	ch := make(chan Error, 16)
	h.mu.Lock()
	if h.subs[sessionID] == nil {
		h.subs[sessionID] = make(map[chan Error]struct{})
	}
	h.subs[sessionID][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[sessionID], ch)
			if len(h.subs[sessionID]) == 0 {
				delete(h.subs, sessionID)
			}
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers an error to every live subscriber of its session.
func (h *Hub) Publish(e Error) {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs[e.SessionID] {
		select {
		case ch <- e:
		default:
		}
	}
}

// Subscribers reports the number of live listeners for a session.
func (h *Hub) Subscribers(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[sessionID])
}
