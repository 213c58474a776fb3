package overlays

import (
	"sync"

	"github.com/google/uuid"
)

// EventType names an overlay change.
type EventType string

const (
	EventPresented EventType = "presented"
	EventDismissed EventType = "dismissed"
)

// Reason explains why an overlay was dismissed.
type Reason string

const (
	ReasonSuperseded Reason = "superseded"
	ReasonClosed     Reason = "closed"
	ReasonExpired    Reason = "expired"
)

// Event is pushed to a session's subscribers on every overlay change.
type Event struct {
	Type      EventType `json:"type"`
	SessionID uuid.UUID `json:"session_id"`
	OverlayID uuid.UUID `json:"overlay_id"`
	Reason    Reason    `json:"reason,omitempty"`
	HTML      string    `json:"html,omitempty"`
}

const subscriberBuffer = 16

// hub fans events out to per-session subscriber channels.
type hub struct {
	mu   sync.Mutex
	subs map[uuid.UUID]map[chan Event]struct{}
}

func newHub() *hub {
	return &hub{subs: make(map[uuid.UUID]map[chan Event]struct{})}
}

func (h *hub) subscribe(sessionID uuid.UUID) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	if h.subs[sessionID] == nil {
		h.subs[sessionID] = make(map[chan Event]struct{})
	}
	h.subs[sessionID][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if set, ok := h.subs[sessionID]; ok {
				if _, ok := set[ch]; ok {
					delete(set, ch)
					close(ch)
				}
				if len(set) == 0 {
					delete(h.subs, sessionID)
				}
			}
		})
	}
	return ch, cancel
}

// publish never blocks; a subscriber with a full buffer misses the event.
func (h *hub) publish(e Event) (dropped int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs[e.SessionID] {
		select {
		case ch <- e:
		default:
			dropped++
		}
	}
	return dropped
}

func (h *hub) closeSession(sessionID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs[sessionID] {
		close(ch)
	}
	delete(h.subs, sessionID)
}
