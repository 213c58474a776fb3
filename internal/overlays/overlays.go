// Package overlays presents analysis results as dismissible overlays, at most
// one per session, and pushes overlay changes to websocket subscribers.
package overlays

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/medvision/internal/results"
	"github.com/JaimeStill/medvision/internal/sessions"
)

// Overlay is a presented result.
// ExpiresAt is set only for results with an auto-dismiss timer.
type Overlay struct {
	ID        uuid.UUID       `json:"id"`
	SessionID uuid.UUID       `json:"session_id"`
	Kind      results.Kind    `json:"kind"`
	Display   results.Display `json:"display"`
	HTML      string          `json:"html"`
	CreatedAt time.Time       `json:"created_at"`
	ExpiresAt *time.Time      `json:"expires_at,omitempty"`
}

// System defines the result presenter contract.
type System interface {
	Handler() *Handler

	// Present replaces the session's overlay with one for r.
	Present(sessionID uuid.UUID, r results.Result) (*Overlay, error)
	// Close dismisses the current overlay if overlayID still names it.
	Close(sessionID, overlayID uuid.UUID) error
	Current(sessionID uuid.UUID) (*Overlay, error)

	Subscribe(sessionID uuid.UUID) (<-chan Event, func())
	// Remove drops the session's overlay and subscribers without publishing.
	Remove(sessionID uuid.UUID)
}

type entry struct {
	overlay *Overlay
	timer   *time.Timer
}

type presenter struct {
	mu       sync.Mutex
	current  map[uuid.UUID]*entry
	hub      *hub
	sessions sessions.System

	retinaDismiss time.Duration
	logger        *slog.Logger
}

// New creates the presenter. Retina overlays auto-dismiss after
// retinaDismiss; a non-positive duration disables the timer.
func New(sess sessions.System, retinaDismiss time.Duration, logger *slog.Logger) System {
	p := &presenter{
		current:       make(map[uuid.UUID]*entry),
		hub:           newHub(),
		sessions:      sess,
		retinaDismiss: retinaDismiss,
		logger:        logger.With("system", "overlays"),
	}
	sess.OnRemove(p.Remove)
	return p
}

func (p *presenter) Handler() *Handler {
	return NewHandler(p, p.sessions, p.logger)
}

func (p *presenter) Present(sessionID uuid.UUID, r results.Result) (*Overlay, error) {
	id := uuid.New()

	html, err := Render(id, sessionID, r)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	ov := &Overlay{
		ID:        id,
		SessionID: sessionID,
		Kind:      r.Kind(),
		Display:   r.Display(),
		HTML:      html,
		CreatedAt: now,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if prev, ok := p.current[sessionID]; ok {
		p.drop(sessionID, prev, ReasonSuperseded)
	}

	e := &entry{overlay: ov}
	if r.Kind() == results.KindRetina && p.retinaDismiss > 0 {
		expires := now.Add(p.retinaDismiss)
		ov.ExpiresAt = &expires
		e.timer = time.AfterFunc(p.retinaDismiss, func() {
			p.expire(sessionID, id)
		})
	}
	p.current[sessionID] = e

	p.publish(Event{
		Type:      EventPresented,
		SessionID: sessionID,
		OverlayID: id,
		HTML:      html,
	})

	p.logger.Info("overlay presented", "session", sessionID, "overlay", id, "kind", ov.Kind)
	return ov, nil
}

func (p *presenter) Close(sessionID, overlayID uuid.UUID) error {
	p.mu.Lock()
	e, ok := p.current[sessionID]
	if !ok || e.overlay.ID != overlayID {
		p.mu.Unlock()
		return ErrNotFound
	}
	p.drop(sessionID, e, ReasonClosed)
	p.mu.Unlock()

	p.dismissSession(sessionID)
	return nil
}

func (p *presenter) Current(sessionID uuid.UUID) (*Overlay, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	e, ok := p.current[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	return e.overlay, nil
}

func (p *presenter) Subscribe(sessionID uuid.UUID) (<-chan Event, func()) {
	return p.hub.subscribe(sessionID)
}

func (p *presenter) Remove(sessionID uuid.UUID) {
	p.mu.Lock()
	if e, ok := p.current[sessionID]; ok {
		if e.timer != nil {
			e.timer.Stop()
		}
		delete(p.current, sessionID)
	}
	p.mu.Unlock()

	p.hub.closeSession(sessionID)
}

// expire runs on the timer goroutine. A timer whose overlay was already
// superseded or closed finds a different (or no) current entry and does nothing.
func (p *presenter) expire(sessionID, overlayID uuid.UUID) {
	p.mu.Lock()
	e, ok := p.current[sessionID]
	if !ok || e.overlay.ID != overlayID {
		p.mu.Unlock()
		return
	}
	p.drop(sessionID, e, ReasonExpired)
	p.mu.Unlock()

	p.dismissSession(sessionID)
}

// drop removes e and publishes its dismissal. Callers hold p.mu.
func (p *presenter) drop(sessionID uuid.UUID, e *entry, reason Reason) {
	if e.timer != nil {
		e.timer.Stop()
	}
	delete(p.current, sessionID)

	p.publish(Event{
		Type:      EventDismissed,
		SessionID: sessionID,
		OverlayID: e.overlay.ID,
		Reason:    reason,
	})

	p.logger.Info("overlay dismissed", "session", sessionID, "overlay", e.overlay.ID, "reason", reason)
}

func (p *presenter) publish(e Event) {
	if dropped := p.hub.publish(e); dropped > 0 {
		p.logger.Warn("overlay event dropped", "session", e.SessionID, "type", e.Type, "subscribers", dropped)
	}
}

func (p *presenter) dismissSession(sessionID uuid.UUID) {
	sess, err := p.sessions.Get(sessionID)
	if err != nil {
		return
	}
	sess.Dismiss()
}
