package sessions

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/medvision/pkg/lifecycle"
)

// System defines the public contract for the session store.
type System interface {
	Handler() *Handler

	Create() *Session
	Get(id uuid.UUID) (*Session, error)
	Delete(id uuid.UUID) error

	// OnRemove registers fn to run after a session is deleted or expires.
	OnRemove(fn func(id uuid.UUID))

	// Sweep removes sessions idle longer than the TTL as of now.
	Sweep(now time.Time) int
	Start(lc *lifecycle.Coordinator) error
}

type store struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	removers []func(uuid.UUID)

	ttl           time.Duration
	sweepInterval time.Duration
	logger        *slog.Logger
}

// New creates an in-memory session store.
// A non-positive ttl disables expiry.
func New(ttl, sweepInterval time.Duration, logger *slog.Logger) System {
	return &store{
		sessions:      make(map[uuid.UUID]*Session),
		ttl:           ttl,
		sweepInterval: sweepInterval,
		logger:        logger.With("system", "sessions"),
	}
}

func (s *store) Handler() *Handler {
	return NewHandler(s, s.logger)
}

func (s *store) Create() *Session {
	sess := newSession(time.Now())

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	s.logger.Info("session created", "id", sess.id)
	return sess
}

func (s *store) Get(id uuid.UUID) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}

	sess.touch(time.Now())
	return sess, nil
}

func (s *store) Delete(id uuid.UUID) error {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	removers := s.removers
	s.mu.Unlock()

	if !ok {
		return ErrNotFound
	}

	for _, fn := range removers {
		fn(id)
	}

	s.logger.Info("session deleted", "id", id)
	return nil
}

func (s *store) OnRemove(fn func(id uuid.UUID)) {
	s.mu.Lock()
	s.removers = append(s.removers, fn)
	s.mu.Unlock()
}

func (s *store) Sweep(now time.Time) int {
	if s.ttl <= 0 {
		return 0
	}

	var expired []uuid.UUID

	s.mu.Lock()
	for id, sess := range s.sessions {
		if sess.idleSince(now) > s.ttl {
			expired = append(expired, id)
			delete(s.sessions, id)
		}
	}
	removers := s.removers
	s.mu.Unlock()

	for _, id := range expired {
		for _, fn := range removers {
			fn(id)
		}
	}

	if len(expired) > 0 {
		s.logger.Info("sessions expired", "count", len(expired))
	}
	return len(expired)
}

func (s *store) Start(lc *lifecycle.Coordinator) error {
	if s.ttl <= 0 {
		s.logger.Info("session expiry disabled")
		return nil
	}

	lc.Every(s.sweepInterval, func() {
		s.Sweep(time.Now())
	})

	s.logger.Info("session sweeper registered", "ttl", s.ttl, "interval", s.sweepInterval)
	return nil
}
