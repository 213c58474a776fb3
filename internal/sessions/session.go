// Package sessions owns per-visitor analysis state: the selected file slot,
// the upload/analysis state machine, and the most recent result.
package sessions

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/medvision/internal/results"
)

// State is a position in the analysis flow.
type State string

const (
	StateIdle         State = "idle"
	StateFileSelected State = "file_selected"
	StateAnalyzing    State = "analyzing"
	StateResultReady  State = "result_ready"
)

// File is the selected image held in a session's single file slot.
type File struct {
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"-"`
}

// Session is one visitor's analysis flow.
// All methods are safe for concurrent use.
type Session struct {
	mu        sync.Mutex
	id        uuid.UUID
	state     State
	file      *File
	result    results.Result
	category  string
	createdAt time.Time
	touchedAt time.Time
}

// Snapshot is the JSON view of a session.
type Snapshot struct {
	ID        uuid.UUID         `json:"id"`
	State     State             `json:"state"`
	File      *File             `json:"file,omitempty"`
	Category  string            `json:"category,omitempty"`
	Result    *results.Envelope `json:"result,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	TouchedAt time.Time         `json:"touched_at"`
}

func newSession(now time.Time) *Session {
	return &Session{
		id:        uuid.New(),
		state:     StateIdle,
		createdAt: now,
		touchedAt: now,
	}
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// State returns the current flow state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// File returns the selected file, or nil when none has been selected.
func (s *Session) File() *File {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file
}

// Result returns the last result and the category it was produced for.
func (s *Session) Result() (results.Result, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return nil, "", ErrNoResult
	}
	return s.result, s.category, nil
}

// Select stores f in the file slot, replacing any previous file.
// A nil file is ignored.
func (s *Session) Select(f *File) error {
	if f == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateAnalyzing {
		return ErrAnalysisInProgress
	}

	s.file = f
	s.state = StateFileSelected
	s.touchedAt = time.Now()
	return nil
}

// BeginAnalysis moves FileSelected to Analyzing and returns the file to analyze.
// Callers defer AbortAnalysis so every exit path leaves the Analyzing state.
func (s *Session) BeginAnalysis() (*File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateFileSelected:
		s.state = StateAnalyzing
		s.touchedAt = time.Now()
		return s.file, nil
	case StateAnalyzing:
		return nil, ErrAnalysisInProgress
	case StateIdle:
		if s.file == nil {
			return nil, ErrNoFile
		}
	}
	return nil, ErrInvalidTransition
}

// CompleteAnalysis records the result and moves Analyzing to ResultReady.
func (s *Session) CompleteAnalysis(category string, r results.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateAnalyzing {
		return ErrInvalidTransition
	}

	s.result = r
	s.category = category
	s.state = StateResultReady
	s.touchedAt = time.Now()
	return nil
}

// AbortAnalysis returns an in-flight analysis to FileSelected.
// It is a no-op once CompleteAnalysis has run.
func (s *Session) AbortAnalysis() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateAnalyzing {
		s.state = StateFileSelected
	}
}

// Dismiss moves ResultReady to Idle when the overlay closes.
// The file and result are retained for later exports.
func (s *Session) Dismiss() {
	s.toIdle()
}

// MarkExported moves ResultReady to Idle after a report download.
func (s *Session) MarkExported() {
	s.toIdle()
}

func (s *Session) toIdle() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateResultReady {
		s.state = StateIdle
	}
	s.touchedAt = time.Now()
}

// Snapshot returns a consistent copy of the session for serialization.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:        s.id,
		State:     s.state,
		File:      s.file,
		Category:  s.category,
		CreatedAt: s.createdAt,
		TouchedAt: s.touchedAt,
	}
	if s.result != nil {
		snap.Result = &results.Envelope{Result: s.result}
	}
	return snap
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.touchedAt = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateAnalyzing {
		return 0
	}
	return now.Sub(s.touchedAt)
}
