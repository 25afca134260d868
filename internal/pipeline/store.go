package pipeline

import (
	"sync"
	"time"

	"github.com/couchcryptid/quakewatch/internal/domain"
)

// FeedStatus describes the outcome of the most recent feed refresh.
type FeedStatus struct {
	Sequence      uint64    `json:"sequence"`
	EventCount    int       `json:"event_count"`
	FetchedAt     time.Time `json:"fetched_at"`
	LastAttemptAt time.Time `json:"last_attempt_at"`
	LastError     string    `json:"last_error,omitempty"`
}

// Store holds the authoritative event snapshot. Completions are applied in
// sequence order: a completion whose sequence is not newer than the last one
// applied is rejected, so a slow fetch can never overwrite a newer result.
type Store struct {
	mu        sync.RWMutex
	events    []domain.Event
	seq       uint64
	fetchedAt time.Time
	attempted time.Time
	lastErr   string
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{}
}

// Replace swaps in events fetched at time at. It reports false, leaving the
// store untouched, when seq is stale.
func (s *Store) Replace(seq uint64, events []domain.Event, at time.Time) bool {
	cp := make([]domain.Event, len(events))
	copy(cp, events)

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq <= s.seq {
		return false
	}
	s.seq = seq
	s.events = cp
	s.fetchedAt = at
	s.attempted = at
	s.lastErr = ""
	return true
}

// RecordFailure notes a failed refresh. The previous snapshot is kept. It
// reports false when seq is stale.
func (s *Store) RecordFailure(seq uint64, err error, at time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq <= s.seq {
		return false
	}
	s.seq = seq
	s.attempted = at
	s.lastErr = err.Error()
	return true
}

// Snapshot returns a copy of the current events.
func (s *Store) Snapshot() []domain.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Event, len(s.events))
	copy(out, s.events)
	return out
}

// Status returns the current feed status.
func (s *Store) Status() FeedStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return FeedStatus{
		Sequence:      s.seq,
		EventCount:    len(s.events),
		FetchedAt:     s.fetchedAt,
		LastAttemptAt: s.attempted,
		LastError:     s.lastErr,
	}
}
