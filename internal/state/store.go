package state

import (
	"fmt"
	"sync"
	"time"
)

// Summary describes what the last successful poll loaded.
type Summary struct {
	Feeds   int
	Entries int
	Unread  int
}

// Snapshot represents the latest sync status available to the UI.
type Snapshot struct {
	Summary             Summary
	HasSummary          bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive poll failures
	FromCache           bool
}

// IsOffline returns true when the server has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update replaces the stored summary. When err is non-nil the previous data is
// kept but the error is recorded for visibility.
func (s *Store) Update(summary *Summary, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		return
	}

	if summary != nil {
		s.snapshot.Summary = *summary
		s.snapshot.HasSummary = true
	} else {
		s.snapshot.HasSummary = false
	}
	s.snapshot.FromCache = false
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// Seed records a summary restored from the local cache before the first poll.
// It is a no-op once a live poll has succeeded.
func (s *Store) Seed(summary Summary) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshot.HasSummary {
		return
	}
	s.snapshot.Summary = summary
	s.snapshot.HasSummary = true
	s.snapshot.FromCache = true
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}
