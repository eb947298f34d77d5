// Package ratelimit tracks the last successful download per user
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps last success times in memory for the process lifetime.
// Entries older than ttl are swept by a janitor goroutine started with Start.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[int64]time.Time
	ttl     time.Duration
	now     func() time.Time

	janitor *janitor
}

// NewMemoryStore creates a store that forgets entries older than ttl
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[int64]time.Time),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Last returns the last success time of user
func (s *MemoryStore) Last(_ context.Context, userID int64) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	at, ok := s.entries[userID]
	return at, ok
}

// Record stores a success time of user, never moving it backwards
func (s *MemoryStore) Record(_ context.Context, userID int64, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.entries[userID]; ok && prev.After(at) {
		return
	}
	s.entries[userID] = at
}

// Len returns the number of tracked users
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Sweep removes entries that can no longer limit anybody and returns how many were removed
func (s *MemoryStore) Sweep() int {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for userID, at := range s.entries {
		if !at.After(cutoff) {
			delete(s.entries, userID)
			removed++
		}
	}
	return removed
}

// Start launches the janitor sweeping every interval; onSweep receives the remaining size
func (s *MemoryStore) Start(interval time.Duration, onSweep func(remaining int)) {
	if interval <= 0 || s.janitor != nil {
		return
	}
	s.janitor = &janitor{
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go s.janitor.run(s, onSweep)
}

// Stop stops the janitor and waits for it to exit
func (s *MemoryStore) Stop() {
	if s.janitor == nil {
		return
	}
	close(s.janitor.stop)
	<-s.janitor.done
	s.janitor = nil
}

// janitor performs periodic cleanup of expired entries
type janitor struct {
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

func (j *janitor) run(s *MemoryStore, onSweep func(remaining int)) {
	defer close(j.done)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Sweep()
			if onSweep != nil {
				onSweep(s.Len())
			}
		case <-j.stop:
			return
		}
	}
}
