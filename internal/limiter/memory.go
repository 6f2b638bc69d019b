package limiter

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps window counters in process memory behind a mutex.
// Counters reset lazily when a hit arrives after their window passed;
// long-running processes should call Purge periodically to drop dead
// keys.
type MemoryStore struct {
	mu       sync.Mutex
	counters map[string]*windowCounter
	now      func() time.Time
}

type windowCounter struct {
	count   int64
	resetAt time.Time
}

// NewMemoryStore creates an in-process counter store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		counters: make(map[string]*windowCounter),
		now:      time.Now,
	}
}

// Increment bumps the counter under key, opening a new window when no
// window is active for it.
func (s *MemoryStore) Increment(ctx context.Context, key string, window time.Duration) (int64, time.Time, error) {
	if err := ctx.Err(); err != nil {
		return 0, time.Time{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	c, ok := s.counters[key]
	if !ok || !now.Before(c.resetAt) {
		c = &windowCounter{resetAt: now.Add(window)}
		s.counters[key] = c
	}
	c.count++
	return c.count, c.resetAt, nil
}

// Purge drops counters whose window has passed and returns how many
// were removed.
func (s *MemoryStore) Purge() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for key, c := range s.counters {
		if !now.Before(c.resetAt) {
			delete(s.counters, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked counters, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.counters)
}
