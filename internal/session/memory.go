package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type entry[T any] struct {
	v       T
	touched time.Time
}

// MemoryStore is an in-process Store. Every Get or Put refreshes the entry's
// last-touched time, which Sweep uses to evict idle entries.
type MemoryStore[T any] struct {
	mu  sync.RWMutex
	m   map[string]*entry[T]
	now func() time.Time
}

func NewMemoryStore[T any]() *MemoryStore[T] {
	return &MemoryStore[T]{m: map[string]*entry[T]{}, now: time.Now}
}

func (s *MemoryStore[T]) Get(_ context.Context, id string) (T, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.m[id]
	if !ok {
		var zero T
		return zero, false, nil
	}
	e.touched = s.now()
	return e.v, true, nil
}

func (s *MemoryStore[T]) Put(_ context.Context, id string, v T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[id] = &entry[T]{v: v, touched: s.now()}
	return nil
}

func (s *MemoryStore[T]) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, id)
	return nil
}

func (s *MemoryStore[T]) NewID() string {
	return uuid.NewString()
}

// Len returns the number of stored entries.
func (s *MemoryStore[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}

// Sweep removes entries untouched for longer than idle and returns how many
// were removed. A non-positive idle disables eviction.
func (s *MemoryStore[T]) Sweep(idle time.Duration) int {
	if idle <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-idle)
	removed := 0
	for id, e := range s.m {
		if e.touched.Before(cutoff) {
			delete(s.m, id)
			removed++
		}
	}
	return removed
}
