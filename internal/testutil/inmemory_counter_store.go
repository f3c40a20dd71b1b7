package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/feeflow/feeflow/internal/domain/counter"
	ierr "github.com/feeflow/feeflow/internal/errors"
)

// InMemoryCounterStore implements counter.Repository with a mutex-guarded
// map, giving the same atomic-increment contract as the storage layer.
// Errors can be injected to exercise the fallback numbering path.
type InMemoryCounterStore struct {
	mu       sync.Mutex
	counters map[string]*counter.Counter
	failWith error
}

// NewInMemoryCounterStore creates a new in-memory counter store
func NewInMemoryCounterStore() *InMemoryCounterStore {
	return &InMemoryCounterStore{
		counters: make(map[string]*counter.Counter),
	}
}

// FailWith makes every subsequent Increment return err; pass nil to recover
func (s *InMemoryCounterStore) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith = err
}

func (s *InMemoryCounterStore) Increment(ctx context.Context, scopeKey string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWith != nil {
		return 0, ierr.WithError(s.failWith).
			WithHint("voucher sequence generation failed").
			Mark(ierr.ErrDatabase)
	}

	now := time.Now().UTC()
	c, exists := s.counters[scopeKey]
	if !exists {
		c = &counter.Counter{
			ScopeKey:  scopeKey,
			Sequence:  0,
			CreatedAt: now,
		}
		s.counters[scopeKey] = c
	}

	c.Sequence++
	c.UpdatedAt = now
	return c.Sequence, nil
}

func (s *InMemoryCounterStore) Get(ctx context.Context, scopeKey string) (*counter.Counter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, exists := s.counters[scopeKey]
	if !exists {
		return nil, ierr.NewError("counter not found").
			WithHintf("No counter exists for scope %s", scopeKey).
			Mark(ierr.ErrNotFound)
	}

	copied := *c
	return &copied, nil
}

// Clear removes all counters
func (s *InMemoryCounterStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters = make(map[string]*counter.Counter)
	s.failWith = nil
}
