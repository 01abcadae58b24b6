package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/docu/pkg/domain"
)

// Store implements ports.CounterStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]int64
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]int64),
	}
}

// Mount creates the counter at 0 unless it exists.
func (s *Store) Mount(ctx context.Context, id string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count, ok := s.data[id]
	if !ok {
		s.data[id] = 0
	}
	return count, nil
}

// Load retrieves the count from memory.
func (s *Store) Load(ctx context.Context, id string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count, ok := s.data[id]
	if !ok {
		return 0, domain.ErrCounterNotFound
	}
	return count, nil
}

// Increment applies the increment transition under the write lock.
func (s *Store) Increment(ctx context.Context, id string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := domain.Increment(s.data[id])
	s.data[id] = next
	return next, nil
}

// Delete removes the counter.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// List returns mounted counters, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
