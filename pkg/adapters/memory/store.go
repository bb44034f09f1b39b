package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/aretw0/delta/pkg/domain"
)

// Store implements ports.AlgorithmStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[int64]domain.Record
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store, optionally seeded with records.
func NewStore(seed ...*domain.Record) *Store {
	s := &Store{
		data: make(map[int64]domain.Record),
	}
	for _, rec := range seed {
		if rec != nil && rec.LocalID != 0 {
			s.data[rec.LocalID] = *rec
		}
	}
	return s
}

// Save persists a copy of the record in memory.
func (s *Store) Save(ctx context.Context, rec *domain.Record) error {
	if rec == nil || rec.LocalID == 0 {
		return domain.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[rec.LocalID] = *rec
	return nil
}

// Load returns a copy so callers can't mutate the stored record by pointer.
func (s *Store) Load(ctx context.Context, id int64) (*domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.data[id]
	if !ok {
		return nil, domain.ErrAlgorithmNotFound
	}
	return &rec, nil
}

// Delete removes the record.
func (s *Store) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// List returns the stored IDs in ascending order.
func (s *Store) List(ctx context.Context) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int64, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}
