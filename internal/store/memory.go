package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps CVs in process memory. It backs the service when no
// database is configured.
type MemoryStore struct {
	mu  sync.RWMutex
	cvs map[string]CV
	now func() time.Time
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{cvs: make(map[string]CV), now: time.Now}
}

func (s *MemoryStore) Create(_ context.Context, cv *CV) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cv.ID == "" {
		cv.ID = uuid.NewString()
	}
	cv.CreatedAt = s.now()
	cv.UpdatedAt = cv.CreatedAt
	s.cvs[cv.ID] = *cv
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*CV, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cv, ok := s.cvs[id]
	if !ok {
		return nil, ErrCVNotFound
	}
	return &cv, nil
}

func (s *MemoryStore) Update(_ context.Context, cv *CV) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.cvs[cv.ID]
	if !ok {
		return ErrCVNotFound
	}
	cv.CreatedAt = old.CreatedAt
	cv.UpdatedAt = s.now()
	s.cvs[cv.ID] = *cv
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cvs[id]; !ok {
		return ErrCVNotFound
	}
	delete(s.cvs, id)
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]CV, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]CV, 0, len(s.cvs))
	for _, cv := range s.cvs {
		out = append(out, cv)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
