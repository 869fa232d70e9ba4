package locality

import (
	"context"
	"sync"
)

// MemoryStore keeps localities in process. It is the default store when no
// Redis address is configured.
type MemoryStore struct {
	mu sync.RWMutex
	m  map[string]Locality
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{m: make(map[string]Locality)}
}

func (s *MemoryStore) Get(_ context.Context, name string) (Locality, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.m[NormalizeName(name)]
	if !ok {
		return Locality{}, ErrNotFound
	}
	return l, nil
}

func (s *MemoryStore) Put(_ context.Context, l Locality) error {
	if err := l.Validate(); err != nil {
		return err
	}
	l.Name = NormalizeName(l.Name)
	s.mu.Lock()
	s.m[l.Name] = l
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, name string) error {
	name = NormalizeName(name)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.m[name]; !ok {
		return ErrNotFound
	}
	delete(s.m, name)
	return nil
}
