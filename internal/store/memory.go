package store

import (
	"context"
	"sync"
)

// MemoryStore keeps collections in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[Collection][]byte
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[Collection][]byte)}
}

func (s *MemoryStore) Read(_ context.Context, c Collection) ([]byte, error) {
	if err := checkCollection(c); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	payload, ok := s.data[c]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), payload...), nil
}

func (s *MemoryStore) Write(_ context.Context, c Collection, payload []byte) error {
	if err := checkCollection(c); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[c] = append([]byte(nil), payload...)
	return nil
}
