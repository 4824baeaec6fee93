package storage

import (
	"context"
	"sync"

	"github.com/ecoscan/backend/internal/domain"
)

// MemoryStore is a thread-safe in-memory slot backend. Used in tests and as
// a throwaway backend for development; contents vanish with the process.
type MemoryStore struct {
	data  map[string][]byte
	mutex sync.RWMutex
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string][]byte),
	}
}

// Get retrieves a slot's contents.
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	value, exists := s.data[key]
	if !exists {
		return nil, domain.ErrSlotNotFound
	}

	// Copy so callers cannot mutate the stored document.
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Set replaces a slot's contents wholesale.
func (s *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	s.data[key] = stored
	return nil
}

// Size returns the number of slots held (for debugging/monitoring).
func (s *MemoryStore) Size() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.data)
}
