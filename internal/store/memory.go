package store

import (
	"context"
	"sync"

	"github.com/serroba/tinyurl-history/internal/history"
)

// MemoryStore is an in-memory implementation of history.Backend.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte // collection key -> serialized history
}

// NewMemoryStore creates a new in-memory history backend.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		blobs: make(map[string][]byte),
	}
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.blobs[key] = append([]byte(nil), value...)

	return nil
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.blobs[key]
	if !ok {
		return nil, history.ErrNotFound
	}

	return append([]byte(nil), value...), nil
}

// Ping always succeeds.
func (m *MemoryStore) Ping(_ context.Context) error {
	return nil
}

var _ history.Backend = (*MemoryStore)(nil)
