package session

import (
	"context"
	"sync"
)

// memoryStore is the default in-process slot backend.
type memoryStore struct {
	mu    sync.RWMutex
	slots map[string]string
}

// NewMemoryStore creates an in-memory session store.
func NewMemoryStore() Store {
	return &memoryStore{slots: make(map[string]string)}
}

func (m *memoryStore) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.slots[key], nil
}

func (m *memoryStore) Set(_ context.Context, key, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[key] = userID
	return nil
}

func (m *memoryStore) Clear(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, key)
	return nil
}

func (m *memoryStore) Close() error { return nil }
