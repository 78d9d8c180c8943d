package repositories

import (
	"context"
	"sync"
)

// MemoryDocuments implements [Documents] with a process-local map.
//
// Contents vanish with the process, which is what session-scoped state wants.
type MemoryDocuments struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryDocuments creates an empty [MemoryDocuments].
func NewMemoryDocuments() *MemoryDocuments {
	return &MemoryDocuments{data: make(map[string]string)}
}

func (m *MemoryDocuments) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryDocuments) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryDocuments) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MemoryDocuments) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.data)
	return nil
}

// Len reports the number of stored keys.
func (m *MemoryDocuments) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
