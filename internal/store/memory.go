package store

import (
	"context"
	"sync"
)

// MemoryKV keeps documents in process memory. Used for development and tests.
type MemoryKV struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{docs: make(map[string][]byte)}
}

func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.docs[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (m *MemoryKV) PutAll(_ context.Context, entries map[string][]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range entries {
		cp := make([]byte, len(v))
		copy(cp, v)
		m.docs[k] = cp
	}
	return nil
}

// Snapshot returns a copy of every document as strings, keyed by collection.
func (m *MemoryKV) Snapshot() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.docs))
	for k, v := range m.docs {
		out[k] = string(v)
	}
	return out
}
