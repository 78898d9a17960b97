// Package repo contains the persistence port of the lead book.
// KV is the minimal key-value contract every backend implements; Storage sits
// on top of it and owns the serialised lead collection. No business logic
// lives here, only encoding and storage calls.
package repo

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkordes/leadbook/backend/internal/domain"
)

// KV is a durable key-value store holding opaque blobs.
// Get returns domain.ErrNotFound when key has never been written.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// MemoryKV is a process-local KV. Data is lost on exit.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryKV returns an empty MemoryKV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

// Get returns a copy of the stored value.
func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	if !ok {
		return nil, fmt.Errorf("repo.MemoryKV.Get: %w", domain.ErrNotFound)
	}
	return append([]byte(nil), v...), nil
}

// Set stores a copy of value under key.
func (m *MemoryKV) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = append([]byte(nil), value...)
	return nil
}
