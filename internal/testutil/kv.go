// Package testutil provides shared test doubles for the ecosnap
// packages.
package testutil

import (
	"context"
	"sync"
)

// MemoryKV is an in-memory KVStore for tests. Safe for concurrent
// use.
type MemoryKV struct {
	mu     sync.Mutex
	values map[string]string

	// Sets counts successful Set calls.
	Sets int
	// FailWith, when non-nil, is returned by every mutation.
	FailWith error
}

// NewMemoryKV returns an empty store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string]string)}
}

// Seed installs a value without counting as a Set.
func (m *MemoryKV) Seed(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

// Get implements service.KVStore.
func (m *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

// Set implements service.KVStore.
func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	m.values[key] = value
	m.Sets++
	return nil
}

// Delete implements service.KVStore.
func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	delete(m.values, key)
	return nil
}

// Value returns the stored value for key, if any.
func (m *MemoryKV) Value(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}
