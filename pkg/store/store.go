// Package store provides the string key-value stores the registration
// workflow persists its user list into.
package store

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrUnknownBackend is returned when no backend is registered under a name.
	ErrUnknownBackend = errors.New("store: unknown backend")
	// ErrClosed is returned by stores used after Close.
	ErrClosed = errors.New("store: closed")
)

// Store is a get/set string store. Get reports found=false for absent keys.
type Store interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Memory is a map-backed store, safe for concurrent use.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

// Get implements Store.
func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[key]
	return value, ok, nil
}

// Set implements Store.
func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}
