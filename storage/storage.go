// Package storage provides the local key-value slots that survive page
// reloads: one string value per key, last writer wins.
package storage

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by GetItem when the key has never been written
// or was removed.
var ErrNotFound = errors.New("storage: key not found")

// Storage is a string key-value store with Web Storage semantics.
type Storage interface {
	GetItem(ctx context.Context, key string) (string, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// Scoped prefixes every key with scope, so several shoppers can share one
// backing store without seeing each other's slots.
func Scoped(inner Storage, scope string) Storage {
	return &scopedStorage{inner: inner, prefix: scope + ":"}
}

type scopedStorage struct {
	inner  Storage
	prefix string
}

func (s *scopedStorage) GetItem(ctx context.Context, key string) (string, error) {
	return s.inner.GetItem(ctx, s.prefix+key)
}

func (s *scopedStorage) SetItem(ctx context.Context, key, value string) error {
	return s.inner.SetItem(ctx, s.prefix+key, value)
}

func (s *scopedStorage) RemoveItem(ctx context.Context, key string) error {
	return s.inner.RemoveItem(ctx, s.prefix+key)
}

// MemoryStorage keeps values in process memory. Safe for concurrent use.
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

func (m *MemoryStorage) GetItem(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (m *MemoryStorage) SetItem(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryStorage) RemoveItem(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
