// Package storage is the single-device key/value store backing the planner's
// "local storage". Values are opaque bytes; callers own the encoding.
package storage

import (
	"errors"
	"sync"
)

var ErrEmptyKey = errors.New("storage: key is empty")

// Storage is a synchronous key/value store.
type Storage interface {
	// GetItem returns the value for key and whether it was present.
	GetItem(key string) ([]byte, bool, error)
	// SetItem overwrites any prior value for key.
	SetItem(key string, value []byte) error
	// RemoveItem deletes key. Removing an absent key is not an error.
	RemoveItem(key string) error
}

// MemoryStorage keeps values in process memory.
type MemoryStorage struct {
	mu    sync.RWMutex
	items map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{items: make(map[string][]byte)}
}

func (m *MemoryStorage) GetItem(key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, ErrEmptyKey
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.items[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *MemoryStorage) SetItem(key string, value []byte) error {
	if key == "" {
		return ErrEmptyKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryStorage) RemoveItem(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.items, key)
	return nil
}
