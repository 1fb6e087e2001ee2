package storage

import (
	"context"

	"country-converter/internal/cache"
)

// Memory keeps entries in process memory only. Nothing survives a restart.
type Memory struct {
	items *cache.Local[string, string]
}

// NewMemory returns an empty, goroutine-safe Memory storage.
func NewMemory() *Memory {
	return &Memory{items: cache.NewLocal[string, string](cache.LocalOptions{ConcurrencySafe: true})}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := m.items.Get(key)
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.items.Set(key, value, 0)
	return nil
}

func (m *Memory) Remove(_ context.Context, key string) error {
	m.items.Delete(key)
	return nil
}

func (m *Memory) Close() error {
	m.items.Clear()
	return nil
}
