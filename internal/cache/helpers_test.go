package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

// mapStorage is an in-package Storage; the real backends live in a package
// that imports this one.
type mapStorage struct {
	mu      sync.Mutex
	data    map[string]string
	sets    int
	failGet error
	failSet error
}

func newMapStorage() *mapStorage {
	return &mapStorage{data: make(map[string]string)}
}

func (m *mapStorage) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet != nil {
		return "", false, m.failGet
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *mapStorage) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSet != nil {
		return m.failSet
	}
	m.sets++
	m.data[key] = value
	return nil
}

func (m *mapStorage) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *mapStorage) writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sets
}

var errBoom = errors.New("boom")

func quietLogger() *logrus.Logger {
	l, _ := test.NewNullLogger()
	return l
}

// freezeClock pins the package clock to base and returns a setter.
func freezeClock(t *testing.T, base time.Time) func(time.Time) {
	t.Helper()
	var mu sync.Mutex
	current := base
	now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return current
	}
	t.Cleanup(func() { now = time.Now })
	return func(next time.Time) {
		mu.Lock()
		current = next
		mu.Unlock()
	}
}
