package services

import (
	"context"
	"errors"
	"sync"
	"time"
)

var errSave = errors.New("disk full")

// memStore is an in-memory SnapshotStore.
type memStore[T any] struct {
	mu      sync.Mutex
	v       T
	found   bool
	loadErr error
	saveErr error
	saves   int
}

func (m *memStore[T]) Load(context.Context) (T, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.v, m.found, m.loadErr
}

func (m *memStore[T]) Save(_ context.Context, v T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.v = v
	m.found = true
	return nil
}

// fakeClock returns t and advances it by step on every call.
type fakeClock struct {
	mu   sync.Mutex
	t    time.Time
	step time.Duration
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.t
	c.t = c.t.Add(c.step)
	return t
}
