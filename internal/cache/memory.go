package cache

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNotFound signals a cache miss or an expired entry.
var ErrNotFound = errors.New("cache: key not found")

type entry struct {
	value     any
	expiresAt time.Time
}

// Memory is an in-process TTL cache implementing interfaces.CacheProvider.
// Entries carry their own expiry; expired entries are dropped lazily on read.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// NewMemory creates an empty in-process cache.
func NewMemory() *Memory {
	return &Memory{
		entries: map[string]entry{},
		now:     time.Now,
	}
}

// Get returns the value stored under key, or ErrNotFound when absent or expired.
func (m *Memory) Get(ctx context.Context, key string) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	item, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	if !item.expiresAt.IsZero() && m.now().After(item.expiresAt) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return nil, ErrNotFound
	}
	return item.value, nil
}

// Set stores value under key. A non-positive ttl keeps the entry until Clear.
func (m *Memory) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	item := entry{value: value}
	if ttl > 0 {
		item.expiresAt = m.now().Add(ttl)
	}

	m.mu.Lock()
	m.entries[key] = item
	m.mu.Unlock()
	return nil
}

// Delete removes the entry stored under key.
func (m *Memory) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

// Clear removes every entry.
func (m *Memory) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	m.entries = map[string]entry{}
	m.mu.Unlock()
	return nil
}
