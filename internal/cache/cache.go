// Package cache provides fixed time-to-live caching for upstream lookups. Entries expire by
// wall clock only; writes elsewhere never invalidate them.
package cache

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"
)

// TTL stores JSON-encoded values until their deadline passes.
type TTL interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttl time.Duration) error
}

type entry struct {
	data    []byte
	expires time.Time
}

// Memory is the in-process TTL cache used when no Redis URL is configured.
type Memory struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string]entry), now: time.Now}
}

func (m *Memory) Get(_ context.Context, key string, dst any) (bool, error) {
	m.mu.Lock()
	e, ok := m.entries[key]
	if ok && !m.now().Before(e.expires) {
		delete(m.entries, key)
		ok = false
	}
	m.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(e.data, dst)
}

func (m *Memory) Set(_ context.Context, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.entries[key] = entry{data: data, expires: m.now().Add(ttl)}
	m.mu.Unlock()
	return nil
}

// Fetch returns the cached value for key or calls load and caches its result. The bool
// reports a cache hit. Cache failures are logged and fall through to load.
func Fetch[T any](ctx context.Context, c TTL, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, bool, error) {
	var v T
	hit, err := c.Get(ctx, key, &v)
	if err != nil {
		log.Printf("[cache] get %s: %v", key, err)
	}
	if hit && err == nil {
		return v, true, nil
	}

	v, err = load(ctx)
	if err != nil {
		return v, false, err
	}
	if err := c.Set(ctx, key, v, ttl); err != nil {
		log.Printf("[cache] set %s: %v", key, err)
	}
	return v, false, nil
}
