package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is the non-persistent fallback: one slice per resource type, living for the
// process lifetime. Records are copied in and out, so callers never share memory with the
// store. The mutex makes single operations atomic; read-modify-write sequences spanning Get
// and Save are not protected against concurrent requests.
type MemoryStore[T any] struct {
	mu    sync.RWMutex
	items []T
	now   func() time.Time
}

func NewMemoryStore[T any]() *MemoryStore[T] {
	_ = MetaOf(new(T))
	return &MemoryStore[T]{now: time.Now}
}

func (s *MemoryStore[T]) List(_ context.Context, q Query[T]) ([]T, int64, error) {
	s.mu.RLock()
	matched := make([]T, 0, len(s.items))
	for i := range s.items {
		if q.matches(&s.items[i]) {
			matched = append(matched, clone(s.items[i]))
		}
	}
	s.mu.RUnlock()

	q.sort(matched)
	total := int64(len(matched))
	if q.Page.Limit <= 0 {
		return matched, total, nil
	}
	start := q.Page.offset()
	if start >= len(matched) {
		return []T{}, total, nil
	}
	end := start + q.Page.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (s *MemoryStore[T]) Get(_ context.Context, id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return clone(s.items[i]), nil
	}
	var zero T
	return zero, ErrNotFound
}

func (s *MemoryStore[T]) Create(_ context.Context, rec *T) error {
	meta := MetaOf(rec)
	if meta.ID == "" {
		meta.ID = uuid.NewString()
	}
	now := s.now().UTC()
	meta.CreatedAt = now
	meta.UpdatedAt = now

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, clone(*rec))
	return nil
}

func (s *MemoryStore[T]) Save(_ context.Context, rec *T) error {
	meta := MetaOf(rec)

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(meta.ID)
	if i < 0 {
		return ErrNotFound
	}
	meta.CreatedAt = MetaOf(&s.items[i]).CreatedAt
	meta.UpdatedAt = s.now().UTC()
	s.items[i] = clone(*rec)
	return nil
}

func (s *MemoryStore[T]) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return nil
}

// Seed appends records, assigning ids and timestamps where missing.
func (s *MemoryStore[T]) Seed(items []T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now().UTC()
	for i := range items {
		meta := MetaOf(&items[i])
		if meta.ID == "" {
			meta.ID = uuid.NewString()
		}
		if meta.CreatedAt.IsZero() {
			meta.CreatedAt = now
		}
		if meta.UpdatedAt.IsZero() {
			meta.UpdatedAt = meta.CreatedAt
		}
		s.items = append(s.items, clone(items[i]))
	}
}

func (s *MemoryStore[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *MemoryStore[T]) indexOf(id string) int {
	for i := range s.items {
		if MetaOf(&s.items[i]).ID == id {
			return i
		}
	}
	return -1
}
