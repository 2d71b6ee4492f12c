package store

import (
	"context"
	"log"

	"gorm.io/gorm"

	"github.com/gracecity/church-backend/internal/apperr"
	"github.com/gracecity/church-backend/internal/obs"
)

// Connector is the reachability probe; nil means "unreachable, use the fallback".
type Connector interface {
	Connect(ctx context.Context) *gorm.DB
}

// Backend pairs a resource's fallback store with its document store. It is built once per
// process and injected into the resource's handlers.
type Backend[T any] struct {
	name   string
	conn   Connector
	memory *MemoryStore[T]
}

func NewBackend[T any](name string, conn Connector) *Backend[T] {
	return &Backend[T]{name: name, conn: conn, memory: NewMemoryStore[T]()}
}

func (b *Backend[T]) Name() string { return b.name }

func (b *Backend[T]) Memory() *MemoryStore[T] { return b.memory }

// Select returns the store this request must use and whether it is the fallback.
func (b *Backend[T]) Select(ctx context.Context) (Store[T], bool) {
	if s, ok := Open[T](ctx, b.conn); ok {
		return s, false
	}
	obs.FallbackSelections.WithLabelValues(b.name).Inc()
	log.Printf("[store] %s: serving from in-memory fallback", b.name)
	return b.memory, true
}

// Open returns the document store when the database is reachable.
func Open[T any](ctx context.Context, conn Connector) (Store[T], bool) {
	if conn == nil {
		return nil, false
	}
	gdb := conn.Connect(ctx)
	if gdb == nil {
		return nil, false
	}
	return NewGormStore[T](gdb), true
}

// Require is Open for resources that must never fall back (money, accounts).
func Require[T any](ctx context.Context, conn Connector) (Store[T], error) {
	s, ok := Open[T](ctx, conn)
	if !ok {
		return nil, apperr.Unavailable("Service temporarily unavailable, please try again later", nil)
	}
	return s, nil
}
