// Package store implements the resource persistence strategy: every resource type has an
// in-memory fallback store and a gorm-backed document store behind the same Store interface,
// and each request picks exactly one of them from a single reachability probe.
//
// Records written to the fallback during an outage are never migrated to the database;
// once the database is reachable again they are simply no longer visible.
package store

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/gracecity/church-backend/internal/apperr"
)

// ErrNotFound is returned by Get, Save and Delete when no record has the requested id.
var ErrNotFound = apperr.NotFound("Record not found")

// Base is embedded by every resource record.
type Base struct {
	ID        string    `gorm:"primaryKey;type:varchar(64)" json:"_id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Meta exposes the embedded Base through a pointer to the enclosing record.
func (b *Base) Meta() *Base { return b }

type metaHolder interface{ Meta() *Base }

// MetaOf returns the embedded Base of a record.
func MetaOf[T any](rec *T) *Base {
	m, ok := any(rec).(metaHolder)
	if !ok {
		panic("store: record type does not embed store.Base")
	}
	return m.Meta()
}

// Store is the CRUD surface shared by the fallback and document implementations.
type Store[T any] interface {
	List(ctx context.Context, q Query[T]) ([]T, int64, error)
	Get(ctx context.Context, id string) (T, error)
	Create(ctx context.Context, rec *T) error
	Save(ctx context.Context, rec *T) error
	Delete(ctx context.Context, id string) error
}

// Filter restricts a listing. Clause/Args are used by the document store, Match by the
// fallback store; both must express the same condition.
type Filter[T any] struct {
	Clause string
	Args   []any
	Match  func(*T) bool
}

// Order sorts a listing by Column (SQL) / Less (memory, ascending). Ties break on id.
type Order[T any] struct {
	Column string
	Desc   bool
	Less   func(a, b *T) bool
}

type Query[T any] struct {
	Filters []Filter[T]
	Order   Order[T]
	Page    Page
}

func (q Query[T]) matches(rec *T) bool {
	for _, f := range q.Filters {
		if f.Match != nil && !f.Match(rec) {
			return false
		}
	}
	return true
}

func (q Query[T]) sort(items []T) {
	less := q.Order.Less
	if less == nil {
		less = func(a, b *T) bool { return MetaOf(a).CreatedAt.Before(MetaOf(b).CreatedAt) }
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := &items[i], &items[j]
		if q.Order.Desc {
			a, b = b, a
		}
		if less(a, b) {
			return true
		}
		if less(b, a) {
			return false
		}
		return MetaOf(&items[i]).ID < MetaOf(&items[j]).ID
	})
}

// Equal builds a case-insensitive equality filter on a string column.
func Equal[T any](column, value string, get func(*T) string) Filter[T] {
	return Filter[T]{
		Clause: "LOWER(" + column + ") = LOWER(?)",
		Args:   []any{value},
		Match:  func(rec *T) bool { return strings.EqualFold(get(rec), value) },
	}
}

// Flag builds an equality filter on a boolean column.
func Flag[T any](column string, value bool, get func(*T) bool) Filter[T] {
	return Filter[T]{
		Clause: column + " = ?",
		Args:   []any{value},
		Match:  func(rec *T) bool { return get(rec) == value },
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search matches term as a case-insensitive substring of any of the given columns. LIKE
// wildcards in term match literally.
func Search[T any](term string, columns []string, fields func(*T) []string) Filter[T] {
	pattern := "%" + likeEscaper.Replace(term) + "%"
	clauses := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, c := range columns {
		clauses[i] = c + ` ILIKE ? ESCAPE '\'`
		args[i] = pattern
	}
	needle := strings.ToLower(term)
	return Filter[T]{
		Clause: "(" + strings.Join(clauses, " OR ") + ")",
		Args:   args,
		Match: func(rec *T) bool {
			for _, f := range fields(rec) {
				if strings.Contains(strings.ToLower(f), needle) {
					return true
				}
			}
			return false
		},
	}
}

// OrderBy sorts by a string-valued column; ISO dates sort correctly as strings.
func OrderBy[T any](column string, desc bool, get func(*T) string) Order[T] {
	return Order[T]{
		Column: column,
		Desc:   desc,
		Less:   func(a, b *T) bool { return get(a) < get(b) },
	}
}

// Newest sorts by creation time.
func Newest[T any](desc bool) Order[T] {
	return Order[T]{Column: "created_at", Desc: desc}
}
