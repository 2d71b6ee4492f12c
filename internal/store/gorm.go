package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gracecity/church-backend/internal/apperr"
)

const uniqueViolation = "23505"

// GormStore is the persistent document store for one resource table.
type GormStore[T any] struct {
	db *gorm.DB
}

func NewGormStore[T any](db *gorm.DB) *GormStore[T] {
	return &GormStore[T]{db: db}
}

func (s *GormStore[T]) List(ctx context.Context, q Query[T]) ([]T, int64, error) {
	base := s.db.WithContext(ctx).Model(new(T))
	for _, f := range q.Filters {
		if f.Clause != "" {
			base = base.Where(f.Clause, f.Args...)
		}
	}
	base = base.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count: %w", err)
	}

	column := q.Order.Column
	if column == "" {
		column = "created_at"
	}
	tx := base.Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: q.Order.Desc}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}})
	if q.Page.Limit > 0 {
		tx = tx.Limit(q.Page.Limit).Offset(q.Page.offset())
	}

	items := []T{}
	if err := tx.Find(&items).Error; err != nil {
		return nil, 0, fmt.Errorf("find: %w", err)
	}
	return items, total, nil
}

func (s *GormStore[T]) Get(ctx context.Context, id string) (T, error) {
	var rec T
	err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return rec, ErrNotFound
	}
	if err != nil {
		return rec, fmt.Errorf("get %s: %w", id, err)
	}
	return rec, nil
}

func (s *GormStore[T]) Create(ctx context.Context, rec *T) error {
	meta := MetaOf(rec)
	if meta.ID == "" {
		meta.ID = uuid.NewString()
	}
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (s *GormStore[T]) Save(ctx context.Context, rec *T) error {
	res := s.db.WithContext(ctx).Model(rec).Select("*").Omit("created_at").Updates(rec)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore[T]) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(new(T), "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func translate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return apperr.Conflict("A record with the same unique value already exists")
	}
	return err
}
