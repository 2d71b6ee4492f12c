package testimonies

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/gracecity/church-backend/internal/db"
	"github.com/gracecity/church-backend/internal/resource"
	"github.com/gracecity/church-backend/internal/store"
)

type Module struct {
	h *resource.Handler[Testimony]
}

func Init(h *db.Handle) *Module {
	h.Register(func(gdb *gorm.DB) error {
		if err := gdb.AutoMigrate(&Testimony{}); err != nil {
			return fmt.Errorf("migrate testimonies: %w", err)
		}
		return nil
	})

	return &Module{h: resource.New(resource.Config[Testimony]{
		Singular:  "testimony",
		Plural:    "testimonies",
		Label:     "Testimony",
		Backend:   store.NewBackend[Testimony]("testimonies", h),
		Query:     query,
		Published: func(t *Testimony) bool { return t.IsPublished },
		Validate:  validate,
	})}
}

func (m *Module) Backend() *store.Backend[Testimony] { return m.h.Backend() }
