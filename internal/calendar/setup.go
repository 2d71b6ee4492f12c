package calendar

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/gracecity/church-backend/internal/db"
	"github.com/gracecity/church-backend/internal/resource"
	"github.com/gracecity/church-backend/internal/store"
)

type Module struct {
	h *resource.Handler[Entry]
}

func Init(h *db.Handle) *Module {
	h.Register(func(gdb *gorm.DB) error {
		if err := gdb.AutoMigrate(&Entry{}); err != nil {
			return fmt.Errorf("migrate calendar: %w", err)
		}
		return nil
	})

	return &Module{h: resource.New(resource.Config[Entry]{
		Singular: "entry",
		Plural:   "entries",
		Label:    "Calendar entry",
		Backend:  store.NewBackend[Entry]("calendar", h),
		Query:    query,
		Validate: validate,
	})}
}

func (m *Module) Backend() *store.Backend[Entry] { return m.h.Backend() }
