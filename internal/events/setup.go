package events

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/gracecity/church-backend/internal/db"
	"github.com/gracecity/church-backend/internal/resource"
	"github.com/gracecity/church-backend/internal/store"
)

type Module struct {
	h *resource.Handler[Event]
}

// Init registers the events migration and builds the module's store backend.
func Init(h *db.Handle) *Module {
	h.Register(func(gdb *gorm.DB) error {
		if err := gdb.AutoMigrate(&Event{}); err != nil {
			return fmt.Errorf("migrate events: %w", err)
		}
		return nil
	})

	return &Module{h: resource.New(resource.Config[Event]{
		Singular:  "event",
		Plural:    "events",
		Label:     "Event",
		Backend:   store.NewBackend[Event]("events", h),
		Query:     query,
		Published: func(e *Event) bool { return e.IsPublished },
		Validate:  validate,
	})}
}

func (m *Module) Backend() *store.Backend[Event] { return m.h.Backend() }
