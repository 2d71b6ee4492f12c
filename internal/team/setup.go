package team

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/gracecity/church-backend/internal/db"
	"github.com/gracecity/church-backend/internal/resource"
	"github.com/gracecity/church-backend/internal/store"
)

type Module struct {
	h *resource.Handler[Member]
}

func Init(h *db.Handle) *Module {
	h.Register(func(gdb *gorm.DB) error {
		if err := gdb.AutoMigrate(&Member{}); err != nil {
			return fmt.Errorf("migrate team members: %w", err)
		}
		return nil
	})

	return &Module{h: resource.New(resource.Config[Member]{
		Singular:  "member",
		Plural:    "members",
		Label:     "Team member",
		Backend:   store.NewBackend[Member]("team", h),
		Query:     query,
		Published: func(m *Member) bool { return m.IsPublished },
		Validate:  validate,
	})}
}

func (m *Module) Backend() *store.Backend[Member] { return m.h.Backend() }
