package media

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/gracecity/church-backend/internal/db"
	"github.com/gracecity/church-backend/internal/resource"
	"github.com/gracecity/church-backend/internal/store"
)

type Module struct {
	h     *resource.Handler[Media]
	blobs BlobStore
}

func Init(h *db.Handle, blobs BlobStore) *Module {
	h.Register(func(gdb *gorm.DB) error {
		if err := gdb.AutoMigrate(&Media{}); err != nil {
			return fmt.Errorf("migrate media: %w", err)
		}
		return nil
	})

	return &Module{
		blobs: blobs,
		h: resource.New(resource.Config[Media]{
			Singular: "media",
			Plural:   "media",
			Label:    "Media",
			Backend:  store.NewBackend[Media]("media", h),
			Query:    query,
		}),
	}
}

func (m *Module) Backend() *store.Backend[Media] { return m.h.Backend() }
