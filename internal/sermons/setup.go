package sermons

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/gracecity/church-backend/internal/db"
	"github.com/gracecity/church-backend/internal/resource"
	"github.com/gracecity/church-backend/internal/store"
)

type Module struct {
	h        *resource.Handler[Sermon]
	syncer   *Syncer
	channels ChannelSource
}

func Init(h *db.Handle, videos VideoLister) *Module {
	h.Register(func(gdb *gorm.DB) error {
		if err := gdb.AutoMigrate(&Sermon{}); err != nil {
			return fmt.Errorf("migrate sermons: %w", err)
		}
		return nil
	})

	backend := store.NewBackend[Sermon]("sermons", h)
	return &Module{
		h: resource.New(resource.Config[Sermon]{
			Singular:  "sermon",
			Plural:    "sermons",
			Label:     "Sermon",
			Backend:   backend,
			Query:     query,
			Published: func(s *Sermon) bool { return s.IsPublished },
			Validate:  validate,
		}),
		syncer: NewSyncer(backend, videos),
	}
}

// UseChannelSource sets where Sync looks up the channel when the request names none.
func (m *Module) UseChannelSource(src ChannelSource) { m.channels = src }

func (m *Module) Syncer() *Syncer { return m.syncer }

func (m *Module) Backend() *store.Backend[Sermon] { return m.h.Backend() }
