package settings

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/gracecity/church-backend/internal/db"
	"github.com/gracecity/church-backend/internal/store"
)

type Module struct {
	backend  *store.Backend[Settings]
	defaults Settings
	resolver ChannelResolver
	sync     VideoSync
}

// Init registers the settings table. defaults is served until settings are first saved.
// resolver and sync may be nil when no video provider is configured.
func Init(h *db.Handle, defaults Settings, resolver ChannelResolver, sync VideoSync) *Module {
	h.Register(func(gdb *gorm.DB) error {
		if err := gdb.AutoMigrate(&Settings{}); err != nil {
			return fmt.Errorf("migrate settings: %w", err)
		}
		return nil
	})

	defaults.ID = SiteID
	return &Module{
		backend:  store.NewBackend[Settings]("settings", h),
		defaults: defaults,
		resolver: resolver,
		sync:     sync,
	}
}

func (m *Module) Backend() *store.Backend[Settings] { return m.backend }
