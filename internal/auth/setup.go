package auth

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/gracecity/church-backend/internal/db"
)

// Init registers the accounts table migration; it runs on the first successful probe.
func Init(h *db.Handle) {
	h.Register(func(gdb *gorm.DB) error {
		if err := gdb.AutoMigrate(&Account{}); err != nil {
			return fmt.Errorf("migrate accounts: %w", err)
		}
		return nil
	})
}
