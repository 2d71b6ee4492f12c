// Package donations is the giving flow. Donations are never written to the in-memory
// fallback: without the database every endpoint answers 503.
package donations

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/gracecity/church-backend/internal/db"
	"github.com/gracecity/church-backend/internal/payments"
	"github.com/gracecity/church-backend/internal/store"
)

type Module struct {
	open          func(context.Context) (store.Store[Donation], error)
	provider      payments.Provider
	webhookSecret string
	clock         func() time.Time
}

// Init registers the donations table. webhookSecret is the provider secret key used to
// sign webhook deliveries.
func Init(h *db.Handle, provider payments.Provider, webhookSecret string) *Module {
	h.Register(func(gdb *gorm.DB) error {
		if err := gdb.AutoMigrate(&Donation{}); err != nil {
			return fmt.Errorf("migrate donations: %w", err)
		}
		return nil
	})

	return &Module{
		open: func(ctx context.Context) (store.Store[Donation], error) {
			return store.Require[Donation](ctx, h)
		},
		provider:      provider,
		webhookSecret: webhookSecret,
		clock:         time.Now,
	}
}
