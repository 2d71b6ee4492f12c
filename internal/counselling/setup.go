package counselling

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/gracecity/church-backend/internal/db"
	"github.com/gracecity/church-backend/internal/resource"
	"github.com/gracecity/church-backend/internal/store"
)

type Module struct {
	counsellors *resource.Handler[Counsellor]
	bookings    *resource.Handler[Booking]
}

func Init(h *db.Handle) *Module {
	h.Register(func(gdb *gorm.DB) error {
		if err := gdb.AutoMigrate(&Counsellor{}, &Booking{}); err != nil {
			return fmt.Errorf("migrate counselling: %w", err)
		}
		return nil
	})

	return &Module{
		counsellors: resource.New(resource.Config[Counsellor]{
			Singular:  "counsellor",
			Plural:    "counsellors",
			Label:     "Counsellor",
			Backend:   store.NewBackend[Counsellor]("counsellors", h),
			Query:     counsellorQuery,
			Published: func(c *Counsellor) bool { return c.IsActive },
			Validate:  validateCounsellor,
		}),
		bookings: resource.New(resource.Config[Booking]{
			Singular: "booking",
			Plural:   "bookings",
			Label:    "Booking",
			Backend:  store.NewBackend[Booking]("bookings", h),
			Query:    bookingQuery,
			Validate: validateBooking,
		}),
	}
}

func (m *Module) Counsellors() *store.Backend[Counsellor] { return m.counsellors.Backend() }

func (m *Module) Bookings() *store.Backend[Booking] { return m.bookings.Backend() }
