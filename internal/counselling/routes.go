package counselling

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// CounsellorRoutes mounts at /api/counsellors.
func (m *Module) CounsellorRoutes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", m.counsellors.List(true))
	r.Get("/{id}", m.counsellors.Get(true))
	return r
}

// BookingRoutes mounts at /api/bookings.
func (m *Module) BookingRoutes() http.Handler {
	r := chi.NewRouter()
	r.Post("/", m.Book)
	return r
}

// AdminCounsellorRoutes mounts at /api/admin/counsellors.
func (m *Module) AdminCounsellorRoutes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", m.counsellors.List(false))
	r.Post("/", m.counsellors.Create)
	r.Get("/{id}", m.counsellors.Get(false))
	r.Put("/{id}", m.counsellors.Update)
	r.Delete("/{id}", m.counsellors.Delete)
	return r
}

// AdminBookingRoutes mounts at /api/admin/bookings.
func (m *Module) AdminBookingRoutes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", m.bookings.List(false))
	r.Get("/{id}", m.bookings.Get(false))
	r.Patch("/{id}/status", m.SetStatus)
	r.Delete("/{id}", m.bookings.Delete)
	return r
}
