package calendar

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// AdminRoutes mounts at /api/admin/calendar.
func (m *Module) AdminRoutes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", m.h.List(false))
	r.Post("/", m.Create)
	r.Get("/{id}", m.h.Get(false))
	r.Put("/{id}", m.h.Update)
	r.Delete("/{id}", m.h.Delete)
	return r
}
