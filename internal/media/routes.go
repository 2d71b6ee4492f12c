package media

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// AdminRoutes mounts at /api/admin/media.
func (m *Module) AdminRoutes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", m.h.List(false))
	r.Post("/", m.Upload)
	r.Get("/{id}", m.h.Get(false))
	r.Put("/{id}", m.h.Update)
	r.Delete("/{id}", m.Delete)
	return r
}
