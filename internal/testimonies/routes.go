package testimonies

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// PublicRoutes mounts at /api/testimonies.
func (m *Module) PublicRoutes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", m.h.List(true))
	r.Post("/", m.Submit)
	r.Get("/{id}", m.h.Get(true))
	return r
}

// AdminRoutes mounts at /api/admin/testimonies.
func (m *Module) AdminRoutes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", m.h.List(false))
	r.Post("/", m.h.Create)
	r.Get("/{id}", m.h.Get(false))
	r.Put("/{id}", m.h.Update)
	r.Patch("/{id}/publish", m.Publish)
	r.Delete("/{id}", m.h.Delete)
	return r
}
