package settings

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gracecity/church-backend/internal/middleware"
)

// PublicRoutes mounts at /api/settings.
func (m *Module) PublicRoutes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", m.Get)
	return r
}

// AdminRoutes mounts at /api/admin/settings.
func (m *Module) AdminRoutes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", m.Get)
	r.With(middleware.RequireAdmin).Put("/", m.Update)
	return r
}
