package donations

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// PublicRoutes mounts at /api/donations.
func (m *Module) PublicRoutes() http.Handler {
	r := chi.NewRouter()
	r.Post("/", m.Create)
	r.Get("/verify/{reference}", m.Verify)
	r.Post("/webhook", m.Webhook)
	return r
}

// AdminRoutes mounts at /api/admin/donations.
func (m *Module) AdminRoutes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", m.List)
	r.Get("/summary", m.Summary)
	r.Get("/{id}", m.Get)
	r.Patch("/{id}/status", m.SetStatus)
	r.Post("/{id}/cancel", m.Cancel)
	r.Post("/{id}/refund", m.Refund)
	return r
}
