package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gracecity/church-backend/internal/middleware"
	"github.com/gracecity/church-backend/internal/utils"
)

// SetupRoutes mounts at /api/admin/auth. Login, refresh and logout are declared public
// routes of the access gate; the rest need a session.
func (h *Handler) SetupRoutes() http.Handler {
	r := chi.NewRouter()

	r.Post("/login", h.Login)
	r.Post("/refresh", h.Refresh)
	r.Post("/logout", h.Logout)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession)

		r.Get("/me", h.Me)
		r.Put("/password", h.ChangePassword)
	})

	return r
}

// SetupRoutes mounts at /api/admin/accounts.
func (a *Accounts) SetupRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequireRole(utils.RoleSuperAdmin))

	r.Get("/", a.List)
	r.Post("/", a.Create)
	r.Put("/{id}", a.Update)
	r.Post("/{id}/password", a.ResetPassword)
	r.Delete("/{id}", a.Delete)

	return r
}
