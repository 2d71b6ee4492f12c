package maintenance

import (
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/gracecity/church-backend/internal/httputil"
	"github.com/gracecity/church-backend/internal/middleware"
	"github.com/gracecity/church-backend/internal/utils"
)

type Handler struct {
	state *State
}

func NewHandler(state *State) *Handler {
	return &Handler{state: state}
}

// Get is public so the maintenance page can show the current message.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	httputil.Success(w, http.StatusOK, httputil.Fields{"maintenance": h.state.Status()})
}

type updateRequest struct {
	Enabled *bool  `json:"enabled"`
	Message string `json:"message"`
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if req.Enabled == nil {
		httputil.Fail(w, http.StatusBadRequest, "enabled is required")
		return
	}

	by := ""
	if s, ok := utils.SessionFromContext(r.Context()); ok {
		by = s.Email
	}
	status := h.state.Set(*req.Enabled, strings.TrimSpace(req.Message), by)
	log.Printf("[maintenance] enabled=%t by %s", status.Enabled, by)
	httputil.Success(w, http.StatusOK, httputil.Fields{"maintenance": status})
}

// PublicRoutes mounts at /api/maintenance.
func (h *Handler) PublicRoutes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.Get)
	return r
}

// AdminRoutes mounts at /api/admin/maintenance.
func (h *Handler) AdminRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequireAdmin)

	r.Get("/", h.Get)
	r.Put("/", h.Update)

	return r
}
