// Package routes assembles the HTTP surface: edge middleware, the access gate, every
// feature module and the static frontend.
package routes

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/gracecity/church-backend/internal/auth"
	"github.com/gracecity/church-backend/internal/cache"
	"github.com/gracecity/church-backend/internal/calendar"
	"github.com/gracecity/church-backend/internal/config"
	"github.com/gracecity/church-backend/internal/counselling"
	"github.com/gracecity/church-backend/internal/db"
	"github.com/gracecity/church-backend/internal/donations"
	"github.com/gracecity/church-backend/internal/events"
	"github.com/gracecity/church-backend/internal/httputil"
	"github.com/gracecity/church-backend/internal/livestream"
	"github.com/gracecity/church-backend/internal/maintenance"
	"github.com/gracecity/church-backend/internal/media"
	"github.com/gracecity/church-backend/internal/middleware"
	"github.com/gracecity/church-backend/internal/obs"
	"github.com/gracecity/church-backend/internal/payments"
	"github.com/gracecity/church-backend/internal/sermons"
	"github.com/gracecity/church-backend/internal/settings"
	"github.com/gracecity/church-backend/internal/team"
	"github.com/gracecity/church-backend/internal/testimonies"
	"github.com/gracecity/church-backend/internal/youtube"
)

// Deps are the process-wide collaborators built in main.
type Deps struct {
	Config      config.Config
	DB          *db.Handle
	Maintenance *maintenance.State
	Cache       cache.TTL
	Videos      *youtube.Client
	Payments    payments.Provider
	Blobs       media.BlobStore
}

// Modules are the feature modules behind the router, exposed for seeding and tests.
type Modules struct {
	Events      *events.Module
	Testimonies *testimonies.Module
	Sermons     *sermons.Module
	Team        *team.Module
	Counselling *counselling.Module
	Calendar    *calendar.Module
	Media       *media.Module
	Donations   *donations.Module
	Settings    *settings.Module
}

// NewRouter wires every module. Migrations are registered on d.DB and run on the first
// successful probe.
func NewRouter(d Deps) (http.Handler, *Modules) {
	cfg := d.Config

	var dev *config.DevAccount
	if !cfg.Production() {
		dev = &cfg.DevAdmin
	}
	codec := auth.NewCodec(cfg.JWTSecret)
	auth.Init(d.DB)
	authHandler := auth.NewHandler(codec, auth.CookieJar{Secure: cfg.Production()}, d.DB, dev)
	accounts := auth.NewAccounts(d.DB)

	mods := &Modules{
		Events:      events.Init(d.DB),
		Testimonies: testimonies.Init(d.DB),
		Sermons:     sermons.Init(d.DB, d.Videos),
		Team:        team.Init(d.DB),
		Counselling: counselling.Init(d.DB),
		Calendar:    calendar.Init(d.DB),
		Media:       media.Init(d.DB, d.Blobs),
		Donations:   donations.Init(d.DB, d.Payments, cfg.Paystack.SecretKey),
	}
	mods.Settings = settings.Init(d.DB, settings.Settings{
		SiteName:         "Grace City Church",
		YouTubeHandle:    cfg.YouTube.ChannelHandle,
		YouTubeChannelID: cfg.YouTube.ChannelID,
	}, d.Videos, mods.Sermons.Syncer())
	mods.Sermons.UseChannelSource(mods.Settings)

	maint := maintenance.NewHandler(d.Maintenance)
	live := livestream.NewHandler(d.Videos, d.Cache, mods.Settings)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(obs.Instrument)
	r.Use(d.DB.Probe)
	r.Use(middleware.Gate(middleware.DefaultGateConfig(auth.SessionReader{Codec: codec}, d.Maintenance)))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httputil.Success(w, http.StatusOK, httputil.Fields{"status": "ok"})
	})
	r.Get("/readyz", readiness(d.DB, cfg.DatabaseURL != ""))
	r.Handle("/metrics", obs.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Mount("/maintenance", maint.PublicRoutes())
		r.Mount("/settings", mods.Settings.PublicRoutes())
		r.Mount("/events", mods.Events.PublicRoutes())
		r.Mount("/testimonies", mods.Testimonies.PublicRoutes())
		r.Mount("/sermons", mods.Sermons.PublicRoutes())
		r.Mount("/team", mods.Team.PublicRoutes())
		r.Mount("/counsellors", mods.Counselling.CounsellorRoutes())
		r.Mount("/bookings", mods.Counselling.BookingRoutes())
		r.Mount("/donations", mods.Donations.PublicRoutes())
		r.Mount("/livestream", live.LiveRoutes())
		r.Mount("/videos", live.VideoRoutes())

		r.Route("/admin", func(r chi.Router) {
			r.Mount("/auth", authHandler.SetupRoutes())
			r.Mount("/accounts", accounts.SetupRoutes())

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireSession)

				r.Mount("/maintenance", maint.AdminRoutes())
				r.Mount("/settings", mods.Settings.AdminRoutes())
				r.Mount("/events", mods.Events.AdminRoutes())
				r.Mount("/testimonies", mods.Testimonies.AdminRoutes())
				r.Mount("/sermons", mods.Sermons.AdminRoutes())
				r.Mount("/team", mods.Team.AdminRoutes())
				r.Mount("/counsellors", mods.Counselling.AdminCounsellorRoutes())
				r.Mount("/bookings", mods.Counselling.AdminBookingRoutes())
				r.Mount("/calendar", mods.Calendar.AdminRoutes())
				r.Mount("/media", mods.Media.AdminRoutes())
				r.Mount("/donations", middleware.RequireAdmin(mods.Donations.AdminRoutes()))
			})
		})

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			httputil.Fail(w, http.StatusNotFound, "Route not found")
		})
	})

	if cfg.UploadDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))
	}
	if h := frontend(cfg.StaticDir); h != nil {
		r.NotFound(h)
	}

	return r, mods
}

// readiness reports database reachability. Without a configured database the service runs
// on fallback stores and is always ready.
func readiness(h *db.Handle, configured bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !configured {
			httputil.Success(w, http.StatusOK, httputil.Fields{"status": "ok", "database": "not configured"})
			return
		}
		if err := h.Ping(r.Context()); err != nil {
			httputil.JSON(w, http.StatusServiceUnavailable, map[string]any{
				"success":  false,
				"status":   "degraded",
				"database": "unreachable",
			})
			return
		}
		httputil.Success(w, http.StatusOK, httputil.Fields{"status": "ok", "database": "connected"})
	}
}

// frontend serves the built single-page app, answering unknown paths with index.html so
// client-side routes load. It returns nil when no build is present.
func frontend(distDir string) http.HandlerFunc {
	distDir = strings.TrimSpace(distDir)
	if distDir == "" {
		return nil
	}
	indexPath := filepath.Join(distDir, "index.html")
	if _, err := os.Stat(indexPath); err != nil {
		return nil
	}

	fileServer := http.FileServer(http.Dir(distDir))
	return func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			httputil.Fail(w, http.StatusNotFound, "Route not found")
			return
		}
		cleanPath := path.Clean(r.URL.Path)
		if cleanPath == "." || cleanPath == "/" {
			http.ServeFile(w, r, indexPath)
			return
		}
		fullPath := filepath.Join(distDir, strings.TrimPrefix(cleanPath, "/"))
		if info, err := os.Stat(fullPath); err == nil && !info.IsDir() {
			fileServer.ServeHTTP(w, r)
			return
		}
		http.ServeFile(w, r, indexPath)
	}
}
