package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gracecity/church-backend/internal/httputil"
	"github.com/gracecity/church-backend/internal/obs"
	"github.com/gracecity/church-backend/internal/utils"
)

// SessionDecoder turns a request's access credential into a session, or nil when the
// credential is missing, malformed, forged or expired.
type SessionDecoder interface {
	Decode(r *http.Request) *utils.Session
}

// MaintenanceState is the process-wide maintenance flag.
type MaintenanceState interface {
	Snapshot() (enabled bool, message string)
}

type GateConfig struct {
	Sessions    SessionDecoder
	Maintenance MaintenanceState

	LoginPath       string
	AdminHome       string
	MaintenancePath string
	AdminAPIPrefix  string
	AdminPagePrefix string

	// Declared public routes: reachable without a session and during maintenance.
	PublicExact    []string
	PublicPrefixes []string
}

// DefaultGateConfig is the route table of the site.
func DefaultGateConfig(sessions SessionDecoder, maintenance MaintenanceState) GateConfig {
	return GateConfig{
		Sessions:        sessions,
		Maintenance:     maintenance,
		LoginPath:       "/admin/login",
		AdminHome:       "/admin",
		MaintenancePath: "/maintenance",
		AdminAPIPrefix:  "/api/admin",
		AdminPagePrefix: "/admin",
		PublicExact: []string{
			"/api/admin/auth/login",
			"/api/admin/auth/refresh",
			"/api/admin/auth/logout",
			"/api/maintenance",
			"/api/donations/webhook",
			"/healthz",
			"/readyz",
			"/metrics",
			"/favicon.ico",
		},
		PublicPrefixes: []string{
			"/assets/",
			"/uploads/",
		},
	}
}

type routeClass int

const (
	routeOther routeClass = iota
	routeLogin
	routeMaintenance
	routeAdminAPI
	routeAdminPage
)

const (
	decisionAllow               = "allow"
	decisionRedirectLogin       = "redirect_login"
	decisionRedirectHome        = "redirect_home"
	decisionRedirectMaintenance = "redirect_maintenance"
	decisionUnauthorized        = "unauthorized"
	decisionForbidden           = "forbidden"
)

// Gate is the edge middleware run before routing. It decodes the session, classifies the
// route and decides between allow, redirect and reject. On allow the session, if any, is
// attached to the request context.
func Gate(cfg GateConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := cfg.Sessions.Decode(r)
			path := r.URL.Path
			class := cfg.classify(path)
			public := cfg.isPublic(path)

			if enabled, message := cfg.Maintenance.Snapshot(); enabled {
				switch {
				case class == routeMaintenance, class == routeLogin, public:
				case class == routeAdminAPI || class == routeAdminPage:
					if !session.IsAdmin() {
						cfg.deny(w, r, class, session)
						return
					}
				default:
					obs.GateDecisions.WithLabelValues(decisionRedirectMaintenance).Inc()
					target := cfg.MaintenancePath
					if message != "" {
						target += "?" + url.Values{"message": {message}}.Encode()
					}
					http.Redirect(w, r, target, http.StatusTemporaryRedirect)
					return
				}
			} else {
				switch {
				case class == routeLogin && session != nil:
					obs.GateDecisions.WithLabelValues(decisionRedirectHome).Inc()
					http.Redirect(w, r, cfg.AdminHome, http.StatusTemporaryRedirect)
					return
				case session == nil && !public && (class == routeAdminPage || class == routeAdminAPI):
					cfg.deny(w, r, class, nil)
					return
				}
			}

			obs.GateDecisions.WithLabelValues(decisionAllow).Inc()
			if session != nil {
				r = r.WithContext(utils.WithSession(r.Context(), session))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// deny answers admin API calls with a JSON error and sends page loads to the login page.
func (cfg GateConfig) deny(w http.ResponseWriter, r *http.Request, class routeClass, session *utils.Session) {
	if class == routeAdminAPI {
		if session == nil {
			obs.GateDecisions.WithLabelValues(decisionUnauthorized).Inc()
			httputil.Fail(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		obs.GateDecisions.WithLabelValues(decisionForbidden).Inc()
		httputil.Fail(w, http.StatusForbidden, "Admin access required during maintenance")
		return
	}
	obs.GateDecisions.WithLabelValues(decisionRedirectLogin).Inc()
	target := cfg.LoginPath + "?" + url.Values{"callbackUrl": {r.URL.Path}}.Encode()
	http.Redirect(w, r, target, http.StatusTemporaryRedirect)
}

func (cfg GateConfig) classify(path string) routeClass {
	switch {
	case path == cfg.LoginPath:
		return routeLogin
	case path == cfg.MaintenancePath:
		return routeMaintenance
	case hasSegmentPrefix(path, cfg.AdminAPIPrefix):
		return routeAdminAPI
	case hasSegmentPrefix(path, cfg.AdminPagePrefix):
		return routeAdminPage
	default:
		return routeOther
	}
}

func (cfg GateConfig) isPublic(path string) bool {
	for _, p := range cfg.PublicExact {
		if path == p {
			return true
		}
	}
	for _, p := range cfg.PublicPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// hasSegmentPrefix matches prefix itself and paths below it, but not "/administrators".
func hasSegmentPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}
