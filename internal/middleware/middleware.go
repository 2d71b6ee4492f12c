package middleware

import (
	"net/http"
	"strings"

	"github.com/gracecity/church-backend/internal/httputil"
	"github.com/gracecity/church-backend/internal/utils"
)

// CORS echoes allow-listed origins with credentials enabled, since the dashboard
// authenticates with cookies.
func CORS(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[strings.TrimRight(o, "/")] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if _, ok := allowed[origin]; ok {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Access-Control-Allow-Methods",
					"GET, POST, PUT, PATCH, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers",
					"Content-Type, Authorization, X-Paystack-Signature")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSession rejects requests the access gate did not attach a session to. The gate
// already does this for non-public admin API routes; handlers mounted elsewhere use this.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := utils.SessionFromContext(r.Context()); !ok {
			httputil.Fail(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole allows only sessions whose role is one of roles.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := utils.SessionFromContext(r.Context())
			if !ok {
				httputil.Fail(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			for _, role := range roles {
				if s.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			httputil.Fail(w, http.StatusForbidden, "Forbidden: insufficient role")
		})
	}
}

// RequireAdmin allows admin and super_admin sessions.
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(utils.RoleAdmin, utils.RoleSuperAdmin)(next)
}
