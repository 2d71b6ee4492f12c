package auth

import (
	"net/http"
	"strings"
)

const (
	AccessCookie  = "auth-token"
	RefreshCookie = "refresh-token"
)

// CookieJar writes the two session cookies. Secure is set only in production so that local
// development over plain HTTP keeps working.
type CookieJar struct {
	Secure bool
}

func (j CookieJar) SetAccess(w http.ResponseWriter, token string) {
	j.set(w, AccessCookie, token, int(AccessTTL.Seconds()))
}

func (j CookieJar) SetRefresh(w http.ResponseWriter, token string) {
	j.set(w, RefreshCookie, token, int(RefreshTTL.Seconds()))
}

// Clear expires both cookies.
func (j CookieJar) Clear(w http.ResponseWriter) {
	j.set(w, AccessCookie, "", -1)
	j.set(w, RefreshCookie, "", -1)
}

func (j CookieJar) set(w http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   j.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ReadCookie returns the named cookie value or "". The raw Cookie header is parsed first
// because it tolerates values net/http's parser drops; r.Cookie is the second path.
func ReadCookie(r *http.Request, name string) string {
	for _, line := range r.Header.Values("Cookie") {
		for _, part := range strings.Split(line, ";") {
			key, val, ok := strings.Cut(strings.TrimSpace(part), "=")
			if !ok || key != name {
				continue
			}
			if val = strings.Trim(strings.TrimSpace(val), `"`); val != "" {
				return val
			}
		}
	}
	if c, err := r.Cookie(name); err == nil {
		return c.Value
	}
	return ""
}
