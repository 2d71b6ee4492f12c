package auth

import (
	"net/http"
	"strings"

	"github.com/gracecity/church-backend/internal/utils"
)

// SessionReader decodes the access credential of a request for the access gate. A
// credential that fails verification reads exactly like a missing one.
type SessionReader struct {
	Codec *Codec
}

func (s SessionReader) Decode(r *http.Request) *utils.Session {
	token := ReadCookie(r, AccessCookie)
	if token == "" {
		if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
			token = strings.TrimPrefix(h, "Bearer ")
		}
	}
	claims := s.Codec.VerifyAccess(token)
	if claims == nil {
		return nil
	}
	return claims.Session()
}
