package auth

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/gracecity/church-backend/internal/apperr"
	"github.com/gracecity/church-backend/internal/config"
	"github.com/gracecity/church-backend/internal/httputil"
	"github.com/gracecity/church-backend/internal/store"
	"github.com/gracecity/church-backend/internal/utils"
)

// DevAccountID is the subject of the development login used while the database is down.
const DevAccountID = "dev-admin"

// DefaultRefreshRole is granted when a refresh happens while the account store is
// unreachable. A demoted or deactivated account keeps a session across such a refresh.
const DefaultRefreshRole = utils.RoleEditor

var (
	errInvalidCredentials = apperr.Unauthenticated("Invalid credentials")
	errInactive           = apperr.Forbidden("Account is deactivated")
	errAccountsOffline    = apperr.Unavailable("Service temporarily unavailable, please try again later", nil)
)

// Handler serves the session endpoints under /api/admin/auth.
type Handler struct {
	codec *Codec
	jar   CookieJar
	conn  store.Connector
	dev   *config.DevAccount
	now   func() time.Time
}

// NewHandler wires the session endpoints. dev is the offline login and must be nil in
// production.
func NewHandler(codec *Codec, jar CookieJar, conn store.Connector, dev *config.DevAccount) *Handler {
	return &Handler{codec: codec, jar: jar, conn: conn, dev: dev, now: time.Now}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login checks credentials and sets both session cookies. There is no lockout or rate
// limit on failed attempts.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	email := NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		httputil.Fail(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	id, err := h.authenticate(r, email, req.Password)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	access, err := h.issue(w, id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	log.Printf("[auth] login ok: %s (%s)", id.Email, id.Role)
	httputil.Success(w, http.StatusOK, httputil.Fields{
		"user":        id,
		"accessToken": access,
	})
}

func (h *Handler) authenticate(r *http.Request, email, password string) (Identity, error) {
	gdb := h.conn.Connect(r.Context())
	if gdb == nil {
		return h.devLogin(email, password)
	}

	var acct Account
	err := gdb.WithContext(r.Context()).First(&acct, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Identity{}, errInvalidCredentials
	}
	if err != nil {
		return Identity{}, apperr.Internal("Login failed", err)
	}
	if !CheckPassword(acct.PasswordHash, password) {
		return Identity{}, errInvalidCredentials
	}
	if !acct.IsActive {
		return Identity{}, errInactive
	}

	now := h.now().UTC()
	if err := gdb.WithContext(r.Context()).Model(&acct).Update("last_login_at", now).Error; err != nil {
		log.Printf("[auth] update last login for %s: %v", acct.ID, err)
	}
	return acct.identity(), nil
}

func (h *Handler) devLogin(email, password string) (Identity, error) {
	if h.dev == nil {
		return Identity{}, errAccountsOffline
	}
	if email != NormalizeEmail(h.dev.Email) || password != h.dev.Password {
		return Identity{}, errInvalidCredentials
	}
	log.Printf("[auth] database unreachable, accepted development login")
	return h.devIdentity(), nil
}

func (h *Handler) devIdentity() Identity {
	return Identity{ID: DevAccountID, Email: NormalizeEmail(h.dev.Email), Name: h.dev.Name, Role: utils.RoleAdmin}
}

// issue mints both credentials, sets both cookies and returns the access credential.
func (h *Handler) issue(w http.ResponseWriter, id Identity) (string, error) {
	access, err := h.codec.IssueAccess(id)
	if err != nil {
		return "", apperr.Internal("Could not create session", err)
	}
	refresh, err := h.codec.IssueRefresh(id.ID)
	if err != nil {
		return "", apperr.Internal("Could not create session", err)
	}
	h.jar.SetAccess(w, access)
	h.jar.SetRefresh(w, refresh)
	return access, nil
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Refresh mints a new credential pair from a refresh credential taken from the cookie or,
// failing that, the request body. The role is re-read from the account store; when the
// store is unreachable the session is downgraded to DefaultRefreshRole.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	token := ReadCookie(r, RefreshCookie)
	if token == "" && r.ContentLength != 0 {
		var body refreshRequest
		if err := httputil.Decode(r, &body); err == nil {
			token = strings.TrimSpace(body.RefreshToken)
		}
	}
	if token == "" {
		httputil.Fail(w, http.StatusUnauthorized, "Refresh token is required")
		return
	}
	claims := h.codec.VerifyRefresh(token)
	if claims == nil {
		httputil.Fail(w, http.StatusUnauthorized, "Invalid or expired refresh token")
		return
	}

	id, err := h.resolve(r, claims.Subject)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	access, err := h.issue(w, id)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.Success(w, http.StatusOK, httputil.Fields{
		"user":        id,
		"accessToken": access,
	})
}

func (h *Handler) resolve(r *http.Request, subject string) (Identity, error) {
	gdb := h.conn.Connect(r.Context())
	if gdb == nil {
		if subject == DevAccountID && h.dev != nil {
			return h.devIdentity(), nil
		}
		log.Printf("[auth] refresh for %s while accounts are unreachable, granting %s", subject, DefaultRefreshRole)
		return Identity{ID: subject, Role: DefaultRefreshRole}, nil
	}

	var acct Account
	err := gdb.WithContext(r.Context()).First(&acct, "id = ?", subject).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Identity{}, apperr.Unauthenticated("Account not found")
	}
	if err != nil {
		return Identity{}, apperr.Internal("Refresh failed", err)
	}
	if !acct.IsActive {
		return Identity{}, errInactive
	}
	return acct.identity(), nil
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.jar.Clear(w)
	httputil.Success(w, http.StatusOK, httputil.Fields{"message": "Logged out"})
}

// Me echoes the session the access gate attached to the request.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	s, ok := utils.SessionFromContext(r.Context())
	if !ok {
		httputil.Fail(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	httputil.Success(w, http.StatusOK, httputil.Fields{
		"user":      Identity{ID: s.SubjectID, Email: s.Email, Role: s.Role},
		"expiresAt": s.ExpiresAt,
	})
}

type passwordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ChangePassword updates the password of the signed-in account.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	s, ok := utils.SessionFromContext(r.Context())
	if !ok {
		httputil.Fail(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	var req passwordRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := validatePassword(req.NewPassword); err != nil {
		httputil.Error(w, err)
		return
	}

	accounts, err := store.Require[Account](r.Context(), h.conn)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	acct, err := accounts.Get(r.Context(), s.SubjectID)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	if !CheckPassword(acct.PasswordHash, req.CurrentPassword) {
		httputil.Fail(w, http.StatusUnauthorized, "Current password is incorrect")
		return
	}
	if acct.PasswordHash, err = HashPassword(req.NewPassword); err != nil {
		httputil.Error(w, apperr.Internal("Could not update password", err))
		return
	}
	if err := accounts.Save(r.Context(), &acct); err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.Success(w, http.StatusOK, httputil.Fields{"message": "Password updated"})
}
