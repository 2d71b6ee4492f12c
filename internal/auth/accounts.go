package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/gracecity/church-backend/internal/apperr"
	"github.com/gracecity/church-backend/internal/httputil"
	"github.com/gracecity/church-backend/internal/store"
	"github.com/gracecity/church-backend/internal/utils"
)

var errDuplicateEmail = apperr.Conflict("An account with this email already exists")

// Accounts serves super_admin account management. It never falls back: without the
// database every call answers 503.
type Accounts struct {
	conn store.Connector
}

func NewAccounts(conn store.Connector) *Accounts {
	return &Accounts{conn: conn}
}

func (a *Accounts) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := store.Require[Account](r.Context(), a.conn)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	q := r.URL.Query()
	query := store.Query[Account]{
		Order: store.Newest[Account](store.DescFromQuery(q)),
		Page:  store.PageFromQuery(q),
	}
	if role := q.Get("role"); role != "" {
		query.Filters = append(query.Filters, store.Equal("role", role, func(a *Account) string { return a.Role }))
	}
	items, total, err := accounts.List(r.Context(), query)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.Success(w, http.StatusOK, httputil.Fields{
		"accounts":   items,
		"pagination": store.NewPagination(query.Page, total),
	})
}

type createAccountRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
}

func (a *Accounts) Create(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if req.Role == "" {
		req.Role = utils.RoleEditor
	}
	acct, err := newAccount(req)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	accounts, err := store.Require[Account](r.Context(), a.conn)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	if err := CreateAccount(r.Context(), accounts, &acct); err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.Success(w, http.StatusCreated, httputil.Fields{"account": acct})
}

func newAccount(req createAccountRequest) (Account, error) {
	email := NormalizeEmail(req.Email)
	if err := validateEmail(email); err != nil {
		return Account{}, err
	}
	if err := validatePassword(req.Password); err != nil {
		return Account{}, err
	}
	if !validRole(req.Role) {
		return Account{}, apperr.Validation("Role must be one of super_admin, admin, editor")
	}
	hash, err := HashPassword(req.Password)
	if err != nil {
		return Account{}, apperr.Internal("Could not create account", err)
	}
	return Account{
		Email:        email,
		PasswordHash: hash,
		DisplayName:  strings.TrimSpace(req.DisplayName),
		Role:         req.Role,
		IsActive:     true,
	}, nil
}

// CreateAccount inserts acct unless its email is taken. The unique index catches a
// concurrent duplicate that slips past the pre-check.
func CreateAccount(ctx context.Context, accounts store.Store[Account], acct *Account) error {
	existing, _, err := accounts.List(ctx, store.Query[Account]{
		Filters: []store.Filter[Account]{store.Equal("email", acct.Email, func(a *Account) string { return a.Email })},
		Page:    store.Page{Number: 1, Limit: 1},
	})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return errDuplicateEmail
	}
	if err := accounts.Create(ctx, acct); err != nil {
		if apperr.Status(err) == http.StatusConflict {
			return errDuplicateEmail
		}
		return err
	}
	return nil
}

type updateAccountRequest struct {
	DisplayName *string `json:"displayName"`
	Role        *string `json:"role"`
	IsActive    *bool   `json:"isActive"`
}

func (a *Accounts) Update(w http.ResponseWriter, r *http.Request) {
	var req updateAccountRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if req.Role != nil && !validRole(*req.Role) {
		httputil.Fail(w, http.StatusBadRequest, "Role must be one of super_admin, admin, editor")
		return
	}

	id := chi.URLParam(r, "id")
	if s, ok := utils.SessionFromContext(r.Context()); ok && s.SubjectID == id && req.IsActive != nil && !*req.IsActive {
		httputil.Fail(w, http.StatusBadRequest, "You cannot deactivate your own account")
		return
	}

	accounts, err := store.Require[Account](r.Context(), a.conn)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	acct, err := accounts.Get(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	if req.DisplayName != nil {
		acct.DisplayName = strings.TrimSpace(*req.DisplayName)
	}
	if req.Role != nil {
		acct.Role = *req.Role
	}
	if req.IsActive != nil {
		acct.IsActive = *req.IsActive
	}
	if err := accounts.Save(r.Context(), &acct); err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.Success(w, http.StatusOK, httputil.Fields{"account": acct})
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

func (a *Accounts) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := validatePassword(req.Password); err != nil {
		httputil.Error(w, err)
		return
	}
	accounts, err := store.Require[Account](r.Context(), a.conn)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	acct, err := accounts.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, err)
		return
	}
	if acct.PasswordHash, err = HashPassword(req.Password); err != nil {
		httputil.Error(w, apperr.Internal("Could not reset password", err))
		return
	}
	if err := accounts.Save(r.Context(), &acct); err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.Success(w, http.StatusOK, httputil.Fields{"message": "Password reset"})
}

func (a *Accounts) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if s, ok := utils.SessionFromContext(r.Context()); ok && s.SubjectID == id {
		httputil.Fail(w, http.StatusBadRequest, "You cannot delete your own account")
		return
	}
	accounts, err := store.Require[Account](r.Context(), a.conn)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	if err := accounts.Delete(r.Context(), id); err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.Success(w, http.StatusOK, httputil.Fields{"message": "Account deleted"})
}
