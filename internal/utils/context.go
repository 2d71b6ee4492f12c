package utils

import (
	"context"
	"time"
)

// Session is the decoded access credential attached to a request by the access gate.
type Session struct {
	SubjectID string
	Email     string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RoleEditor     = "editor"
)

// IsAdmin reports whether the session may use the admin surface during maintenance.
func (s *Session) IsAdmin() bool {
	return s != nil && (s.Role == RoleAdmin || s.Role == RoleSuperAdmin)
}

type contextKey string

const ContextSessionKey contextKey = "session"

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ContextSessionKey, s)
}

func SessionFromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ContextSessionKey).(*Session)
	return s, ok && s != nil
}
