package calendar

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gracecity/church-backend/internal/apperr"
	"github.com/gracecity/church-backend/internal/httputil"
	"github.com/gracecity/church-backend/internal/store"
	"github.com/gracecity/church-backend/internal/utils"
)

// parseBound accepts RFC 3339 timestamps or plain dates.
func parseBound(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// query lists entries chronologically within the optional [from, to) window.
func query(q url.Values, _ bool) store.Query[Entry] {
	var filters []store.Filter[Entry]
	if from, ok := parseBound(q.Get("from")); ok {
		filters = append(filters, store.Filter[Entry]{
			Clause: "starts_at >= ?",
			Args:   []any{from},
			Match:  func(e *Entry) bool { return !e.StartsAt.Before(from) },
		})
	}
	if to, ok := parseBound(q.Get("to")); ok {
		filters = append(filters, store.Filter[Entry]{
			Clause: "starts_at < ?",
			Args:   []any{to},
			Match:  func(e *Entry) bool { return e.StartsAt.Before(to) },
		})
	}
	return store.Query[Entry]{
		Filters: filters,
		Order: store.Order[Entry]{
			Column: "starts_at",
			Desc:   strings.EqualFold(q.Get("order"), "desc"),
			Less:   func(a, b *Entry) bool { return a.StartsAt.Before(b.StartsAt) },
		},
	}
}

func validate(e *Entry) error {
	e.Title = strings.TrimSpace(e.Title)
	if e.Title == "" {
		return apperr.Validation("Title is required")
	}
	if e.StartsAt.IsZero() {
		return apperr.Validation("Start time is required")
	}
	if e.EndsAt.IsZero() {
		e.EndsAt = e.StartsAt
	}
	if e.EndsAt.Before(e.StartsAt) {
		return apperr.Validation("End time cannot be before the start time")
	}
	return nil
}

// Create records the author from the session.
func (m *Module) Create(w http.ResponseWriter, r *http.Request) {
	var e Entry
	if err := httputil.Decode(r, &e); err != nil {
		httputil.Error(w, err)
		return
	}
	if s, ok := utils.SessionFromContext(r.Context()); ok {
		e.CreatedBy = s.Email
	}
	m.h.Insert(w, r, &e)
}
