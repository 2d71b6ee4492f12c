// Package resource implements the list/get/create/update/delete endpoints shared by the
// content resources. Every handler selects its store once per request and flags responses
// served from the in-memory fallback.
package resource

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/gracecity/church-backend/internal/apperr"
	"github.com/gracecity/church-backend/internal/httputil"
	"github.com/gracecity/church-backend/internal/store"
)

// Config describes one resource.
type Config[T any] struct {
	Singular string // JSON key for a single record, e.g. "event"
	Plural   string // JSON key for listings, e.g. "events"
	Label    string // used in messages, e.g. "Event"

	Backend *store.Backend[T]

	// Query turns request parameters into filters and ordering. public is true on the
	// visitor-facing routes.
	Query func(q url.Values, public bool) store.Query[T]

	// Published hides unpublished records from public Get. Nil means always visible.
	Published func(*T) bool

	// Validate runs before every create and update.
	Validate func(*T) error
}

type Handler[T any] struct {
	cfg Config[T]
}

func New[T any](cfg Config[T]) *Handler[T] {
	return &Handler[T]{cfg: cfg}
}

func (h *Handler[T]) Backend() *store.Backend[T] { return h.cfg.Backend }

// List serves a filtered, sorted, paginated listing.
func (h *Handler[T]) List(public bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := r.URL.Query()
		query := store.Query[T]{}
		if h.cfg.Query != nil {
			query = h.cfg.Query(params, public)
		}
		query.Page = store.PageFromQuery(params)

		s, fallback := h.cfg.Backend.Select(r.Context())
		items, total, err := s.List(r.Context(), query)
		if err != nil {
			httputil.Error(w, err)
			return
		}
		httputil.Success(w, http.StatusOK, httputil.WithFallback(httputil.Fields{
			h.cfg.Plural: items,
			"pagination": store.NewPagination(query.Page, total),
		}, fallback))
	}
}

// Get serves one record by id.
func (h *Handler[T]) Get(public bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, fallback := h.cfg.Backend.Select(r.Context())
		rec, err := s.Get(r.Context(), chi.URLParam(r, "id"))
		if err == nil && public && h.cfg.Published != nil && !h.cfg.Published(&rec) {
			err = store.ErrNotFound
		}
		if err != nil {
			httputil.Error(w, h.notFound(err))
			return
		}
		httputil.Success(w, http.StatusOK, httputil.WithFallback(httputil.Fields{h.cfg.Singular: rec}, fallback))
	}
}

func (h *Handler[T]) Create(w http.ResponseWriter, r *http.Request) {
	var rec T
	if err := httputil.Decode(r, &rec); err != nil {
		httputil.Error(w, err)
		return
	}
	h.Insert(w, r, &rec)
}

// Insert validates and stores rec, answering 201. Handlers with their own decoding use it
// after adjusting the record.
func (h *Handler[T]) Insert(w http.ResponseWriter, r *http.Request, rec *T) {
	*store.MetaOf(rec) = store.Base{}
	if h.cfg.Validate != nil {
		if err := h.cfg.Validate(rec); err != nil {
			httputil.Error(w, err)
			return
		}
	}
	s, fallback := h.cfg.Backend.Select(r.Context())
	if err := s.Create(r.Context(), rec); err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.Success(w, http.StatusCreated, httputil.WithFallback(httputil.Fields{h.cfg.Singular: rec}, fallback))
}

// Update merges the request body onto the stored record; fields missing from the body
// keep their stored values.
func (h *Handler[T]) Update(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil || len(bytes.TrimSpace(raw)) == 0 {
		httputil.Fail(w, http.StatusBadRequest, "Request body is required")
		return
	}
	h.Modify(w, r, func(rec *T) error {
		if err := json.Unmarshal(raw, rec); err != nil {
			return apperr.Validation("Invalid request body")
		}
		return nil
	})
}

// Modify loads the record named by the id URL parameter, applies change and saves it.
// Identity and timestamps cannot be changed by change.
func (h *Handler[T]) Modify(w http.ResponseWriter, r *http.Request, change func(*T) error) {
	s, fallback := h.cfg.Backend.Select(r.Context())
	rec, err := s.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, h.notFound(err))
		return
	}
	meta := *store.MetaOf(&rec)
	if err := change(&rec); err != nil {
		httputil.Error(w, err)
		return
	}
	*store.MetaOf(&rec) = meta

	if h.cfg.Validate != nil {
		if err := h.cfg.Validate(&rec); err != nil {
			httputil.Error(w, err)
			return
		}
	}
	if err := s.Save(r.Context(), &rec); err != nil {
		httputil.Error(w, h.notFound(err))
		return
	}
	httputil.Success(w, http.StatusOK, httputil.WithFallback(httputil.Fields{h.cfg.Singular: rec}, fallback))
}

func (h *Handler[T]) Delete(w http.ResponseWriter, r *http.Request) {
	s, fallback := h.cfg.Backend.Select(r.Context())
	if err := s.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.Error(w, h.notFound(err))
		return
	}
	httputil.Success(w, http.StatusOK, httputil.WithFallback(httputil.Fields{
		"message": h.cfg.Label + " deleted",
	}, fallback))
}

func (h *Handler[T]) notFound(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound(h.cfg.Label + " not found")
	}
	return err
}
