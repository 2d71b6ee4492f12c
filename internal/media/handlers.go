package media

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/gracecity/church-backend/internal/apperr"
	"github.com/gracecity/church-backend/internal/blob"
	"github.com/gracecity/church-backend/internal/httputil"
	"github.com/gracecity/church-backend/internal/store"
	"github.com/gracecity/church-backend/internal/utils"
)

// MaxUploadBytes caps a single upload request.
const MaxUploadBytes = 25 << 20

// BlobStore persists uploaded file contents.
type BlobStore interface {
	Save(ctx context.Context, r io.Reader, suggestedName string) (blob.Object, error)
	Delete(ctx context.Context, key string) error
}

func query(q url.Values, _ bool) store.Query[Media] {
	var filters []store.Filter[Media]
	if folder := q.Get("folder"); folder != "" {
		filters = append(filters, store.Filter[Media]{
			Clause: "folder = ?",
			Args:   []any{folder},
			Match:  func(m *Media) bool { return m.Folder == folder },
		})
	}
	if kind := q.Get("type"); kind != "" {
		filters = append(filters, store.Filter[Media]{
			Clause: "content_type LIKE ?",
			Args:   []any{kind + "/%"},
			Match:  func(m *Media) bool { return strings.HasPrefix(m.ContentType, kind+"/") },
		})
	}
	return store.Query[Media]{
		Filters: filters,
		Order:   store.Order[Media]{Column: "created_at", Desc: !strings.EqualFold(q.Get("order"), "asc")},
	}
}

// Upload accepts a multipart form with a "file" part and optional "alt" and "folder" fields.
func (m *Module) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.Fail(w, http.StatusRequestEntityTooLarge, "File is too large")
			return
		}
		httputil.Fail(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.Fail(w, http.StatusBadRequest, "File is required")
		return
	}
	defer file.Close()

	obj, err := m.blobs.Save(r.Context(), file, header.Filename)
	if err != nil {
		if errors.Is(err, blob.ErrInvalidFileType) {
			httputil.Error(w, apperr.Validation("Only image, audio, video and PDF files are allowed"))
			return
		}
		httputil.Error(w, apperr.Internal("Failed to store file", err))
		return
	}

	rec := Media{
		Filename:    header.Filename,
		Key:         obj.Key,
		URL:         obj.URL,
		ContentType: obj.ContentType,
		Size:        obj.Size,
		Alt:         strings.TrimSpace(r.FormValue("alt")),
		Folder:      strings.TrimSpace(r.FormValue("folder")),
	}
	if s, ok := utils.SessionFromContext(r.Context()); ok {
		rec.UploadedBy = s.Email
	}

	s, fallback := m.h.Backend().Select(r.Context())
	if err := s.Create(r.Context(), &rec); err != nil {
		m.discard(r.Context(), obj.Key)
		httputil.Error(w, err)
		return
	}
	httputil.Success(w, http.StatusCreated, httputil.WithFallback(httputil.Fields{"media": rec}, fallback))
}

// Delete removes the record and then its file.
func (m *Module) Delete(w http.ResponseWriter, r *http.Request) {
	s, fallback := m.h.Backend().Select(r.Context())
	id := chi.URLParam(r, "id")
	rec, err := s.Get(r.Context(), id)
	if err == nil {
		err = s.Delete(r.Context(), id)
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			err = apperr.NotFound("Media not found")
		}
		httputil.Error(w, err)
		return
	}
	m.discard(r.Context(), rec.Key)
	httputil.Success(w, http.StatusOK, httputil.WithFallback(httputil.Fields{"message": "Media deleted"}, fallback))
}

func (m *Module) discard(ctx context.Context, key string) {
	if err := m.blobs.Delete(ctx, key); err != nil {
		log.Printf("[media] delete file %s: %v", key, err)
	}
}
