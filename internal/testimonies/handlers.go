package testimonies

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gracecity/church-backend/internal/apperr"
	"github.com/gracecity/church-backend/internal/httputil"
	"github.com/gracecity/church-backend/internal/store"
)

func query(q url.Values, public bool) store.Query[Testimony] {
	var filters []store.Filter[Testimony]
	if public {
		filters = append(filters, store.Flag("is_published", true, func(t *Testimony) bool { return t.IsPublished }))
	} else if p := q.Get("published"); p == "true" || p == "false" {
		filters = append(filters, store.Flag("is_published", p == "true", func(t *Testimony) bool { return t.IsPublished }))
	}
	if c := q.Get("category"); c != "" && c != "all" {
		filters = append(filters, store.Equal("category", c, func(t *Testimony) string { return t.Category }))
	}
	if s := strings.TrimSpace(q.Get("search")); s != "" {
		filters = append(filters, store.Search(s, []string{"name", "title", "content"},
			func(t *Testimony) []string { return []string{t.Name, t.Title, t.Content} }))
	}
	return store.Query[Testimony]{
		Filters: filters,
		Order:   store.Newest[Testimony](store.DescFromQuery(q)),
	}
}

func validate(t *Testimony) error {
	t.Name = strings.TrimSpace(t.Name)
	t.Title = strings.TrimSpace(t.Title)
	if t.Name == "" || t.Title == "" || strings.TrimSpace(t.Content) == "" {
		return apperr.Validation("Name, title and content are required")
	}
	if t.Date == "" {
		t.Date = time.Now().Format(time.DateOnly)
	}
	return nil
}

// Submit accepts a visitor testimony. Submissions are published immediately.
func (m *Module) Submit(w http.ResponseWriter, r *http.Request) {
	var t Testimony
	if err := httputil.Decode(r, &t); err != nil {
		httputil.Error(w, err)
		return
	}
	t.IsPublished = true
	m.h.Insert(w, r, &t)
}

type publishRequest struct {
	IsPublished *bool `json:"isPublished"`
}

// Publish toggles visibility; an empty body flips the current value.
func (m *Module) Publish(w http.ResponseWriter, r *http.Request) {
	var req publishRequest
	if r.ContentLength != 0 {
		if err := httputil.Decode(r, &req); err != nil {
			httputil.Error(w, err)
			return
		}
	}
	m.h.Modify(w, r, func(t *Testimony) error {
		if req.IsPublished != nil {
			t.IsPublished = *req.IsPublished
		} else {
			t.IsPublished = !t.IsPublished
		}
		return nil
	})
}
