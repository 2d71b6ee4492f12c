package sermons

import (
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/gracecity/church-backend/internal/apperr"
	"github.com/gracecity/church-backend/internal/httputil"
	"github.com/gracecity/church-backend/internal/store"
)

func query(q url.Values, public bool) store.Query[Sermon] {
	var filters []store.Filter[Sermon]
	if public {
		filters = append(filters, store.Flag("is_published", true, func(s *Sermon) bool { return s.IsPublished }))
	}
	if v := q.Get("series"); v != "" {
		filters = append(filters, store.Equal("series", v, func(s *Sermon) string { return s.Series }))
	}
	if v := q.Get("preacher"); v != "" {
		filters = append(filters, store.Equal("preacher", v, func(s *Sermon) string { return s.Preacher }))
	}
	if v := strings.TrimSpace(q.Get("tag")); v != "" {
		filters = append(filters, store.Filter[Sermon]{
			Clause: "? = ANY(tags)",
			Args:   []any{v},
			Match:  func(s *Sermon) bool { return slices.Contains(s.Tags, v) },
		})
	}
	if v := strings.TrimSpace(q.Get("search")); v != "" {
		filters = append(filters, store.Search(v, []string{"title", "preacher", "description", "scripture"},
			func(s *Sermon) []string { return []string{s.Title, s.Preacher, s.Description, s.Scripture} }))
	}
	return store.Query[Sermon]{
		Filters: filters,
		Order:   store.OrderBy("date", store.DescFromQuery(q), func(s *Sermon) string { return s.Date }),
	}
}

func validate(s *Sermon) error {
	s.Title = strings.TrimSpace(s.Title)
	if s.Title == "" {
		return apperr.Validation("Title is required")
	}
	if s.Date == "" {
		return apperr.Validation("Date is required")
	}
	if _, err := time.Parse(time.DateOnly, s.Date); err != nil {
		return apperr.Validation("Date must be in YYYY-MM-DD format")
	}
	if s.Tags == nil {
		s.Tags = []string{}
	}
	return nil
}

type syncRequest struct {
	ChannelID string `json:"channelId"`
	Limit     int    `json:"limit"`
}

// Sync imports the channel's recent uploads and waits for the result.
func (m *Module) Sync(w http.ResponseWriter, r *http.Request) {
	var req syncRequest
	if r.ContentLength != 0 {
		if err := httputil.Decode(r, &req); err != nil {
			httputil.Error(w, err)
			return
		}
	}
	channelID := strings.TrimSpace(req.ChannelID)
	if channelID == "" && m.channels != nil {
		channelID = m.channels.ChannelID(r.Context())
	}
	if channelID == "" {
		httputil.Fail(w, http.StatusBadRequest, "No YouTube channel is configured")
		return
	}

	res := m.syncer.Sync(r.Context(), channelID, req.Limit)
	if !res.OK() {
		httputil.Error(w, apperr.Unavailable("Video sync failed", res.Err))
		return
	}
	httputil.Success(w, http.StatusOK, httputil.Fields{"sync": res.Value})
}
