package events

import (
	"net/url"
	"strings"
	"time"

	"github.com/gracecity/church-backend/internal/apperr"
	"github.com/gracecity/church-backend/internal/store"
)

var today = func() string { return time.Now().Format(time.DateOnly) }

func query(q url.Values, public bool) store.Query[Event] {
	var filters []store.Filter[Event]
	if public {
		filters = append(filters, store.Flag("is_published", true, func(e *Event) bool { return e.IsPublished }))
	}
	if c := q.Get("category"); c != "" && c != "all" {
		filters = append(filters, store.Equal("category", c, func(e *Event) string { return e.Category }))
	}
	if q.Get("featured") == "true" {
		filters = append(filters, store.Flag("is_featured", true, func(e *Event) bool { return e.IsFeatured }))
	}
	if s := strings.TrimSpace(q.Get("search")); s != "" {
		filters = append(filters, store.Search(s, []string{"title", "description", "location"},
			func(e *Event) []string { return []string{e.Title, e.Description, e.Location} }))
	}

	// Upcoming listings read soonest first unless the caller asks otherwise.
	desc := store.DescFromQuery(q)
	switch q.Get("upcoming") {
	case "true":
		from := today()
		filters = append(filters, store.Filter[Event]{
			Clause: `"date" >= ?`,
			Args:   []any{from},
			Match:  func(e *Event) bool { return e.Date >= from },
		})
		if q.Get("order") == "" && q.Get("sort") == "" {
			desc = false
		}
	case "false":
		from := today()
		filters = append(filters, store.Filter[Event]{
			Clause: `"date" < ?`,
			Args:   []any{from},
			Match:  func(e *Event) bool { return e.Date < from },
		})
	}

	return store.Query[Event]{
		Filters: filters,
		Order:   store.OrderBy("date", desc, func(e *Event) string { return e.Date }),
	}
}

func validate(e *Event) error {
	e.Title = strings.TrimSpace(e.Title)
	if e.Title == "" {
		return apperr.Validation("Title is required")
	}
	if e.Date == "" {
		return apperr.Validation("Date is required")
	}
	if _, err := time.Parse(time.DateOnly, e.Date); err != nil {
		return apperr.Validation("Date must be in YYYY-MM-DD format")
	}
	if e.EndDate != "" && e.EndDate < e.Date {
		return apperr.Validation("End date cannot be before the start date")
	}
	return nil
}
