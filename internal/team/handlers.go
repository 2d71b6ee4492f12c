package team

import (
	"net/url"
	"strings"

	"github.com/gracecity/church-backend/internal/apperr"
	"github.com/gracecity/church-backend/internal/store"
)

// query lists members in display order; order=desc reverses it.
func query(q url.Values, public bool) store.Query[Member] {
	var filters []store.Filter[Member]
	if public {
		filters = append(filters, store.Flag("is_published", true, func(m *Member) bool { return m.IsPublished }))
	}
	if d := q.Get("department"); d != "" {
		filters = append(filters, store.Equal("department", d, func(m *Member) string { return m.Department }))
	}
	return store.Query[Member]{
		Filters: filters,
		Order: store.Order[Member]{
			Column: "sort_order",
			Desc:   strings.EqualFold(q.Get("order"), "desc"),
			Less:   func(a, b *Member) bool { return a.SortOrder < b.SortOrder },
		},
	}
}

func validate(m *Member) error {
	m.Name = strings.TrimSpace(m.Name)
	if m.Name == "" {
		return apperr.Validation("Name is required")
	}
	return nil
}
