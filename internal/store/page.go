package store

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100

	// MaxPage keeps (page-1)*limit within an int for every accepted limit.
	MaxPage = math.MaxInt / MaxLimit
)

// Page selects a window of a listing. Limit 0 means unpaginated.
type Page struct {
	Number int
	Limit  int
}

func (p Page) offset() int {
	if p.Number <= 1 || p.Limit <= 0 {
		return 0
	}
	if p.Number-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Number - 1) * p.Limit
}

// Pagination is the envelope returned next to every listing.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

func NewPagination(p Page, total int64) Pagination {
	limit := p.Limit
	if limit <= 0 {
		limit = int(total)
	}
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	number := p.Number
	if number < 1 {
		number = 1
	}
	return Pagination{
		Page:       number,
		Limit:      limit,
		Total:      total,
		TotalPages: pages,
		HasNext:    number < pages,
		HasPrev:    number > 1,
	}
}

// PageFromQuery reads page/limit query parameters, clamping bad values to defaults and
// out-of-range values to the bounds.
func PageFromQuery(q url.Values) Page {
	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	limit, err := strconv.Atoi(q.Get("limit"))
	if err != nil || limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Page{Number: page, Limit: limit}
}

// DescFromQuery is true (newest first) unless order=asc/oldest or sort=oldest is requested.
func DescFromQuery(q url.Values) bool {
	for _, key := range []string{"order", "sort"} {
		switch strings.ToLower(q.Get(key)) {
		case "asc", "oldest":
			return false
		}
	}
	return true
}
