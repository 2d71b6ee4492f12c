package counselling

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gracecity/church-backend/internal/apperr"
	"github.com/gracecity/church-backend/internal/httputil"
	"github.com/gracecity/church-backend/internal/store"
)

func counsellorQuery(q url.Values, public bool) store.Query[Counsellor] {
	var filters []store.Filter[Counsellor]
	if public {
		filters = append(filters, store.Flag("is_active", true, func(c *Counsellor) bool { return c.IsActive }))
	} else if a := q.Get("active"); a == "true" || a == "false" {
		filters = append(filters, store.Flag("is_active", a == "true", func(c *Counsellor) bool { return c.IsActive }))
	}
	return store.Query[Counsellor]{
		Filters: filters,
		Order:   store.OrderBy("name", false, func(c *Counsellor) string { return c.Name }),
	}
}

func validateCounsellor(c *Counsellor) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return apperr.Validation("Name is required")
	}
	if c.Specialties == nil {
		c.Specialties = []string{}
	}
	if c.AvailableDays == nil {
		c.AvailableDays = []string{}
	}
	return nil
}

func bookingQuery(q url.Values, _ bool) store.Query[Booking] {
	var filters []store.Filter[Booking]
	if s := q.Get("status"); s != "" && s != "all" {
		filters = append(filters, store.Equal("status", s, func(b *Booking) string { return b.Status }))
	}
	if c := q.Get("counsellorId"); c != "" {
		filters = append(filters, store.Filter[Booking]{
			Clause: "counsellor_id = ?",
			Args:   []any{c},
			Match:  func(b *Booking) bool { return b.CounsellorID == c },
		})
	}
	if d := q.Get("date"); d != "" {
		filters = append(filters, store.Filter[Booking]{
			Clause: `"date" = ?`,
			Args:   []any{d},
			Match:  func(b *Booking) bool { return b.Date == d },
		})
	}
	return store.Query[Booking]{
		Filters: filters,
		Order:   store.Newest[Booking](store.DescFromQuery(q)),
	}
}

func validateBooking(b *Booking) error {
	b.Name = strings.TrimSpace(b.Name)
	b.Email = strings.TrimSpace(b.Email)
	if b.CounsellorID == "" || b.Name == "" || b.Email == "" || b.Date == "" || b.TimeSlot == "" {
		return apperr.Validation("Counsellor, name, email, date and time slot are required")
	}
	if !strings.Contains(b.Email, "@") {
		return apperr.Validation("A valid email is required")
	}
	if _, err := time.Parse(time.DateOnly, b.Date); err != nil {
		return apperr.Validation("Date must be in YYYY-MM-DD format")
	}
	if _, ok := statuses[b.Status]; !ok {
		return apperr.Validation("Status must be one of pending, confirmed, completed, cancelled")
	}
	return nil
}

// Book creates a pending booking after checking the counsellor and the time slot.
func (m *Module) Book(w http.ResponseWriter, r *http.Request) {
	var b Booking
	if err := httputil.Decode(r, &b); err != nil {
		httputil.Error(w, err)
		return
	}
	b.Status = StatusPending
	if err := validateBooking(&b); err != nil {
		httputil.Error(w, err)
		return
	}

	counsellors, _ := m.counsellors.Backend().Select(r.Context())
	c, err := counsellors.Get(r.Context(), b.CounsellorID)
	if errors.Is(err, store.ErrNotFound) {
		httputil.Fail(w, http.StatusNotFound, "Counsellor not found")
		return
	}
	if err != nil {
		httputil.Error(w, err)
		return
	}
	if !c.IsActive {
		httputil.Fail(w, http.StatusBadRequest, "This counsellor is not currently taking bookings")
		return
	}
	b.CounsellorName = c.Name

	if err := m.checkSlot(r, &b); err != nil {
		httputil.Error(w, err)
		return
	}
	m.bookings.Insert(w, r, &b)
}

// checkSlot rejects a booking whose counsellor, date and slot match an active booking.
// The check and the insert are not atomic.
func (m *Module) checkSlot(r *http.Request, b *Booking) error {
	st, _ := m.bookings.Backend().Select(r.Context())
	_, taken, err := st.List(r.Context(), store.Query[Booking]{
		Filters: []store.Filter[Booking]{{
			Clause: `counsellor_id = ? AND "date" = ? AND time_slot = ? AND status <> ?`,
			Args:   []any{b.CounsellorID, b.Date, b.TimeSlot, StatusCancelled},
			Match: func(o *Booking) bool {
				return o.ID != b.ID && o.CounsellorID == b.CounsellorID && o.Date == b.Date &&
					o.TimeSlot == b.TimeSlot && o.Status != StatusCancelled
			},
		}},
		Page: store.Page{Number: 1, Limit: 1},
	})
	if err != nil {
		return err
	}
	if taken > 0 {
		return apperr.Conflict("This time slot is already booked")
	}
	return nil
}

type statusRequest struct {
	Status string `json:"status"`
}

func (m *Module) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if _, ok := statuses[req.Status]; !ok {
		httputil.Fail(w, http.StatusBadRequest, "Status must be one of pending, confirmed, completed, cancelled")
		return
	}
	m.bookings.Modify(w, r, func(b *Booking) error {
		reopening := b.Status == StatusCancelled && req.Status != StatusCancelled
		b.Status = req.Status
		if reopening {
			return m.checkSlot(r, b)
		}
		return nil
	})
}
