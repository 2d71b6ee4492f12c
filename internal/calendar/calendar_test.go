package calendar

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gracecity/church-backend/internal/db"
	"github.com/gracecity/church-backend/internal/utils"
)

func TestWindowAndAuthor(t *testing.T) {
	h, _ := db.Open("", time.Second)
	m := Init(h)
	admin := m.AdminRoutes()

	for _, body := range []string{
		`{"title":"Staff meeting","start":"2025-03-03T09:00:00Z"}`,
		`{"title":"Choir practice","start":"2025-03-01T18:00:00Z","end":"2025-03-01T20:00:00Z"}`,
		`{"title":"Retreat","start":"2025-04-10T00:00:00Z","allDay":true}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		req = req.WithContext(utils.WithSession(req.Context(), &utils.Session{SubjectID: "u1", Email: "admin@church.org", Role: utils.RoleAdmin}))
		rec := httptest.NewRecorder()
		admin.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create: %d %s", rec.Code, rec.Body.String())
		}
	}

	rec := httptest.NewRecorder()
	admin.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?from=2025-03-01&to=2025-04-01", nil))
	var list struct {
		Entries []Entry `json:"entries"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &list)
	if len(list.Entries) != 2 || list.Entries[0].Title != "Choir practice" {
		t.Fatalf("entries = %+v", list.Entries)
	}
	if list.Entries[0].CreatedBy != "admin@church.org" {
		t.Errorf("createdBy = %q", list.Entries[0].CreatedBy)
	}
	if !list.Entries[1].EndsAt.Equal(list.Entries[1].StartsAt) {
		t.Errorf("end should default to start: %+v", list.Entries[1])
	}
}

func TestEndBeforeStart(t *testing.T) {
	h, _ := db.Open("", time.Second)
	rec := httptest.NewRecorder()
	Init(h).AdminRoutes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/",
		strings.NewReader(`{"title":"x","start":"2025-03-03T09:00:00Z","end":"2025-03-02T09:00:00Z"}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
