package testimonies

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gracecity/church-backend/internal/db"
)

func newModule(t *testing.T) *Module {
	t.Helper()
	h, err := db.Open("", time.Second)
	if err != nil {
		t.Fatalf("db.Open() error: %v", err)
	}
	return Init(h)
}

func TestSubmitPublishesImmediately(t *testing.T) {
	m := newModule(t)
	public := m.PublicRoutes()

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(
		`{"name":"Mary","title":"Healed","content":"The Lord healed me.","category":"healing","date":"2024-01-10","isPublished":false}`))
	rec := httptest.NewRecorder()
	public.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created struct {
		Success   bool      `json:"success"`
		Testimony Testimony `json:"testimony"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if !created.Success || !created.Testimony.IsPublished || created.Testimony.ID == "" {
		t.Fatalf("unexpected response: %+v", created)
	}

	rec = httptest.NewRecorder()
	public.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?category=healing", nil))
	var list struct {
		Testimonies []Testimony `json:"testimonies"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &list)
	found := false
	for _, item := range list.Testimonies {
		if item.ID == created.Testimony.ID {
			found = true
		}
	}
	if !found {
		t.Fatalf("submitted testimony missing from category listing: %+v", list.Testimonies)
	}

	rec = httptest.NewRecorder()
	public.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?category=salvation", nil))
	_ = json.Unmarshal(rec.Body.Bytes(), &list)
	if len(list.Testimonies) != 0 {
		t.Errorf("other category returned %d testimonies", len(list.Testimonies))
	}
}

func TestPublishToggle(t *testing.T) {
	m := newModule(t)
	admin := m.AdminRoutes()

	rec := httptest.NewRecorder()
	admin.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(
		`{"name":"John","title":"Provision","content":"..."}`)))
	var created struct {
		Testimony Testimony `json:"testimony"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &created)
	if created.Testimony.IsPublished {
		t.Fatal("admin-created testimony should keep its draft state")
	}

	rec = httptest.NewRecorder()
	admin.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/"+created.Testimony.ID+"/publish", nil))
	var toggled struct {
		Testimony Testimony `json:"testimony"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &toggled)
	if rec.Code != http.StatusOK || !toggled.Testimony.IsPublished {
		t.Fatalf("toggle: %d %+v", rec.Code, toggled.Testimony)
	}

	rec = httptest.NewRecorder()
	admin.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/"+created.Testimony.ID+"/publish",
		strings.NewReader(`{"isPublished":false}`)))
	_ = json.Unmarshal(rec.Body.Bytes(), &toggled)
	if toggled.Testimony.IsPublished {
		t.Fatal("explicit unpublish ignored")
	}
}

func TestSubmitRequiresContent(t *testing.T) {
	m := newModule(t)
	rec := httptest.NewRecorder()
	m.PublicRoutes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Mary"}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
