package settings

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gracecity/church-backend/internal/besteffort"
	"github.com/gracecity/church-backend/internal/db"
	"github.com/gracecity/church-backend/internal/sermons"
	"github.com/gracecity/church-backend/internal/utils"
)

type fakeResolver struct {
	ids map[string]string
	err error
}

func (f fakeResolver) ResolveChannelIDFromHandle(_ context.Context, handle string) (string, error) {
	return f.ids[handle], f.err
}

type fakeSync struct {
	started chan string
}

func (f *fakeSync) Sync(_ context.Context, channelID string, _ int) besteffort.Result[sermons.SyncReport] {
	f.started <- channelID
	return besteffort.Ok(sermons.SyncReport{ChannelID: channelID, SyncedAt: time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)})
}

func adminPut(h http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
	req = req.WithContext(utils.WithSession(req.Context(), &utils.Session{SubjectID: "a1", Email: "admin@church.org", Role: utils.RoleAdmin}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// TestGetDefaults serves configured defaults before anything is saved.
func TestGetDefaults(t *testing.T) {
	h, _ := db.Open("", time.Second)
	m := Init(h, Settings{SiteName: "Grace City", YouTubeChannelID: "UCdefault"}, nil, nil)

	rec := httptest.NewRecorder()
	m.PublicRoutes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	var body struct {
		Settings Settings `json:"settings"`
		Fallback bool     `json:"fallback"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if rec.Code != http.StatusOK || body.Settings.SiteName != "Grace City" || !body.Fallback {
		t.Fatalf("%d %+v", rec.Code, body)
	}
	if got := m.ChannelID(context.Background()); got != "UCdefault" {
		t.Errorf("ChannelID() = %q", got)
	}
}

// TestUpdate_ResolvesHandleAndStartsSync answers before the import runs and records the
// sync time afterwards.
func TestUpdate_ResolvesHandleAndStartsSync(t *testing.T) {
	h, _ := db.Open("", time.Second)
	sync := &fakeSync{started: make(chan string, 1)}
	m := Init(h, Settings{SiteName: "Grace City"}, fakeResolver{ids: map[string]string{"@gracecity": "UC123"}}, sync)

	rec := adminPut(m.AdminRoutes(), `{"tagline":"A home for everyone","youtubeChannelHandle":"@gracecity"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Settings   Settings `json:"settings"`
		SyncQueued bool     `json:"syncQueued"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Settings.YouTubeChannelID != "UC123" || body.Settings.SiteName != "Grace City" || !body.SyncQueued {
		t.Fatalf("body = %+v", body)
	}

	select {
	case id := <-sync.started:
		if id != "UC123" {
			t.Fatalf("synced channel %q", id)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("sync was not started")
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		rec, err := m.Backend().Memory().Get(context.Background(), SiteID)
		if err == nil && rec.LastVideoSyncAt != nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("lastVideoSyncAt was not recorded")
		}
		time.Sleep(10 * time.Millisecond)
	}
	if got := m.ChannelID(context.Background()); got != "UC123" {
		t.Errorf("ChannelID() = %q", got)
	}
}

func TestUpdate_ResolveFailureKeepsSaving(t *testing.T) {
	h, _ := db.Open("", time.Second)
	m := Init(h, Settings{}, fakeResolver{err: errors.New("quota exceeded")}, nil)

	rec := adminPut(m.AdminRoutes(), `{"youtubeChannelHandle":"@gracecity"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	saved, err := m.Backend().Memory().Get(context.Background(), SiteID)
	if err != nil || saved.YouTubeHandle != "@gracecity" || saved.YouTubeChannelID != "" {
		t.Fatalf("saved = %+v, %v", saved, err)
	}
}

func TestUpdate_RequiresAdmin(t *testing.T) {
	h, _ := db.Open("", time.Second)
	m := Init(h, Settings{}, nil, nil)

	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"siteName":"x"}`))
	req = req.WithContext(utils.WithSession(req.Context(), &utils.Session{SubjectID: "e1", Role: utils.RoleEditor}))
	rec := httptest.NewRecorder()
	m.AdminRoutes().ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}
