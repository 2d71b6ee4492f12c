package settings

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gracecity/church-backend/internal/apperr"
	"github.com/gracecity/church-backend/internal/besteffort"
	"github.com/gracecity/church-backend/internal/httputil"
	"github.com/gracecity/church-backend/internal/provider"
	"github.com/gracecity/church-backend/internal/sermons"
	"github.com/gracecity/church-backend/internal/store"
)

const syncTimeout = 2 * time.Minute

// ChannelResolver maps a channel handle to its id.
type ChannelResolver interface {
	ResolveChannelIDFromHandle(ctx context.Context, handle string) (string, error)
}

// VideoSync imports channel uploads as sermons.
type VideoSync interface {
	Sync(ctx context.Context, channelID string, limit int) besteffort.Result[sermons.SyncReport]
}

// load returns the stored settings, or the defaults when none were saved yet.
func (m *Module) load(ctx context.Context, s store.Store[Settings]) (Settings, bool, error) {
	rec, err := s.Get(ctx, SiteID)
	if errors.Is(err, store.ErrNotFound) {
		return m.defaults, false, nil
	}
	if err != nil {
		return Settings{}, false, err
	}
	return rec, true, nil
}

func (m *Module) Get(w http.ResponseWriter, r *http.Request) {
	s, fallback := m.backend.Select(r.Context())
	rec, _, err := m.load(r.Context(), s)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.Success(w, http.StatusOK, httputil.WithFallback(httputil.Fields{"settings": rec}, fallback))
}

// Update merges the body onto the current settings. A new channel handle is resolved to
// its id, and a sermon import for the channel is started without waiting for it.
func (m *Module) Update(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil || len(bytes.TrimSpace(raw)) == 0 {
		httputil.Fail(w, http.StatusBadRequest, "Request body is required")
		return
	}

	s, fallback := m.backend.Select(r.Context())
	rec, exists, err := m.load(r.Context(), s)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	meta := rec.Base
	prevHandle := rec.YouTubeHandle
	if err := json.Unmarshal(raw, &rec); err != nil {
		httputil.Error(w, apperr.Validation("Invalid request body"))
		return
	}
	rec.Base = meta
	rec.ID = SiteID
	rec.YouTubeHandle = strings.TrimSpace(rec.YouTubeHandle)

	if rec.YouTubeHandle != "" && (rec.YouTubeHandle != prevHandle || rec.YouTubeChannelID == "") {
		m.resolveChannel(r.Context(), &rec)
	}

	if exists {
		err = s.Save(r.Context(), &rec)
	} else {
		err = s.Create(r.Context(), &rec)
	}
	if err != nil {
		httputil.Error(w, err)
		return
	}

	syncing := m.startSync(rec.YouTubeChannelID)
	httputil.Success(w, http.StatusOK, httputil.WithFallback(httputil.Fields{
		"settings":   rec,
		"syncQueued": syncing,
	}, fallback))
}

// resolveChannel is best effort: a lookup failure keeps the previous channel id.
func (m *Module) resolveChannel(ctx context.Context, rec *Settings) {
	if m.resolver == nil {
		return
	}
	id, err := m.resolver.ResolveChannelIDFromHandle(ctx, rec.YouTubeHandle)
	if err != nil {
		provider.LogError("settings", "resolve channel handle "+rec.YouTubeHandle, err)
		return
	}
	if id == "" {
		log.Printf("[settings] channel handle %q not found", rec.YouTubeHandle)
		return
	}
	rec.YouTubeChannelID = id
}

// startSync runs a sermon import in the background. The result is only logged.
func (m *Module) startSync(channelID string) bool {
	if m.sync == nil || channelID == "" {
		return false
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()

		res := m.sync.Sync(ctx, channelID, 0)
		if !res.Log("settings", "sermon sync for "+channelID) {
			return
		}
		m.markSynced(ctx, res.Value.SyncedAt)
	}()
	return true
}

func (m *Module) markSynced(ctx context.Context, at time.Time) {
	s, _ := m.backend.Select(ctx)
	rec, exists, err := m.load(ctx, s)
	if err != nil || !exists {
		return
	}
	rec.LastVideoSyncAt = &at
	if err := s.Save(ctx, &rec); err != nil {
		log.Printf("[settings] record sync time: %v", err)
	}
}

// ChannelID is the channel used for sermon imports and the live stream: the saved
// setting, else the configured default.
func (m *Module) ChannelID(ctx context.Context) string {
	s, _ := m.backend.Select(ctx)
	rec, _, err := m.load(ctx, s)
	if err == nil && rec.YouTubeChannelID != "" {
		return rec.YouTubeChannelID
	}
	return m.defaults.YouTubeChannelID
}
