// Package livestream serves the channel's live status and recent uploads from a TTL cache
// so page views do not spend video API quota.
package livestream

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gracecity/church-backend/internal/cache"
	"github.com/gracecity/church-backend/internal/httputil"
	"github.com/gracecity/church-backend/internal/provider"
	"github.com/gracecity/church-backend/internal/youtube"
)

const (
	LiveTTL   = 60 * time.Second
	VideosTTL = 15 * time.Minute

	defaultVideoLimit = 12
	maxVideoLimit     = 50
)

// Provider is the video catalog.
type Provider interface {
	LiveStatus(ctx context.Context, channelID string) (youtube.LiveStatus, error)
	ListChannelVideos(ctx context.Context, channelID string, limit int) ([]youtube.Video, error)
}

// ChannelSource names the channel to report on.
type ChannelSource interface {
	ChannelID(ctx context.Context) string
}

type Handler struct {
	videos   Provider
	cache    cache.TTL
	channels ChannelSource
}

func NewHandler(videos Provider, c cache.TTL, channels ChannelSource) *Handler {
	return &Handler{videos: videos, cache: c, channels: channels}
}

// Live reports the live status. Provider failures are logged and reported as offline.
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	channelID := h.channels.ChannelID(r.Context())
	if channelID == "" {
		httputil.Success(w, http.StatusOK, httputil.Fields{"live": youtube.LiveStatus{CheckedAt: time.Now().UTC()}, "configured": false})
		return
	}

	status, cached, err := cache.Fetch(r.Context(), h.cache, "livestream:"+channelID, LiveTTL,
		func(ctx context.Context) (youtube.LiveStatus, error) {
			return h.videos.LiveStatus(ctx, channelID)
		})
	if err != nil {
		logUnavailable("live status", channelID, err)
		httputil.Success(w, http.StatusOK, httputil.Fields{
			"live":       youtube.LiveStatus{CheckedAt: time.Now().UTC()},
			"configured": !errors.Is(err, youtube.ErrNotConfigured),
			"available":  false,
		})
		return
	}
	httputil.Success(w, http.StatusOK, httputil.Fields{"live": status, "configured": true, "cached": cached})
}

// Videos lists recent uploads. Provider failures yield an empty list.
func (h *Handler) Videos(w http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 {
		limit = defaultVideoLimit
	}
	limit = min(limit, maxVideoLimit)

	channelID := h.channels.ChannelID(r.Context())
	if channelID == "" {
		httputil.Success(w, http.StatusOK, httputil.Fields{"videos": []youtube.Video{}, "configured": false})
		return
	}

	key := "videos:" + channelID + ":" + strconv.Itoa(limit)
	videos, cached, err := cache.Fetch(r.Context(), h.cache, key, VideosTTL,
		func(ctx context.Context) ([]youtube.Video, error) {
			return h.videos.ListChannelVideos(ctx, channelID, limit)
		})
	if err != nil {
		logUnavailable("videos", channelID, err)
		httputil.Success(w, http.StatusOK, httputil.Fields{
			"videos":     []youtube.Video{},
			"configured": !errors.Is(err, youtube.ErrNotConfigured),
			"available":  false,
		})
		return
	}
	if videos == nil {
		videos = []youtube.Video{}
	}
	httputil.Success(w, http.StatusOK, httputil.Fields{"videos": videos, "configured": true, "cached": cached})
}

func logUnavailable(what, channelID string, err error) {
	if errors.Is(err, youtube.ErrNotConfigured) {
		return
	}
	provider.LogError("livestream", what+" for "+channelID, err)
}

// LiveRoutes mounts at /api/livestream.
func (h *Handler) LiveRoutes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.Live)
	return r
}

// VideoRoutes mounts at /api/videos.
func (h *Handler) VideoRoutes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.Videos)
	return r
}
