package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("test-key", WithBaseURL(srv.URL), WithRateLimit(1000, 1000))
}

func TestListChannelVideosPaginates(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Path != "/search" || r.URL.Query().Get("channelId") != "UC123" || r.URL.Query().Get("key") != "test-key" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		if r.URL.Query().Get("pageToken") == "" {
			fmt.Fprint(w, `{"nextPageToken":"p2","items":[
				{"id":{"videoId":"v1"},"snippet":{"title":"Sunday Service","publishedAt":"2025-01-05T10:00:00Z","thumbnails":{"high":{"url":"https://img/v1"}}}},
				{"id":{},"snippet":{"title":"playlist entry"}}]}`)
			return
		}
		fmt.Fprint(w, `{"items":[{"id":{"videoId":"v2"},"snippet":{"title":"Midweek","publishedAt":"2025-01-01T18:00:00Z"}}]}`)
	})

	videos, err := c.ListChannelVideos(context.Background(), "UC123", 10)
	if err != nil {
		t.Fatalf("ListChannelVideos() error: %v", err)
	}
	if calls != 2 || len(videos) != 2 {
		t.Fatalf("calls=%d videos=%+v", calls, videos)
	}
	if videos[0].ID != "v1" || videos[0].ThumbnailURL != "https://img/v1" || videos[0].URL != "https://www.youtube.com/watch?v=v1" {
		t.Errorf("first video = %+v", videos[0])
	}
}

func TestResolveChannelIDFromHandle(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("forHandle") {
		case "@gracecity":
			fmt.Fprint(w, `{"items":[{"id":"UCgrace"}]}`)
		default:
			fmt.Fprint(w, `{"items":[]}`)
		}
	})

	id, err := c.ResolveChannelIDFromHandle(context.Background(), "gracecity")
	if err != nil || id != "UCgrace" {
		t.Fatalf("resolve = %q, %v", id, err)
	}
	id, err = c.ResolveChannelIDFromHandle(context.Background(), "@nobody")
	if err != nil || id != "" {
		t.Fatalf("unknown handle = %q, %v", id, err)
	}
}

func TestLiveStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("eventType") != "live" {
			http.Error(w, "missing eventType", http.StatusBadRequest)
			return
		}
		fmt.Fprint(w, `{"items":[{"id":{"videoId":"live1"},"snippet":{"title":"Live Worship"}}]}`)
	})

	status, err := c.LiveStatus(context.Background(), "UC123")
	if err != nil {
		t.Fatalf("LiveStatus() error: %v", err)
	}
	if !status.IsLive || status.EmbedURL != "https://www.youtube.com/embed/live1" {
		t.Errorf("status = %+v", status)
	}
}

func TestUpstreamErrorAndMissingKey(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error":{"code":403,"message":"quotaExceeded"}}`)
	})
	if _, err := c.ListChannelVideos(context.Background(), "UC123", 5); err == nil {
		t.Fatal("expected quota error")
	}

	if _, err := NewClient("").LiveStatus(context.Background(), "UC123"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("error = %v, want ErrNotConfigured", err)
	}
}
