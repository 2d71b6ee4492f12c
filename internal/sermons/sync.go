package sermons

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gracecity/church-backend/internal/besteffort"
	"github.com/gracecity/church-backend/internal/store"
	"github.com/gracecity/church-backend/internal/youtube"
)

const defaultSyncLimit = 50

// VideoLister is the video catalog provider.
type VideoLister interface {
	ListChannelVideos(ctx context.Context, channelID string, limit int) ([]youtube.Video, error)
}

// ChannelSource supplies the configured channel when a sync request names none.
type ChannelSource interface {
	ChannelID(ctx context.Context) string
}

type SyncReport struct {
	ChannelID string    `json:"channelId"`
	Fetched   int       `json:"fetched"`
	Created   int       `json:"created"`
	Skipped   int       `json:"skipped"`
	Fallback  bool      `json:"fallback"`
	SyncedAt  time.Time `json:"syncedAt"`
}

// Syncer imports channel uploads as published sermons. Videos already imported, matched
// by video id, are left untouched so admin edits survive a re-sync.
type Syncer struct {
	backend *store.Backend[Sermon]
	videos  VideoLister
	now     func() time.Time
}

func NewSyncer(backend *store.Backend[Sermon], videos VideoLister) *Syncer {
	return &Syncer{backend: backend, videos: videos, now: time.Now}
}

func (s *Syncer) Sync(ctx context.Context, channelID string, limit int) besteffort.Result[SyncReport] {
	if limit <= 0 {
		limit = defaultSyncLimit
	}
	videos, err := s.videos.ListChannelVideos(ctx, channelID, limit)
	if err != nil {
		return besteffort.Failed[SyncReport](fmt.Errorf("list channel videos: %w", err))
	}

	report := SyncReport{ChannelID: channelID, Fetched: len(videos)}
	if len(videos) == 0 {
		report.SyncedAt = s.now().UTC()
		return besteffort.Ok(report)
	}

	ids := make([]string, len(videos))
	for i, v := range videos {
		ids[i] = v.ID
	}
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	st, fallback := s.backend.Select(ctx)
	report.Fallback = fallback
	existing, _, err := st.List(ctx, store.Query[Sermon]{
		Filters: []store.Filter[Sermon]{{
			Clause: "youtube_video_id IN ?",
			Args:   []any{ids},
			Match: func(rec *Sermon) bool {
				_, ok := wanted[rec.YouTubeVideoID]
				return ok
			},
		}},
	})
	if err != nil {
		return besteffort.Failed[SyncReport](fmt.Errorf("load imported sermons: %w", err))
	}
	imported := make(map[string]struct{}, len(existing))
	for _, e := range existing {
		imported[e.YouTubeVideoID] = struct{}{}
	}

	for _, v := range videos {
		if _, ok := imported[v.ID]; ok {
			report.Skipped++
			continue
		}
		sermon := fromVideo(v)
		if err := st.Create(ctx, &sermon); err != nil {
			log.Printf("[sermons] import video %s: %v", v.ID, err)
			report.Skipped++
			continue
		}
		imported[v.ID] = struct{}{}
		report.Created++
	}

	report.SyncedAt = s.now().UTC()
	log.Printf("[sermons] synced channel %s: fetched=%d created=%d skipped=%d",
		channelID, report.Fetched, report.Created, report.Skipped)
	return besteffort.Ok(report)
}

func fromVideo(v youtube.Video) Sermon {
	date := v.PublishedAt.UTC().Format(time.DateOnly)
	if v.PublishedAt.IsZero() {
		date = time.Now().UTC().Format(time.DateOnly)
	}
	return Sermon{
		Title:          v.Title,
		Date:           date,
		Description:    v.Description,
		VideoURL:       v.URL,
		ThumbnailURL:   v.ThumbnailURL,
		YouTubeVideoID: v.ID,
		Tags:           []string{},
		IsPublished:    true,
	}
}
