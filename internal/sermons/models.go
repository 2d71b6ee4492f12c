package sermons

import (
	"github.com/lib/pq"

	"github.com/gracecity/church-backend/internal/store"
)

type Sermon struct {
	store.Base
	Title          string         `gorm:"not null" json:"title"`
	Preacher       string         `gorm:"index" json:"preacher"`
	Date           string         `gorm:"index" json:"date"`
	Series         string         `gorm:"index" json:"series,omitempty"`
	Scripture      string         `json:"scripture,omitempty"`
	Description    string         `gorm:"type:text" json:"description,omitempty"`
	VideoURL       string         `json:"videoUrl,omitempty"`
	AudioURL       string         `json:"audioUrl,omitempty"`
	ThumbnailURL   string         `json:"thumbnailUrl,omitempty"`
	YouTubeVideoID string         `gorm:"column:youtube_video_id;index" json:"youtubeVideoId,omitempty"`
	Tags           pq.StringArray `gorm:"type:text[]" json:"tags"`
	Views          int            `json:"views"`
	IsPublished    bool           `json:"isPublished"`
}

func (Sermon) TableName() string {
	return "church.sermons"
}
