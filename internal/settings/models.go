package settings

import (
	"time"

	"github.com/gracecity/church-backend/internal/store"
)

// SiteID is the id of the only settings record.
const SiteID = "site"

// Settings holds site-wide configuration edited from the admin dashboard.
type Settings struct {
	store.Base
	SiteName         string     `json:"siteName"`
	Tagline          string     `json:"tagline,omitempty"`
	ContactEmail     string     `json:"contactEmail,omitempty"`
	ContactPhone     string     `json:"contactPhone,omitempty"`
	Address          string     `json:"address,omitempty"`
	ServiceTimes     string     `gorm:"type:text" json:"serviceTimes,omitempty"`
	FacebookURL      string     `json:"facebookUrl,omitempty"`
	InstagramURL     string     `json:"instagramUrl,omitempty"`
	YouTubeHandle    string     `gorm:"column:youtube_handle" json:"youtubeChannelHandle,omitempty"`
	YouTubeChannelID string     `gorm:"column:youtube_channel_id" json:"youtubeChannelId,omitempty"`
	LiveStreamURL    string     `json:"liveStreamUrl,omitempty"`
	BankName         string     `json:"bankName,omitempty"`
	AccountName      string     `json:"accountName,omitempty"`
	AccountNumber    string     `json:"accountNumber,omitempty"`
	LastVideoSyncAt  *time.Time `json:"lastVideoSyncAt,omitempty"`
}

func (Settings) TableName() string {
	return "church.settings"
}
