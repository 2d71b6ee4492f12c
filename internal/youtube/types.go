package youtube

import "time"

// Video is one upload on the church channel.
type Video struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	PublishedAt  time.Time `json:"publishedAt"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	ChannelTitle string    `json:"channelTitle"`
	URL          string    `json:"url"`
}

// LiveStatus reports whether the channel is broadcasting right now.
type LiveStatus struct {
	IsLive    bool      `json:"isLive"`
	VideoID   string    `json:"videoId,omitempty"`
	Title     string    `json:"title,omitempty"`
	URL       string    `json:"url,omitempty"`
	EmbedURL  string    `json:"embedUrl,omitempty"`
	CheckedAt time.Time `json:"checkedAt"`
}

// Data API v3 response shapes, reduced to the fields used.

type searchResponse struct {
	NextPageToken string       `json:"nextPageToken"`
	Items         []searchItem `json:"items"`
}

type searchItem struct {
	ID struct {
		VideoID string `json:"videoId"`
	} `json:"id"`
	Snippet snippet `json:"snippet"`
}

type snippet struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	PublishedAt  time.Time `json:"publishedAt"`
	ChannelTitle string    `json:"channelTitle"`
	Thumbnails   map[string]struct {
		URL string `json:"url"`
	} `json:"thumbnails"`
}

type channelsResponse struct {
	Items []struct {
		ID string `json:"id"`
	} `json:"items"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (s snippet) thumbnail() string {
	for _, size := range []string{"maxres", "high", "medium", "default"} {
		if t, ok := s.Thumbnails[size]; ok && t.URL != "" {
			return t.URL
		}
	}
	return ""
}

func watchURL(id string) string { return "https://www.youtube.com/watch?v=" + id }

func embedURL(id string) string { return "https://www.youtube.com/embed/" + id }
