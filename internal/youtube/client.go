package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/gracecity/church-backend/internal/provider"
)

const (
	// BaseURL is the YouTube Data API v3 endpoint.
	BaseURL = "https://www.googleapis.com/youtube/v3"

	// PageMax is the largest page the search endpoint returns.
	PageMax = 50

	name = "youtube"
)

// ErrNotConfigured is returned by every call when no API key is set.
var ErrNotConfigured = errors.New("youtube: API key not configured")

// Client is the video catalog provider. Outbound calls share one rate limiter so a sync
// cannot burn through the daily quota in a burst.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst) }
}

func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: BaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(5), 5),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Configured() bool {
	return c != nil && c.apiKey != ""
}

// ListChannelVideos returns up to limit of the channel's most recent uploads, newest first.
func (c *Client) ListChannelVideos(ctx context.Context, channelID string, limit int) ([]Video, error) {
	if channelID == "" {
		return nil, fmt.Errorf("youtube: channel id is required")
	}
	if limit <= 0 {
		limit = PageMax
	}

	var videos []Video
	pageToken := ""
	for len(videos) < limit {
		params := url.Values{}
		params.Set("part", "snippet")
		params.Set("channelId", channelID)
		params.Set("order", "date")
		params.Set("type", "video")
		params.Set("maxResults", strconv.Itoa(min(PageMax, limit-len(videos))))
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		var page searchResponse
		if err := c.get(ctx, "/search", params, &page); err != nil {
			return nil, err
		}
		for _, item := range page.Items {
			if item.ID.VideoID == "" {
				continue
			}
			videos = append(videos, Video{
				ID:           item.ID.VideoID,
				Title:        item.Snippet.Title,
				Description:  item.Snippet.Description,
				PublishedAt:  item.Snippet.PublishedAt,
				ThumbnailURL: item.Snippet.thumbnail(),
				ChannelTitle: item.Snippet.ChannelTitle,
				URL:          watchURL(item.ID.VideoID),
			})
		}
		if page.NextPageToken == "" || len(page.Items) == 0 {
			break
		}
		pageToken = page.NextPageToken
	}
	return videos, nil
}

// ResolveChannelIDFromHandle maps an @handle to its channel id. An unknown handle yields
// "" and no error.
func (c *Client) ResolveChannelIDFromHandle(ctx context.Context, handle string) (string, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return "", nil
	}
	if !strings.HasPrefix(handle, "@") {
		handle = "@" + handle
	}

	params := url.Values{}
	params.Set("part", "id")
	params.Set("forHandle", handle)

	var resp channelsResponse
	if err := c.get(ctx, "/channels", params, &resp); err != nil {
		return "", err
	}
	if len(resp.Items) == 0 {
		return "", nil
	}
	return resp.Items[0].ID, nil
}

// LiveStatus checks whether channelID has a live broadcast in progress.
func (c *Client) LiveStatus(ctx context.Context, channelID string) (LiveStatus, error) {
	status := LiveStatus{CheckedAt: time.Now().UTC()}
	if channelID == "" {
		return status, nil
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("channelId", channelID)
	params.Set("eventType", "live")
	params.Set("type", "video")
	params.Set("maxResults", "1")

	var page searchResponse
	if err := c.get(ctx, "/search", params, &page); err != nil {
		return status, err
	}
	if len(page.Items) > 0 && page.Items[0].ID.VideoID != "" {
		item := page.Items[0]
		status.IsLive = true
		status.VideoID = item.ID.VideoID
		status.Title = item.Snippet.Title
		status.URL = watchURL(item.ID.VideoID)
		status.EmbedURL = embedURL(item.ID.VideoID)
	}
	return status, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, dst any) error {
	if !c.Configured() {
		return ErrNotConfigured
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("youtube rate limit: %w", err)
	}

	params.Set("key", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		provider.LogCall(name, http.MethodGet, path, 0, start, err)
		return fmt.Errorf("youtube request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		err := fmt.Errorf("youtube status %d: %s", resp.StatusCode, apiErr.Error.Message)
		provider.LogCall(name, http.MethodGet, path, resp.StatusCode, start, err)
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode youtube: %w", err)
	}
	provider.LogCall(name, http.MethodGet, path, resp.StatusCode, start, nil)
	return nil
}
