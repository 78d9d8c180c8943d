// YouTube Data API v3 [Searcher] implementation
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vidshelf/internal/models"
	"github.com/desertthunder/vidshelf/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultYTBaseURL    string  = "https://www.googleapis.com/youtube/v3"
	defaultMaxResults   int     = 12
	defaultRateLimit    float64 = 5.0
	maxErrorBodyPreview int     = 512
	maxResponseBytes    int64   = 4 << 20
)

// YouTubeThumbnail is one size of a snippet thumbnail.
type YouTubeThumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// YouTubeSnippet is the snippet part of a search result.
type YouTubeSnippet struct {
	Title        string                      `json:"title"`
	ChannelTitle string                      `json:"channelTitle"`
	Thumbnails   map[string]YouTubeThumbnail `json:"thumbnails"`
}

// YouTubeSearchItem is a single /search result.
type YouTubeSearchItem struct {
	ID struct {
		Kind    string `json:"kind"`
		VideoID string `json:"videoId"`
	} `json:"id"`
	Snippet YouTubeSnippet `json:"snippet"`
}

// YouTubeVideoItem is a single /videos result.
type YouTubeVideoItem struct {
	ID             string `json:"id"`
	ContentDetails struct {
		Duration string `json:"duration"`
	} `json:"contentDetails"`
	Statistics struct {
		ViewCount string `json:"viewCount"`
	} `json:"statistics"`
}

type youtubeError struct {
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// YouTubeOptions configures a [YouTubeService].
type YouTubeOptions struct {
	BaseURL    string
	MaxResults int
	RateLimit  float64 // requests per second
	HTTPClient *http.Client
	Logger     *log.Logger
}

// YouTubeService implements [Searcher] against the YouTube Data API.
type YouTubeService struct {
	baseURL    string
	maxResults int
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// NewYouTubeService creates a search client, filling unset options with defaults.
func NewYouTubeService(opts YouTubeOptions) *YouTubeService {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultYTBaseURL
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = defaultMaxResults
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = defaultRateLimit
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(io.Discard)
	}

	return &YouTubeService{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		maxResults: opts.MaxResults,
		httpClient: opts.HTTPClient,
		limiter:    rate.NewLimiter(rate.Limit(opts.RateLimit), 1),
		logger:     opts.Logger,
	}
}

// Search runs a video search and enriches the results with duration and view count.
//
// Results without a video id are dropped. An empty result set is not an error.
func (y *YouTubeService) Search(ctx context.Context, query, apiKey string) ([]models.Video, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: please enter a search term", shared.ErrInvalidInput)
	}
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, fmt.Errorf("%w: missing API key", shared.ErrMissingCredentials)
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "video")
	params.Set("maxResults", strconv.Itoa(y.maxResults))
	params.Set("q", query)
	params.Set("key", apiKey)

	var search struct {
		Items []YouTubeSearchItem `json:"items"`
	}
	if err := y.doRequest(ctx, "/search", params, &search); err != nil {
		return nil, err
	}

	items := make([]YouTubeSearchItem, 0, len(search.Items))
	ids := make([]string, 0, len(search.Items))
	for _, item := range search.Items {
		if item.ID.VideoID == "" {
			continue
		}
		items = append(items, item)
		ids = append(ids, item.ID.VideoID)
	}
	if len(items) == 0 {
		return []models.Video{}, nil
	}

	details, err := y.fetchDetails(ctx, ids, apiKey)
	if err != nil {
		return nil, err
	}

	videos := make([]models.Video, len(items))
	for i, item := range items {
		info := details[item.ID.VideoID]
		videos[i] = models.Video{
			ID:           item.ID.VideoID,
			Title:        item.Snippet.Title,
			ChannelTitle: item.Snippet.ChannelTitle,
			Thumbnail:    thumbnailURL(item.Snippet.Thumbnails),
			Duration:     info.ContentDetails.Duration,
			ViewCount:    info.Statistics.ViewCount,
		}
	}

	y.logger.Debug("search complete", "query", query, "results", len(videos))
	return videos, nil
}

// fetchDetails looks up duration and statistics for ids, keyed by video id.
func (y *YouTubeService) fetchDetails(ctx context.Context, ids []string, apiKey string) (map[string]YouTubeVideoItem, error) {
	params := url.Values{}
	params.Set("part", "contentDetails,statistics")
	params.Set("id", strings.Join(ids, ","))
	params.Set("key", apiKey)

	var resp struct {
		Items []YouTubeVideoItem `json:"items"`
	}
	if err := y.doRequest(ctx, "/videos", params, &resp); err != nil {
		return nil, err
	}

	details := make(map[string]YouTubeVideoItem, len(resp.Items))
	for _, item := range resp.Items {
		details[item.ID] = item
	}
	return details, nil
}

func (y *YouTubeService) doRequest(ctx context.Context, endpoint string, params url.Values, result any) error {
	if err := y.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limiter: %v", shared.ErrRemoteSearch, err)
	}

	apiURL := y.baseURL + endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", shared.ErrRemoteSearch, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: request failed: %v", shared.ErrRemoteSearch, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", shared.ErrRemoteSearch, err)
	}
	if int64(len(body)) > maxResponseBytes {
		return fmt.Errorf("%w: response exceeds %d bytes", shared.ErrRemoteSearch, maxResponseBytes)
	}

	var apiErr youtubeError
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != nil {
		y.logger.Warn("youtube API error", "endpoint", endpoint, "code", apiErr.Error.Code, "message", apiErr.Error.Message)
		return fmt.Errorf("%w: youtube API error (status %d): %s", shared.ErrRemoteSearch, resp.StatusCode, apiErr.Error.Message)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: youtube API error: status %d: %s", shared.ErrRemoteSearch, resp.StatusCode, preview(body))
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", shared.ErrRemoteSearch, err)
	}

	return nil
}

// thumbnailURL prefers the medium thumbnail, then the default one.
func thumbnailURL(thumbs map[string]YouTubeThumbnail) string {
	if t, ok := thumbs["medium"]; ok && t.URL != "" {
		return t.URL
	}
	if t, ok := thumbs["default"]; ok && t.URL != "" {
		return t.URL
	}
	return ""
}

func preview(body []byte) string {
	if len(body) > maxErrorBodyPreview {
		return string(body[:maxErrorBodyPreview]) + "..."
	}
	return string(body)
}
