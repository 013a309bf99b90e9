// Package youtube fetches comment threads from the YouTube Data API v3.
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/AdityaUmale/yt-analyzer/internal/metrics"
	"github.com/AdityaUmale/yt-analyzer/internal/model"
)

const (
	defaultBaseURL = "https://www.googleapis.com/youtube/v3"
	pageSize       = 100 // maximum allowed by the YouTube Data API
)

// UpstreamError reports a failed YouTube API call, carrying the underlying
// cause for diagnostics. Any page failure aborts the whole fetch: partial
// results are never returned.
type UpstreamError struct {
	Page int
	Err  error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("youtube api: page %d: %v", e.Page, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// commentThreadsResponse mirrors the subset of the commentThreads.list
// response the pipeline consumes.
type commentThreadsResponse struct {
	Items         []commentThread `json:"items"`
	NextPageToken string          `json:"nextPageToken"`
}

type commentThread struct {
	ID      string `json:"id"`
	Snippet struct {
		TopLevelComment struct {
			Snippet struct {
				TextDisplay       string    `json:"textDisplay"`
				AuthorDisplayName string    `json:"authorDisplayName"`
				PublishedAt       time.Time `json:"publishedAt"`
				LikeCount         int       `json:"likeCount"`
			} `json:"snippet"`
		} `json:"topLevelComment"`
	} `json:"snippet"`
}

// Client fetches all top-level comments for a video, following pagination.
type Client struct {
	apiKey   string
	baseURL  string
	http     *http.Client
	limiter  *rate.Limiter
	maxPages int
	log      zerolog.Logger
}

func NewClient(apiKey string, maxPages int, log zerolog.Logger) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		// Pace page requests so deep comment sections don't burst the quota.
		limiter:  rate.NewLimiter(rate.Every(200*time.Millisecond), 1),
		maxPages: maxPages,
		log:      log,
	}
}

// FetchComments retrieves every available top-level comment for videoID in
// API-return order. Pagination is sequential: each page request depends on
// the previous page's continuation token. Any page failure returns an
// *UpstreamError and discards comments from earlier pages.
func (c *Client) FetchComments(ctx context.Context, videoID string) ([]model.Comment, error) {
	var comments []model.Comment
	pageToken := ""

	for page := 1; ; page++ {
		if c.maxPages > 0 && page > c.maxPages {
			c.log.Warn().
				Str("video_id", videoID).
				Int("max_pages", c.maxPages).
				Int("comments", len(comments)).
				Msg("page cap reached, truncating comment fetch")
			break
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &UpstreamError{Page: page, Err: err}
		}

		resp, err := c.fetchPage(ctx, videoID, pageToken)
		if err != nil {
			return nil, &UpstreamError{Page: page, Err: err}
		}
		metrics.IncCommentPage()

		for _, item := range resp.Items {
			s := item.Snippet.TopLevelComment.Snippet
			comments = append(comments, model.Comment{
				ID:                item.ID,
				Text:              s.TextDisplay,
				AuthorDisplayName: s.AuthorDisplayName,
				PublishedAt:       s.PublishedAt,
				LikeCount:         s.LikeCount,
			})
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}

	metrics.AddCommentsFetched(len(comments))
	c.log.Info().
		Str("video_id", videoID).
		Int("comments", len(comments)).
		Msg("comment fetch complete")

	return comments, nil
}

func (c *Client) fetchPage(ctx context.Context, videoID, pageToken string) (*commentThreadsResponse, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("videoId", videoID)
	params.Set("maxResults", fmt.Sprintf("%d", pageSize))
	params.Set("key", c.apiKey)
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/commentThreads?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var out commentThreadsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}
