// Package youtube implements the Data API v3 resource fetcher.
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/ytharvest/harvester/internal/metrics"
)

const (
	// maxPageSize is the hard per-request item cap of the list endpoints.
	maxPageSize = 50

	// commentPageSize is the cap for commentThreads.list; the pipeline takes
	// the top page of comments per video rather than walking every thread.
	commentPageSize = 100

	defaultBaseURL = "https://www.googleapis.com/youtube/v3"
	defaultTimeout = 30 * time.Second
)

// Config holds the client configuration. The endpoint base is explicit so
// tests can point the client at a fake upstream.
type Config struct {
	APIKey            string
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
}

// Client is a YouTube Data API v3 client scoped to the list endpoints the
// harvest pipeline consumes. Calls are paced by a client-side rate limiter
// and issued one at a time.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	apiKey     string
}

// NewClient creates a new Data API client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("youtube API key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, 1),
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     cfg.APIKey,
	}, nil
}

// SearchChannels queries the search endpoint for channels matching query and
// returns up to limit channel ids in upstream relevance order.
func (c *Client) SearchChannels(ctx context.Context, query string, limit int) ([]string, error) {
	if limit < 1 || limit > maxPageSize {
		return nil, fmt.Errorf("search limit must be between 1 and %d, got %d", maxPageSize, limit)
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "channel")
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(limit))

	var resp searchListResponse
	if err := c.get(ctx, "search", params, &resp); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.ID.ChannelID != "" {
			ids = append(ids, item.ID.ChannelID)
		}
	}

	return ids, nil
}

// FetchChannels retrieves channel details for the given ids in a single
// batched call. Unknown ids are silently absent from the response; the
// upstream API omits them rather than erroring.
func (c *Client) FetchChannels(ctx context.Context, ids []string) ([]RawChannel, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids) > maxPageSize {
		return nil, fmt.Errorf("too many channel ids (max %d, got %d)", maxPageSize, len(ids))
	}

	params := url.Values{}
	params.Set("part", "snippet,statistics,contentDetails")
	params.Set("id", strings.Join(ids, ","))

	var resp channelListResponse
	if err := c.get(ctx, "channels", params, &resp); err != nil {
		return nil, err
	}

	return resp.Items, nil
}

// FetchPlaylistVideoIDs walks every page of the playlist and returns all
// video ids it references, in playlist order.
func (c *Client) FetchPlaylistVideoIDs(ctx context.Context, playlistID string) ([]string, error) {
	if playlistID == "" {
		return nil, fmt.Errorf("playlist id is required")
	}

	var ids []string
	pageToken := ""

	for {
		params := url.Values{}
		params.Set("part", "contentDetails")
		params.Set("playlistId", playlistID)
		params.Set("maxResults", strconv.Itoa(maxPageSize))
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		var resp playlistItemListResponse
		if err := c.get(ctx, "playlistItems", params, &resp); err != nil {
			return nil, err
		}

		for _, item := range resp.Items {
			if item.ContentDetails.VideoID != "" {
				ids = append(ids, item.ContentDetails.VideoID)
			}
		}

		if resp.NextPageToken == "" {
			return ids, nil
		}
		pageToken = resp.NextPageToken
	}
}

// FetchVideos retrieves video details for the given ids, chunked into
// requests of at most 50 ids. Chunk results are concatenated in request
// order, so ids keep their relative position.
func (c *Client) FetchVideos(ctx context.Context, ids []string) ([]RawVideo, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	videos := make([]RawVideo, 0, len(ids))

	for _, chunk := range ChunkIDs(ids, maxPageSize) {
		params := url.Values{}
		params.Set("part", "snippet,statistics,contentDetails")
		params.Set("id", strings.Join(chunk, ","))

		var resp videoListResponse
		if err := c.get(ctx, "videos", params, &resp); err != nil {
			return nil, err
		}

		videos = append(videos, resp.Items...)
	}

	return videos, nil
}

// FetchComments retrieves the top page of comment threads for a video.
// Videos with comments disabled or restricted yield an empty result, not an
// error; any other failure is returned for the caller to isolate.
func (c *Client) FetchComments(ctx context.Context, videoID string) ([]RawComment, error) {
	if videoID == "" {
		return nil, fmt.Errorf("video id is required")
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("videoId", videoID)
	params.Set("maxResults", strconv.Itoa(commentPageSize))

	var resp commentThreadListResponse
	if err := c.get(ctx, "commentThreads", params, &resp); err != nil {
		if IsCommentsUnavailable(err) {
			return nil, nil
		}
		return nil, err
	}

	return resp.Items, nil
}

// get issues one rate-limited GET against the given endpoint and decodes the
// JSON response into out. Non-2xx responses become a typed *UpstreamError.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/"+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build %s request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.APIRequests.WithLabelValues(endpoint, "transport_error").Inc()
		return fmt.Errorf("call %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.APIRequests.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()
		return c.upstreamError(endpoint, resp)
	}
	metrics.APIRequests.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}

	return nil
}

func (c *Client) upstreamError(endpoint string, resp *http.Response) error {
	ue := &UpstreamError{
		Endpoint:   endpoint,
		StatusCode: resp.StatusCode,
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		ue.Message = "unreadable error body"
		return ue
	}

	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		ue.Message = apiErr.Error.Message
		if len(apiErr.Error.Errors) > 0 {
			ue.Reason = apiErr.Error.Errors[0].Reason
		}
	} else {
		ue.Message = strings.TrimSpace(string(body))
	}

	return ue
}

// ChunkIDs splits ids into chunks of at most size items, preserving order.
func ChunkIDs(ids []string, size int) [][]string {
	if size <= 0 || size > maxPageSize {
		size = maxPageSize
	}

	var chunks [][]string
	for i := 0; i < len(ids); i += size {
		end := i + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[i:end])
	}

	return chunks
}
