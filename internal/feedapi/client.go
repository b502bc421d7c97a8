package feedapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"xtor/internal/logging"
	"xtor/internal/services"
)

const (
	defaultTimeout  = 15 * time.Second
	maxResponseSize = 16 << 20
	component       = "feedapi"
)

// API is the set of feed server calls the directory depends on.
type API interface {
	FetchManifest(ctx context.Context, feedURL string) (*Manifest, error)
	ListVideos(ctx context.Context, feedURL string, query Query) (*VideoPage, error)
	VideoDetails(ctx context.Context, feedURL, videoID string) (Video, error)
}

// Client talks to XTOR feed servers over HTTP.
type Client struct {
	httpClient *http.Client
	userAgent  string
	logger     *slog.Logger
}

var _ API = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(agent string) Option {
	return func(c *Client) {
		if agent = strings.TrimSpace(agent); agent != "" {
			c.userAgent = agent
		}
	}
}

// WithLogger attaches a logger for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logging.NewComponentLogger(logger, component)
		}
	}
}

// New creates a feed client.
func New(opts ...Option) *Client {
	client := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		userAgent:  "xtor",
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// BaseURL returns feedURL with a trailing path separator.
func BaseURL(feedURL string) string {
	if strings.HasSuffix(feedURL, "/") {
		return feedURL
	}
	return feedURL + "/"
}

// ManifestURL returns the manifest endpoint of a feed.
func ManifestURL(feedURL string) string {
	return BaseURL(feedURL) + "manifest"
}

// VideosURL returns the listing endpoint for query.
func VideosURL(feedURL string, query Query) string {
	return BaseURL(feedURL) + "videos?" + query.Encode()
}

// VideoURL returns the detail endpoint of one video.
func VideoURL(feedURL, videoID string) string {
	return BaseURL(feedURL) + "videos/" + url.PathEscape(videoID)
}

// FetchManifest retrieves and validates a feed manifest.
func (c *Client) FetchManifest(ctx context.Context, feedURL string) (*Manifest, error) {
	body, err := c.get(ctx, "fetch manifest", ManifestURL(feedURL))
	if err != nil {
		return nil, err
	}
	var manifest Manifest
	if err := json.Unmarshal(body, &manifest); err != nil {
		return nil, services.Wrap(services.ErrInvalidManifest, component, "fetch manifest", "decode manifest", err)
	}
	if err := manifest.Validate(); err != nil {
		return nil, services.Wrap(services.ErrInvalidManifest, component, "fetch manifest", feedURL, err)
	}
	return &manifest, nil
}

// ListVideos retrieves one page of videos.
func (c *Client) ListVideos(ctx context.Context, feedURL string, query Query) (*VideoPage, error) {
	body, err := c.get(ctx, "list videos", VideosURL(feedURL, query))
	if err != nil {
		return nil, err
	}
	var payload videoPagePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, services.Wrap(services.ErrFetchFailed, component, "list videos", "decode response", err)
	}
	return payload.page(), nil
}

// VideoDetails retrieves a single video document.
func (c *Client) VideoDetails(ctx context.Context, feedURL, videoID string) (Video, error) {
	body, err := c.get(ctx, "video details", VideoURL(feedURL, videoID))
	if err != nil {
		return nil, err
	}
	var video Video
	if err := json.Unmarshal(body, &video); err != nil {
		return nil, services.Wrap(services.ErrFetchFailed, component, "video details", "decode response", err)
	}
	if video == nil {
		video = Video{}
	}
	return video, nil
}

func (c *Client) get(ctx context.Context, operation, endpoint string) ([]byte, error) {
	requestID, ok := services.RequestIDFromContext(ctx)
	if !ok {
		requestID = uuid.NewString()
		ctx = services.WithRequestID(ctx, requestID)
	}
	logger := logging.WithContext(ctx, c.logger)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrFetchFailed, component, operation, "build request", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		logger.Debug("feed request failed",
			logging.String("url", endpoint),
			logging.Duration("latency", latency),
			logging.Error(err))
		return nil, services.Wrap(services.ErrFetchFailed, component, operation, fmt.Sprintf("GET %s (latency=%v)", endpoint, latency), err)
	}
	defer resp.Body.Close()

	logger.Debug("feed request completed",
		logging.String("url", endpoint),
		logging.Int("status", resp.StatusCode),
		logging.Duration("latency", latency))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, services.Wrap(services.ErrFetchFailed, component, operation,
			fmt.Sprintf("GET %s returned %d", endpoint, resp.StatusCode), nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, services.Wrap(services.ErrFetchFailed, component, operation, "read response", err)
	}
	return body, nil
}
