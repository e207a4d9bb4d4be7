// Package api implements domain.CatalogClient over the clipshare HTTP API.
package api

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
	"github.com/mmcdole/clipshare/internal/domain"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "clipshare-tui/1.0"
)

// Config holds client settings
type Config struct {
	BaseURL           string        // e.g. http://localhost:8000/api
	Timeout           time.Duration // per request, uploads excluded
	RequestsPerSecond float64       // 0 disables pacing
	Burst             int
	UserID            string // upload tag; generated when empty
}

// Client implements domain.CatalogClient
type Client struct {
	baseURL      string
	userID       string
	httpClient   *http.Client
	uploadClient *http.Client // no overall timeout, bounded by ctx
	limiter      *rate.Limiter
	logger       *slog.Logger
	now          func() time.Time
}

var _ domain.CatalogClient = (*Client)(nil)

// NewClient creates a new API client
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	userID := cfg.UserID
	if userID == "" {
		userID = "user-" + uuid.NewString()
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		userID:  userID,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		uploadClient: &http.Client{Transport: transport},
		limiter:      limiter,
		logger:       logger,
		now:          time.Now,
	}
}

// BaseURL returns the resolved API base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// UserID returns the tag sent with uploads from this session
func (c *Client) UserID() string {
	return c.userID
}

// ListVideos returns the full catalog
func (c *Client) ListVideos(ctx context.Context) ([]domain.Video, error) {
	const op = "list videos"

	body, err := c.doRequest(ctx, op, http.MethodGet, "/videos", nil)
	if err != nil {
		return nil, err
	}

	var resp listResponse
	if err := c.decode(op, body, &resp); err != nil {
		return nil, err
	}

	videos := mapVideos(resp.Videos)
	c.logger.Debug("listed videos", "count", len(videos))
	return videos, nil
}

// FetchStats returns the aggregate catalog statistics
func (c *Client) FetchStats(ctx context.Context) (*domain.Stats, error) {
	const op = "fetch stats"

	body, err := c.doRequest(ctx, op, http.MethodGet, "/stats", nil)
	if err != nil {
		return nil, err
	}

	var stats domain.Stats
	if err := c.decode(op, body, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// LikeVideo increments the like counter and returns the new count
func (c *Client) LikeVideo(ctx context.Context, id string) (int, error) {
	const op = "like video"

	if strings.TrimSpace(id) == "" {
		return 0, domain.NewValidationError(op, "video id is required")
	}

	body, err := c.doRequest(ctx, op, http.MethodPost, "/videos/"+url.PathEscape(id)+"/like", nil)
	if err != nil {
		return 0, err
	}

	var resp likeResponse
	if err := c.decode(op, body, &resp); err != nil {
		return 0, err
	}
	if resp.Likes == nil {
		return 0, &domain.Error{Op: op, Kind: domain.KindServer, Message: "response has no like count"}
	}
	return *resp.Likes, nil
}

// RecordView registers a view. The response body is ignored.
func (c *Client) RecordView(ctx context.Context, id string) error {
	const op = "record view"

	if strings.TrimSpace(id) == "" {
		return domain.NewValidationError(op, "video id is required")
	}

	_, err := c.doRequest(ctx, op, http.MethodPost, "/videos/"+url.PathEscape(id)+"/view", nil)
	return err
}

// SearchVideos runs a free-text search against titles and descriptions
func (c *Client) SearchVideos(ctx context.Context, query string) ([]domain.Video, error) {
	const op = "search videos"

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.NewValidationError(op, "search query is required")
	}

	params := url.Values{}
	params.Set("q", query)

	body, err := c.doRequest(ctx, op, http.MethodGet, "/search", params)
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := c.decode(op, body, &resp); err != nil {
		return nil, err
	}

	videos := mapVideos(resp.Results)
	c.logger.Debug("search complete", "query", query, "results", len(videos))
	return videos, nil
}

// ResolveMediaURL makes a videoUrl absolute. Local storage mode serves
// paths like /uploads/videos/x.mp4 from the API host.
func (c *Client) ResolveMediaURL(videoURL string) string {
	if videoURL == "" {
		return ""
	}
	ref, err := url.Parse(videoURL)
	if err != nil || ref.IsAbs() {
		return videoURL
	}
	base, err := url.Parse(c.baseURL + "/")
	if err != nil {
		return videoURL
	}
	return base.ResolveReference(ref).String()
}

// doRequest performs a request with no body and returns the response body
func (c *Client) doRequest(ctx context.Context, op, method, path string, query url.Values) ([]byte, error) {
	reqURL := c.baseURL + path
	if query != nil {
		reqURL = reqURL + "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, nil)
	if err != nil {
		return nil, &domain.Error{Op: op, Kind: domain.KindNetwork, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	return c.send(op, c.httpClient, req)
}

// send paces, executes and classifies a request
func (c *Client) send(op string, client *http.Client, req *http.Request) ([]byte, error) {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return nil, &domain.Error{Op: op, Kind: domain.KindNetwork, Err: err}
	}

	req.Header.Set("User-Agent", userAgent)
	c.logger.Debug("api request", "method", req.Method, "url", req.URL.String())

	resp, err := client.Do(req)
	if err != nil {
		c.logger.Error("api request failed", "op", op, "error", err)
		return nil, &domain.Error{Op: op, Kind: domain.KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.Error{Op: op, Kind: domain.KindNetwork, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}

	apiErr := &domain.Error{
		Op:         op,
		Kind:       domain.KindServer,
		StatusCode: resp.StatusCode,
		Message:    serverMessage(body),
	}
	if resp.StatusCode == http.StatusNotFound {
		apiErr.Kind = domain.KindNotFound
	}
	c.logger.Error("api request error", "op", op, "status", resp.StatusCode, "message", apiErr.Message)
	return nil, apiErr
}

// decode parses a JSON body; a malformed body is a server error
func (c *Client) decode(op string, body []byte, dest interface{}) error {
	if err := json.Unmarshal(body, dest); err != nil {
		c.logger.Error("JSON parse error", "op", op, "error", err, "bodyLen", len(body))
		return &domain.Error{Op: op, Kind: domain.KindServer, Message: "malformed response", Err: err}
	}
	return nil
}

// serverMessage extracts {"error": "..."} from an error body
func serverMessage(body []byte) string {
	var resp errorResponse
	if err := json.Unmarshal(body, &resp); err == nil && resp.Error != "" {
		return resp.Error
	}
	return ""
}
