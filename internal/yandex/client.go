// Package yandex implements the authenticated Yandex Music metadata client.
package yandex

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"yamusic/internal/core"
	"yamusic/pkg/musiclink"
)

const (
	// tokenType is the Authorization scheme the API expects instead of Bearer.
	tokenType = "OAuth"
	// maxResponseSize caps a single response body; large playlists stay well below it.
	maxResponseSize = 16 << 20
	// maxHTTPRedirects is the maximum number of HTTP redirects to follow.
	maxHTTPRedirects = 3
)

var (
	// ErrTooManyRedirects is returned when too many redirects are encountered.
	ErrTooManyRedirects = errors.New("too many redirects")
	errEmptyResult      = errors.New("response has no result")
)

// APIError is a non-success answer from the upstream API.
type APIError struct {
	StatusCode int
	Name       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("yandex music API returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("yandex music API returned status %d: %s: %s", e.StatusCode, e.Name, e.Message)
}

var _ musiclink.MetadataClient = (*Client)(nil)

// Client talks to the Yandex Music API. API calls carry the OAuth token;
// Fetch goes to storage hosts without it.
type Client struct {
	baseURL  string
	language string
	api      *http.Client
	plain    *http.Client
	logger   *zap.Logger
}

// NewClient creates an API client. An empty token gives anonymous access,
// which the API answers with preview-only download options.
func NewClient(config *core.YandexConfig, logger *zap.Logger) (*Client, error) {
	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = core.DefaultYandexBaseURL
	}
	if u, err := url.Parse(baseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid Yandex Music base URL %q", config.BaseURL)
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = core.DefaultYandexTimeout
	}
	language := config.Language
	if language == "" {
		language = core.DefaultYandexLanguage
	}

	api := newHTTPClient(timeout)
	if config.Token != "" {
		api.Transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{
				AccessToken: config.Token,
				TokenType:   tokenType,
			}),
			Base: http.DefaultTransport,
		}
	} else {
		logger.Warn("No Yandex Music token configured, streams will be previews at best")
	}

	return &Client{
		baseURL:  baseURL,
		language: language,
		api:      api,
		plain:    newHTTPClient(timeout),
		logger:   logger,
	}, nil
}

// newHTTPClient creates a new HTTP client with redirect validation.
func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxHTTPRedirects {
				return ErrTooManyRedirects
			}
			return nil
		},
	}
}

// Track fetches GET /tracks/{id}. The result is a list holding the track.
func (c *Client) Track(ctx context.Context, trackID musiclink.Identifier) ([]byte, error) {
	return c.getResult(ctx, "/tracks/"+url.PathEscape(trackID.String()))
}

// AlbumWithTracks fetches GET /albums/{id}/with-tracks.
func (c *Client) AlbumWithTracks(ctx context.Context, albumID musiclink.Identifier) ([]byte, error) {
	return c.getResult(ctx, "/albums/"+url.PathEscape(albumID.String())+"/with-tracks")
}

// UserPlaylist fetches GET /users/{owner}/playlists/{kind}.
func (c *Client) UserPlaylist(ctx context.Context, ownerID string, playlistID musiclink.Identifier) ([]byte, error) {
	return c.getResult(ctx, "/users/"+url.PathEscape(ownerID)+"/playlists/"+url.PathEscape(playlistID.String()))
}

// DownloadInfo fetches GET /tracks/{id}/download-info.
func (c *Client) DownloadInfo(ctx context.Context, trackID musiclink.Identifier) ([]byte, error) {
	return c.getResult(ctx, "/tracks/"+url.PathEscape(trackID.String())+"/download-info")
}

// Fetch downloads an absolute URL without API credentials.
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	body, status, err := c.get(ctx, c.plain, rawURL)
	if err != nil {
		return nil, err
	}
	switch {
	case status == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", musiclink.ErrNotFound, rawURL)
	case status != http.StatusOK:
		return nil, &APIError{StatusCode: status}
	}
	return body, nil
}

// getResult performs an API call and unwraps the {"result": ...} envelope.
func (c *Client) getResult(ctx context.Context, path string) ([]byte, error) {
	body, status, err := c.get(ctx, c.api, c.baseURL+path)
	if err != nil {
		return nil, err
	}

	if status != http.StatusOK {
		apiErr := &APIError{
			StatusCode: status,
			Name:       gjson.GetBytes(body, "error.name").String(),
			Message:    gjson.GetBytes(body, "error.message").String(),
		}
		c.logger.Debug("Yandex Music API error",
			zap.String("path", path),
			zap.Int("status", status),
			zap.String("error_name", apiErr.Name))
		if status == http.StatusNotFound || apiErr.Name == "not-found" {
			return nil, fmt.Errorf("%w: %s: %w", musiclink.ErrNotFound, path, apiErr)
		}
		return nil, apiErr
	}

	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%s: malformed response body", path)
	}
	result := gjson.GetBytes(body, "result")
	if !result.Exists() || result.Type == gjson.Null {
		return nil, fmt.Errorf("%w: %s: %w", musiclink.ErrNotFound, path, errEmptyResult)
	}
	return []byte(result.Raw), nil
}

func (c *Client) get(ctx context.Context, client *http.Client, target string) (body []byte, status int, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept-Language", c.language)

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Read response body (limited to avoid excessive memory use).
	body, err = io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.Debug("Upstream request",
		zap.String("host", req.URL.Host),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))
	return body, resp.StatusCode, nil
}
