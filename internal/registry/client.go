// Package registry is a client for the remote model registry.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

const defaultUserAgent = "modelload"

// HTTPClient is the interface for HTTP operations.
// *http.Client satisfies this interface.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for lookups.
func WithHTTPClient(c HTTPClient) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithToken sets a bearer token sent with every request.
func WithToken(token string) Option {
	return func(cl *Client) {
		cl.token = token
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(cl *Client) {
		cl.userAgent = ua
	}
}

// Client talks to the model registry API.
type Client struct {
	baseURL    string
	httpClient HTTPClient
	token      string
	userAgent  string
}

// NewClient creates a registry client. Trailing slashes on baseURL are dropped.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		userAgent:  defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// downloadInfoURL returns the lookup endpoint for id.
func (c *Client) downloadInfoURL(id ID) string {
	return fmt.Sprintf("%s/api/v1/models/%s/%s/versions/%s/download",
		c.baseURL,
		url.PathEscape(id.Group),
		url.PathEscape(id.Name),
		url.PathEscape(id.Version),
	)
}

// GetModelDownloadInfo looks up where the artifact for id can be downloaded.
func (c *Client) GetModelDownloadInfo(ctx context.Context, id ID) (*ModelInfo, error) {
	endpoint := c.downloadInfoURL(id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	slog.Debug("Looking up model download info", "model_id", id.String(), "url", endpoint)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching download info for %s: %w: %w", id, ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", id, ErrModelNotFound)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetching download info for %s: status %d: %w", id, resp.StatusCode, ErrRegistry)
	}

	var info ModelInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("parsing download info for %s: %w", id, ErrRegistry)
	}

	if info.Artifact.DownloadURL == "" {
		return nil, fmt.Errorf("download info for %s has no download URL: %w", id, ErrRegistry)
	}

	return &info, nil
}
