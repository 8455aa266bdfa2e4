// Package paceprovider is an HTTP client for an external training-science
// service that publishes per-user pace zone boundaries.
package paceprovider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"runcoach/internal/paceprofile"
)

// Config holds the provider endpoint and client credentials
type Config struct {
	BaseURL      string
	TokenURL     string // defaults to BaseURL + "/oauth/token"
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
	MinInterval  time.Duration
}

// Client fetches pace boundaries from the provider
type Client struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *RateLimiter
}

var _ paceprofile.BoundaryProvider = (*Client)(nil)

// New creates a client authenticated with the OAuth2 client credentials flow
func New(ctx context.Context, cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")

	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = baseURL + "/oauth/token"
	}

	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     tokenURL,
	}

	return NewClient(baseURL, cc.TokenSource(ctx), cfg.Timeout, cfg.MinInterval)
}

// NewClient creates a client from an existing token source
func NewClient(baseURL string, tokenSource oauth2.TokenSource, timeout, minInterval time.Duration) *Client {
	httpClient := oauth2.NewClient(context.Background(), tokenSource)
	httpClient.Timeout = timeout

	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  httpClient,
		rateLimiter: NewRateLimiter(minInterval),
	}
}

// PaceBoundaries fetches the user's pace zone boundaries.
// Returns nil, nil when the provider has no profile for the user.
func (c *Client) PaceBoundaries(ctx context.Context, userID int64) (*paceprofile.Boundaries, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.get(ctx, fmt.Sprintf("/users/%d/pace-zones", userID))
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, nil
	}
	defer resp.Body.Close()

	var b paceprofile.Boundaries
	if err := json.NewDecoder(resp.Body).Decode(&b); err != nil {
		return nil, fmt.Errorf("decoding pace boundaries: %w", err)
	}

	return &b, nil
}

// RateLimitStatus returns the current rate limit status
func (c *Client) RateLimitStatus() (shortRemaining, dailyRemaining int) {
	return c.rateLimiter.Status()
}

// get returns a nil response for 404
func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	// Update rate limiter from response headers
	c.rateLimiter.UpdateFromHeaders(resp.Header)

	switch resp.StatusCode {
	case http.StatusOK:
		return resp, nil
	case http.StatusNotFound:
		resp.Body.Close()
		return nil, nil
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
}
