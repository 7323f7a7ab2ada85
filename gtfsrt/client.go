package gtfsrt

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client fetches and decodes a GTFS-RT trip updates feed over HTTP.
type Client struct {
	url        string
	apiKey     string
	httpClient *http.Client
	now        func() time.Time
}

// NewClient creates a client for the given feed URL. apiKey, when non-empty,
// is sent as the x-api-key header.
func NewClient(url, apiKey string, timeout time.Duration) *Client {
	return &Client{
		url:        url,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		now:        time.Now,
	}
}

// Fetch retrieves the feed and decodes it into a Snapshot. Network and HTTP
// status failures return *FetchError; malformed payloads return *DecodeError.
func (c *Client) Fetch(ctx context.Context) (*Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, &FetchError{URL: c.url, Err: err}
	}
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{URL: c.url, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{URL: c.url, Err: fmt.Errorf("HTTP %d", resp.StatusCode)}
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: c.url, Err: err}
	}
	return DecodeFeed(b, c.now())
}
