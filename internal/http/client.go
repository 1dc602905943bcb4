package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single request, including reading the body.
const DefaultTimeout = 60 * time.Second

// DefaultUserAgent is sent with every request.
const DefaultUserAgent = "call-export"

// Client wraps HTTP operations for the export endpoints.
//
// Client provides:
//   - Configured User-Agent header
//   - Timeout handling
//   - Optional Accept header per request
//   - Status classification without reading error bodies
//
// A Client is safe for concurrent use; its connection pool is shared by
// every download.
//
// Example usage:
//
//	client := NewClient(30 * time.Second)
//
//	resp, err := client.Fetch(ctx, "https://api.example.com/calls/c1?apikey=K", "application/json")
//	if err != nil {
//	    // transport failure
//	}
//	if !resp.OK() {
//	    // resp.StatusCode is not 2xx, resp.Body is nil
//	}
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a new HTTP client.
//
// A zero or negative timeout selects DefaultTimeout.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent: DefaultUserAgent,
	}
}

// WithUserAgent returns the client with a different User-Agent header.
func (c *Client) WithUserAgent(ua string) *Client {
	if ua != "" {
		c.userAgent = ua
	}
	return c
}

// Response is the part of an HTTP response a download needs.
type Response struct {
	StatusCode int
	Header     http.Header

	// Body holds the full payload for 2xx responses and is nil otherwise.
	Body []byte
}

// OK reports whether the status is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// ContentType returns the Content-Type response header.
func (r *Response) ContentType() string {
	return r.Header.Get("Content-Type")
}

// Fetch performs one GET request.
//
// The Accept header is only set when accept is non-empty. For 2xx
// responses the whole body is read into memory; for any other status the
// body is discarded and Response.Body stays nil.
//
// Returns an error if:
//   - The request cannot be built
//   - The request fails (connection, DNS, timeout)
//   - Reading a 2xx body fails
func (c *Client) Fetch(ctx context.Context, url, accept string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	result := &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
	}
	if !result.OK() {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return result, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	result.Body = body
	return result, nil
}
