// Dashboarr - Home Media Dashboard Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dashboarr

package sources

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

const userAgent = "Dashboarr/1.0"

// maxResponseBody caps upstream response reads at 10MB. The largest real
// payload is a Plex library section, which stays well under this.
const maxResponseBody = 10 << 20

// Client is the shared HTTP client for all source adapters. It carries a
// cookie jar because qBittorrent authenticates with a session cookie; the
// other upstreams ignore it. Per-call deadlines come from the caller's
// context, never from http.Client.Timeout, so each adapter can use its own
// tier.
type Client struct {
	http *http.Client
}

// NewClient creates the shared client with connection pooling tuned for a
// handful of upstreams polled every few seconds.
func NewClient() *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		http: &http.Client{
			Jar: jar,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// NewClientWithHTTP wraps an existing http.Client. Used by tests to point
// adapters at httptest servers with custom transports.
func NewClientWithHTTP(hc *http.Client) *Client {
	return &Client{http: hc}
}

// GetJSON performs a GET with the given headers, decodes the JSON body into
// out, and returns a classified *Error on any failure.
func (c *Client) GetJSON(ctx context.Context, source, rawURL string, headers map[string]string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return TransportError(source, err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return Classify(source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBody))
		return HTTPStatusError(source, resp.StatusCode)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBody)).Decode(out); err != nil {
		return MalformedError(source, err)
	}
	return nil
}

// PostForm performs a form-encoded POST and returns the status code and
// body. Transport failures come back classified; non-200 statuses are NOT
// treated as errors here because login endpoints encode failures in both
// status and body, and each adapter interprets them itself.
func (c *Client) PostForm(ctx context.Context, source, rawURL string, form url.Values) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return 0, nil, TransportError(source, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, Classify(source, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return resp.StatusCode, nil, Classify(source, err)
	}
	return resp.StatusCode, body, nil
}
