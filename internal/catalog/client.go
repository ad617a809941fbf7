// Package catalog is the client for the track catalog API
// (GET <base>/api/track).
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"go.klb.dev/nowplaying/internal/message"
)

// DefaultBaseURL is the public catalog host.
const DefaultBaseURL = "https://www.wcyt.org"

const (
	trackPath       = "/api/track"
	notFoundMessage = "Track not found"
	maxBodySize     = 1 << 20
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Looker is the lookup operation the coordinator depends on.
type Looker interface {
	LookupTrack(ctx context.Context, q message.Query) (*message.TrackMetadata, error)
}

// Client talks to the catalog service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ Looker = (*Client)(nil)

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

// New creates a catalog client for baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("catalog base url required")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse catalog url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("catalog url %q: scheme must be http or https", baseURL)
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: NewHTTPClient(defaultTimeout, defaultRetryMax, ""),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// HTTPClient returns the underlying HTTP client, shared with artwork fetches.
func (c *Client) HTTPClient() *http.Client { return c.httpClient }

// LookupTrack fetches metadata for q. Errors are one of
// *message.ValidationError, ErrNotFound, *APIError or *TransportError.
func (c *Client) LookupTrack(ctx context.Context, q message.Query) (*message.TrackMetadata, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	endpoint := c.baseURL + trackPath + "?" + q.Values().Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("read response: %w", err)}
	}
	slog.Debug("catalog response",
		"status", resp.StatusCode,
		"bytes", len(body),
		"latency", latency,
	)
	return decodeTrack(resp.StatusCode, body)
}

// decodeTrack maps a response body to metadata or one of the catalog errors.
// The body is inspected whatever the status code, since the service reports
// logical errors as JSON.
func decodeTrack(status int, body []byte) (*message.TrackMetadata, error) {
	var payload trackResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		msg := http.StatusText(status)
		if status >= 200 && status < 300 {
			msg = "malformed response: " + err.Error()
		}
		return nil, &APIError{Code: status, Message: msg}
	}

	if payload.Message != nil {
		if *payload.Message == notFoundMessage {
			return nil, ErrNotFound
		}
		return nil, &APIError{Code: int(payload.Error), Message: *payload.Message}
	}
	if payload.Track == nil {
		return nil, &APIError{Code: status, Message: "response missing track"}
	}
	return payload.Track.metadata(), nil
}
