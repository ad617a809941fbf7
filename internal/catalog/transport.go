package catalog

import (
	"errors"
	"net/http"
	"time"
)

const (
	defaultTimeout   = 20 * time.Second
	defaultRetryMax  = 2
	retryBackoff     = 250 * time.Millisecond
	defaultUserAgent = "nowplaying/dev (+https://go.klb.dev/nowplaying)"
)

// Transport adds a User-Agent and bounded retries to a base RoundTripper.
// Only replayable requests (GET/HEAD without a body) are retried, and only on
// transport failures; any HTTP response is returned as-is.
type Transport struct {
	Base http.RoundTripper

	// RetryMax is the number of retries after the first attempt.
	RetryMax int

	UserAgent string
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	canRetry := (req.Method == http.MethodGet || req.Method == http.MethodHead) && req.Body == nil
	max := t.RetryMax
	if max < 0 || !canRetry {
		max = 0
	}

	var lastErr error
	for attempt := 0; attempt <= max; attempt++ {
		if attempt > 0 {
			select {
			case <-req.Context().Done():
				return nil, lastErr
			case <-time.After(time.Duration(attempt) * retryBackoff):
			}
		}
		r := req.Clone(req.Context())
		if r.Header.Get("User-Agent") == "" && t.UserAgent != "" {
			r.Header.Set("User-Agent", t.UserAgent)
		}
		resp, err := base.RoundTrip(r)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if req.Context().Err() != nil {
			return nil, lastErr
		}
	}
	return nil, lastErr
}

// NewHTTPClient returns the client used for catalog and artwork requests.
func NewHTTPClient(timeout time.Duration, retries int, userAgent string) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	base := http.DefaultTransport.(*http.Transport).Clone()
	base.TLSHandshakeTimeout = 10 * time.Second
	base.ResponseHeaderTimeout = 15 * time.Second
	return &http.Client{
		Transport: &Transport{
			Base:      base,
			RetryMax:  retries,
			UserAgent: userAgent,
		},
		Timeout: timeout,
	}
}
