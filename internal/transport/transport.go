// Package transport provides HTTP middleware for outbound API calls.
package transport

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

// retryAfterTransport is a RoundTripper that retries requests rejected with
// HTTP 429, waiting out the server's Retry-After header before each retry
type retryAfterTransport struct {
	base   http.RoundTripper
	logger *slog.Logger
}

// WithRetryAfter wraps base with rate-limit handling. A nil base uses
// http.DefaultTransport
func WithRetryAfter(base http.RoundTripper, logger *slog.Logger) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &retryAfterTransport{base: base, logger: logger}
}

func (t *retryAfterTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Buffer the body up front so it can be replayed on retry
	var body []byte
	if req.Body != nil {
		var err error
		body, err = io.ReadAll(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
		if err := req.Body.Close(); err != nil {
			return nil, fmt.Errorf("failed to close request body: %w", err)
		}
	}

	for {
		if body != nil {
			req.Body = io.NopCloser(bytes.NewReader(body))
		}

		resp, err := t.base.RoundTrip(req)
		if err != nil {
			return resp, err
		}
		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		wait := parseRetryAfter(resp.Header.Get("Retry-After"))
		if wait <= 0 {
			return resp, nil
		}

		if err := resp.Body.Close(); err != nil {
			return nil, fmt.Errorf("failed to close response body: %w", err)
		}

		t.logger.Warn("rate limited, waiting before retry", "wait", wait)
		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		case <-time.After(wait):
		}
	}
}

// parseRetryAfter handles both forms of the Retry-After header: a delay in
// seconds or an HTTP date
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if at, err := time.Parse(time.RFC1123, value); err == nil {
		return time.Until(at)
	}
	return 0
}
