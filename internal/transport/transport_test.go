package transport

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type scriptedTransport struct {
	responses []*http.Response
	calls     int
	bodies    []string
}

func (s *scriptedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Body != nil {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		s.bodies = append(s.bodies, string(body))
	}
	resp := s.responses[s.calls]
	s.calls++
	return resp, nil
}

func response(status int, headers map[string]string) *http.Response {
	resp := &http.Response{
		StatusCode: status,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader("")),
	}
	for k, v := range headers {
		resp.Header.Set(k, v)
	}
	return resp
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWithRetryAfter_PassesThroughSuccess(t *testing.T) {
	base := &scriptedTransport{responses: []*http.Response{response(http.StatusOK, nil)}}
	rt := WithRetryAfter(base, discardLogger())

	req, err := http.NewRequest(http.MethodPost, "https://api.example.com/comments", strings.NewReader("payload"))
	require.NoError(t, err)

	resp, err := rt.RoundTrip(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 1, base.calls)
}

func TestWithRetryAfter_RetriesAndReplaysBody(t *testing.T) {
	base := &scriptedTransport{responses: []*http.Response{
		response(http.StatusTooManyRequests, map[string]string{"Retry-After": "1"}),
		response(http.StatusOK, nil),
	}}
	rt := WithRetryAfter(base, discardLogger())

	req, err := http.NewRequest(http.MethodPost, "https://api.example.com/comments", strings.NewReader("payload"))
	require.NoError(t, err)

	resp, err := rt.RoundTrip(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 2, base.calls)
	require.Equal(t, []string{"payload", "payload"}, base.bodies)
}

func TestWithRetryAfter_ReturnsRateLimitWithoutRetryHint(t *testing.T) {
	base := &scriptedTransport{responses: []*http.Response{
		response(http.StatusTooManyRequests, nil),
	}}
	rt := WithRetryAfter(base, discardLogger())

	req, err := http.NewRequest(http.MethodGet, "https://api.example.com/comments", nil)
	require.NoError(t, err)

	resp, err := rt.RoundTrip(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	require.Equal(t, 1, base.calls)
}

func TestParseRetryAfter(t *testing.T) {
	require.Equal(t, time.Duration(0), parseRetryAfter(""))
	require.Equal(t, 3*time.Second, parseRetryAfter("3"))
	require.Equal(t, time.Duration(0), parseRetryAfter("not-a-delay"))

	// HTTP-date form; a date in the past yields a non-positive wait
	past := time.Now().Add(-time.Minute).UTC().Format(time.RFC1123)
	require.LessOrEqual(t, parseRetryAfter(past), time.Duration(0))
}
