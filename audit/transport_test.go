package audit

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

func TestHeaderTransport_AddsMissingHeaders(t *testing.T) {
	var seen http.Header
	base := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		seen = req.Header.Clone()
		return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody, Request: req}, nil
	})

	headers := http.Header{}
	headers.Set("User-Agent", "paperboy-test")
	headers.Set("Accept", "application/rss+xml")
	transport := NewHeaderTransport(base, headers)

	req, err := http.NewRequest(http.MethodGet, "http://example.com/feed", nil)
	require.NoError(t, err)
	req.Header.Set("Accept", "text/xml")

	resp, err := transport.RoundTrip(req)
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.Equal(t, "paperboy-test", seen.Get("User-Agent"))
	assert.Equal(t, "text/xml", seen.Get("Accept"), "headers set on the request win")
	assert.Empty(t, req.Header.Get("User-Agent"), "the caller's request is not modified")
}

func TestNewHTTPClient(t *testing.T) {
	client := NewHTTPClient(ClientConfig{Timeout: 3 * time.Second, UserAgent: "ua"})

	assert.Equal(t, 3*time.Second, client.Timeout)
	_, ok := client.Transport.(*HeaderTransport)
	assert.True(t, ok)
}
