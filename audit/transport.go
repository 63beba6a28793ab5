package audit

import (
	"net/http"
	"time"
)

// DefaultUserAgent is a desktop browser string; some servers reject the Go
// default agent outright.
const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// HeaderTransport wraps an http.RoundTripper and adds base headers the
// request does not set itself. Redirected requests get them too.
type HeaderTransport struct {
	transport http.RoundTripper
	headers   http.Header
}

// NewHeaderTransport returns a transport adding headers to every request.
func NewHeaderTransport(base http.RoundTripper, headers http.Header) *HeaderTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &HeaderTransport{
		transport: base,
		headers:   headers.Clone(),
	}
}

// RoundTrip implements the http.RoundTripper interface.
func (h *HeaderTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if len(h.headers) > 0 {
		req = req.Clone(req.Context())
		for name, values := range h.headers {
			if req.Header.Get(name) == "" {
				req.Header[name] = append([]string(nil), values...)
			}
		}
	}

	return h.transport.RoundTrip(req)
}

// ClientConfig is the explicit configuration of the audit HTTP client.
type ClientConfig struct {
	Timeout   time.Duration
	UserAgent string
	Transport http.RoundTripper
}

// NewHTTPClient builds the client used for feed checks: fixed timeout,
// redirects followed, browser user agent.
func NewHTTPClient(cfg ClientConfig) *http.Client {
	headers := http.Header{}
	headers.Set("User-Agent", cfg.UserAgent)
	headers.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml, */*")

	return &http.Client{
		Transport: NewHeaderTransport(cfg.Transport, headers),
		Timeout:   cfg.Timeout,
	}
}
