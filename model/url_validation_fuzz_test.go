package model

import (
	"errors"
	"net"
	"net/url"
	"strings"
	"testing"
)

// FuzzValidateFeedURL checks that validation never panics and that every
// accepted URL is an absolute http(s) URL with a host.
func FuzzValidateFeedURL(f *testing.F) {
	orig := lookupIP
	lookupIP = func(host string) ([]net.IP, error) {
		return nil, errors.New("no DNS in fuzzing")
	}
	f.Cleanup(func() { lookupIP = orig })

	// Valid URLs
	f.Add("https://example.com/feed.xml", false)
	f.Add("http://feeds.example.org/rss", false)

	// Localhost patterns
	f.Add("http://localhost/feed.xml", false)
	f.Add("https://127.0.0.1:8080/rss", false)
	f.Add("http://[::1]/atom", false)

	// Private IP ranges
	f.Add("http://10.0.0.1/feed", false)
	f.Add("http://192.168.1.1/rss", false)
	f.Add("http://169.254.1.1/feed", false)

	// Invalid schemes
	f.Add("file:///etc/passwd", false)
	f.Add("javascript:alert('xss')", false)
	f.Add("data:text/html,<script>alert('xss')</script>", false)

	// Bypass attempts
	f.Add("http://localhost@example.com/feed", false)
	f.Add("http://0x7f000001/feed", false)
	f.Add("http://%6C%6F%63%61%6C%68%6F%73%74/feed", false)
	f.Add("http://127.0.0.1%00.example.com/feed", false)

	// Malformed URLs
	f.Add("", false)
	f.Add("://example.com", false)
	f.Add("http://", false)
	f.Add("http:///feed", false)

	f.Add("http://localhost/feed", true)

	f.Fuzz(func(t *testing.T, rawURL string, allowPrivateIPs bool) {
		if err := ValidateFeedURL(rawURL, allowPrivateIPs); err != nil {
			return
		}

		u, err := url.Parse(rawURL)
		if err != nil {
			t.Fatalf("accepted unparseable URL %q: %v", rawURL, err)
		}
		if scheme := strings.ToLower(u.Scheme); scheme != "http" && scheme != "https" {
			t.Fatalf("accepted scheme %q in %q", u.Scheme, rawURL)
		}
		if u.Hostname() == "" {
			t.Fatalf("accepted URL without host %q", rawURL)
		}
		if !allowPrivateIPs {
			if ip := net.ParseIP(u.Hostname()); ip != nil && isPrivateIP(ip) {
				t.Fatalf("accepted private address %q", rawURL)
			}
		}
	})
}
