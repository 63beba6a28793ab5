package model

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// URL validation errors
var (
	ErrInvalidURL        = errors.New("invalid URL format")
	ErrUnsupportedScheme = errors.New("unsupported URL scheme - only HTTP and HTTPS are allowed")
	ErrPrivateIPBlocked  = errors.New("private IP addresses and localhost are blocked")
	ErrMissingHost       = errors.New("URL must have a valid host")
	ErrEmptyURL          = errors.New("URL cannot be empty")
)

// lookupIP is swapped out in tests.
var lookupIP = net.LookupIP

// ValidateFeedURL checks that a feed URL can be fetched at all: it must be an
// absolute http(s) URL with a host. When allowPrivateIPs is false, hosts that
// are or resolve to loopback, private or link-local addresses are rejected.
// Hosts that fail to resolve are let through so the fetch reports them.
func ValidateFeedURL(rawURL string, allowPrivateIPs bool) error {
	if strings.TrimSpace(rawURL) == "" {
		return ErrEmptyURL
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	if scheme := strings.ToLower(u.Scheme); scheme != "http" && scheme != "https" {
		return ErrUnsupportedScheme
	}

	host := u.Hostname()
	if host == "" {
		return ErrMissingHost
	}

	if allowPrivateIPs {
		return nil
	}
	return checkPublicHost(host)
}

func checkPublicHost(host string) error {
	if strings.EqualFold(host, "localhost") {
		return ErrPrivateIPBlocked
	}

	if ip := net.ParseIP(host); ip != nil {
		if isPrivateIP(ip) {
			return ErrPrivateIPBlocked
		}
		return nil
	}

	ips, err := lookupIP(host)
	if err != nil {
		return nil
	}
	for _, ip := range ips {
		if isPrivateIP(ip) {
			return ErrPrivateIPBlocked
		}
	}
	return nil
}

func isPrivateIP(ip net.IP) bool {
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() || ip.IsUnspecified()
}
