package model

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"strings"
	"syscall"
)

// CreateNetworkError categorises a failed HTTP round trip.
func CreateNetworkError(err error, feedURL string) *FeedError {
	errorType := ErrorTypeNetwork
	message := "Network error occurred"

	switch {
	case IsTimeoutError(err):
		errorType = ErrorTypeTimeout
		message = "Request timed out"
	case isDNSError(err):
		errorType = ErrorTypeDNSResolution
		message = "DNS resolution failed"
	case isConnectionError(err):
		errorType = ErrorTypeConnectionFailed
		message = "Connection failed"
	}

	fe := NewFeedErrorWithCause(errorType, message, err).
		WithURL(feedURL).
		WithOperation("fetch_feed").
		WithComponent("http_client")
	if err != nil {
		fe.WithNetworkError(err.Error())
	}
	return fe
}

// IsTimeoutError reports whether err is a deadline or timeout failure.
func IsTimeoutError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	errStr := strings.ToLower(err.Error())
	for _, keyword := range []string{"timeout", "deadline exceeded", "timed out"} {
		if strings.Contains(errStr, keyword) {
			return true
		}
	}

	return false
}

// IsConnectionFailure reports whether err means the server could not be
// reached at all: DNS failures, refused or reset connections, TLS failures.
func IsConnectionFailure(err error) bool {
	return isDNSError(err) || isConnectionError(err)
}

func isDNSError(err error) bool {
	if err == nil {
		return false
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	dnsKeywords := []string{
		"no such host", "name resolution",
		"name or service not known", "nodename nor servname provided",
	}
	for _, keyword := range dnsKeywords {
		if strings.Contains(errStr, keyword) {
			return true
		}
	}

	return false
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}

	switch {
	case errors.Is(err, syscall.ECONNREFUSED), errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.ECONNABORTED), errors.Is(err, syscall.EHOSTUNREACH),
		errors.Is(err, syscall.ENETUNREACH):
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	var certErr *tls.CertificateVerificationError
	var unknownAuth x509.UnknownAuthorityError
	var hostErr x509.HostnameError
	var recordErr tls.RecordHeaderError
	if errors.As(err, &certErr) || errors.As(err, &unknownAuth) || errors.As(err, &hostErr) || errors.As(err, &recordErr) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	connKeywords := []string{
		"connection refused", "connection reset", "connection aborted",
		"host unreachable", "network unreachable", "no route to host",
		"tls:", "x509:", "eof",
	}
	for _, keyword := range connKeywords {
		if strings.Contains(errStr, keyword) {
			return true
		}
	}

	return false
}
