// Package model defines the audit data structures, OPML handling and the
// structured error type shared by the auditor, the snapshot store and the CLI.
package model

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// ErrorType represents different categories of errors that can occur
type ErrorType string

const (
	// ErrorTypeNetwork represents general network-related errors
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeTimeout represents request timeout errors
	ErrorTypeTimeout ErrorType = "timeout"
	// ErrorTypeConnectionFailed represents connection establishment failures
	ErrorTypeConnectionFailed ErrorType = "connection_failed"
	// ErrorTypeDNSResolution represents DNS resolution failures
	ErrorTypeDNSResolution ErrorType = "dns_resolution"

	// ErrorTypeHTTP represents non-200 HTTP responses
	ErrorTypeHTTP ErrorType = "http"

	// ErrorTypeParsing represents OPML or snapshot parsing errors
	ErrorTypeParsing ErrorType = "parsing"
	// ErrorTypeSchema represents snapshot documents that do not match the snapshot schema
	ErrorTypeSchema ErrorType = "schema"

	// ErrorTypeInvalidURL represents invalid URL format errors
	ErrorTypeInvalidURL ErrorType = "invalid_url"
	// ErrorTypeUnsupportedScheme represents unsupported URL scheme errors
	ErrorTypeUnsupportedScheme ErrorType = "unsupported_scheme"
	// ErrorTypePrivateIP represents private IP address blocked errors
	ErrorTypePrivateIP ErrorType = "private_ip_blocked"

	// ErrorTypeConfiguration represents configuration-related errors
	ErrorTypeConfiguration ErrorType = "configuration"
	// ErrorTypeSystem represents file system and other OS-level errors
	ErrorTypeSystem ErrorType = "system"
	// ErrorTypeUnknown represents unknown or unclassified errors
	ErrorTypeUnknown ErrorType = "unknown"
)

// FeedError is the structured error returned for fatal conditions: an
// unreadable OPML file, a broken snapshot, a bad configuration. Per-feed
// failures are never FeedErrors; they are recorded in AuditResult instead.
type FeedError struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	ErrorType  ErrorType `json:"error_type"`
	Message    string    `json:"message"`
	Suggestion string    `json:"suggestion"`

	URL       string `json:"url,omitempty"`
	Path      string `json:"path,omitempty"`
	Operation string `json:"operation,omitempty"`
	Component string `json:"component,omitempty"`

	HTTPStatus  int               `json:"http_status,omitempty"`
	HTTPHeaders map[string]string `json:"http_headers,omitempty"`

	NetworkError string `json:"network_error,omitempty"`

	Cause error `json:"-"`
}

// Error implements the error interface
func (fe *FeedError) Error() string {
	var parts []string

	if fe.Message != "" {
		parts = append(parts, fe.Message)
	}
	if fe.URL != "" {
		parts = append(parts, fmt.Sprintf("URL: %s", fe.URL))
	}
	if fe.Path != "" {
		parts = append(parts, fmt.Sprintf("Path: %s", fe.Path))
	}
	if fe.Operation != "" {
		parts = append(parts, fmt.Sprintf("Operation: %s", fe.Operation))
	}
	if fe.HTTPStatus != 0 {
		parts = append(parts, fmt.Sprintf("HTTP Status: %d", fe.HTTPStatus))
	}
	if fe.Cause != nil {
		parts = append(parts, fmt.Sprintf("Cause: %v", fe.Cause))
	}

	parts = append(parts, fmt.Sprintf("Type: %s", fe.ErrorType), fmt.Sprintf("ID: %s", fe.ID))

	return strings.Join(parts, " | ")
}

// Unwrap returns the underlying cause for error wrapping support
func (fe *FeedError) Unwrap() error {
	return fe.Cause
}

// NewFeedError creates a new FeedError with a fresh correlation ID
func NewFeedError(errorType ErrorType, message string) *FeedError {
	id, _ := gonanoid.New()

	return &FeedError{
		ID:         id,
		Timestamp:  time.Now().UTC(),
		ErrorType:  errorType,
		Message:    message,
		Suggestion: suggestionFor(errorType),
	}
}

// NewFeedErrorWithCause creates a new FeedError wrapping an existing error
func NewFeedErrorWithCause(errorType ErrorType, message string, cause error) *FeedError {
	fe := NewFeedError(errorType, message)
	fe.Cause = cause
	return fe
}

// WithURL adds URL context to the error
func (fe *FeedError) WithURL(url string) *FeedError {
	fe.URL = url
	return fe
}

// WithPath adds the file path the error relates to
func (fe *FeedError) WithPath(path string) *FeedError {
	fe.Path = path
	return fe
}

// WithOperation adds operation context to the error
func (fe *FeedError) WithOperation(operation string) *FeedError {
	fe.Operation = operation
	return fe
}

// WithComponent adds component context to the error
func (fe *FeedError) WithComponent(component string) *FeedError {
	fe.Component = component
	return fe
}

// WithHTTP records the response status and the headers useful for debugging.
func (fe *FeedError) WithHTTP(status int, headers http.Header) *FeedError {
	fe.HTTPStatus = status

	if headers != nil {
		fe.HTTPHeaders = make(map[string]string)
		for _, header := range []string{"Content-Type", "Content-Length", "Server", "Location", "Retry-After"} {
			if value := headers.Get(header); value != "" {
				fe.HTTPHeaders[header] = value
			}
		}
	}

	return fe
}

// WithNetworkError adds network-specific context
func (fe *FeedError) WithNetworkError(networkErr string) *FeedError {
	fe.NetworkError = networkErr
	return fe
}

var suggestions = map[ErrorType]string{
	ErrorTypeTimeout:           "Check network connectivity or increase --timeout",
	ErrorTypeConnectionFailed:  "Verify the URL is accessible and the server is running",
	ErrorTypeDNSResolution:     "Check DNS settings and verify the domain name is correct",
	ErrorTypeHTTP:              "Verify the URL is correct and still published",
	ErrorTypeParsing:           "Make sure the file is well-formed XML or JSON",
	ErrorTypeSchema:            "The snapshot was not written by an audit run, regenerate it with 'paperboy audit'",
	ErrorTypeInvalidURL:        "Check the URL format and ensure it's a valid HTTP/HTTPS URL",
	ErrorTypeUnsupportedScheme: "Only HTTP and HTTPS URLs are supported",
	ErrorTypePrivateIP:         "Private addresses are blocked, drop --block-private-ips to allow them",
	ErrorTypeConfiguration:     "Review the command line flags",
	ErrorTypeSystem:            "Check that the file exists and is readable/writable",
}

func suggestionFor(errorType ErrorType) string {
	if suggestion, exists := suggestions[errorType]; exists {
		return suggestion
	}
	return "Check the error details and try again"
}
