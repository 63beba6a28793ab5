package classify

import (
	"fmt"
	"strings"
)

// Canonical error categories used by the reports and the recheck pass.
const (
	CategoryInvalidXML     = "Invalid XML"
	CategoryNoFeedElements = "No RSS/Atom elements"
	CategoryTimeout        = "Timeout"
	CategoryConnection     = "Connection error"
	CategoryEmpty          = "Empty response"
	CategoryOther          = "Other"
)

// Category maps a raw error detail to its canonical category by substring
// tests, in priority order. HTTP errors become "HTTP <code>" and need a
// response code; without one they fall through to the later tests.
func Category(errText string, responseCode *int) string {
	switch {
	case strings.Contains(errText, "HTTP") && responseCode != nil:
		return fmt.Sprintf("HTTP %d", *responseCode)
	case strings.Contains(errText, "Invalid XML"):
		return CategoryInvalidXML
	case strings.Contains(errText, "Valid XML but no RSS/Atom elements"):
		return CategoryNoFeedElements
	case strings.Contains(errText, "Timeout"):
		return CategoryTimeout
	case strings.Contains(errText, "Connection error"):
		return CategoryConnection
	case strings.Contains(errText, "Empty response"):
		return CategoryEmpty
	default:
		return CategoryOther
	}
}
