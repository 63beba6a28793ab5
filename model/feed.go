package model

// UncategorizedLabel is the category given to feeds with no category ancestor.
const UncategorizedLabel = "Uncategorized"

// FeedEntry is one feed subscription extracted from an OPML outline.
type FeedEntry struct {
	Title    string
	FeedURL  string
	HTMLURL  string
	Category string
}

// Status is the verdict of one feed check.
type Status string

const (
	StatusWorking Status = "working"
	StatusFailed  Status = "failed"
)

// AuditResult records the outcome of checking a single FeedEntry.
//
// Status is working exactly when HasFeedElements is true and Error is nil.
type AuditResult struct {
	Title           string  `json:"title"`
	URL             string  `json:"url"`
	HTMLURL         string  `json:"html_url"`
	Category        string  `json:"category"`
	Status          Status  `json:"status"`
	Error           *string `json:"error"`
	ResponseCode    *int    `json:"response_code"`
	ContentType     *string `json:"content_type"`
	IsValidXML      bool    `json:"is_valid_xml"`
	HasFeedElements bool    `json:"has_rss_elements"`
	FeedType        string  `json:"feed_type,omitempty"`
}

// NewAuditResult starts a result for entry with nothing known yet.
func NewAuditResult(entry FeedEntry) AuditResult {
	return AuditResult{
		Title:    entry.Title,
		URL:      entry.FeedURL,
		HTMLURL:  entry.HTMLURL,
		Category: entry.Category,
		Status:   StatusFailed,
	}
}

// Entry returns the FeedEntry the result was produced for.
func (r AuditResult) Entry() FeedEntry {
	return FeedEntry{
		Title:    r.Title,
		FeedURL:  r.URL,
		HTMLURL:  r.HTMLURL,
		Category: r.Category,
	}
}

// ErrorText returns the error detail, or "" for working feeds.
func (r AuditResult) ErrorText() string {
	if r.Error == nil {
		return ""
	}
	return *r.Error
}

// Working reports whether the feed passed.
func (r AuditResult) Working() bool {
	return r.Status == StatusWorking
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string { return &s }

// IntPtr returns a pointer to i.
func IntPtr(i int) *int { return &i }
