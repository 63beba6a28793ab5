// Package classify decides whether an HTTP response hosts a usable
// syndication feed and, if not, why.
package classify

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/kstenson/paperboy/model"
)

// Tier selects how liberal the feed-element test is.
type Tier int

const (
	// Baseline matches rss/feed roots and plain item, entry or channel
	// elements. Namespaced Atom documents are missed on purpose.
	Baseline Tier = iota
	// Broadened also accepts namespaced feed roots and entry elements.
	// It is used by the recheck pass only.
	Broadened
)

// String returns the tier name.
func (t Tier) String() string {
	switch t {
	case Baseline:
		return "baseline"
	case Broadened:
		return "broadened"
	default:
		return "unknown"
	}
}

// Error details produced by Classify.
const (
	MsgConnectionError = "Connection error"
	MsgEmptyResponse   = "Empty response"
	MsgNoFeedElements  = "Valid XML but no RSS/Atom elements found"
)

// Response is everything the classifier needs to know about one fetch.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte

	// TimedOut and ConnectionFailed describe a fetch that produced no response.
	TimedOut         bool
	ConnectionFailed bool
	// Err is any other request failure.
	Err error

	// Timeout is the configured request timeout, quoted in the verdict.
	Timeout time.Duration
}

// Verdict is the classification of a Response.
type Verdict struct {
	Status          model.Status
	Error           string
	IsValidXML      bool
	HasFeedElements bool
	FeedType        string
}

// Working reports whether the verdict is a pass.
func (v Verdict) Working() bool {
	return v.Status == model.StatusWorking
}

func failed(msg string) Verdict {
	return Verdict{Status: model.StatusFailed, Error: msg}
}

// Classify applies the checks in a fixed order and returns at the first
// failing one: connection, timeout, request error, status, empty body, XML
// well-formedness, feed elements.
func Classify(resp Response, tier Tier) Verdict {
	switch {
	case resp.ConnectionFailed:
		return failed(MsgConnectionError)
	case resp.TimedOut:
		return failed(TimeoutMessage(resp.Timeout))
	case resp.Err != nil:
		return failed(fmt.Sprintf("Request error: %v", resp.Err))
	case resp.StatusCode != http.StatusOK:
		return failed(fmt.Sprintf("HTTP %d", resp.StatusCode))
	case len(bytes.TrimSpace(resp.Body)) == 0:
		return failed(MsgEmptyResponse)
	}

	doc, err := parseDocument(resp.Body)
	if err != nil {
		return failed(fmt.Sprintf("Invalid XML: %v", err))
	}

	if !HasFeedElements(doc, tier) {
		v := failed(MsgNoFeedElements)
		v.IsValidXML = true
		return v
	}

	return Verdict{
		Status:          model.StatusWorking,
		IsValidXML:      true,
		HasFeedElements: true,
		FeedType:        detectFeedType(resp.Body),
	}
}

// TimeoutMessage formats the timeout error detail, e.g. "Timeout after 30s".
func TimeoutMessage(timeout time.Duration) string {
	return fmt.Sprintf("Timeout after %gs", timeout.Seconds())
}

// IsFeed parses body and runs the feed-element test of the given tier.
// It reports false for anything that is not well-formed XML.
func IsFeed(body []byte, tier Tier) bool {
	doc, err := parseDocument(body)
	if err != nil {
		return false
	}
	return HasFeedElements(doc, tier)
}

// HasFeedElements runs the feed-element test on a parsed document.
func HasFeedElements(doc *Document, tier Tier) bool {
	if baselineFeed(doc) {
		return true
	}
	if tier == Broadened {
		return broadenedFeed(doc)
	}
	return false
}

func baselineFeed(doc *Document) bool {
	if doc.Root.Tag == "rss" || doc.Root.Tag == "feed" {
		return true
	}
	return doc.HasDescendantTag("item", "entry", "channel")
}

// broadenedFeed holds the checks added on top of baselineFeed.
func broadenedFeed(doc *Document) bool {
	// Any root whose local name mentions feed, which includes
	// {http://www.w3.org/2005/Atom}feed and prefixed variants.
	if strings.Contains(strings.ToLower(doc.Root.Local), "feed") {
		return true
	}
	for _, el := range doc.Elements {
		if strings.HasSuffix(el.Local, "entry") {
			return true
		}
	}
	return false
}

func detectFeedType(body []byte) string {
	switch gofeed.DetectFeedType(bytes.NewReader(body)) {
	case gofeed.FeedTypeRSS:
		return "rss"
	case gofeed.FeedTypeAtom:
		return "atom"
	case gofeed.FeedTypeJSON:
		return "json"
	default:
		return ""
	}
}
