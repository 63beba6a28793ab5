package model

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"

	"golang.org/x/net/html/charset"
)

// OPMLOutline represents an outline element in OPML. An outline with an
// xmlUrl is a feed, one without is a category.
type OPMLOutline struct {
	Type     string        `xml:"type,attr,omitempty"`
	Text     string        `xml:"text,attr"`
	Title    string        `xml:"title,attr,omitempty"`
	XMLURL   string        `xml:"xmlUrl,attr,omitempty"`
	HTMLURL  string        `xml:"htmlUrl,attr,omitempty"`
	Outlines []OPMLOutline `xml:"outline,omitempty"`
}

// IsFeed reports whether the outline is a feed leaf.
func (o *OPMLOutline) IsFeed() bool {
	return o.XMLURL != ""
}

// OPMLBody represents the body section of OPML
type OPMLBody struct {
	Outlines []OPMLOutline `xml:"outline"`
}

// OPMLHead represents the head section of OPML
type OPMLHead struct {
	Title       string `xml:"title,omitempty"`
	DateCreated string `xml:"dateCreated,omitempty"`
	OwnerName   string `xml:"ownerName,omitempty"`
	OwnerEmail  string `xml:"ownerEmail,omitempty"`
}

// OPML represents an OPML document
type OPML struct {
	XMLName xml.Name `xml:"opml"`
	Version string   `xml:"version,attr"`
	Head    OPMLHead `xml:"head"`
	Body    OPMLBody `xml:"body"`
}

// ParseOPML decodes an OPML document, honouring its declared encoding.
func ParseOPML(content []byte) (*OPML, error) {
	var doc OPML
	dec := xml.NewDecoder(bytes.NewReader(content))
	dec.CharsetReader = charset.NewReaderLabel
	if err := dec.Decode(&doc); err != nil {
		return nil, NewFeedErrorWithCause(ErrorTypeParsing, "failed to parse OPML content", err).
			WithOperation("parse_opml").
			WithComponent("opml_parser")
	}
	return &doc, nil
}

// LoadOPMLFromFile reads and parses an OPML file.
func LoadOPMLFromFile(path string) (*OPML, error) {
	content, err := os.ReadFile(path) // #nosec G304 -- path is a CLI argument
	if err != nil {
		return nil, NewFeedErrorWithCause(ErrorTypeSystem, fmt.Sprintf("failed to read OPML file: %s", path), err).
			WithPath(path).
			WithOperation("load_opml_file").
			WithComponent("opml_loader")
	}

	doc, err := ParseOPML(content)
	if err != nil {
		if fe, ok := err.(*FeedError); ok {
			fe.WithPath(path)
		}
		return nil, err
	}
	return doc, nil
}

// LoadFeedsFromOPML reads an OPML file and extracts its feeds. A document
// without any feed outline is rejected since there is nothing to audit.
func LoadFeedsFromOPML(path string) (*OPML, []FeedEntry, error) {
	doc, err := LoadOPMLFromFile(path)
	if err != nil {
		return nil, nil, err
	}

	feeds := doc.Feeds()
	if len(feeds) == 0 {
		return nil, nil, NewFeedError(ErrorTypeConfiguration, "no feed URLs found in OPML").
			WithPath(path).
			WithOperation("extract_feeds").
			WithComponent("opml_parser")
	}
	return doc, feeds, nil
}

// Feeds flattens the outline tree into feed entries in document order.
// Each entry is labelled with the text of its nearest ancestor outline that
// is a category (no xmlUrl, non-empty text), or UncategorizedLabel.
func (o *OPML) Feeds() []FeedEntry {
	parents := make(map[*OPMLOutline]*OPMLOutline)
	var order []*OPMLOutline

	var index func(parent *OPMLOutline, outlines []OPMLOutline)
	index = func(parent *OPMLOutline, outlines []OPMLOutline) {
		for i := range outlines {
			node := &outlines[i]
			parents[node] = parent
			if node.IsFeed() {
				order = append(order, node)
			}
			index(node, node.Outlines)
		}
	}
	index(nil, o.Body.Outlines)

	feeds := make([]FeedEntry, 0, len(order))
	for _, node := range order {
		feeds = append(feeds, FeedEntry{
			Title:    node.displayTitle(),
			FeedURL:  node.XMLURL,
			HTMLURL:  node.HTMLURL,
			Category: categoryOf(node, parents),
		})
	}
	return feeds
}

// Categories returns every category label in the document, in document order.
func (o *OPML) Categories() []string {
	var labels []string
	seen := make(map[string]bool)

	var walk func(outlines []OPMLOutline)
	walk = func(outlines []OPMLOutline) {
		for i := range outlines {
			node := &outlines[i]
			if !node.IsFeed() && node.Text != "" && !seen[node.Text] {
				seen[node.Text] = true
				labels = append(labels, node.Text)
			}
			walk(node.Outlines)
		}
	}
	walk(o.Body.Outlines)
	return labels
}

func categoryOf(node *OPMLOutline, parents map[*OPMLOutline]*OPMLOutline) string {
	for p := parents[node]; p != nil; p = parents[p] {
		if !p.IsFeed() && p.Text != "" {
			return p.Text
		}
	}
	return UncategorizedLabel
}

func (o *OPMLOutline) displayTitle() string {
	switch {
	case o.Title != "":
		return o.Title
	case o.Text != "":
		return o.Text
	default:
		return "Unknown"
	}
}
