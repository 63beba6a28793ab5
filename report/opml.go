// Package report turns an audit snapshot into a cleaned OPML file and
// plain text reports of removed and retained feeds.
package report

import (
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/kstenson/paperboy/model"
)

// DefaultTitle is used for the OPML head when the source has no title.
const DefaultTitle = "Feed subscriptions"

// CleanedTitle returns the head title of a cleaned OPML file.
func CleanedTitle(base string, now time.Time) string {
	if base == "" {
		base = DefaultTitle
	}
	return fmt.Sprintf("%s (cleaned %s)", base, now.Format("2006-01-02"))
}

// FinalOPML builds a fresh outline tree from the working feeds: one
// top-level outline per category, sorted by name, with the feeds of that
// category in snapshot order.
func FinalOPML(snapshot *model.AuditSnapshot, title string) *model.OPML {
	order, groups := groupByCategory(snapshot.Working)
	sort.Strings(order)

	doc := &model.OPML{
		Version: "1.0",
		Head:    model.OPMLHead{Title: title},
	}
	for _, category := range order {
		outline := model.OPMLOutline{Text: category, Title: category}
		for _, r := range groups[category] {
			outline.Outlines = append(outline.Outlines, feedOutline(r))
		}
		doc.Body.Outlines = append(doc.Body.Outlines, outline)
	}
	return doc
}

// PrunedOPML keeps the structure of source but drops every feed outline
// that is not in the snapshot's working list, then drops category outlines
// left without children. source is not modified.
func PrunedOPML(source *model.OPML, snapshot *model.AuditSnapshot, title string) *model.OPML {
	keep := make(map[string]int, len(snapshot.Working))
	for _, r := range snapshot.Working {
		keep[r.URL]++
	}

	doc := &model.OPML{
		Version: source.Version,
		Head:    source.Head,
	}
	if doc.Version == "" {
		doc.Version = "1.0"
	}
	doc.Head.Title = title
	doc.Body.Outlines = prune(source.Body.Outlines, keep)
	return doc
}

func prune(outlines []model.OPMLOutline, keep map[string]int) []model.OPMLOutline {
	var out []model.OPMLOutline
	for _, o := range outlines {
		if o.IsFeed() {
			if keep[o.XMLURL] == 0 {
				continue
			}
			keep[o.XMLURL]--
			o.Outlines = prune(o.Outlines, keep)
			out = append(out, o)
			continue
		}

		o.Outlines = prune(o.Outlines, keep)
		if len(o.Outlines) == 0 {
			continue
		}
		out = append(out, o)
	}
	return out
}

func feedOutline(r model.AuditResult) model.OPMLOutline {
	return model.OPMLOutline{
		Type:    "rss",
		Text:    r.Title,
		Title:   r.Title,
		XMLURL:  r.URL,
		HTMLURL: r.HTMLURL,
	}
}

// WriteOPML writes doc as indented XML preceded by an XML declaration.
func WriteOPML(w io.Writer, doc *model.OPML) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "    ")
	if err := enc.Encode(doc); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// groupByCategory buckets results by category, returning the categories in
// order of first appearance.
func groupByCategory(results []model.AuditResult) ([]string, map[string][]model.AuditResult) {
	var order []string
	groups := make(map[string][]model.AuditResult)
	for _, r := range results {
		if _, ok := groups[r.Category]; !ok {
			order = append(order, r.Category)
		}
		groups[r.Category] = append(groups[r.Category], r)
	}
	return order, groups
}
