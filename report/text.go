package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kstenson/paperboy/classify"
	"github.com/kstenson/paperboy/model"
)

const (
	generatedLayout = "2006-01-02 15:04:05"
	missingValue    = "N/A"
)

// WriteRemovedReport lists every broken feed grouped by category, followed
// by a tally per canonical error category.
func WriteRemovedReport(w io.Writer, snapshot *model.AuditSnapshot, now time.Time) error {
	var b strings.Builder

	b.WriteString("RSS Feed Audit - Removed Feeds Report\n")
	b.WriteString(strings.Repeat("=", 50) + "\n")
	fmt.Fprintf(&b, "Generated: %s\n", now.Format(generatedLayout))
	fmt.Fprintf(&b, "Total removed feeds: %d\n\n", len(snapshot.Broken))

	if snapshot.RecoveredCount > 0 {
		b.WriteString("NOTE: This report includes only feeds that are genuinely broken.\n")
		fmt.Fprintf(&b, "%d feeds initially marked as broken were recovered by the recheck pass.\n\n", snapshot.RecoveredCount)
	}

	order, groups := groupByCategory(snapshot.Broken)
	for _, category := range order {
		fmt.Fprintf(&b, "\n%s\n", strings.ToUpper(category))
		b.WriteString(underline("-", category) + "\n")

		for _, r := range groups[category] {
			fmt.Fprintf(&b, "\nTitle: %s\n", r.Title)
			fmt.Fprintf(&b, "URL: %s\n", r.URL)
			fmt.Fprintf(&b, "HTML URL: %s\n", r.HTMLURL)
			fmt.Fprintf(&b, "Status Code: %s\n", intOrMissing(r.ResponseCode))
			fmt.Fprintf(&b, "Content Type: %s\n", stringOrMissing(r.ContentType))
			fmt.Fprintf(&b, "Error: %s\n", r.ErrorText())
		}
	}

	b.WriteString("\n\nSUMMARY BY ERROR TYPE\n")
	b.WriteString(strings.Repeat("=", 25) + "\n")

	counts := ErrorSummary(snapshot.Broken)
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %d feeds\n", k, counts[k])
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteWorkingReport lists every working feed under its category, with
// categories sorted by name.
func WriteWorkingReport(w io.Writer, snapshot *model.AuditSnapshot, now time.Time) error {
	var b strings.Builder

	b.WriteString("RSS Feed Audit - Working Feeds List\n")
	b.WriteString(strings.Repeat("=", 40) + "\n")
	fmt.Fprintf(&b, "Generated: %s\n", now.Format(generatedLayout))
	fmt.Fprintf(&b, "Total working feeds: %d\n\n", len(snapshot.Working))

	order, groups := groupByCategory(snapshot.Working)
	sort.Strings(order)
	for _, category := range order {
		heading := fmt.Sprintf("%s (%d feeds)", strings.ToUpper(category), len(groups[category]))
		fmt.Fprintf(&b, "\n%s\n", heading)
		b.WriteString(underline("-", heading) + "\n")

		for _, r := range groups[category] {
			fmt.Fprintf(&b, "✓ %s\n", r.Title)
			fmt.Fprintf(&b, "  RSS: %s\n", r.URL)
			fmt.Fprintf(&b, "  Web: %s\n\n", r.HTMLURL)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// ErrorSummary counts results per canonical error category.
func ErrorSummary(results []model.AuditResult) map[string]int {
	counts := make(map[string]int)
	for _, r := range results {
		counts[classify.Category(r.ErrorText(), r.ResponseCode)]++
	}
	return counts
}

func underline(char, s string) string {
	return strings.Repeat(char, utf8.RuneCountInString(s))
}

func intOrMissing(v *int) string {
	if v == nil {
		return missingValue
	}
	return strconv.Itoa(*v)
}

func stringOrMissing(v *string) string {
	if v == nil {
		return missingValue
	}
	return *v
}
