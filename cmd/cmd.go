// Package cmd holds the kong commands of the paperboy CLI.
package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/kstenson/paperboy/audit"
	"github.com/kstenson/paperboy/classify"
	"github.com/kstenson/paperboy/model"
)

const (
	DefaultSnapshotFile        = "audit_results.json"
	DefaultUpdatedSnapshotFile = "audit_results_updated.json"
	DefaultCleanOPMLFile       = "feeds_clean.opml"
	DefaultFinalOPMLFile       = "feeds_clean_final.opml"
	DefaultRemovedReportFile   = "removed_feeds_report.txt"
	DefaultWorkingReportFile   = "working_feeds_list.txt"

	rule = "=================================================="
)

// FetchFlags configures how feeds are fetched.
type FetchFlags struct {
	Timeout         time.Duration `name:"timeout" default:"30s" help:"Timeout for fetching each feed."`
	Delay           time.Duration `name:"delay" default:"500ms" help:"Pause between the end of one request and the start of the next."`
	UserAgent       string        `name:"user-agent" help:"User-Agent header sent with every request (defaults to a desktop browser string)."`
	BlockPrivateIPs bool          `name:"block-private-ips" help:"Reject feed URLs that resolve to loopback or private networks."`
	Broadened       bool          `name:"broadened" help:"Use the broadened feed-element test on the first pass. Finds more feeds but also more false positives."`
}

// console is where a command prints progress, and its clock.
type console struct {
	w     io.Writer
	clock func() time.Time
}

func newConsole(w io.Writer, clock func() time.Time) *console {
	if w == nil {
		w = os.Stdout
	}
	if clock == nil {
		clock = time.Now
	}
	return &console{w: w, clock: clock}
}

func (c *console) now() time.Time {
	return c.clock()
}

func (c *console) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.w, format, args...)
}

func (f FetchFlags) newAuditor(c *console) (*audit.Auditor, error) {
	tier := classify.Baseline
	if f.Broadened {
		tier = classify.Broadened
	}
	return audit.New(audit.Config{
		Timeout:         f.Timeout,
		Delay:           f.Delay,
		UserAgent:       f.UserAgent,
		BlockPrivateIPs: f.BlockPrivateIPs,
		Tier:            tier,
		Logger:          model.DefaultLogger(),
		Now:             c.now,
		OnResult:        c.progress,
	})
}

// progress prints one line pair per checked feed.
func (c *console) progress(index, total int, r model.AuditResult) {
	c.printf("\n[%d/%d] Testing: %s (%s)\n", index, total, r.Title, r.URL)
	if r.Working() {
		c.printf("✓ WORKING\n")
		return
	}
	c.printf("✗ FAILED: %s\n", r.ErrorText())
}

func (c *console) banner(title string, lines ...string) {
	c.printf("%s\n%s\n", title, rule)
	for _, l := range lines {
		c.printf("%s\n", l)
	}
	c.printf("\n")
}

func (c *console) summary(heading string, snapshot *model.AuditSnapshot, savedTo string) {
	c.printf("\n%s\n%s\n%s\n", rule, heading, rule)
	c.printf("Total feeds tested: %d\n", snapshot.TotalTested)
	c.printf("Working feeds: %d\n", snapshot.WorkingCount)
	c.printf("Broken feeds: %d\n", snapshot.BrokenCount)
	if snapshot.RecoveredCount > 0 {
		c.printf("Recovered by recheck: %d\n", snapshot.RecoveredCount)
	}
	if savedTo != "" {
		c.printf("\nResults saved to: %s\n", savedTo)
	}
}

func startedAt(t time.Time) string {
	return "Started at: " + t.Format("2006-01-02 15:04:05")
}
