package cmd

import (
	"context"
	"io"
	"time"

	"github.com/kstenson/paperboy/model"
	"github.com/kstenson/paperboy/report"
	"github.com/kstenson/paperboy/store"
)

// ReportCmd writes the cleaned OPML and text reports for a snapshot.
type ReportCmd struct {
	In         string `name:"in" default:"audit_results.json" type:"path" help:"Snapshot to report on."`
	OPMLOut    string `name:"opml-out" default:"feeds_clean.opml" type:"path" help:"Where to write the cleaned OPML."`
	RemovedOut string `name:"removed-out" default:"removed_feeds_report.txt" type:"path" help:"Where to write the removed feeds report."`
	WorkingOut string `name:"working-out" type:"path" help:"Also write the working feeds list here."`
	SourceOPML string `name:"source-opml" type:"path" help:"Keep the outline structure of this OPML file instead of regrouping feeds by category."`
	Title      string `name:"title" help:"Base title for the cleaned OPML head. Defaults to the source OPML title."`

	Stdout io.Writer        `kong:"-"`
	Now    func() time.Time `kong:"-"`
}

func (c *ReportCmd) Run(globals *model.Globals, ctx context.Context) error {
	con := newConsole(c.Stdout, c.Now)

	snapshot, err := store.Load(c.In)
	if err != nil {
		return err
	}
	con.printf("Processing %d working feeds and %d broken feeds\n", snapshot.WorkingCount, snapshot.BrokenCount)

	var source *model.OPML
	if c.SourceOPML != "" {
		if source, err = model.LoadOPMLFromFile(c.SourceOPML); err != nil {
			return err
		}
	}
	title := cleanedTitle(c.Title, source, con.now())

	doc := report.FinalOPML(snapshot, title)
	if source != nil {
		doc = report.PrunedOPML(source, snapshot, title)
	}
	if err := writeOPMLFile(con, c.OPMLOut, doc); err != nil {
		return err
	}
	return writeTextReports(con, snapshot, c.RemovedOut, c.WorkingOut)
}

func cleanedTitle(base string, source *model.OPML, now time.Time) string {
	if base == "" && source != nil {
		base = source.Head.Title
	}
	return report.CleanedTitle(base, now)
}

func writeOPMLFile(con *console, path string, doc *model.OPML) error {
	err := report.WriteFile(path, func(w io.Writer) error {
		return report.WriteOPML(w, doc)
	})
	if err != nil {
		return err
	}
	con.printf("Clean OPML written to: %s\n", path)
	return nil
}

// writeTextReports writes the removed report, and the working list when
// workingPath is set.
func writeTextReports(con *console, snapshot *model.AuditSnapshot, removedPath, workingPath string) error {
	now := con.now()

	err := report.WriteFile(removedPath, func(w io.Writer) error {
		return report.WriteRemovedReport(w, snapshot, now)
	})
	if err != nil {
		return err
	}
	con.printf("Removed feeds report written to: %s\n", removedPath)

	if workingPath == "" {
		return nil
	}
	err = report.WriteFile(workingPath, func(w io.Writer) error {
		return report.WriteWorkingReport(w, snapshot, now)
	})
	if err != nil {
		return err
	}
	con.printf("Working feeds list written to: %s\n", workingPath)
	return nil
}
