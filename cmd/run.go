package cmd

import (
	"context"
	"io"
	"path/filepath"
	"time"

	"github.com/kstenson/paperboy/model"
	"github.com/kstenson/paperboy/report"
	"github.com/kstenson/paperboy/store"
)

// RunCmd runs the whole pipeline: audit, optional recheck, then reports.
// Every artifact is written into Dir under its default name.
type RunCmd struct {
	FetchFlags

	OPML    string `name:"opml" required:"" type:"path" help:"OPML file listing the feeds to audit."`
	Dir     string `name:"dir" default:"." type:"path" help:"Directory for snapshots and reports."`
	Recheck bool   `name:"recheck" help:"Recheck feeds flagged as having no feed elements before writing reports."`
	Title   string `name:"title" help:"Base title for the cleaned OPML head. Defaults to the source OPML title."`

	Stdout io.Writer        `kong:"-"`
	Now    func() time.Time `kong:"-"`
}

func (c *RunCmd) Run(globals *model.Globals, ctx context.Context) error {
	con := newConsole(c.Stdout, c.Now)
	path := func(name string) string { return filepath.Join(c.Dir, name) }

	auditor, err := c.newAuditor(con)
	if err != nil {
		return err
	}

	source, snapshot, err := auditFeeds(ctx, con, auditor, c.OPML)
	if err != nil {
		return err
	}
	if err := store.Save(path(DefaultSnapshotFile), snapshot); err != nil {
		return err
	}
	con.summary("AUDIT COMPLETE", snapshot, path(DefaultSnapshotFile))

	if c.Recheck {
		con.printf("\n")
		if snapshot, err = recheckSnapshot(ctx, con, auditor, snapshot); err != nil {
			return err
		}
		if err := store.Save(path(DefaultUpdatedSnapshotFile), snapshot); err != nil {
			return err
		}
		con.summary("RECHECK COMPLETE", snapshot, path(DefaultUpdatedSnapshotFile))
	}

	con.printf("\n")
	title := cleanedTitle(c.Title, source, con.now())
	if err := writeOPMLFile(con, path(DefaultCleanOPMLFile), report.PrunedOPML(source, snapshot, title)); err != nil {
		return err
	}
	if err := writeOPMLFile(con, path(DefaultFinalOPMLFile), report.FinalOPML(snapshot, title)); err != nil {
		return err
	}
	if err := writeTextReports(con, snapshot, path(DefaultRemovedReportFile), path(DefaultWorkingReportFile)); err != nil {
		return err
	}

	con.printf("\nFinal summary: %d working feeds, %d broken feeds\n", snapshot.WorkingCount, snapshot.BrokenCount)
	return nil
}
