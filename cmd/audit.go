package cmd

import (
	"context"
	"io"
	"time"

	"github.com/kstenson/paperboy/audit"
	"github.com/kstenson/paperboy/model"
	"github.com/kstenson/paperboy/store"
)

// AuditCmd checks every feed in an OPML file and writes a snapshot.
type AuditCmd struct {
	FetchFlags

	OPML string `name:"opml" required:"" type:"path" help:"OPML file listing the feeds to audit."`
	Out  string `name:"out" default:"audit_results.json" type:"path" help:"Where to write the audit snapshot."`

	Stdout io.Writer        `kong:"-"`
	Now    func() time.Time `kong:"-"`
}

func (c *AuditCmd) Run(globals *model.Globals, ctx context.Context) error {
	con := newConsole(c.Stdout, c.Now)
	auditor, err := c.newAuditor(con)
	if err != nil {
		return err
	}

	_, snapshot, err := auditFeeds(ctx, con, auditor, c.OPML)
	if err != nil {
		return err
	}
	if err := store.Save(c.Out, snapshot); err != nil {
		return err
	}
	con.summary("AUDIT COMPLETE", snapshot, c.Out)
	return nil
}

// RecheckCmd re-fetches the feeds a previous audit rejected for lacking
// feed elements and writes an updated snapshot.
type RecheckCmd struct {
	FetchFlags

	In  string `name:"in" default:"audit_results.json" type:"path" help:"Snapshot to recheck."`
	Out string `name:"out" default:"audit_results_updated.json" type:"path" help:"Where to write the updated snapshot."`

	Stdout io.Writer        `kong:"-"`
	Now    func() time.Time `kong:"-"`
}

func (c *RecheckCmd) Run(globals *model.Globals, ctx context.Context) error {
	con := newConsole(c.Stdout, c.Now)

	prior, err := store.Load(c.In)
	if err != nil {
		return err
	}
	auditor, err := c.newAuditor(con)
	if err != nil {
		return err
	}
	next, err := recheckSnapshot(ctx, con, auditor, prior)
	if err != nil {
		return err
	}
	if err := store.Save(c.Out, next); err != nil {
		return err
	}
	con.summary("RECHECK COMPLETE", next, c.Out)
	return nil
}

func auditFeeds(ctx context.Context, con *console, auditor *audit.Auditor, opmlPath string) (*model.OPML, *model.AuditSnapshot, error) {
	doc, entries, err := model.LoadFeedsFromOPML(opmlPath)
	if err != nil {
		return nil, nil, err
	}

	con.banner("RSS Feed Auditor", "Testing feeds from: "+opmlPath, startedAt(con.now()))
	con.printf("Found %d feeds to test\n", len(entries))

	snapshot, err := auditor.Run(ctx, entries)
	if err != nil {
		return nil, nil, err
	}
	return doc, snapshot, nil
}

func recheckSnapshot(ctx context.Context, con *console, auditor *audit.Auditor, prior *model.AuditSnapshot) (*model.AuditSnapshot, error) {
	suspects := 0
	for _, r := range prior.Broken {
		if audit.NeedsRecheck(r) {
			suspects++
		}
	}
	con.banner("RSS Feed Recheck", "Snapshot from: "+prior.Timestamp, startedAt(con.now()))
	con.printf("Found %d feeds flagged as having no feed elements\n", suspects)

	return auditor.Recheck(ctx, prior)
}
