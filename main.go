package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/kstenson/paperboy/cmd"
	"github.com/kstenson/paperboy/model"
	"github.com/kstenson/paperboy/version"
)

// CLI is the paperboy command line.
type CLI struct {
	model.Globals

	Audit   cmd.AuditCmd   `cmd:"" help:"Check every feed in an OPML file and write a snapshot."`
	Recheck cmd.RecheckCmd `cmd:"" help:"Recheck feeds a snapshot flagged as having no feed elements."`
	Report  cmd.ReportCmd  `cmd:"" help:"Write the cleaned OPML and text reports for a snapshot."`
	Run     cmd.RunCmd     `cmd:"" help:"Audit, optionally recheck, and write every report."`
}

func newParser(cli *CLI, options ...kong.Option) (*kong.Kong, error) {
	options = append([]kong.Option{
		kong.Name("paperboy"),
		kong.Description("Audit the feeds of an OPML subscription list and write a cleaned copy."),
		kong.UsageOnError(),
		kong.Vars{"version": version.Get().String()},
	}, options...)
	return kong.New(cli, options...)
}

func main() {
	var cli CLI
	parser, err := newParser(&cli)
	if err != nil {
		panic(err)
	}
	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	cli.ConfigureLogging()
	defer func() { _ = model.DefaultLogger().Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	kctx.BindTo(ctx, (*context.Context)(nil))

	if err := kctx.Run(&cli.Globals); err != nil {
		var feedErr *model.FeedError
		if errors.As(err, &feedErr) {
			model.LogFeedError(feedErr)
			fmt.Fprintf(os.Stderr, "paperboy: %s\n", feedErr.Message)
			if feedErr.Suggestion != "" {
				fmt.Fprintf(os.Stderr, "hint: %s\n", feedErr.Suggestion)
			}
		} else {
			model.DefaultLogger().Error("command failed", err)
			fmt.Fprintf(os.Stderr, "paperboy: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}
