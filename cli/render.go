package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/ledgertmpl/config"
	errfmt "github.com/robinvdvleuten/ledgertmpl/errors"
	"github.com/robinvdvleuten/ledgertmpl/journal"
	"github.com/robinvdvleuten/ledgertmpl/template"
)

// RenderCmd renders a template into a transaction and optionally appends it
// to the journal.
type RenderCmd struct {
	TemplateFlags

	Post  bool `help:"Append the transaction to the journal."`
	Yes   bool `short:"y" help:"Do not ask for confirmation before posting."`
	Watch bool `help:"Re-render whenever the template changes. Never posts."`
}

// Run executes the render command.
func (cmd *RenderCmd) Run(ctx *kong.Context, globals *Globals) error {
	cfg, err := globals.LoadConfig()
	if err != nil {
		return err
	}
	cmd.apply(cfg)

	runCtx := cfg.WithContext(context.Background())

	if cmd.Watch {
		if cmd.Post {
			return errors.New("--post cannot be combined with --watch")
		}
		runCtx, stop := signal.NotifyContext(runCtx, os.Interrupt)
		defer stop()
		return cmd.watch(runCtx, ctx.Stdout, ctx.Stderr, globals)
	}

	runCtx, report := globals.startTelemetry(runCtx, ctx.Stderr, "render "+cmd.Template)
	defer report()

	result, err := cmd.render(runCtx, ctx.Stdout, ctx.Stderr, globals.ErrorFormat)
	if err != nil {
		return err
	}

	if !cmd.Post {
		return nil
	}

	path, err := cfg.RequireJournal()
	if err != nil {
		return err
	}

	if !cmd.Yes {
		ok, err := promptYesNo(ctx, fmt.Sprintf("Append transaction to %s?", path))
		if err != nil {
			return err
		}
		if !ok {
			printInfof(ctx.Stderr, "Transaction not posted")
			return nil
		}
	}

	if err := journal.Append(path, result.Transaction); err != nil {
		return err
	}
	printSuccess(ctx.Stderr, fmt.Sprintf("Posted to %s", pathStyle.Render(path)))
	return nil
}

// render runs the pipeline once and prints the transaction to stdout.
// Pipeline failures are reported on stderr and returned as a CommandError.
func (cmd *RenderCmd) render(ctx context.Context, stdout, stderr io.Writer, errorFormat string) (*template.Result, error) {
	cfg := config.FromContext(ctx)

	result, err := cmd.pipeline(cfg).Run(ctx, cmd.request(cfg, time.Now()))
	if err != nil {
		return nil, reportStageError(stderr, err, errorFormat)
	}

	_, _ = fmt.Fprintln(stdout, result.Transaction.String())
	return result, nil
}

// reportStageError prints a pipeline failure with the stage that failed,
// or as a single JSON object when errorFormat is "json". Errors that are
// not pipeline failures are returned unchanged.
func reportStageError(w io.Writer, err error, errorFormat string) error {
	var stageErr *template.StageError
	if !errors.As(err, &stageErr) {
		return err
	}

	if errorFormat == "json" {
		_, _ = fmt.Fprintln(w, errfmt.NewJSONFormatter().Format(err))
		return NewCommandError(1)
	}

	renderer := NewErrorRenderer(stageErr.Source)
	_, _ = fmt.Fprintln(w, renderer.Render(stageErr.Err))
	_, _ = fmt.Fprintln(w)

	switch stageErr.Stage {
	case template.StageRender:
		printError(w, "Failed to parse template")
	default:
		printError(w, "Could not build transaction")
	}
	return NewCommandError(1)
}
