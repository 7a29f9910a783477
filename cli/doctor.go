package cli

import (
	"github.com/alecthomas/kong"
	"github.com/alecthomas/repr"

	"github.com/robinvdvleuten/ledgertmpl/template"
)

// DoctorCmd provides doctor utilities for debugging templates.
type DoctorCmd struct {
	Items ItemsCmd `cmd:"" help:"Show the line items parsed from rendered template text."`
}

// ItemsCmd parses rendered template text and dumps the line items.
type ItemsCmd struct {
	File  FileOrStdin `help:"Rendered template text (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	Cents bool        `help:"Amounts are integer cents instead of decimals."`
}

// Run executes the items command.
func (cmd *ItemsCmd) Run(ctx *kong.Context, globals *Globals) error {
	content, err := cmd.File.Read()
	if err != nil {
		return err
	}

	var opts []template.ParseOption
	if cmd.Cents {
		opts = append(opts, template.WithCents())
	}

	items, err := template.ParseLineItems(content, opts...)
	if err != nil {
		return reportStageError(ctx.Stderr, &template.StageError{Stage: template.StageRender, Source: content, Err: err}, globals.ErrorFormat)
	}

	repr.New(ctx.Stdout).Println(items)
	return nil
}
