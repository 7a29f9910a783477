package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/mattn/go-runewidth"

	"github.com/robinvdvleuten/ledgertmpl/money"
	"github.com/robinvdvleuten/ledgertmpl/output"
	"github.com/robinvdvleuten/ledgertmpl/template"
	"github.com/robinvdvleuten/ledgertmpl/transaction"
)

// CheckCmd renders a template and prints its line items with subtotals.
type CheckCmd struct {
	TemplateFlags
}

// Run executes the check command.
func (cmd *CheckCmd) Run(ctx *kong.Context, globals *Globals) error {
	cfg, err := globals.LoadConfig()
	if err != nil {
		return err
	}
	cmd.apply(cfg)

	runCtx := cfg.WithContext(context.Background())
	runCtx, report := globals.startTelemetry(runCtx, ctx.Stderr, "check "+cmd.Template)
	defer report()

	result, err := cmd.pipeline(cfg).Run(runCtx, cmd.request(cfg, time.Now()))
	if err != nil {
		// An unbalanced transaction still has line items worth showing.
		var stageErr *template.StageError
		if errors.As(err, &stageErr) && len(stageErr.LineItems) > 0 {
			writeLineItemTable(ctx.Stdout, output.NewStyles(ctx.Stdout), stageErr.LineItems)
			_, _ = fmt.Fprintln(ctx.Stdout)
		}
		return reportStageError(ctx.Stderr, err, globals.ErrorFormat)
	}

	items := result.Transaction.LineItems()
	writeLineItemTable(ctx.Stdout, output.NewStyles(ctx.Stdout), items)
	_, _ = fmt.Fprintln(ctx.Stdout)
	printSuccess(ctx.Stderr, fmt.Sprintf("Transaction balances (%d line items)", len(items)))
	return nil
}

// writeLineItemTable writes one row per item with amounts right-aligned,
// followed by the real and virtual subtotals.
func writeLineItemTable(w io.Writer, styles *output.Styles, items []transaction.LineItem) {
	var realSum, virtualSum money.Cents
	accountWidth := runewidth.StringWidth("virtual")
	amountWidth := 0
	for _, item := range items {
		if item.IsReal {
			realSum += item.Value
		} else {
			virtualSum += item.Value
		}
		accountWidth = max(accountWidth, runewidth.StringWidth(item.Name()))
		amountWidth = max(amountWidth, len(item.Value.String()))
	}
	amountWidth = max(amountWidth, len(realSum.String()), len(virtualSum.String()))

	row := func(label, styledLabel string, value money.Cents) {
		amount := value.String()
		_, _ = fmt.Fprintf(w, "  %s%s  %s%s\n",
			styledLabel,
			strings.Repeat(" ", accountWidth-runewidth.StringWidth(label)),
			strings.Repeat(" ", amountWidth-len(amount)),
			styles.Amount(amount, value),
		)
	}

	for _, item := range items {
		styled := styles.Account(item.Name())
		if !item.IsReal {
			styled = styles.VirtualAccount(item.Name())
		}
		row(item.Name(), styled, item.Value)
	}

	_, _ = fmt.Fprintf(w, "  %s\n", styles.Dim(strings.Repeat("-", accountWidth+2+amountWidth)))
	row("real", styles.Keyword("real"), realSum)
	row("virtual", styles.Keyword("virtual"), virtualSum)
}
