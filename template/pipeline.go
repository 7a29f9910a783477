package template

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/robinvdvleuten/ledgertmpl/balance"
	"github.com/robinvdvleuten/ledgertmpl/telemetry"
	"github.com/robinvdvleuten/ledgertmpl/transaction"
)

// Stage names the step of the pipeline that failed.
type Stage string

const (
	StageRender Stage = "render"
	StageBuild  Stage = "build"
)

// StageError wraps a failure with the stage it happened in. Source holds the
// rendered template text when it is available, for error context.
type StageError struct {
	Stage  Stage
	Source string
	// LineItems are the items that failed to balance (build stage only).
	LineItems []transaction.LineItem
	Err       error
}

func (e *StageError) Error() string {
	switch e.Stage {
	case StageRender:
		return fmt.Sprintf("failed to parse template: %v", e.Err)
	case StageBuild:
		return fmt.Sprintf("could not build transaction: %v", e.Err)
	default:
		return e.Err.Error()
	}
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Request describes one transaction to generate.
type Request struct {
	// TemplatePath is read when Template is empty.
	TemplatePath string
	Template     string
	// Date and Desc are left unset on the builder when zero.
	Date time.Time
	Desc string
	Vars Vars
	// Overrides are line items in the template grammar that replace the
	// template's line items with the same account and reality.
	Overrides []string
}

// Pipeline renders templates into balanced transactions.
type Pipeline struct {
	// Lookup resolves <<Account>> placeholders. Templates without
	// placeholders work with a nil Lookup.
	Lookup   *balance.Lookup
	Renderer *Renderer
	Options  []ParseOption
}

// NewPipeline creates a Pipeline using lookup for balance placeholders.
func NewPipeline(lookup *balance.Lookup, opts ...ParseOption) *Pipeline {
	return &Pipeline{
		Lookup:   lookup,
		Renderer: NewRenderer(),
		Options:  opts,
	}
}

// Result is the outcome of a successful Run.
type Result struct {
	Transaction *transaction.Transaction
	// Rendered is the template output the line items were parsed from.
	Rendered string
	// LineItems are the template's own line items, before overrides.
	LineItems []transaction.LineItem
}

// Run renders, parses, merges, and balances a Request. Every error is a
// *StageError.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	rendered, items, err := p.render(ctx, req)
	if err != nil {
		return nil, &StageError{Stage: StageRender, Source: rendered, Err: err}
	}

	txn, final, err := p.build(ctx, req, items)
	if err != nil {
		return nil, &StageError{Stage: StageBuild, Source: rendered, LineItems: final, Err: err}
	}

	return &Result{Transaction: txn, Rendered: rendered, LineItems: items}, nil
}

func (p *Pipeline) render(ctx context.Context, req Request) (string, []transaction.LineItem, error) {
	timer := telemetry.StartTimer(ctx, "template.render")
	defer timer.End()

	text := req.Template
	name := "template"
	if text == "" && req.TemplatePath != "" {
		var err error
		text, err = Load(req.TemplatePath)
		if err != nil {
			return "", nil, err
		}
		name = filepath.Base(req.TemplatePath)
	}

	if accounts := balance.Placeholders(text); len(accounts) > 0 {
		if p.Lookup == nil {
			return "", nil, fmt.Errorf("template references balances of %v but no balance lookup is configured", accounts)
		}
		balanceTimer := timer.Child(fmt.Sprintf("balance.lookup (%d accounts)", len(accounts)))
		var err error
		text, err = balance.RenderBalances(ctx, text, p.Lookup)
		balanceTimer.End()
		if err != nil {
			return "", nil, err
		}
	}

	rendered, err := p.Renderer.Render(name, text, req.Vars)
	if err != nil {
		return "", nil, err
	}
	log.Debug("rendered template", "name", name, "bytes", len(rendered))

	items, err := ParseLineItems(rendered, p.Options...)
	if err != nil {
		return rendered, nil, err
	}

	return rendered, items, nil
}

// build returns the transaction along with the line items it was built from.
func (p *Pipeline) build(ctx context.Context, req Request, items []transaction.LineItem) (*transaction.Transaction, []transaction.LineItem, error) {
	timer := telemetry.StartTimer(ctx, "transaction.build")
	defer timer.End()

	if len(req.Overrides) > 0 {
		overrides := make([]transaction.LineItem, 0, len(req.Overrides))
		for i, o := range req.Overrides {
			item, err := transaction.ParseLineItem(o)
			if err != nil {
				return nil, nil, fmt.Errorf("override %d: %w", i+1, err)
			}
			overrides = append(overrides, item)
		}

		merged, err := transaction.Merge(items, overrides)
		if err != nil {
			return nil, nil, err
		}
		log.Debug("applied overrides", "defaults", len(items), "overrides", len(overrides), "merged", len(merged))
		items = merged
	}

	b := transaction.NewBuilder().SetLineItems(items)
	if !req.Date.IsZero() {
		b.SetDate(req.Date)
	}
	if req.Desc != "" {
		b.SetDesc(req.Desc)
	}
	txn, err := b.Balance()
	return txn, items, err
}
