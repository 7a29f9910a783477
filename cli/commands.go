package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/robinvdvleuten/ledgertmpl/balance"
	"github.com/robinvdvleuten/ledgertmpl/config"
	"github.com/robinvdvleuten/ledgertmpl/telemetry"
	"github.com/robinvdvleuten/ledgertmpl/template"
)

// Globals defines global flags available to all commands.
type Globals struct {
	Telemetry bool   `help:"Show timing telemetry for operations."`
	Config    string `help:"Config file to read instead of the default." type:"path" placeholder:"FILE"`
	Debug     bool   `help:"Log debug output to stderr."`

	ErrorFormat string `help:"How failures are reported on stderr (${enum})." enum:"text,json" default:"text"`
}

// ConfigureLogging installs the default logger writing to w.
func (g *Globals) ConfigureLogging(w io.Writer) {
	level := log.WarnLevel
	if g.Debug {
		level = log.DebugLevel
	}
	log.SetDefault(log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: false,
	}))
}

// LoadConfig resolves configuration from --config, .env and the environment.
func (g *Globals) LoadConfig() (*config.Config, error) {
	var opts []config.Option
	if g.Config != "" {
		opts = append(opts, config.WithFile(g.Config))
	}
	return config.Load(opts...)
}

// startTelemetry attaches a timing collector to ctx when --telemetry is set.
// The returned func ends the root timer and writes the report to w; it is
// safe to call more than once.
func (g *Globals) startTelemetry(ctx context.Context, w io.Writer, name string) (context.Context, func()) {
	if !g.Telemetry {
		return ctx, func() {}
	}

	collector := telemetry.NewTimingCollector()
	ctx = telemetry.WithCollector(ctx, collector)
	root := collector.Start(name)

	done := false
	return ctx, func() {
		if done {
			return
		}
		done = true
		root.End()
		_, _ = fmt.Fprintln(w)
		collector.Report(w)
	}
}

type Commands struct {
	Globals

	Render RenderCmd `cmd:"" default:"withargs" help:"Render a template into a balanced transaction."`
	Check  CheckCmd  `cmd:"" help:"Render a template and show how its line items balance."`
	Doctor DoctorCmd `cmd:"" help:"Doctor utilities for debugging templates."`
}

// TemplateFlags are the inputs shared by commands that render a template.
type TemplateFlags struct {
	Journal   string   `short:"f" help:"Ledger journal to read balances from (default: $LEDGER_FILE)." type:"path"`
	Template  string   `short:"t" required:"" help:"Template file to render." type:"existingfile"`
	Date      string   `short:"d" help:"Transaction date (default: today)."`
	Desc      string   `short:"D" required:"" help:"Transaction description."`
	Vars      []string `short:"v" name:"var" sep:"none" help:"Template variable as name=value (repeatable)." placeholder:"NAME=VALUE"`
	Overrides []string `short:"o" name:"override" sep:"none" help:"Line item replacing the template's item for the same account (repeatable)." placeholder:"LINE"`
	Strict    bool     `help:"Reject blank lines in the rendered template."`
}

// apply layers the flags over cfg.
func (f *TemplateFlags) apply(cfg *config.Config) {
	if f.Journal != "" {
		cfg.Journal = f.Journal
	}
	if f.Strict {
		cfg.StrictBlankLines = true
	}
}

// pipeline builds a Pipeline for cfg. Balance lookups are only available
// when a journal is configured.
func (f *TemplateFlags) pipeline(cfg *config.Config) *template.Pipeline {
	var lookup *balance.Lookup
	if cfg.Journal != "" {
		lookup = balance.NewLookup(balance.CommandBackends(cfg.Journal, cfg.Backends...)...)
	}

	var opts []template.ParseOption
	if cfg.StrictBlankLines {
		opts = append(opts, template.WithStrictBlankLines())
	}
	return template.NewPipeline(lookup, opts...)
}

// request builds the pipeline request. Malformed variables are logged and
// skipped.
func (f *TemplateFlags) request(cfg *config.Config, now time.Time) template.Request {
	vars, bad := template.ParseVars(f.Vars)
	for _, v := range bad {
		log.Warn("ignoring malformed variable", "var", v)
	}

	return template.Request{
		TemplatePath: f.Template,
		Date:         parseDate(f.Date, cfg.DateFormat, now),
		Desc:         f.Desc,
		Vars:         vars,
		Overrides:    f.Overrides,
	}
}

// parseDate reads value with layout, falling back to now when value is
// empty or invalid.
func parseDate(value, layout string, now time.Time) time.Time {
	if value == "" {
		return now
	}
	if layout == "" {
		layout = "2006-01-02"
	}
	date, err := time.ParseInLocation(layout, value, now.Location())
	if err != nil {
		log.Warn("invalid date, using today", "date", value, "format", layout)
		return now
	}
	return date
}
