// Package telemetry records how long each stage of generating a transaction
// takes. Timers nest into a tree that is printed after the command finishes
// when --telemetry is given.
//
// The collector travels on the context, so instrumented code does not need
// to know whether timing is enabled:
//
//	collector := telemetry.NewTimingCollector()
//	ctx := telemetry.WithCollector(context.Background(), collector)
//
//	timer := telemetry.StartTimer(ctx, "template.render")
//	lookup := timer.Child("balance.lookup")
//	// ... work ...
//	lookup.End()
//	timer.End()
//
//	collector.Report(os.Stderr)
package telemetry

import (
	"context"
	"io"
)

// Collector creates timers and reports what they measured.
type Collector interface {
	// Start begins a timer nested under the innermost timer still running.
	Start(name string) Timer
	// Report writes the collected timings to w.
	Report(w io.Writer)
}

// Timer measures a single operation.
type Timer interface {
	End()
	// Child starts a timer nested under this one.
	Child(name string) Timer
}

type contextKey struct{}

// WithCollector returns a context carrying collector.
func WithCollector(ctx context.Context, collector Collector) context.Context {
	return context.WithValue(ctx, contextKey{}, collector)
}

// FromContext returns the collector carried by ctx, or a collector that
// records nothing.
func FromContext(ctx context.Context) Collector {
	if collector, ok := ctx.Value(contextKey{}).(Collector); ok {
		return collector
	}
	return noOpCollector{}
}

// StartTimer starts a timer on the collector carried by ctx.
func StartTimer(ctx context.Context, name string) Timer {
	return FromContext(ctx).Start(name)
}

type noOpCollector struct{}

func (noOpCollector) Start(string) Timer { return noOpTimer{} }
func (noOpCollector) Report(io.Writer)   {}

type noOpTimer struct{}

func (noOpTimer) End()               {}
func (noOpTimer) Child(string) Timer { return noOpTimer{} }
