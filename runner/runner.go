// Package runner drains a run's event source into an accumulator and returns
// the assembled result.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/streamloom/streamloom/observability"
	"github.com/streamloom/streamloom/source"
	"github.com/streamloom/streamloom/stream"
)

// Runner consumes event sources. One Runner serves any number of concurrent
// runs; each Run call allocates its own accumulator.
type Runner struct {
	processor *stream.Processor
	hooks     *observability.Hooks
}

// Config holds runner configuration.
type Config struct {
	// Processor applies events. Defaults to stream.NewProcessor with the
	// runner's hooks when nil.
	Processor *stream.Processor
	// Hooks receives observability callbacks.
	Hooks *observability.Hooks
}

// New creates a new runner.
func New(cfg Config) *Runner {
	p := cfg.Processor
	if p == nil {
		p = stream.NewProcessor(stream.Config{Hooks: cfg.Hooks})
	}
	return &Runner{processor: p, hooks: cfg.Hooks}
}

// Run consumes src until completion, context cancellation, or source error,
// forwarding deltas to sink. The accumulated result is returned in every
// case: an aborted stream yields a valid partial result alongside the error.
func (r *Runner) Run(ctx context.Context, src source.Source, sink stream.DeltaSink) (stream.Result, error) {
	if src == nil {
		return stream.Result{}, fmt.Errorf("source is required")
	}
	acc := stream.NewAccumulator()
	for {
		ev, err := src.Recv(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return r.processor.Result(acc), nil
			}
			r.hooks.SafeLog(ctx, "warn", "event source ended early", map[string]any{"error": err.Error()})
			return r.processor.Result(acc), err
		}
		r.processor.Process(acc, ev, sink)
	}
}
