package sink

import (
	"context"
	"log/slog"

	"github.com/hazyhaar/suaplinks/record"
)

// Router delivers a run to every sink in order. A failing sink is logged
// and skipped; the first error is reported once all sinks were tried.
type Router struct {
	sinks  []Sink
	logger *slog.Logger
}

// NewRouter builds a Router over sinks. A nil logger means slog.Default().
func NewRouter(logger *slog.Logger, sinks ...Sink) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{sinks: sinks, logger: logger}
}

func (r *Router) Write(ctx context.Context, run record.Run) error {
	return r.each("write", func(s Sink) error { return s.Write(ctx, run) })
}

func (r *Router) Close() error {
	return r.each("close", Sink.Close)
}

func (r *Router) each(op string, fn func(Sink) error) error {
	var first error
	for i, s := range r.sinks {
		err := fn(s)
		if err == nil {
			continue
		}
		r.logger.Warn("sink: "+op+" failed", "sink", i, "error", err)
		if first == nil {
			first = err
		}
	}
	return first
}
