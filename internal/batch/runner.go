// Package batch runs lookups for a list of identifiers, one at a time.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hazyhaar/suaplinks/internal/locator"
	"github.com/hazyhaar/suaplinks/record"
)

// Locator looks up one identifier. *locator.Locator implements it.
type Locator interface {
	Locate(ctx context.Context, d locator.Driver, id string) record.Outcome
}

// Runner iterates identifiers sequentially. The driver is a single
// browser tab, so lookups are never concurrent.
type Runner struct {
	loc    Locator
	pause  time.Duration
	logger *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithPause sets the wait after every lookup. Default: 1s.
func WithPause(d time.Duration) Option {
	return func(r *Runner) { r.pause = d }
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// New creates a Runner around loc.
func New(loc Locator, opts ...Option) *Runner {
	r := &Runner{loc: loc, pause: time.Second, logger: slog.Default()}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Run looks up every identifier in order and returns one record per
// identifier, in input order. If ctx is cancelled the records gathered so
// far are returned together with ctx.Err().
func (r *Runner) Run(ctx context.Context, d locator.Driver, ids []string) ([]record.Record, error) {
	total := len(ids)
	records := make([]record.Record, 0, total)
	r.logger.Info("batch: starting", "total", total)

	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			return records, err
		}
		r.logger.Info("batch: processing", "n", fmt.Sprintf("%d/%d", i+1, total), "id", id)

		records = append(records, record.Record{Identifier: id, Outcome: r.locate(ctx, d, id)})

		if err := sleepCtx(ctx, r.pause); err != nil {
			return records, err
		}
	}

	return records, nil
}

// locate isolates one lookup: a panic becomes a SearchError for this
// identifier only.
func (r *Runner) locate(ctx context.Context, d locator.Driver, id string) (out record.Outcome) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("batch: lookup panicked", "id", id, "panic", p)
			out = record.SearchError(fmt.Sprint(p))
		}
	}()
	return r.loc.Locate(ctx, d, id)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
