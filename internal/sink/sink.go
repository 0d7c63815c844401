// Package sink defines output backends for finished runs.
package sink

import (
	"context"

	"github.com/hazyhaar/suaplinks/record"
)

// Sink persists a finished run. Write is called once per run with every
// record; there is no incremental delivery.
type Sink interface {
	Write(ctx context.Context, run record.Run) error
	Close() error
}
