// Package suaplinks collects detail-page links for a batch of case numbers
// from the SUAP admin listing. A human logs in once in a visible Chrome
// window; every case number is then searched in turn and the link of the
// matching row is written to CSV.
//
// The run is strictly sequential: one browser, one tab, one lookup at a
// time. Per-case failures are recorded as sentinel values and never stop
// the batch.
package suaplinks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hazyhaar/suaplinks/idgen"
	"github.com/hazyhaar/suaplinks/internal/batch"
	"github.com/hazyhaar/suaplinks/internal/input"
	"github.com/hazyhaar/suaplinks/internal/locator"
	"github.com/hazyhaar/suaplinks/internal/session"
	"github.com/hazyhaar/suaplinks/internal/sink"
	"github.com/hazyhaar/suaplinks/record"
)

// ErrNoInput is returned when the input file yields no identifiers. No
// browser is started in that case.
var ErrNoInput = errors.New("suaplinks: no identifiers loaded")

// Re-exported startup errors, matchable with errors.Is.
var (
	ErrLaunch        = session.ErrLaunch
	ErrLoginGate     = session.ErrLoginGate
	ErrHeadlessLogin = session.ErrHeadlessLogin
)

// RunIDPrefix starts every run ID stored in the history.
const RunIDPrefix = "run_"

// Launcher starts and stops the browser.
type Launcher = session.Launcher

// Acknowledger blocks until the operator confirms the manual login.
type Acknowledger = session.Acknowledger

// Sink persists a finished run.
type Sink = sink.Sink

// App wires one run: load, launch, login gate, batch, write, teardown.
type App struct {
	cfg     *Config
	logger  *slog.Logger
	session *session.Controller
	runner  *batch.Runner
	sinks   *sink.Router
	csvPath string
	newID   idgen.Generator
}

// New creates an App. The CSV sink for cfg.Output is always installed;
// extra sinks (run history) are appended after it.
func New(cfg *Config, logger *slog.Logger, launcher Launcher, ack Acknowledger, extra ...Sink) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	loc, err := locator.New(locator.Config{
		SearchURL:    cfg.Portal.SearchURL,
		SearchInput:  cfg.Portal.SearchInput,
		FilterButton: cfg.Portal.FilterButton,
		ResultsTable: cfg.Portal.ResultsTable,
		Strategies:   locator.StrategiesFromSelectors(cfg.Portal.LinkSelectors),
		SettleDelay:  cfg.Timing.SettleDelay,
		Logger:       logger,
	})
	if err != nil {
		return nil, err
	}

	sinks := append([]sink.Sink{sink.NewCSV(cfg.Output)}, extra...)

	return &App{
		cfg:    cfg,
		logger: logger,
		session: session.New(session.Config{
			Headless: cfg.Browser.Headless,
			LoginURL: cfg.Portal.LoginURL,
			Logger:   logger,
		}, launcher, ack),
		runner:  batch.New(loc, batch.WithPause(cfg.Timing.Pause), batch.WithLogger(logger)),
		sinks:   sink.NewRouter(logger, sinks...),
		csvPath: cfg.Output,
		newID:   idgen.Prefixed(RunIDPrefix, idgen.Default),
	}, nil
}

// Run performs one full run. Startup failures (input, launch, login gate)
// are returned before any lookup. Once the batch completes, write failures
// are logged and Run returns nil. The browser is torn down on every path,
// cancellation included.
func (a *App) Run(ctx context.Context) error {
	ids := input.Load(a.cfg.Input, a.logger)
	if len(ids) == 0 {
		a.logger.Error("suaplinks: no identifiers loaded, check the input file", "path", a.cfg.Input)
		return ErrNoInput
	}

	defer a.session.Teardown()

	if err := a.session.Launch(ctx); err != nil {
		a.logger.Error("suaplinks: browser setup failed, is Chrome installed?", "error", err)
		return err
	}
	if err := a.session.GateForManualLogin(ctx); err != nil {
		a.logger.Error("suaplinks: login step failed", "error", err)
		return err
	}

	d, err := a.session.Driver()
	if err != nil {
		return err
	}

	run := record.Run{ID: a.newID(), StartedAt: time.Now()}
	records, err := a.runner.Run(ctx, d, ids)
	if err != nil {
		a.logger.Info("suaplinks: interrupted", "processed", len(records), "total", len(ids))
		return fmt.Errorf("suaplinks: batch: %w", err)
	}
	run.Records = records
	run.FinishedAt = time.Now()

	a.write(ctx, run)
	return nil
}

// Close releases the sinks.
func (a *App) Close() error {
	return a.sinks.Close()
}

func (a *App) write(ctx context.Context, run record.Run) {
	if err := a.sinks.Write(ctx, run); err != nil {
		a.logger.Error("suaplinks: saving results failed", "error", err)
		return
	}
	sum := record.Summarize(run.Records)
	a.logger.Info("suaplinks: results saved", "path", a.csvPath, "run_id", run.ID)
	a.logger.Info("suaplinks: statistics",
		"found", sum.Found, "total", sum.Total,
		"summary", fmt.Sprintf("%d/%d processos encontrados", sum.Found, sum.Total))
}
