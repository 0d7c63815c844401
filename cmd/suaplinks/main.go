// Command suaplinks looks up every case number listed in lista.json on the
// SUAP admin listing and writes NumeroProcesso,LinkProcesso rows to
// processos_links.csv.
//
// Usage:
//
//	suaplinks
//
// There are no flags. Defaults can be overridden with a suaplinks.yaml in
// the working directory.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "modernc.org/sqlite"

	"github.com/hazyhaar/suaplinks"
	"github.com/hazyhaar/suaplinks/internal/browser"
	"github.com/hazyhaar/suaplinks/internal/console"
	"github.com/hazyhaar/suaplinks/internal/sink"
)

func main() {
	cfg, err := suaplinks.LoadConfig(suaplinks.DefaultConfigFile)
	if err != nil {
		slog.Error("suaplinks: config", "error", err)
		os.Exit(1)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, logger, cfg)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, logger *slog.Logger, cfg *suaplinks.Config) int {
	mgr := browser.NewManager(browser.Config{
		RemoteURL:         cfg.Browser.Remote,
		Bin:               cfg.Browser.Bin,
		Headless:          cfg.Browser.Headless,
		Args:              cfg.Browser.Args,
		Stealth:           cfg.Browser.Stealth,
		ResourceBlocking:  cfg.Browser.ResourceBlocking,
		ElementTimeout:    cfg.Timing.WaitTimeout,
		NavigationTimeout: cfg.Timing.NavigationTimeout,
		Logger:            logger,
	})

	var extra []suaplinks.Sink
	if cfg.HistoryDB != "" {
		hist, err := sink.OpenSQLite(cfg.HistoryDB)
		if err != nil {
			logger.Warn("suaplinks: run history disabled", "path", cfg.HistoryDB, "error", err)
		} else {
			extra = append(extra, hist)
		}
	}

	app, err := suaplinks.New(cfg, logger, mgr, console.NewPrompt(), extra...)
	if err != nil {
		logger.Error("suaplinks: setup", "error", err)
		return 1
	}
	defer app.Close()

	err = app.Run(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		logger.Info("suaplinks: operation interrupted by user")
		return 130
	default:
		return 1
	}
}
