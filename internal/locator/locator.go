// Package locator finds the detail link of one record in the portal's
// admin listing: search, wait for the results table, scan its rows.
package locator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/hazyhaar/suaplinks/record"
)

// Config configures a Locator.
type Config struct {
	SearchURL    string
	SearchInput  string
	FilterButton string
	ResultsTable string
	Strategies   []LinkStrategy

	// SettleDelay is waited after the results table appears and before
	// its rows are read, to let client-side rendering finish.
	SettleDelay time.Duration

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.SearchInput == "" {
		c.SearchInput = "#searchbar"
	}
	if c.FilterButton == "" {
		c.FilterButton = "#button_filter"
	}
	if c.ResultsTable == "" {
		c.ResultsTable = "#result_list"
	}
	if len(c.Strategies) == 0 {
		c.Strategies = DefaultStrategies
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Locator performs single-identifier lookups against a borrowed Driver.
type Locator struct {
	cfg  Config
	base *url.URL
}

// New creates a Locator. SearchURL must parse as a URL; it is also the
// base against which relative row links are resolved. Every strategy
// selector must compile.
func New(cfg Config) (*Locator, error) {
	cfg.defaults()
	base, err := url.Parse(cfg.SearchURL)
	if err != nil {
		return nil, fmt.Errorf("locator: search url: %w", err)
	}
	if err := checkStrategies(cfg.Strategies); err != nil {
		return nil, err
	}
	return &Locator{cfg: cfg, base: base}, nil
}

// Locate searches for id and returns its outcome. It never returns an
// error: timeouts and missing elements become NotFound, anything else
// becomes SearchError.
func (l *Locator) Locate(ctx context.Context, d Driver, id string) record.Outcome {
	log := l.cfg.Logger.With("id", id)

	m, err := l.search(ctx, d, id)
	switch {
	case errors.Is(err, ErrTimeout):
		log.Warn("locator: timeout, treating as not found", "error", err)
		return record.NotFound()
	case errors.Is(err, ErrNoElement):
		log.Warn("locator: element missing, treating as not found", "error", err)
		return record.NotFound()
	case err != nil:
		log.Error("locator: unexpected error", "error", err)
		return record.SearchError(err.Error())
	}

	if !m.Found {
		log.Warn("locator: no matching row", "rows", m.Rows)
		return record.NotFound()
	}
	if m.Href == "" {
		log.Warn("locator: matching row has no link", "row", m.Row)
		return record.LinkMissing()
	}

	log.Info("locator: link found", "row", m.Row, "strategy", m.Strategy, "url", m.Href)
	return record.Link(m.Href)
}

func (l *Locator) search(ctx context.Context, d Driver, id string) (Match, error) {
	c := l.cfg

	if err := d.Navigate(ctx, c.SearchURL); err != nil {
		return Match{}, fmt.Errorf("navigate: %w", err)
	}
	if err := d.WaitPresent(ctx, c.SearchInput); err != nil {
		return Match{}, fmt.Errorf("search input: %w", err)
	}
	if err := d.Fill(ctx, c.SearchInput, id); err != nil {
		return Match{}, fmt.Errorf("fill search: %w", err)
	}
	if err := d.Click(ctx, c.FilterButton); err != nil {
		return Match{}, fmt.Errorf("filter: %w", err)
	}
	if err := d.WaitPresent(ctx, c.ResultsTable); err != nil {
		return Match{}, fmt.Errorf("results table: %w", err)
	}

	if err := sleepCtx(ctx, c.SettleDelay); err != nil {
		return Match{}, err
	}

	fragment, err := d.OuterHTML(ctx, c.ResultsTable)
	if err != nil {
		return Match{}, fmt.Errorf("read table: %w", err)
	}
	return ScanTable(fragment, id, l.base, c.Strategies, c.Logger)
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
