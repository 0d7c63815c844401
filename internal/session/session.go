// CLAUDE:SUMMARY Owns the browser session of a run: launch, manual-login gate, and exactly-once teardown.
// Package session controls the single browser session of a run.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hazyhaar/suaplinks/internal/locator"
)

var (
	// ErrLaunch wraps any failure to start the browser.
	ErrLaunch = errors.New("session: launch failed")
	// ErrLoginGate wraps any failure of the manual-login step.
	ErrLoginGate = errors.New("session: login gate failed")
	// ErrHeadlessLogin is returned by the gate in headless mode, where
	// nobody can log in. It matches ErrLoginGate.
	ErrHeadlessLogin = fmt.Errorf("%w: headless mode cannot wait for a manual login", ErrLoginGate)
	// ErrNotLaunched is returned by Driver before a successful Launch.
	ErrNotLaunched = errors.New("session: not launched")
	// ErrSessionClosed is returned by Driver after Teardown.
	ErrSessionClosed = errors.New("session: closed")
)

// LoginBanner is shown while waiting for the operator.
const LoginBanner = `FAÇA SEU LOGIN NO NAVEGADOR
1. O navegador foi aberto com a página do SUAP
2. Faça seu login normalmente
3. Navegue até estar logado no sistema
4. Pressione ENTER aqui para continuar...`

// Launcher starts and stops the browser.
type Launcher interface {
	Launch(ctx context.Context) (locator.Driver, error)
	Close() error
}

// Acknowledger blocks until a human confirms, with no timeout of its own.
type Acknowledger interface {
	Acknowledge(ctx context.Context, banner string) error
}

// Config configures a Controller.
type Config struct {
	Headless bool
	LoginURL string
	Logger   *slog.Logger
}

// Controller owns the session lifecycle. Lookups borrow its Driver.
type Controller struct {
	cfg      Config
	launcher Launcher
	ack      Acknowledger

	mu     sync.Mutex
	driver locator.Driver
	closed bool
	once   sync.Once
	err    error
}

// New creates a Controller.
func New(cfg Config, launcher Launcher, ack Acknowledger) *Controller {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Controller{cfg: cfg, launcher: launcher, ack: ack}
}

// Launch starts the browser. Failures are reported, not retried.
func (c *Controller) Launch(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return fmt.Errorf("%w: %w", ErrLaunch, ErrSessionClosed)
	}
	d, err := c.launcher.Launch(ctx)
	if err != nil {
		c.cfg.Logger.Error("session: launch failed", "error", err)
		return fmt.Errorf("%w: %w", ErrLaunch, err)
	}
	c.driver = d
	c.cfg.Logger.Info("session: browser ready", "headless", c.cfg.Headless)
	return nil
}

// GateForManualLogin opens the login page and waits, without a timeout,
// for the operator to confirm they are logged in.
func (c *Controller) GateForManualLogin(ctx context.Context) error {
	if c.cfg.Headless {
		c.cfg.Logger.Warn("session: headless mode active, manual login impossible")
		return ErrHeadlessLogin
	}

	d, err := c.Driver()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoginGate, err)
	}

	c.cfg.Logger.Info("session: opening login page", "url", c.cfg.LoginURL)
	if err := d.Navigate(ctx, c.cfg.LoginURL); err != nil {
		return fmt.Errorf("%w: navigate: %w", ErrLoginGate, err)
	}

	if err := c.ack.Acknowledge(ctx, LoginBanner); err != nil {
		return fmt.Errorf("%w: %w", ErrLoginGate, err)
	}
	c.cfg.Logger.Info("session: login acknowledged, continuing")
	return nil
}

// Driver returns the session's driver for one lookup.
func (c *Controller) Driver() (locator.Driver, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.closed:
		return nil, ErrSessionClosed
	case c.driver == nil:
		return nil, ErrNotLaunched
	}
	return c.driver, nil
}

// Teardown releases the browser. Only the first call does work; later
// calls return the same result. It is safe before Launch.
func (c *Controller) Teardown() error {
	c.once.Do(func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.closed = true
		c.driver = nil
		c.err = c.launcher.Close()
		if c.err != nil {
			c.cfg.Logger.Warn("session: teardown", "error", c.err)
			return
		}
		c.cfg.Logger.Info("session: browser closed")
	})
	return c.err
}
