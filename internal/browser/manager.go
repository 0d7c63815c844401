// CLAUDE:SUMMARY Launches or attaches to Chrome through Rod, opens the single working tab, and tears it all down once.
// Package browser owns the Chrome process used by a run: launch (or attach
// to a remote DevTools endpoint), open one tab, and shut everything down.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/hazyhaar/suaplinks/internal/locator"
)

// Config configures the browser manager.
type Config struct {
	// RemoteURL is the WebSocket URL of an external Chrome instance.
	// Empty = launch a local Chrome via launcher.
	RemoteURL string

	// Bin overrides the Chrome binary. Empty = launcher lookup/download.
	Bin string

	Headless bool

	// Args are extra Chrome switches, written with or without leading
	// dashes, optionally as name=value.
	Args []string

	// Stealth opens the tab through go-rod/stealth.
	Stealth bool

	// ResourceBlocking lists resource types to block (images, fonts, media, stylesheets).
	ResourceBlocking []string

	// ElementTimeout bounds every element lookup. Default: 10s.
	ElementTimeout time.Duration

	// NavigationTimeout bounds page loads. Default: 30s.
	NavigationTimeout time.Duration

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.ElementTimeout <= 0 {
		c.ElementTimeout = 10 * time.Second
	}
	if c.NavigationTimeout <= 0 {
		c.NavigationTimeout = 30 * time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Manager manages Chrome lifecycle.
type Manager struct {
	cfg     Config
	mu      sync.Mutex
	browser *rod.Browser
	lnch    *launcher.Launcher
	tab     *Tab
	closed  bool
}

// NewManager creates a browser Manager. Call Launch to start Chrome.
func NewManager(cfg Config) *Manager {
	cfg.defaults()
	return &Manager{cfg: cfg}
}

// Launch starts Chrome (or connects to a remote instance) and opens the
// tab every lookup runs in. Chrome is not bound to ctx: it must outlive a
// cancelled run until Close.
func (m *Manager) Launch(_ context.Context) (locator.Driver, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, fmt.Errorf("browser: manager is closed")
	}
	if m.tab != nil {
		return m.tab, nil
	}

	b, err := m.connect()
	if err != nil {
		m.cleanup()
		return nil, err
	}
	m.browser = b

	tab, err := m.openTab()
	if err != nil {
		m.cleanup()
		return nil, err
	}
	m.tab = tab
	return tab, nil
}

// Close shuts down the tab and Chrome. Safe to call more than once and
// before Launch.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return m.cleanup()
}

func (m *Manager) connect() (*rod.Browser, error) {
	log := m.cfg.Logger

	var wsURL string

	if m.cfg.RemoteURL != "" {
		wsURL = m.cfg.RemoteURL
		log.Info("browser: connecting to remote", "url", wsURL)
	} else {
		l := launcher.New().Headless(m.cfg.Headless)
		if m.cfg.Bin != "" {
			l = l.Bin(m.cfg.Bin)
		}
		for _, raw := range m.cfg.Args {
			name, val, hasVal := strings.Cut(strings.TrimLeft(raw, "-"), "=")
			if name == "" {
				continue
			}
			if hasVal {
				l = l.Set(flags.Flag(name), val)
			} else {
				l = l.Set(flags.Flag(name))
			}
		}

		// Anti-detection flag.
		l = l.Set("disable-blink-features", "AutomationControlled")

		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("browser: launch: %w", err)
		}
		m.lnch = l
		wsURL = u
		log.Info("browser: launched local chrome", "url", wsURL, "headless", m.cfg.Headless)
	}

	b := rod.New().ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("browser: connect: %w", err)
	}
	return b, nil
}

func (m *Manager) openTab() (*Tab, error) {
	var page *rod.Page
	var err error

	if m.cfg.Stealth {
		page, err = stealth.Page(m.browser)
	} else {
		page, err = m.browser.Page(proto.TargetCreateTarget{URL: ""})
	}
	if err != nil {
		return nil, fmt.Errorf("browser: create tab: %w", err)
	}

	if len(m.cfg.ResourceBlocking) > 0 {
		if err := applyResourceBlocking(page, m.cfg.ResourceBlocking); err != nil {
			m.cfg.Logger.Warn("browser: resource blocking failed", "error", err)
		}
	}

	return &Tab{
		page:       page,
		elementTTL: m.cfg.ElementTimeout,
		navTTL:     m.cfg.NavigationTimeout,
		logger:     m.cfg.Logger,
	}, nil
}

func (m *Manager) cleanup() error {
	var err error
	if m.tab != nil {
		m.tab.close()
		m.tab = nil
	}
	if m.browser != nil {
		err = m.browser.Close()
		m.browser = nil
		m.cfg.Logger.Info("browser: closed")
	}
	if m.lnch != nil {
		m.lnch.Kill()
		m.lnch.Cleanup()
		m.lnch = nil
	}
	return err
}
