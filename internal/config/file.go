// CLAUDE:SUMMARY Defines suaplinks config structs, built-in defaults, and YAML overrides.
// Package config handles suaplinks configuration. Every field has a built-in
// default; an optional YAML file overrides them.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/andybalholm/cascadia"
	"gopkg.in/yaml.v3"
)

// DefaultFile is looked up in the working directory by the binary.
const DefaultFile = "suaplinks.yaml"

// Config is the top-level suaplinks configuration.
type Config struct {
	Input     string        `yaml:"input"`
	Output    string        `yaml:"output"`
	HistoryDB string        `yaml:"history_db"` // empty = no run history
	LogLevel  string        `yaml:"log_level"`  // debug | info | warn | error
	Portal    PortalConfig  `yaml:"portal"`
	Browser   BrowserConfig `yaml:"browser"`
	Timing    TimingConfig  `yaml:"timing"`
}

// PortalConfig describes the pages and elements of the record listing.
type PortalConfig struct {
	LoginURL      string   `yaml:"login_url"`
	SearchURL     string   `yaml:"search_url"`
	SearchInput   string   `yaml:"search_input"`
	FilterButton  string   `yaml:"filter_button"`
	ResultsTable  string   `yaml:"results_table"`
	LinkSelectors []string `yaml:"link_selectors"` // tried in order inside the row's th
}

// BrowserConfig controls Chrome launch.
type BrowserConfig struct {
	Headless         bool     `yaml:"headless"`
	Bin              string   `yaml:"bin"`
	Remote           string   `yaml:"remote"`
	Args             []string `yaml:"args"`
	Stealth          bool     `yaml:"stealth"`
	ResourceBlocking []string `yaml:"resource_blocking"`
}

// TimingConfig holds the fixed waits of a run.
type TimingConfig struct {
	WaitTimeout       time.Duration `yaml:"wait_timeout"`
	NavigationTimeout time.Duration `yaml:"navigation_timeout"`
	SettleDelay       time.Duration `yaml:"settle_delay"`
	Pause             time.Duration `yaml:"pause"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	c := &Config{
		Browser: BrowserConfig{
			Stealth: true,
			Args:    []string{"no-sandbox", "disable-dev-shm-usage", "disable-gpu"},
		},
		Timing: TimingConfig{
			SettleDelay: 2 * time.Second,
			Pause:       time.Second,
		},
	}
	c.applyDefaults()
	return c
}

// LoadFile reads a YAML configuration file. Keys absent from the file keep
// their Default value, so a zero settle_delay or pause can be set explicitly.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load is LoadFile that falls back to Default when path does not exist.
func Load(path string) (*Config, error) {
	cfg, err := LoadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Validate checks the portal URLs and compiles every link selector.
func (c *Config) Validate() error {
	for name, raw := range map[string]string{
		"portal.login_url":  c.Portal.LoginURL,
		"portal.search_url": c.Portal.SearchURL,
	} {
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("config: %s: %w", name, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("config: %s: scheme must be http or https, got %q", name, u.Scheme)
		}
	}
	for i, sel := range c.Portal.LinkSelectors {
		if _, err := cascadia.Compile(sel); err != nil {
			return fmt.Errorf("config: portal.link_selectors[%d] %q: %w", i, sel, err)
		}
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Input == "" {
		c.Input = "lista.json"
	}
	if c.Output == "" {
		c.Output = "processos_links.csv"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}

	p := &c.Portal
	if p.LoginURL == "" {
		p.LoginURL = "https://suap.ifsp.edu.br/"
	}
	if p.SearchURL == "" {
		p.SearchURL = "https://suap.ifsp.edu.br/admin/processo_eletronico/processo/"
	}
	if p.SearchInput == "" {
		p.SearchInput = "#searchbar"
	}
	if p.FilterButton == "" {
		p.FilterButton = "#button_filter"
	}
	if p.ResultsTable == "" {
		p.ResultsTable = "#result_list"
	}
	if len(p.LinkSelectors) == 0 {
		p.LinkSelectors = []string{
			"a.icon-view",
			`a[href*="/processo_eletronico/processo/"]`,
			"a",
		}
	}

	t := &c.Timing
	if t.WaitTimeout <= 0 {
		t.WaitTimeout = 10 * time.Second
	}
	if t.NavigationTimeout <= 0 {
		t.NavigationTimeout = 30 * time.Second
	}
	if t.SettleDelay < 0 {
		t.SettleDelay = 0
	}
	if t.Pause < 0 {
		t.Pause = 0
	}
}
