package suaplinks

import (
	"github.com/hazyhaar/suaplinks/internal/config"
)

// Config is the top-level suaplinks configuration. Re-exported from internal.
type Config = config.Config

// PortalConfig describes the portal pages and elements.
type PortalConfig = config.PortalConfig

// BrowserConfig controls Chrome launch.
type BrowserConfig = config.BrowserConfig

// TimingConfig holds the fixed waits of a run.
type TimingConfig = config.TimingConfig

// DefaultConfigFile is read from the working directory when present.
const DefaultConfigFile = config.DefaultFile

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return config.Default()
}

// LoadConfig reads path, falling back to DefaultConfig when it does not exist.
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}
