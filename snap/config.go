package snap

import (
	"github.com/hazyhaar/ttsnap/snap/internal/config"
)

// Config is the top-level ttsnap configuration. Re-exported from internal.
type Config = config.Config

// SVGConfig controls the layout patches applied to the extracted SVG.
type SVGConfig = config.SVGConfig

// SelectorConfig is the structural contract with the remote page.
type SelectorConfig = config.SelectorConfig

// RetryConfig controls the fetch attempt budget.
type RetryConfig = config.RetryConfig

// BrowserConfig controls the per-attempt Chrome session.
type BrowserConfig = config.BrowserConfig

// ScheduleConfig controls unattended operation.
type ScheduleConfig = config.ScheduleConfig

// LoadConfigFile reads a YAML configuration file.
func LoadConfigFile(path string) (*Config, error) {
	return config.LoadFile(path)
}

// DefaultConfig returns the built-in configuration for the IUT timetable.
func DefaultConfig() *Config {
	return config.Default()
}
