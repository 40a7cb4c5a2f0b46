// Package config handles ttsnap configuration from YAML files.
package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level ttsnap configuration.
type Config struct {
	// URL is the timetable page to render.
	URL string `yaml:"url"`
	// ClassIndex is the ordinal of the class in the dropdown list.
	// A pointer so an explicit 0 (first class) is distinguishable from "unset".
	ClassIndex *int `yaml:"class_index"`
	// OutputPath is where the composed snapshot is written.
	OutputPath string `yaml:"output_path"`
	// Title is the heading shown above the timetable.
	Title string `yaml:"title"`
	// UTCOffsetHours fixes the timestamp zone independently of the host.
	// A pointer so an explicit 0 (UTC) is distinguishable from "unset".
	UTCOffsetHours *int `yaml:"utc_offset_hours"`

	SVG       SVGConfig      `yaml:"svg"`
	Selectors SelectorConfig `yaml:"selectors"`
	Retry     RetryConfig    `yaml:"retry"`
	Browser   BrowserConfig  `yaml:"browser"`
	Schedule  ScheduleConfig `yaml:"schedule"`
}

// SVGConfig controls the layout patches applied to the extracted SVG.
type SVGConfig struct {
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	Scale  float64 `yaml:"scale"`
}

// SelectorConfig is the contract with the remote page's markup. The page
// can change independently of this system, so these stay configurable.
type SelectorConfig struct {
	ClassButton   string `yaml:"class_button"`
	DropdownPanel string `yaml:"dropdown_panel"`
	DropdownItem  string `yaml:"dropdown_item"`
	SVG           string `yaml:"svg"`
}

// RetryConfig controls the attempt budget of the fetcher.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	Delay       time.Duration `yaml:"delay"`
}

// BrowserConfig controls the per-attempt Chrome session.
type BrowserConfig struct {
	UserAgent      string        `yaml:"user_agent"`
	ViewportWidth  int           `yaml:"viewport_width"`
	ViewportHeight int           `yaml:"viewport_height"`
	NavTimeout     time.Duration `yaml:"nav_timeout"`
	WaitTimeout    time.Duration `yaml:"wait_timeout"`
	SettleDelay    time.Duration `yaml:"settle_delay"`
}

// ScheduleConfig controls unattended operation.
type ScheduleConfig struct {
	// Interval between runs. Zero means a single run.
	Interval time.Duration `yaml:"interval"`
	// ServeAddr exposes the snapshot over HTTP when non-empty.
	ServeAddr string `yaml:"serve_addr"`
}

// LoadFile reads a YAML configuration file and applies defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// Default returns the built-in configuration for the IUT timetable.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills in every unset option.
func (c *Config) ApplyDefaults() {
	if c.URL == "" {
		c.URL = "https://iut.edupage.org/timetable/"
	}
	if c.ClassIndex == nil {
		index := 31
		c.ClassIndex = &index
	}
	if c.OutputPath == "" {
		c.OutputPath = "index.html"
	}
	if c.Title == "" {
		c.Title = "IUT Timetable"
	}
	if c.UTCOffsetHours == nil {
		offset := 5
		c.UTCOffsetHours = &offset
	}
	if c.SVG.Width <= 0 {
		c.SVG.Width = 900
	}
	if c.SVG.Height <= 0 {
		c.SVG.Height = 600
	}
	if c.SVG.Scale <= 0 {
		c.SVG.Scale = 0.3
	}
	if c.Selectors.ClassButton == "" {
		c.Selectors.ClassButton = "span[title='Classes']"
	}
	if c.Selectors.DropdownPanel == "" {
		c.Selectors.DropdownPanel = ".dropDownPanel"
	}
	if c.Selectors.DropdownItem == "" {
		c.Selectors.DropdownItem = ".dropDownPanel li"
	}
	if c.Selectors.SVG == "" {
		c.Selectors.SVG = "svg"
	}
	if c.Retry.MaxAttempts <= 0 {
		c.Retry.MaxAttempts = 3
	}
	if c.Retry.Delay <= 0 {
		c.Retry.Delay = 10 * time.Second
	}
	if c.Browser.UserAgent == "" {
		c.Browser.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
			"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122 Safari/537.36"
	}
	if c.Browser.ViewportWidth <= 0 {
		c.Browser.ViewportWidth = 1920
	}
	if c.Browser.ViewportHeight <= 0 {
		c.Browser.ViewportHeight = 1080
	}
	if c.Browser.NavTimeout <= 0 {
		c.Browser.NavTimeout = 60 * time.Second
	}
	if c.Browser.WaitTimeout <= 0 {
		c.Browser.WaitTimeout = 30 * time.Second
	}
	if c.Browser.SettleDelay <= 0 {
		c.Browser.SettleDelay = 1500 * time.Millisecond
	}
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	parsed, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("config: invalid url: %w", err)
	}
	if parsed.Host == "" {
		return fmt.Errorf("config: url must include a host")
	}
	if c.Class() < 0 {
		return fmt.Errorf("config: class_index cannot be negative")
	}
	if c.OutputPath == "" {
		return fmt.Errorf("config: output_path cannot be empty")
	}
	if c.SVG.Width <= 0 || c.SVG.Height <= 0 {
		return fmt.Errorf("config: svg dimensions must be positive")
	}
	if c.SVG.Scale <= 0 {
		return fmt.Errorf("config: svg scale must be positive")
	}
	if c.Retry.MaxAttempts <= 0 {
		return fmt.Errorf("config: retry max_attempts must be positive")
	}
	if c.Retry.Delay < 0 {
		return fmt.Errorf("config: retry delay cannot be negative")
	}
	if c.Schedule.Interval < 0 {
		return fmt.Errorf("config: schedule interval cannot be negative")
	}
	return nil
}

// Class returns the configured class ordinal.
func (c *Config) Class() int {
	if c.ClassIndex == nil {
		return 31
	}
	return *c.ClassIndex
}

// Location returns the fixed zone used for the freshness timestamp.
func (c *Config) Location() *time.Location {
	offset := 5
	if c.UTCOffsetHours != nil {
		offset = *c.UTCOffsetHours
	}
	return time.FixedZone(fmt.Sprintf("UTC%+d", offset), offset*3600)
}
