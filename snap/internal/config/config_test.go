package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	if got, want := cfg.URL, "https://iut.edupage.org/timetable/"; got != want {
		t.Errorf("URL = %q, want %q", got, want)
	}
	if got, want := cfg.Class(), 31; got != want {
		t.Errorf("Class() = %d, want %d", got, want)
	}
	if got, want := cfg.SVG.Width, 900; got != want {
		t.Errorf("SVG.Width = %d, want %d", got, want)
	}
	if got, want := cfg.SVG.Height, 600; got != want {
		t.Errorf("SVG.Height = %d, want %d", got, want)
	}
	if got, want := cfg.SVG.Scale, 0.3; got != want {
		t.Errorf("SVG.Scale = %g, want %g", got, want)
	}
	if got, want := cfg.Retry.MaxAttempts, 3; got != want {
		t.Errorf("Retry.MaxAttempts = %d, want %d", got, want)
	}
	if got, want := cfg.Retry.Delay, 10*time.Second; got != want {
		t.Errorf("Retry.Delay = %v, want %v", got, want)
	}
	if got, want := cfg.Selectors.DropdownItem, ".dropDownPanel li"; got != want {
		t.Errorf("Selectors.DropdownItem = %q, want %q", got, want)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
url: https://example.org/tt/
class_index: 4
output_path: /srv/www/index.html
title: Group B Timetable
utc_offset_hours: 2
svg:
  width: 1200
  height: 800
  scale: 0.5
retry:
  max_attempts: 5
  delay: 2s
schedule:
  interval: 15m
  serve_addr: ":8080"
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if got, want := cfg.URL, "https://example.org/tt/"; got != want {
		t.Errorf("URL = %q, want %q", got, want)
	}
	if got, want := cfg.Class(), 4; got != want {
		t.Errorf("Class() = %d, want %d", got, want)
	}
	if got, want := cfg.SVG.Scale, 0.5; got != want {
		t.Errorf("SVG.Scale = %g, want %g", got, want)
	}
	if got, want := cfg.Retry.Delay, 2*time.Second; got != want {
		t.Errorf("Retry.Delay = %v, want %v", got, want)
	}
	if got, want := cfg.Schedule.Interval, 15*time.Minute; got != want {
		t.Errorf("Schedule.Interval = %v, want %v", got, want)
	}
	if got, want := cfg.Schedule.ServeAddr, ":8080"; got != want {
		t.Errorf("Schedule.ServeAddr = %q, want %q", got, want)
	}
	// Unset options still get defaults.
	if got, want := cfg.Selectors.ClassButton, "span[title='Classes']"; got != want {
		t.Errorf("Selectors.ClassButton = %q, want %q", got, want)
	}
	if got, want := cfg.Browser.NavTimeout, 60*time.Second; got != want {
		t.Errorf("Browser.NavTimeout = %v, want %v", got, want)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestExplicitZerosHonored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
class_index: 0
utc_offset_hours: 0
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	// An explicit 0 must not be replaced by the default.
	if got := cfg.Class(); got != 0 {
		t.Errorf("Class() = %d, want 0", got)
	}
	ref := time.Date(2026, 8, 23, 7, 0, 0, 0, time.UTC)
	if got := ref.In(cfg.Location()).Hour(); got != 7 {
		t.Errorf("hour in zero-offset zone = %d, want 7", got)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"url without host", func(c *Config) { c.URL = "not-a-url" }},
		{"negative class", func(c *Config) { idx := -1; c.ClassIndex = &idx }},
		{"empty output path", func(c *Config) { c.OutputPath = "" }},
		{"zero svg width", func(c *Config) { c.SVG.Width = 0 }},
		{"zero scale", func(c *Config) { c.SVG.Scale = 0 }},
		{"zero attempts", func(c *Config) { c.Retry.MaxAttempts = 0 }},
		{"negative delay", func(c *Config) { c.Retry.Delay = -time.Second }},
		{"negative interval", func(c *Config) { c.Schedule.Interval = -time.Minute }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLocationDefault(t *testing.T) {
	cfg := &Config{}
	ref := time.Date(2026, 8, 23, 7, 4, 0, 0, time.UTC)
	got := ref.In(cfg.Location())
	if got.Hour() != 12 || got.Minute() != 4 {
		t.Errorf("time in default zone = %02d:%02d, want 12:04", got.Hour(), got.Minute())
	}
}
