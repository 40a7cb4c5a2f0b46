// Package browser manages one disposable Chrome headless session per
// fetch attempt: launch, connect via Rod, open a stealth page with a
// realistic viewport and user-agent, and guaranteed teardown.
package browser

import (
	"fmt"
	"log/slog"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// Config configures a browser session.
type Config struct {
	// UserAgent sent by the page. The target serves degraded content to
	// bot-like clients, so a realistic desktop UA is required.
	UserAgent string

	// Viewport dimensions. Default: 1920x1080.
	ViewportWidth  int
	ViewportHeight int

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.ViewportWidth <= 0 {
		c.ViewportWidth = 1920
	}
	if c.ViewportHeight <= 0 {
		c.ViewportHeight = 1080
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Session is a single-use Chrome instance with one open page.
// Sessions are never shared or reused across attempts.
type Session struct {
	browser *rod.Browser
	lnch    *launcher.Launcher
	page    *rod.Page
	logger  *slog.Logger
}

// NewSession launches Chrome and opens a stealth page. On any error the
// partially started process is torn down before returning.
func NewSession(cfg Config) (*Session, error) {
	cfg.defaults()
	log := cfg.Logger

	l := launcher.New().
		Headless(true).
		NoSandbox(true).
		Set("disable-dev-shm-usage").
		Set("disable-setuid-sandbox").
		Set("disable-gpu").
		Set("disable-blink-features", "AutomationControlled")

	u, err := l.Launch()
	if err != nil {
		l.Cleanup()
		return nil, fmt.Errorf("browser: launch: %w", err)
	}

	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		l.Cleanup()
		return nil, fmt.Errorf("browser: connect: %w", err)
	}

	s := &Session{browser: b, lnch: l, logger: log}

	page, err := stealth.Page(b)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("browser: create page: %w", err)
	}
	s.page = page

	if cfg.UserAgent != "" {
		err = (proto.NetworkSetUserAgentOverride{UserAgent: cfg.UserAgent}).Call(page)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("browser: set user agent: %w", err)
		}
	}

	err = page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             cfg.ViewportWidth,
		Height:            cfg.ViewportHeight,
		DeviceScaleFactor: 1,
	})
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("browser: set viewport: %w", err)
	}

	log.Debug("browser: session started", "ws", u)
	return s, nil
}

// Page returns the session's page.
func (s *Session) Page() *rod.Page {
	return s.page
}

// Close tears down the page, the browser, and the launched Chrome
// process. Safe to call after a partial start; must run whether the
// attempt succeeded or not, so failed attempts don't leak processes.
func (s *Session) Close() {
	if s.page != nil {
		if err := s.page.Close(); err != nil {
			s.logger.Debug("browser: close page", "error", err)
		}
		s.page = nil
	}
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			s.logger.Debug("browser: close browser", "error", err)
		}
		s.browser = nil
	}
	if s.lnch != nil {
		s.lnch.Cleanup()
		s.lnch = nil
	}
}
