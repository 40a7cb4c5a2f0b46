// Package render drives a headless browser session to the point where
// the target class's timetable SVG is present in the DOM, then captures
// the full page HTML.
//
// Every wait is a readiness signal with a timeout, never a bare sleep.
// The one fixed delay (SettleDelay) runs after the SVG has appeared, to
// let in-flight animation and layout finish before capture.
package render

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod/lib/proto"

	"github.com/hazyhaar/ttsnap/snap/internal/browser"
)

// Selectors are the structural contract with the remote page's markup.
type Selectors struct {
	ClassButton   string // opens the class dropdown
	DropdownPanel string // the panel that appears after the click
	DropdownItem  string // one selectable class entry
	SVG           string // presence signals the chart finished rendering
}

// Config configures a Renderer.
type Config struct {
	URL        string
	ClassIndex int
	Selectors  Selectors

	// NavTimeout bounds navigation + DOMContentLoaded. Default: 60s.
	NavTimeout time.Duration
	// WaitTimeout bounds each element wait. Default: 30s.
	WaitTimeout time.Duration
	// SettleDelay runs after the SVG presence signal. Default: 1.5s.
	SettleDelay time.Duration

	Browser browser.Config
	Logger  *slog.Logger
}

func (c *Config) defaults() {
	if c.NavTimeout <= 0 {
		c.NavTimeout = 60 * time.Second
	}
	if c.WaitTimeout <= 0 {
		c.WaitTimeout = 30 * time.Second
	}
	if c.SettleDelay <= 0 {
		c.SettleDelay = 1500 * time.Millisecond
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Renderer produces fully rendered timetable HTML. Each Render call owns
// an exclusive browser session, torn down before the call returns.
type Renderer struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a Renderer.
func New(cfg Config) *Renderer {
	cfg.defaults()
	if cfg.Browser.Logger == nil {
		cfg.Browser.Logger = cfg.Logger
	}
	return &Renderer{cfg: cfg, logger: cfg.Logger}
}

// Render runs the full acquisition protocol and returns the page HTML.
// Wait timeouts and navigation failures surface as *TimeoutError;
// a dropdown with too few entries surfaces as *MismatchError.
func (r *Renderer) Render(ctx context.Context) (string, error) {
	sess, err := browser.NewSession(r.cfg.Browser)
	if err != nil {
		return "", err
	}
	defer sess.Close()

	page := sess.Page().Context(ctx)
	sel := r.cfg.Selectors

	// Navigate and wait for structural DOM readiness. The target keeps
	// background connections open indefinitely, so a network-idle wait
	// would never complete; DOMContentLoaded is the usable signal.
	r.logger.Info("render: loading", "url", r.cfg.URL)
	nav := page.Timeout(r.cfg.NavTimeout)
	waitDOM := nav.WaitEvent(&proto.PageDomContentEventFired{})
	if err := nav.Navigate(r.cfg.URL); err != nil {
		return "", &TimeoutError{Step: "navigate", Err: err}
	}
	waitDOM()
	if err := nav.GetContext().Err(); err != nil {
		return "", &TimeoutError{Step: "dom content", Err: err}
	}

	// The class button must exist and be interactive before the click;
	// clicking a non-interactive element is a silent no-op that leaves
	// every downstream wait to time out.
	r.logger.Debug("render: waiting for class button", "selector", sel.ClassButton)
	btn, err := page.Timeout(r.cfg.WaitTimeout).Element(sel.ClassButton)
	if err != nil {
		return "", &TimeoutError{Step: "class button", Err: err}
	}
	if err := btn.Timeout(r.cfg.WaitTimeout).WaitVisible(); err != nil {
		return "", &TimeoutError{Step: "class button visible", Err: err}
	}
	if err := btn.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return "", &TimeoutError{Step: "class button click", Err: err}
	}

	if _, err := page.Timeout(r.cfg.WaitTimeout).Element(sel.DropdownPanel); err != nil {
		return "", &TimeoutError{Step: "dropdown panel", Err: err}
	}

	items, err := page.Elements(sel.DropdownItem)
	if err != nil {
		return "", &TimeoutError{Step: "dropdown items", Err: err}
	}
	// A short list means the page's structure or content changed, which
	// no timeout extension can fix. Fail with a distinct kind.
	if len(items) <= r.cfg.ClassIndex {
		return "", &MismatchError{
			Selector: sel.DropdownItem,
			Index:    r.cfg.ClassIndex,
			Found:    len(items),
		}
	}

	r.logger.Info("render: selecting class", "index", r.cfg.ClassIndex, "items", len(items))
	if err := items[r.cfg.ClassIndex].Click(proto.InputMouseButtonLeft, 1); err != nil {
		return "", &TimeoutError{Step: "class item click", Err: err}
	}

	// SVG presence is the readiness proxy for "chart finished rendering".
	r.logger.Debug("render: waiting for svg", "selector", sel.SVG)
	if _, err := page.Timeout(r.cfg.WaitTimeout).Element(sel.SVG); err != nil {
		return "", &TimeoutError{Step: "svg", Err: err}
	}

	// Bounded settle after the positive readiness signal.
	if err := settle(ctx, r.cfg.SettleDelay); err != nil {
		return "", &TimeoutError{Step: "settle", Err: err}
	}

	html, err := page.HTML()
	if err != nil {
		return "", fmt.Errorf("render: capture html: %w", err)
	}
	return html, nil
}

func settle(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
