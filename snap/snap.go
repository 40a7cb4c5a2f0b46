// Package snap implements the timetable snapshot pipeline: a retrying
// browser-driven fetch of a JavaScript-rendered timetable page, SVG
// extraction and layout patching, and publication of a self-contained
// HTML snapshot with a freshness timestamp.
//
// Stages run strictly sequentially (render, extract, compose, publish);
// each stage owns its input and hands an immutable result to the next.
// Only renderer failures are retried. The pipeline has no outer deadline
// of its own; callers bound the whole run by cancelling the context.
package snap

import (
	"context"
	"log/slog"
	"time"

	"github.com/hazyhaar/ttsnap/snap/internal/browser"
	"github.com/hazyhaar/ttsnap/snap/internal/compose"
	"github.com/hazyhaar/ttsnap/snap/internal/config"
	"github.com/hazyhaar/ttsnap/snap/internal/publish"
	"github.com/hazyhaar/ttsnap/snap/internal/render"
	"github.com/hazyhaar/ttsnap/snap/internal/svgpatch"
)

// Publisher writes the composed snapshot to its stable location.
type Publisher interface {
	Publish(data []byte) error
}

// Service is the pipeline orchestrator. Create one per configuration.
type Service struct {
	cfg       *config.Config
	logger    *slog.Logger
	metrics   *Metrics
	renderer  Renderer
	fetcher   *Fetcher
	composer  *compose.Composer
	publisher Publisher
	sleep     SleepFunc
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithRenderer replaces the browser-backed renderer. Tests use this to
// run the pipeline without Chrome.
func WithRenderer(r Renderer) Option {
	return func(s *Service) { s.renderer = r }
}

// WithPublisher replaces the file-backed publisher.
func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithMetrics attaches pipeline metrics.
func WithMetrics(m *Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithServiceSleep replaces the inter-attempt sleep of the fetcher.
func WithServiceSleep(fn SleepFunc) Option {
	return func(s *Service) { s.sleep = fn }
}

// WithNow replaces the timestamp source.
func WithNow(fn func() time.Time) Option {
	return func(s *Service) { s.now = fn }
}

// New creates a Service from configuration.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Service, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Service{
		cfg:      cfg,
		logger:   logger,
		composer: compose.New(cfg.Title, cfg.Location()),
		now:      time.Now,
	}
	for _, o := range opts {
		o(s)
	}

	if s.renderer == nil {
		s.renderer = render.New(render.Config{
			URL:        cfg.URL,
			ClassIndex: cfg.Class(),
			Selectors: render.Selectors{
				ClassButton:   cfg.Selectors.ClassButton,
				DropdownPanel: cfg.Selectors.DropdownPanel,
				DropdownItem:  cfg.Selectors.DropdownItem,
				SVG:           cfg.Selectors.SVG,
			},
			NavTimeout:  cfg.Browser.NavTimeout,
			WaitTimeout: cfg.Browser.WaitTimeout,
			SettleDelay: cfg.Browser.SettleDelay,
			Browser: browser.Config{
				UserAgent:      cfg.Browser.UserAgent,
				ViewportWidth:  cfg.Browser.ViewportWidth,
				ViewportHeight: cfg.Browser.ViewportHeight,
				Logger:         logger,
			},
			Logger: logger,
		})
	}
	if s.publisher == nil {
		s.publisher = publish.NewFileWriter(cfg.OutputPath)
	}

	fetchOpts := []FetcherOption{WithFetcherMetrics(s.metrics)}
	if s.sleep != nil {
		fetchOpts = append(fetchOpts, WithSleep(s.sleep))
	}
	s.fetcher = NewFetcher(s.renderer, cfg.Retry.MaxAttempts, cfg.Retry.Delay, logger, fetchOpts...)

	return s, nil
}

// Run executes one full pipeline pass. Renderer failures are retried by
// the fetcher; extraction, composition, and publish failures propagate
// immediately.
func (s *Service) Run(ctx context.Context) (err error) {
	start := s.now()
	defer func() { s.metrics.observeRun(start, err) }()

	s.logger.Info("snap: fetching timetable", "url", s.cfg.URL, "class", s.cfg.Class())
	rawHTML, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return err
	}

	s.logger.Info("snap: extracting svg", "html_bytes", len(rawHTML))
	svg, err := svgpatch.Extract(rawHTML, svgpatch.Options{
		Width:  s.cfg.SVG.Width,
		Height: s.cfg.SVG.Height,
		Scale:  s.cfg.SVG.Scale,
	})
	if err != nil {
		return err
	}

	doc, err := s.composer.Page(svg, s.now())
	if err != nil {
		return err
	}

	if err = s.publisher.Publish(doc); err != nil {
		return err
	}

	s.logger.Info("snap: snapshot published",
		"path", s.cfg.OutputPath, "updated", s.composer.Stamp(s.now()))
	return nil
}

// RunEvery runs the pipeline on a fixed interval, starting immediately.
// In loop mode a failed run is logged and the next tick proceeds; only
// context cancellation stops the loop. Blocks until ctx is done.
func (s *Service) RunEvery(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return s.Run(ctx)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if err := s.Run(ctx); err != nil {
		s.logger.Error("snap: run failed", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.Run(ctx); err != nil {
				s.logger.Error("snap: run failed", "error", err)
			}
		}
	}
}
