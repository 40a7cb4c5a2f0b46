package snap

import (
	"context"
	"log/slog"
	"time"
)

// Renderer produces fully rendered timetable page HTML. Each call owns
// an exclusive browser session.
type Renderer interface {
	Render(ctx context.Context) (string, error)
}

// SleepFunc suspends between attempts. Tests inject a recording clock.
type SleepFunc func(ctx context.Context, d time.Duration) error

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Fetcher wraps a Renderer with a bounded retry policy: a fixed number
// of attempts separated by a constant delay. No jitter, no backoff.
// Every renderer error is retried uniformly, including structure
// mismatches; on exhaustion the last error is returned unmodified so
// its kind survives to the caller.
type Fetcher struct {
	renderer Renderer
	attempts int
	delay    time.Duration
	sleep    SleepFunc
	logger   *slog.Logger
	metrics  *Metrics
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithSleep replaces the inter-attempt sleep.
func WithSleep(fn SleepFunc) FetcherOption {
	return func(f *Fetcher) { f.sleep = fn }
}

// WithFetcherMetrics records per-attempt outcomes.
func WithFetcherMetrics(m *Metrics) FetcherOption {
	return func(f *Fetcher) { f.metrics = m }
}

// NewFetcher creates a Fetcher. attempts <= 0 defaults to 3, delay <= 0
// to 10 seconds.
func NewFetcher(r Renderer, attempts int, delay time.Duration, logger *slog.Logger, opts ...FetcherOption) *Fetcher {
	if attempts <= 0 {
		attempts = 3
	}
	if delay <= 0 {
		delay = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	f := &Fetcher{
		renderer: r,
		attempts: attempts,
		delay:    delay,
		sleep:    sleepCtx,
		logger:   logger,
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Fetch runs the renderer until it succeeds or the attempt budget is
// spent, returning the last error on exhaustion.
func (f *Fetcher) Fetch(ctx context.Context) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= f.attempts; attempt++ {
		f.logger.Info("fetch: attempt", "attempt", attempt, "max", f.attempts)

		html, err := f.renderer.Render(ctx)
		f.metrics.observeAttempt(err)
		if err == nil {
			return html, nil
		}

		lastErr = err
		f.logger.Warn("fetch: attempt failed", "attempt", attempt, "error", err)

		if attempt < f.attempts {
			f.logger.Info("fetch: retrying", "delay", f.delay)
			if err := f.sleep(ctx, f.delay); err != nil {
				return "", err
			}
		}
	}
	return "", lastErr
}
