// Command ttsnap renders the IUT timetable page in headless Chrome,
// extracts and patches the SVG chart, and publishes a self-contained
// HTML snapshot.
//
// Usage:
//
//	ttsnap                                  # one snapshot with defaults
//	ttsnap -config ttsnap.yaml              # run with config file
//	ttsnap -class 12 -out /srv/www/tt.html  # override class and output
//	ttsnap -interval 15m                    # refresh on a schedule
//	ttsnap -interval 15m -serve :8080       # schedule + HTTP serving
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hazyhaar/ttsnap/snap"
)

func main() {
	configPath := flag.String("config", "", "path to ttsnap.yaml config file")
	url := flag.String("url", "", "timetable page URL")
	class := flag.Int("class", -1, "class index in the dropdown list")
	out := flag.String("out", "", "output path for the snapshot")
	interval := flag.Duration("interval", 0, "refresh interval (0 = single run)")
	serveAddr := flag.String("serve", "", "HTTP listen address for serving the snapshot")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, *configPath, *url, *class, *out, *interval, *serveAddr); err != nil {
		logger.Error("ttsnap: fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, configPath, url string, class int, out string, interval time.Duration, serveAddr string) error {
	cfg, err := resolveConfig(configPath)
	if err != nil {
		return err
	}

	// Flags override the file.
	if url != "" {
		cfg.URL = url
	}
	if class >= 0 {
		cfg.ClassIndex = &class
	}
	if out != "" {
		cfg.OutputPath = out
	}
	if interval > 0 {
		cfg.Schedule.Interval = interval
	}
	if serveAddr != "" {
		cfg.Schedule.ServeAddr = serveAddr
	}

	metrics := snap.NewMetrics()
	svc, err := snap.New(cfg, logger, snap.WithMetrics(metrics))
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}

	// Single run, no server: do the work and exit.
	if cfg.Schedule.Interval <= 0 && cfg.Schedule.ServeAddr == "" {
		return svc.Run(ctx)
	}

	g, ctx := errgroup.WithContext(ctx)

	if cfg.Schedule.ServeAddr != "" {
		handler := snap.Handler(cfg.OutputPath, metrics)
		g.Go(func() error {
			return snap.Serve(ctx, cfg.Schedule.ServeAddr, handler, logger)
		})
	}

	g.Go(func() error {
		if cfg.Schedule.Interval > 0 {
			err := svc.RunEvery(ctx, cfg.Schedule.Interval)
			if err != nil && ctx.Err() != nil {
				return nil
			}
			return err
		}
		// Serving with no interval: publish once, then keep serving.
		if err := svc.Run(ctx); err != nil {
			logger.Error("ttsnap: run failed", "error", err)
		}
		return nil
	})

	return g.Wait()
}

func resolveConfig(configPath string) (*snap.Config, error) {
	if configPath != "" {
		return snap.LoadConfigFile(configPath)
	}
	return snap.DefaultConfig(), nil
}
