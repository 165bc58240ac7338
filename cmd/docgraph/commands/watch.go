package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/docgraph/internal/generator"
	"git.home.luguber.info/inful/docgraph/internal/retry"
	"git.home.luguber.info/inful/docgraph/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	PathArgs `embed:""`

	Debounce      string `help:"Quiet period before regenerating (e.g. 500ms)"`
	Interval      string `help:"Also regenerate on this interval (e.g. 10m)"`
	MetricsListen string `name:"metrics-listen" help:"Serve Prometheus metrics on this address"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root, w.PathArgs)
	if err != nil {
		return err
	}
	if w.Debounce != "" {
		cfg.Watch.Debounce = w.Debounce
	}
	if w.Interval != "" {
		cfg.Watch.Interval = w.Interval
	}
	if w.MetricsListen != "" {
		cfg.Metrics.Listen = w.MetricsListen
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	gen, reg := newGenerator(cfg)
	if cfg.Metrics.Listen != "" {
		srv, err := watch.NewMetricsServer(cfg.Metrics.Listen, reg)
		if err != nil {
			return fmt.Errorf("start metrics server: %w", err)
		}
		go srv.Serve(ctx)
	}

	watcher, err := watch.New(gen, watch.Options{
		Index:      cfg.Paths.Index,
		SiteConfig: cfg.Paths.SiteConfig,
		InputDir:   cfg.Paths.InputDir,
		BuildFile:  cfg.Paths.BuildFile,
		Debounce:   cfg.Watch.DebounceDuration(),
		Interval:   cfg.Watch.IntervalDuration(),
		Retry:      retry.NewPolicy(retry.BackoffLinear, cfg.Watch.DebounceDuration(), 30*time.Second, cfg.Watch.MaxRetries),
		OnResult: func(res *generator.Result, err error) {
			writeTextfile(cfg, reg)
			if err == nil && res.Written {
				slog.Info("Build file updated", "path", cfg.Paths.BuildFile, "sha256", shortHash(res.Hash))
			}
		},
	})
	if err != nil {
		return err
	}
	return watcher.Run(ctx)
}
