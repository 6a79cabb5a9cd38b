// Package runner owns process lifetime: it spawns one worker per tracked
// asset, drives each strategy's cycle loop at a fixed cadence and applies
// the uniform log/retry treatment to cycle outcomes. It performs no
// decision logic itself.
package runner

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmaragno/gomat/logger"
	"github.com/dmaragno/gomat/metrics"
	"github.com/dmaragno/gomat/strategy"
)

// Runner drives a set of per-asset strategies concurrently.
type Runner struct {
	strategies []strategy.Strategy
	interval   time.Duration
	log        logger.Logger
}

// New builds a runner over the given strategies. interval is the fixed
// delay between cycles of each worker.
func New(strategies []strategy.Strategy, interval time.Duration, log logger.Logger) *Runner {
	return &Runner{strategies: strategies, interval: interval, log: log}
}

// Run bootstraps every strategy and then loops each one until the context
// is cancelled. A bootstrap failure aborts the whole group; cycle
// failures never do, they are logged and retried on the next tick.
func (r *Runner) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, s := range r.strategies {
		g.Go(func() error {
			return r.work(gctx, s)
		})
	}
	return g.Wait()
}

func (r *Runner) work(ctx context.Context, s strategy.Strategy) error {
	if err := s.Bootstrap(ctx); err != nil {
		r.log.Error("bootstrap_failed",
			logger.String("asset", s.Asset()),
			logger.Err(err),
		)
		return err
	}

	for {
		out := s.Cycle(ctx)
		metrics.CyclesTotal.WithLabelValues(s.Asset(), out.Status.String()).Inc()

		switch out.Status {
		case strategy.StatusRetry:
			r.log.Warn("cycle_retry",
				logger.String("asset", s.Asset()),
				logger.String("reason", out.Reason),
				logger.Err(out.Err),
			)
		case strategy.StatusSkipped:
			r.log.Info("cycle_skipped",
				logger.String("asset", s.Asset()),
				logger.String("reason", out.Reason),
			)
		case strategy.StatusTraded:
			r.log.Info("cycle_traded",
				logger.String("asset", s.Asset()),
				logger.String("reason", out.Reason),
			)
		}

		// Interruptible inter-cycle delay: shutdown never waits out a tick.
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.interval):
		}
	}
}
