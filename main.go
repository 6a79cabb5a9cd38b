package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"github.com/dmaragno/gomat/config"
	"github.com/dmaragno/gomat/exchange"
	"github.com/dmaragno/gomat/logger"
	"github.com/dmaragno/gomat/metrics"
	"github.com/dmaragno/gomat/runner"
	"github.com/dmaragno/gomat/state"
	"github.com/dmaragno/gomat/strategy"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}
	if cfg.APIKey == "" || cfg.APISecret == "" {
		log.Fatal("API_KEY and API_SECRET must be set")
	}

	zl, err := logger.NewZapLogger()
	if err != nil {
		log.Fatalf("logger setup failed: %v", err)
	}

	store, loaded := state.Open(cfg.StatePath)
	totals := store.Totals()
	agg := metrics.NewAggregate(totals.TotalCompras, totals.TotalVendas, totals.GanhosAcumulados)
	zl.Info("state_loaded",
		logger.String("path", cfg.StatePath),
		logger.Bool("restored", loaded),
		logger.Int("total_buys", totals.TotalCompras),
		logger.Int("total_sells", totals.TotalVendas),
		logger.Float64("realized_gain", totals.GanhosAcumulados),
	)

	ex := exchange.NewBinance(cfg.APIKey, cfg.APISecret)

	strategies := make([]strategy.Strategy, 0, len(cfg.Assets))
	for _, asset := range cfg.Assets {
		var (
			s   strategy.Strategy
			err error
		)
		switch cfg.Strategy {
		case config.StrategyBreakout:
			s, err = strategy.NewPercentBreakout(asset, cfg, ex, store, agg, zl)
		default:
			s, err = strategy.NewTrailingStop(asset, cfg, ex, store, agg, zl)
		}
		if err != nil {
			log.Fatalf("strategy setup failed for %s: %v", asset, err)
		}
		strategies = append(strategies, s)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	zl.Info("controller_started",
		logger.String("strategy", cfg.Strategy),
		logger.Int("assets", len(strategies)),
	)

	r := runner.New(strategies, cfg.PollInterval, zl)
	if err := r.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		zl.Error("controller_stopped", logger.Err(err))
	}

	summary := agg.Snapshot()
	zl.Info("controller_shutdown",
		logger.Int("total_buys", summary.TotalBuys),
		logger.Int("total_sells", summary.TotalSells),
		logger.Float64("realized_gain", summary.RealizedGain),
	)
}
