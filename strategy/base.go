package strategy

import (
	"context"

	"github.com/dmaragno/gomat/config"
	"github.com/dmaragno/gomat/exchange"
	"github.com/dmaragno/gomat/logger"
	"github.com/dmaragno/gomat/metrics"
	"github.com/dmaragno/gomat/state"
	"github.com/dmaragno/gomat/types"
)

// Base bundles the dependencies and helpers shared by both strategy
// variants: the exchange ports, the durable store, the shared aggregate
// and the structured logger.
type Base struct {
	Exchange exchange.Exchange
	Store    *state.Store
	Agg      *metrics.Aggregate
	Log      logger.Logger
	Cfg      config.Config

	asset string // base asset, e.g. "SOL"
	pair  string // trading pair, e.g. "SOLUSDT"
}

// NewBase validates the config and wires the shared dependencies.
func NewBase(asset string, cfg config.Config, ex exchange.Exchange,
	store *state.Store, agg *metrics.Aggregate, log logger.Logger) (*Base, error) {

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Base{
		Exchange: ex,
		Store:    store,
		Agg:      agg,
		Log:      log,
		Cfg:      cfg,
		asset:    asset,
		pair:     asset + cfg.QuoteAsset,
	}, nil
}

// Asset returns the base asset this instance trades.
func (b *Base) Asset() string { return b.asset }

// Pair returns the full trading pair symbol.
func (b *Base) Pair() string { return b.pair }

// observe polls the single price/balance snapshot every cycle decision is
// taken on.
func (b *Base) observe(ctx context.Context) (price float64, bal types.Balance, err error) {
	price, err = b.Exchange.Price(ctx, b.pair)
	if err != nil {
		return 0, types.Balance{}, err
	}
	bal, err = b.Exchange.Balances(ctx, b.asset, b.Cfg.QuoteAsset)
	if err != nil {
		return 0, types.Balance{}, err
	}
	return price, bal, nil
}

// submitOrder is a thin wrapper that logs the order either way.
func (b *Base) submitOrder(ctx context.Context, o types.Order, reason string) error {
	if err := b.Exchange.SubmitMarketOrder(ctx, o); err != nil {
		b.Log.Error("order_submit_failed",
			logger.String("symbol", o.Symbol),
			logger.String("side", string(o.Side)),
			logger.Float64("qty", o.Qty),
			logger.Err(err),
		)
		return err
	}
	b.Log.Info("order_submitted",
		logger.String("symbol", o.Symbol),
		logger.String("side", string(o.Side)),
		logger.Float64("qty", o.Qty),
		logger.Float64("price", o.Price),
		logger.String("reason", reason),
	)
	return nil
}
