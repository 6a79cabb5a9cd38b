package strategy

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmaragno/gomat/config"
	"github.com/dmaragno/gomat/exchange"
	"github.com/dmaragno/gomat/indicator"
	"github.com/dmaragno/gomat/logger"
	"github.com/dmaragno/gomat/metrics"
	"github.com/dmaragno/gomat/risk"
	"github.com/dmaragno/gomat/state"
	"github.com/dmaragno/gomat/types"
)

// TrailingStop trades one asset with oversold entries and a ratcheting
// exit: a buy waits for an oversold momentum reading at the support level
// of a rolling close window, and the position rides a stop that only ever
// moves up while the price gains. The full asset context is rewritten to
// the durable store every cycle so a restart resumes with the same window,
// bounds and stop.
type TrailingStop struct {
	*Base

	window       *priceWindow
	basePrice    float64 // doubles as the purchase anchor while holding
	trailingStop *float64

	// worker-local counters, persisted but never shared
	buys  int
	sells int
	gain  float64
}

// NewTrailingStop wires variant B for one asset.
func NewTrailingStop(asset string, cfg config.Config, ex exchange.Exchange,
	store *state.Store, agg *metrics.Aggregate, log logger.Logger) (*TrailingStop, error) {

	base, err := NewBase(asset, cfg, ex, store, agg, log)
	if err != nil {
		return nil, err
	}
	return &TrailingStop{Base: base}, nil
}

// Bootstrap restores the persisted context, seeds the close window from
// historical klines when none survived, and reconciles the loaded record
// against the live balance: the exchange is authoritative, so a trailing
// stop without a position behind it is stale and gets cleared.
func (t *TrailingStop) Bootstrap(ctx context.Context) error {
	rec, ok := t.Store.Asset(t.Asset())
	if ok {
		t.basePrice = rec.PrecoBase
		t.trailingStop = rec.TrailingStop
		t.gain = rec.GanhosAcumulados
		t.buys = rec.TotalCompras
		t.sells = rec.TotalVendas
	}

	seed := rec.Historico
	if len(seed) == 0 {
		closes, err := t.Exchange.HistoricalCloses(ctx, t.Pair(), t.Cfg.HistoryInterval, t.Cfg.HistoryWindow)
		if err != nil {
			return err
		}
		seed = closes
	}
	t.window = newPriceWindow(t.Cfg.HistoryWindow, seed)

	if t.basePrice == 0 {
		price, err := t.Exchange.Price(ctx, t.Pair())
		if err != nil {
			return err
		}
		t.basePrice = price
	}

	bal, err := t.Exchange.Balances(ctx, t.Asset(), t.Cfg.QuoteAsset)
	if err != nil {
		return err
	}
	if bal.AssetFree < t.Cfg.DustQtyFloor && t.trailingStop != nil {
		t.Log.Warn("stale_trailing_stop_cleared",
			logger.String("asset", t.Asset()),
			logger.Float64("trailing_stop", *t.trailingStop),
			logger.Float64("asset_free", bal.AssetFree),
		)
		t.trailingStop = nil
	}

	if err := t.persist(); err != nil {
		return err
	}
	t.Log.Info("monitoring_started",
		logger.String("asset", t.Asset()),
		logger.Float64("base_price", t.basePrice),
		logger.Int("history", t.window.Len()),
	)
	return nil
}

// Cycle appends the polled price to the window, recomputes the derived
// levels, manages the trailing stop and evaluates the exit before the
// entry on the same snapshot. The context is persisted every cycle,
// trade or not.
func (t *TrailingStop) Cycle(ctx context.Context) Outcome {
	price, bal, err := t.observe(ctx)
	if err != nil {
		return Retry("observe", err)
	}

	t.window.Add(price)
	support := t.window.Support()
	resistance := t.window.Resistance()

	osc, err := indicator.MomentumOscillator(t.window.Values(), t.Cfg.OscillatorPeriod)
	if err != nil {
		if persistErr := t.persist(); persistErr != nil {
			t.Log.Warn("state_persist_failed", logger.String("asset", t.Asset()), logger.Err(persistErr))
		}
		if errors.Is(err, indicator.ErrInsufficientData) {
			return Skipped("window warming up")
		}
		return Retry("oscillator", err)
	}

	holding := bal.AssetFree > t.Cfg.DustQtyFloor

	// The stop only ever rises while the position is held.
	if holding {
		stop := price * (1 - t.Cfg.TrailingStopPct/100)
		if t.trailingStop == nil || stop > *t.trailingStop {
			t.trailingStop = &stop
			t.Log.Info("trailing_stop_raised",
				logger.String("asset", t.Asset()),
				logger.Float64("trailing_stop", stop),
				logger.Float64("price", price),
			)
		}
	}

	t.Log.Info("cycle",
		logger.String("asset", t.Asset()),
		logger.Float64("price", price),
		logger.Float64("oscillator", osc),
		logger.Float64("support", support),
		logger.Float64("resistance", resistance),
		logger.Float64("asset_free", bal.AssetFree),
		logger.Float64("quote_free", bal.QuoteFree),
		logger.Float64("accumulated_gain", t.gain),
		logger.Int("sells", t.sells),
		logger.Int("buys", t.buys),
	)

	var out Outcome
	switch {
	case holding && t.trailingStop != nil && price <= *t.trailingStop:
		out = t.sell(ctx, price, bal.AssetFree)
	case !holding && osc < t.Cfg.OscillatorOversold && price <= support:
		out = t.buy(ctx, price, bal.QuoteFree)
	default:
		out = Held("no_signal")
	}

	if err := t.persist(); err != nil {
		t.Log.Warn("state_persist_failed", logger.String("asset", t.Asset()), logger.Err(err))
	}
	return out
}

func (t *TrailingStop) sell(ctx context.Context, price, assetFree float64) Outcome {
	lot, err := t.Exchange.LotFilter(ctx, t.Pair())
	if err != nil {
		return Retry("lot_filter", err)
	}
	qty := risk.AdjustQuantity(assetFree, lot.StepSize)
	if qty < lot.MinQty {
		return Skipped(fmt.Sprintf("sell quantity %v below minimum lot %v", qty, lot.MinQty))
	}

	order := types.Order{
		Symbol:  t.Pair(),
		Side:    types.Sell,
		Qty:     qty,
		Price:   price,
		Comment: fmt.Sprintf("trailing stop hit at %v", *t.trailingStop),
	}
	if err := t.submitOrder(ctx, order, "trailing_stop"); err != nil {
		return Retry("sell_order", err)
	}

	realized := qty * (price - t.basePrice)
	t.gain += realized
	t.sells++
	t.trailingStop = nil
	t.Agg.RecordSell(t.Asset(), realized)
	if err := t.Store.AddTotals(realized, 0, 1); err != nil {
		t.Log.Warn("totals_persist_failed", logger.String("asset", t.Asset()), logger.Err(err))
	}
	return Traded("sell")
}

func (t *TrailingStop) buy(ctx context.Context, price, quoteFree float64) Outcome {
	lot, err := t.Exchange.LotFilter(ctx, t.Pair())
	if err != nil {
		return Retry("lot_filter", err)
	}
	qty := risk.AdjustQuantity(risk.MaxQuantity(quoteFree, t.Cfg.MaxQuotePerOrder, price), lot.StepSize)
	if qty < lot.MinQty {
		return Skipped(fmt.Sprintf("buy quantity %v below minimum lot %v", qty, lot.MinQty))
	}

	order := types.Order{
		Symbol:  t.Pair(),
		Side:    types.Buy,
		Qty:     qty,
		Price:   price,
		Comment: "oversold at support",
	}
	if err := t.submitOrder(ctx, order, "support_entry"); err != nil {
		return Retry("buy_order", err)
	}

	t.basePrice = price
	t.buys++
	t.Agg.RecordBuy(t.Asset())
	if err := t.Store.AddTotals(0, 1, 0); err != nil {
		t.Log.Warn("totals_persist_failed", logger.String("asset", t.Asset()), logger.Err(err))
	}
	return Traded("buy")
}

// persist rewrites this asset's full durable context: window, bounds,
// anchor, stop and counters.
func (t *TrailingStop) persist() error {
	rec := state.AssetRecord{
		Historico:        t.window.Values(),
		PrecoBase:        t.basePrice,
		TrailingStop:     t.trailingStop,
		GanhosAcumulados: t.gain,
		TotalCompras:     t.buys,
		TotalVendas:      t.sells,
	}
	if t.window.Len() > 0 {
		rec.Suporte = t.window.Support()
		rec.Resistencia = t.window.Resistance()
	}
	return t.Store.PutAsset(t.Asset(), rec)
}
