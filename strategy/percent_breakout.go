package strategy

import (
	"context"
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

// PercentBreakout trades one asset off a single anchor price: sell the
// whole position once the price runs a fixed percentage above the anchor,
// rebuy once it falls a fixed percentage below it, and re-anchor upward
// when the price escapes with no position held so a rally does not freeze
// the rebuy trigger forever.
type PercentBreakout struct {
	*Base

	lot           types.LotFilter
	basePrice     float64
	purchasePrice float64

	// worker-local counters, persisted but never shared
	buys  int
	sells int
	gain  float64
}

// NewPercentBreakout wires variant A for one asset.
func NewPercentBreakout(asset string, cfg config.Config, ex exchange.Exchange,
	store *state.Store, agg *metrics.Aggregate, log logger.Logger) (*PercentBreakout, error) {

	base, err := NewBase(asset, cfg, ex, store, agg, log)
	if err != nil {
		return nil, err
	}
	return &PercentBreakout{Base: base}, nil
}

// Bootstrap resolves the lot filter once (it does not change between
// cycles) and restores the persisted anchor and counters, falling back to
// the live price for a first run.
func (p *PercentBreakout) Bootstrap(ctx context.Context) error {
	lot, err := p.Exchange.LotFilter(ctx, p.Pair())
	if err != nil {
		return err
	}
	p.lot = lot

	if rec, ok := p.Store.Asset(p.Asset()); ok && rec.PrecoBase > 0 {
		p.basePrice = rec.PrecoBase
		p.purchasePrice = rec.PrecoBase
		p.gain = rec.GanhosAcumulados
		p.buys = rec.TotalCompras
		p.sells = rec.TotalVendas
	} else {
		price, err := p.Exchange.Price(ctx, p.Pair())
		if err != nil {
			return err
		}
		p.basePrice = price
		p.purchasePrice = price
		if err := p.persist(); err != nil {
			return err
		}
	}

	p.Log.Info("monitoring_started",
		logger.String("asset", p.Asset()),
		logger.Float64("base_price", p.basePrice),
		logger.Float64("min_qty", p.lot.MinQty),
		logger.Float64("step_size", p.lot.StepSize),
	)
	return nil
}

// Cycle applies the breakout rules to one price/balance snapshot. The sell
// condition is evaluated before the buy condition; at most one order is
// issued per cycle.
func (p *PercentBreakout) Cycle(ctx context.Context) Outcome {
	price, bal, err := p.observe(ctx)
	if err != nil {
		return Retry("observe", err)
	}
	variation, err := indicator.PercentVariation(p.basePrice, price)
	if err != nil {
		return Retry("variation", err)
	}

	p.Log.Info("cycle",
		logger.String("asset", p.Asset()),
		logger.Float64("price", price),
		logger.Float64("variation_pct", variation),
		logger.Float64("asset_free", bal.AssetFree),
		logger.Float64("quote_free", bal.QuoteFree),
		logger.Float64("accumulated_gain", p.gain),
		logger.Int("sells", p.sells),
		logger.Int("buys", p.buys),
	)

	// With no position held, a sustained rise past the reset threshold
	// re-anchors the base so the rebuy trigger tracks the new level.
	if bal.AssetFree == 0 && variation >= p.Cfg.ResetThresholdPct {
		p.basePrice = price
		if err := p.persist(); err != nil {
			return Retry("persist", err)
		}
		p.Log.Info("base_reset",
			logger.String("asset", p.Asset()),
			logger.Float64("variation_pct", variation),
			logger.Float64("base_price", p.basePrice),
		)
		return Held("base_reset")
	}

	if bal.AssetFree > 0 && variation >= p.Cfg.SellThresholdPct {
		return p.sell(ctx, price, bal.AssetFree, variation)
	}

	if bal.AssetFree*price < p.Cfg.DustValueFloor && variation <= p.Cfg.RebuyThresholdPct {
		return p.buy(ctx, price, bal.QuoteFree, variation)
	}

	return Held("no_signal")
}

func (p *PercentBreakout) sell(ctx context.Context, price, assetFree, variation float64) Outcome {
	qty := risk.AdjustQuantity(assetFree, p.lot.StepSize)
	if qty < p.lot.MinQty {
		return Skipped(fmt.Sprintf("sell quantity %v below minimum lot %v", qty, p.lot.MinQty))
	}

	order := types.Order{
		Symbol:  p.Pair(),
		Side:    types.Sell,
		Qty:     qty,
		Price:   price,
		Comment: fmt.Sprintf("breakout sell at +%.2f%%", variation),
	}
	if err := p.submitOrder(ctx, order, "breakout_sell"); err != nil {
		return Retry("sell_order", err)
	}

	realized := (price - p.purchasePrice) * qty
	p.gain += realized
	p.sells++
	p.purchasePrice = price
	p.basePrice = price
	p.Agg.RecordSell(p.Asset(), realized)

	if err := p.persist(); err != nil {
		// The order went through; exchange-side truth is authoritative and
		// the next mutating cycle rewrites the file.
		p.Log.Warn("state_persist_failed", logger.String("asset", p.Asset()), logger.Err(err))
	}
	return Traded("sell")
}

func (p *PercentBreakout) buy(ctx context.Context, price, quoteFree, variation float64) Outcome {
	qty := risk.AdjustQuantity(risk.MaxQuantity(quoteFree, p.Cfg.MaxQuotePerOrder, price), p.lot.StepSize)
	if qty < p.lot.MinQty {
		return Skipped(fmt.Sprintf("buy quantity %v below minimum lot %v", qty, p.lot.MinQty))
	}

	order := types.Order{
		Symbol:  p.Pair(),
		Side:    types.Buy,
		Qty:     qty,
		Price:   price,
		Comment: fmt.Sprintf("breakout rebuy at %.2f%%", variation),
	}
	if err := p.submitOrder(ctx, order, "breakout_rebuy"); err != nil {
		return Retry("buy_order", err)
	}

	p.buys++
	p.purchasePrice = price
	p.basePrice = price
	p.Agg.RecordBuy(p.Asset())

	if err := p.persist(); err != nil {
		p.Log.Warn("state_persist_failed", logger.String("asset", p.Asset()), logger.Err(err))
	}
	return Traded("buy")
}

// persist writes this asset's record. Variant A carries no price history
// or trailing stop; only the anchor and the counters survive a restart.
func (p *PercentBreakout) persist() error {
	return p.Store.PutAsset(p.Asset(), state.AssetRecord{
		PrecoBase:        p.basePrice,
		GanhosAcumulados: p.gain,
		TotalCompras:     p.buys,
		TotalVendas:      p.sells,
	})
}
