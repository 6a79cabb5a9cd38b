// Package exchange defines the ports the strategies talk to and the
// Binance spot implementation behind them. The core never touches the
// exchange SDK directly; everything goes through these interfaces so tests
// can run against an in-memory exchange.
package exchange

import (
	"context"

	"github.com/dmaragno/gomat/types"
)

// MarketData reads prices. Pure read, no internal state.
type MarketData interface {
	// Price returns the current ticker price for symbol.
	Price(ctx context.Context, symbol string) (float64, error)
	// HistoricalCloses returns up to limit close prices for symbol at the
	// given kline interval, oldest first.
	HistoricalCloses(ctx context.Context, symbol, interval string, limit int) ([]float64, error)
}

// Account reads free balances.
type Account interface {
	// Balances returns the free balance of asset and of the quote currency.
	Balances(ctx context.Context, asset, quote string) (types.Balance, error)
}

// OrderSubmitter places market orders.
type OrderSubmitter interface {
	SubmitMarketOrder(ctx context.Context, order types.Order) error
}

// FilterProvider resolves per-symbol lot constraints.
type FilterProvider interface {
	LotFilter(ctx context.Context, symbol string) (types.LotFilter, error)
}

// Exchange is the full surface a strategy worker needs.
type Exchange interface {
	MarketData
	Account
	OrderSubmitter
	FilterProvider
}
