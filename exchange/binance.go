package exchange

import (
	"context"
	"fmt"
	"strconv"

	"github.com/adshao/go-binance/v2"

	"github.com/dmaragno/gomat/types"
)

// Binance implements Exchange against the Binance spot API.
type Binance struct {
	client *binance.Client
}

var _ Exchange = (*Binance)(nil)

// NewBinance builds the spot client from API credentials.
func NewBinance(apiKey, apiSecret string) *Binance {
	return &Binance{client: binance.NewClient(apiKey, apiSecret)}
}

// Price implements MarketData.
func (b *Binance) Price(ctx context.Context, symbol string) (float64, error) {
	prices, err := b.client.NewListPricesService().Symbol(symbol).Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("exchange: fetch price for %s: %w", symbol, err)
	}
	// The API returns a slice even when a symbol is given.
	for _, p := range prices {
		if p.Symbol == symbol {
			price, err := strconv.ParseFloat(p.Price, 64)
			if err != nil {
				return 0, fmt.Errorf("exchange: parse price %q for %s: %w", p.Price, symbol, err)
			}
			return price, nil
		}
	}
	return 0, fmt.Errorf("exchange: symbol %s not found in price list", symbol)
}

// HistoricalCloses implements MarketData.
func (b *Binance) HistoricalCloses(ctx context.Context, symbol, interval string, limit int) ([]float64, error) {
	klines, err := b.client.NewKlinesService().Symbol(symbol).Interval(interval).Limit(limit).Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("exchange: fetch %s klines for %s: %w", interval, symbol, err)
	}
	closes := make([]float64, 0, len(klines))
	for _, k := range klines {
		c, err := strconv.ParseFloat(k.Close, 64)
		if err != nil {
			return nil, fmt.Errorf("exchange: parse close %q for %s: %w", k.Close, symbol, err)
		}
		closes = append(closes, c)
	}
	return closes, nil
}

// Balances implements Account.
func (b *Binance) Balances(ctx context.Context, asset, quote string) (types.Balance, error) {
	account, err := b.client.NewGetAccountService().Do(ctx)
	if err != nil {
		return types.Balance{}, fmt.Errorf("exchange: fetch account: %w", err)
	}
	var bal types.Balance
	for _, entry := range account.Balances {
		switch entry.Asset {
		case asset:
			bal.AssetFree, _ = strconv.ParseFloat(entry.Free, 64)
		case quote:
			bal.QuoteFree, _ = strconv.ParseFloat(entry.Free, 64)
		}
	}
	return bal, nil
}

// SubmitMarketOrder implements OrderSubmitter. The order quantity must
// already respect the symbol's lot filter.
func (b *Binance) SubmitMarketOrder(ctx context.Context, order types.Order) error {
	var side binance.SideType
	switch order.Side {
	case types.Buy:
		side = binance.SideTypeBuy
	case types.Sell:
		side = binance.SideTypeSell
	default:
		return fmt.Errorf("exchange: unsupported order side %q", order.Side)
	}

	_, err := b.client.NewCreateOrderService().
		Symbol(order.Symbol).
		Side(side).
		Type(binance.OrderTypeMarket).
		Quantity(strconv.FormatFloat(order.Qty, 'f', -1, 64)).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("exchange: submit %s %s %s: %w", order.Side, order.Symbol, strconv.FormatFloat(order.Qty, 'f', -1, 64), err)
	}
	return nil
}

// LotFilter implements FilterProvider.
func (b *Binance) LotFilter(ctx context.Context, symbol string) (types.LotFilter, error) {
	info, err := b.client.NewExchangeInfoService().Symbol(symbol).Do(ctx)
	if err != nil {
		return types.LotFilter{}, fmt.Errorf("exchange: fetch exchange info for %s: %w", symbol, err)
	}
	for _, s := range info.Symbols {
		if s.Symbol != symbol {
			continue
		}
		lot := s.LotSizeFilter()
		if lot == nil {
			return types.LotFilter{}, fmt.Errorf("exchange: no LOT_SIZE filter for %s", symbol)
		}
		minQty, err := strconv.ParseFloat(lot.MinQuantity, 64)
		if err != nil {
			return types.LotFilter{}, fmt.Errorf("exchange: parse minQty %q for %s: %w", lot.MinQuantity, symbol, err)
		}
		step, err := strconv.ParseFloat(lot.StepSize, 64)
		if err != nil {
			return types.LotFilter{}, fmt.Errorf("exchange: parse stepSize %q for %s: %w", lot.StepSize, symbol, err)
		}
		return types.LotFilter{MinQty: minQty, StepSize: step}, nil
	}
	return types.LotFilter{}, fmt.Errorf("exchange: symbol %s not in exchange info", symbol)
}
