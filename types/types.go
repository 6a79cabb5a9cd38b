package types

type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

type Order struct {
	Symbol string
	Side   Side
	Qty    float64
	Price  float64 // price snapshot the decision was taken at; fills are market
	// meta
	Comment string
}

// LotFilter carries the exchange-imposed constraints for a trading pair:
// the smallest order the exchange accepts and the increment quantities
// must be a multiple of.
type LotFilter struct {
	MinQty   float64
	StepSize float64
}

// Balance is the free-balance pair a strategy cycle operates on: the
// tracked asset itself plus the quote currency that funds buys.
type Balance struct {
	AssetFree float64
	QuoteFree float64
}
