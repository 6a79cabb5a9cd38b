package metrics

import "sync"

// Summary is an immutable view of the aggregate counters, safe to hand to
// reporting code without further locking.
type Summary struct {
	TotalBuys    int
	TotalSells   int
	RealizedGain float64
}

// Aggregate holds the process-wide trade counters shared by every worker.
// All mutation happens under the internal mutex; readers take a Summary.
type Aggregate struct {
	mu    sync.Mutex
	buys  int
	sells int
	gain  float64
}

// NewAggregate seeds the counters, normally from the persisted totals so a
// restart keeps reporting lifetime numbers.
func NewAggregate(buys, sells int, gain float64) *Aggregate {
	RealizedGain.Set(gain)
	return &Aggregate{buys: buys, sells: sells, gain: gain}
}

// RecordBuy counts one executed buy for symbol.
func (a *Aggregate) RecordBuy(symbol string) {
	a.mu.Lock()
	a.buys++
	a.mu.Unlock()
	OrdersExecuted.WithLabelValues(symbol, "BUY").Inc()
}

// RecordSell counts one executed sell for symbol and folds its realized
// gain into the cumulative total.
func (a *Aggregate) RecordSell(symbol string, gain float64) {
	a.mu.Lock()
	a.sells++
	a.gain += gain
	total := a.gain
	a.mu.Unlock()
	OrdersExecuted.WithLabelValues(symbol, "SELL").Inc()
	RealizedGain.Set(total)
}

// Snapshot returns the current counters as an immutable Summary.
func (a *Aggregate) Snapshot() Summary {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Summary{TotalBuys: a.buys, TotalSells: a.sells, RealizedGain: a.gain}
}
