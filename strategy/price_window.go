package strategy

import "github.com/samber/lo"

// priceWindow keeps a bounded rolling window of recent closing prices and
// exposes the support/resistance bounds the trailing-stop strategy keys
// its entries on.
type priceWindow struct {
	max    int
	closes []float64
}

// newPriceWindow seeds the window, keeping only the newest max entries.
func newPriceWindow(max int, seed []float64) *priceWindow {
	if max <= 0 {
		max = 100
	}
	w := &priceWindow{max: max}
	for _, v := range seed {
		w.Add(v)
	}
	return w
}

func (w *priceWindow) Add(v float64) {
	w.closes = append(w.closes, v)
	if len(w.closes) > w.max {
		w.closes = w.closes[len(w.closes)-w.max:]
	}
}

func (w *priceWindow) Len() int {
	return len(w.closes)
}

// Values returns a copy of the window, oldest first.
func (w *priceWindow) Values() []float64 {
	out := make([]float64, len(w.closes))
	copy(out, w.closes)
	return out
}

// Support is the minimum of the window.
func (w *priceWindow) Support() float64 {
	return lo.Min(w.closes)
}

// Resistance is the maximum of the window.
func (w *priceWindow) Resistance() float64 {
	return lo.Max(w.closes)
}
