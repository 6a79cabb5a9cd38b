// Package indicator derives the signals the strategies consume from a
// rolling window of close prices. Values are computed on demand from the
// latest window; only the most recent oscillator value is ever needed.
package indicator

import (
	"errors"
	"fmt"
)

// ErrInsufficientData is returned when a window is too short for the
// requested computation.
var ErrInsufficientData = errors.New("indicator: insufficient data")

// PercentVariation is the percentage move of current relative to base.
func PercentVariation(base, current float64) (float64, error) {
	if base == 0 {
		return 0, errors.New("indicator: base price is zero")
	}
	return (current - base) / base * 100, nil
}

// MomentumOscillator computes an RSI-style 0-100 oscillator from the gains
// and losses between consecutive closes, averaged over the trailing
// `period` moves. Only the most recent value is returned.
//
// A window with no losing moves saturates at 100, which also covers a
// perfectly flat window: with no downside movement there is nothing
// oversold to act on.
func MomentumOscillator(closes []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("indicator: period must be positive, got %d", period)
	}
	if len(closes) <= period {
		return 0, fmt.Errorf("%w: need more than %d closes, got %d", ErrInsufficientData, period, len(closes))
	}

	var avgGain, avgLoss float64
	for i := len(closes) - period; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			avgGain += delta
		} else {
			avgLoss -= delta
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	if avgLoss == 0 {
		return 100, nil
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs), nil
}
