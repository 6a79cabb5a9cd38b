package strategy

import (
	"context"
	"math"
	"testing"

	"github.com/dmaragno/gomat/state"
	"github.com/dmaragno/gomat/types"
)

/*
-----------------------------------------------------------------------
Test 1 – Trailing stop rides up and fires on the way down.
-----------------------------------------------------------------------
Position bought at 50. The price climbs to 60, arming the stop at
60 × (1 − 1.5%) = 59.1, then drops to 59.0 ≤ 59.1: the whole balance is
sold with gain 2 × (59.0 − 50), and the stop is cleared.
*/
func TestTrailingStop_StopFires(t *testing.T) {
	ts, ex, store, agg := buildTrailing(t, ramp(50, 0.1, 100))

	if err := store.PutAsset("SOL", state.AssetRecord{
		Historico: ramp(50, 0.1, 100),
		PrecoBase: 50,
	}); err != nil {
		t.Fatalf("PutAsset failed: %v", err)
	}
	ex.SetBalance(2, 0)
	if err := ts.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap failed: %v", err)
	}

	ex.SetPrice(60)
	if out := ts.Cycle(context.Background()); out.Status != StatusHeld {
		t.Fatalf("expected held outcome while price rises, got %+v", out)
	}
	rec, _ := store.Asset("SOL")
	if rec.TrailingStop == nil || math.Abs(*rec.TrailingStop-59.1) > 1e-9 {
		t.Fatalf("expected trailing stop armed at 59.1, got %+v", rec.TrailingStop)
	}

	ex.SetPrice(59.0)
	out := ts.Cycle(context.Background())
	if out.Status != StatusTraded {
		t.Fatalf("expected traded outcome, got %v (%s)", out.Status, out.Reason)
	}

	orders := ex.Orders()
	if len(orders) != 1 || orders[0].Side != types.Sell || orders[0].Qty != 2 {
		t.Fatalf("expected SELL of 2, got %+v", orders)
	}

	rec, _ = store.Asset("SOL")
	if rec.TrailingStop != nil {
		t.Fatalf("expected stop cleared after sell, got %v", *rec.TrailingStop)
	}
	if math.Abs(rec.GanhosAcumulados-18) > 1e-9 {
		t.Fatalf("expected realized gain 18, got %f", rec.GanhosAcumulados)
	}

	totals := store.Totals()
	if totals.TotalVendas != 1 || math.Abs(totals.GanhosAcumulados-18) > 1e-9 {
		t.Fatalf("totals not updated: %+v", totals)
	}
	if s := agg.Snapshot(); s.TotalSells != 1 || math.Abs(s.RealizedGain-18) > 1e-9 {
		t.Fatalf("aggregate not updated: %+v", s)
	}
}

/*
-----------------------------------------------------------------------
Test 2 – The stop never retreats while the position is held.
-----------------------------------------------------------------------
*/
func TestTrailingStop_StopIsMonotonic(t *testing.T) {
	ts, ex, store, _ := buildTrailing(t, ramp(50, 0.1, 100))

	ex.SetBalance(2, 0)
	if err := ts.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap failed: %v", err)
	}

	// 60 arms the stop at 59.1; 59.5 stays above it, so the lower
	// candidate (58.6…) must not replace it; 61 raises it again.
	steps := []struct {
		price float64
		stop  float64
	}{
		{60, 59.1},
		{59.5, 59.1},
		{61, 60.085},
	}
	for _, step := range steps {
		ex.SetPrice(step.price)
		if out := ts.Cycle(context.Background()); out.Status != StatusHeld {
			t.Fatalf("price %.2f: expected held outcome, got %+v", step.price, out)
		}
		rec, _ := store.Asset("SOL")
		if rec.TrailingStop == nil || math.Abs(*rec.TrailingStop-step.stop) > 1e-9 {
			t.Fatalf("price %.2f: expected stop %.3f, got %+v", step.price, step.stop, rec.TrailingStop)
		}
	}
	if len(ex.Orders()) != 0 {
		t.Fatalf("expected no orders, got %+v", ex.Orders())
	}
}

/*
-----------------------------------------------------------------------
Test 3 – Oversold entry at the support level.
-----------------------------------------------------------------------
A strictly falling window keeps the oscillator at 0; a new low is, by
definition, at support. The buy is sized from min(quote, cap)/price.
*/
func TestTrailingStop_OversoldEntry(t *testing.T) {
	ts, ex, store, agg := buildTrailing(t, ramp(200, -1, 100))

	ex.SetBalance(0, 1000)
	if err := ts.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap failed: %v", err)
	}

	ex.SetPrice(50)
	out := ts.Cycle(context.Background())
	if out.Status != StatusTraded {
		t.Fatalf("expected traded outcome, got %v (%s)", out.Status, out.Reason)
	}

	orders := ex.Orders()
	if len(orders) != 1 || orders[0].Side != types.Buy {
		t.Fatalf("expected exactly one BUY order, got %+v", orders)
	}
	if math.Abs(orders[0].Qty-2) > 1e-9 {
		t.Fatalf("expected quantity 2 (100/50), got %f", orders[0].Qty)
	}

	rec, _ := store.Asset("SOL")
	if rec.PrecoBase != 50 || rec.TotalCompras != 1 {
		t.Fatalf("purchase anchor not recorded: %+v", rec)
	}
	if agg.Snapshot().TotalBuys != 1 {
		t.Fatalf("aggregate buys not updated: %+v", agg.Snapshot())
	}
}

/*
-----------------------------------------------------------------------
Test 4 – A neutral oscillator blocks the entry even at support.
-----------------------------------------------------------------------
An alternating window keeps gains and losses balanced (oscillator ≈ 50),
so reaching a new low alone must not buy.
*/
func TestTrailingStop_EntryBlockedByOscillator(t *testing.T) {
	seed := make([]float64, 100)
	for i := range seed {
		if i%2 == 0 {
			seed[i] = 20
		} else {
			seed[i] = 10
		}
	}
	ts, ex, _, _ := buildTrailing(t, seed)

	ex.SetBalance(0, 1000)
	if err := ts.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap failed: %v", err)
	}

	ex.SetPrice(9) // new low: at support
	out := ts.Cycle(context.Background())
	if out.Status != StatusHeld {
		t.Fatalf("expected held outcome, got %v (%s)", out.Status, out.Reason)
	}
	if len(ex.Orders()) != 0 {
		t.Fatalf("expected no orders, got %+v", ex.Orders())
	}
}

/*
-----------------------------------------------------------------------
Test 5 – Short history skips the cycle until the window warms up.
-----------------------------------------------------------------------
*/
func TestTrailingStop_WarmupSkips(t *testing.T) {
	ts, ex, _, _ := buildTrailing(t, ramp(100, -1, 5))

	ex.SetBalance(0, 1000)
	if err := ts.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap failed: %v", err)
	}

	ex.SetPrice(90)
	out := ts.Cycle(context.Background())
	if out.Status != StatusSkipped {
		t.Fatalf("expected skipped outcome, got %v (%s)", out.Status, out.Reason)
	}
	if len(ex.Orders()) != 0 {
		t.Fatalf("expected no orders, got %+v", ex.Orders())
	}
}

/*
-----------------------------------------------------------------------
Test 6 – Restart reconciliation clears a stale stop on a flat balance.
-----------------------------------------------------------------------
The durable record claims an armed stop, but the exchange reports no
position: the stop is stale and must be dropped at bootstrap.
*/
func TestTrailingStop_ReconciliationClearsStaleStop(t *testing.T) {
	ts, ex, store, _ := buildTrailing(t, nil)

	stale := 59.1
	if err := store.PutAsset("SOL", state.AssetRecord{
		Historico:    ramp(50, 0.1, 100),
		PrecoBase:    50,
		TrailingStop: &stale,
	}); err != nil {
		t.Fatalf("PutAsset failed: %v", err)
	}

	ex.SetBalance(0, 500) // flat: below the dust floor
	if err := ts.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap failed: %v", err)
	}

	rec, _ := store.Asset("SOL")
	if rec.TrailingStop != nil {
		t.Fatalf("expected stale stop cleared, got %v", *rec.TrailingStop)
	}
}

/*
-----------------------------------------------------------------------
Test 7 – Below-minimum lot keeps the position and the stop.
-----------------------------------------------------------------------
*/
func TestTrailingStop_BelowMinimumLot(t *testing.T) {
	ts, ex, store, _ := buildTrailing(t, ramp(50, 0.1, 100))

	ex.SetBalance(2, 0)
	ex.SetLot(5, 1)
	if err := ts.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap failed: %v", err)
	}

	ex.SetPrice(60)
	if out := ts.Cycle(context.Background()); out.Status != StatusHeld {
		t.Fatalf("expected held outcome while price rises, got %+v", out)
	}

	ex.SetPrice(59.0)
	out := ts.Cycle(context.Background())
	if out.Status != StatusSkipped {
		t.Fatalf("expected skipped outcome, got %v (%s)", out.Status, out.Reason)
	}
	if len(ex.Orders()) != 0 {
		t.Fatalf("expected no orders, got %+v", ex.Orders())
	}

	rec, _ := store.Asset("SOL")
	if rec.TrailingStop == nil || math.Abs(*rec.TrailingStop-59.1) > 1e-9 {
		t.Fatalf("expected stop retained at 59.1, got %+v", rec.TrailingStop)
	}
}
