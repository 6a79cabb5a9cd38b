package strategy

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dmaragno/gomat/config"
	"github.com/dmaragno/gomat/metrics"
	"github.com/dmaragno/gomat/state"
	"github.com/dmaragno/gomat/testutils"
)

// ---------------------------------------------------------------------
// Test fixtures
// ---------------------------------------------------------------------

// testConfig returns the stock configuration pointed at a throwaway state
// file, so every test runs against a fresh durable store.
func testConfig(t *testing.T) config.Config {
	cfg := config.Default()
	cfg.Assets = []string{"SOL"}
	cfg.StatePath = filepath.Join(t.TempDir(), "estado_trading.json")
	return cfg
}

// buildBreakout wires a PercentBreakout strategy to an in-memory exchange
// and a fresh store. The exchange starts priced at 100 with a flat
// balance; tests adjust the observations before each cycle.
func buildBreakout(t *testing.T) (*PercentBreakout, *testutils.MockExchange, *state.Store, *metrics.Aggregate) {
	cfg := testConfig(t)
	ex := testutils.NewMockExchange()
	ex.SetPrice(100)
	store, _ := state.Open(cfg.StatePath)
	agg := metrics.NewAggregate(0, 0, 0)

	pb, err := NewPercentBreakout("SOL", cfg, ex, store, agg, testutils.NewMockLogger())
	if err != nil {
		t.Fatalf("NewPercentBreakout failed: %v", err)
	}
	if err := pb.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap failed: %v", err)
	}
	return pb, ex, store, agg
}

// buildTrailing wires a TrailingStop strategy. seed becomes the historical
// close series Bootstrap falls back to when nothing was persisted.
func buildTrailing(t *testing.T, seed []float64) (*TrailingStop, *testutils.MockExchange, *state.Store, *metrics.Aggregate) {
	cfg := testConfig(t)
	ex := testutils.NewMockExchange()
	ex.SetPrice(100)
	ex.SetCloses(seed...)
	store, _ := state.Open(cfg.StatePath)
	agg := metrics.NewAggregate(0, 0, 0)

	ts, err := NewTrailingStop("SOL", cfg, ex, store, agg, testutils.NewMockLogger())
	if err != nil {
		t.Fatalf("NewTrailingStop failed: %v", err)
	}
	return ts, ex, store, agg
}

// ramp builds n closes starting at start with the given step per close.
func ramp(start, step float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}
