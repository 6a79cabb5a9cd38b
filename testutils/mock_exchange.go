package testutils

import (
	"context"
	"sync"

	"github.com/dmaragno/gomat/types"
)

// MockExchange implements the exchange ports in-memory. Tests script the
// observations (prices, balances, filters) and assert on the captured
// orders; nothing is simulated beyond what a test sets explicitly.
type MockExchange struct {
	mu sync.Mutex

	price      float64
	priceQueue []float64
	balance    types.Balance
	closes     []float64
	lot        types.LotFilter
	submitErr  error

	orders []types.Order // captured for assertions
}

// NewMockExchange creates an exchange with a permissive default lot filter.
func NewMockExchange() *MockExchange {
	return &MockExchange{
		lot: types.LotFilter{MinQty: 0.001, StepSize: 0.001},
	}
}

// SetPrice fixes the ticker price returned until changed.
func (m *MockExchange) SetPrice(p float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.price = p
}

// PushPrices queues prices returned one per call before falling back to
// the last one.
func (m *MockExchange) PushPrices(prices ...float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.priceQueue = append(m.priceQueue, prices...)
}

// SetBalance fixes the balance snapshot returned until changed.
func (m *MockExchange) SetBalance(assetFree, quoteFree float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balance = types.Balance{AssetFree: assetFree, QuoteFree: quoteFree}
}

// SetCloses fixes the historical close series.
func (m *MockExchange) SetCloses(closes ...float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closes = append([]float64(nil), closes...)
}

// SetLot overrides the lot filter.
func (m *MockExchange) SetLot(minQty, stepSize float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lot = types.LotFilter{MinQty: minQty, StepSize: stepSize}
}

// FailSubmit makes every subsequent order submission return err
// (nil restores success).
func (m *MockExchange) FailSubmit(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submitErr = err
}

// Orders returns a copy of all captured orders.
func (m *MockExchange) Orders() []types.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]types.Order, len(m.orders))
	copy(out, m.orders)
	return out
}

func (m *MockExchange) Price(_ context.Context, _ string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.priceQueue) > 0 {
		m.price = m.priceQueue[0]
		m.priceQueue = m.priceQueue[1:]
	}
	return m.price, nil
}

func (m *MockExchange) HistoricalCloses(_ context.Context, _, _ string, limit int) ([]float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	closes := m.closes
	if len(closes) > limit {
		closes = closes[len(closes)-limit:]
	}
	return append([]float64(nil), closes...), nil
}

func (m *MockExchange) Balances(_ context.Context, _, _ string) (types.Balance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balance, nil
}

func (m *MockExchange) SubmitMarketOrder(_ context.Context, order types.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.submitErr != nil {
		return m.submitErr
	}
	m.orders = append(m.orders, order)
	return nil
}

func (m *MockExchange) LotFilter(_ context.Context, _ string) (types.LotFilter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lot, nil
}
