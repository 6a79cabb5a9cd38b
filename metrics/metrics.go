package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	OrdersExecuted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gomat_orders_executed_total",
			Help: "Total number of market orders executed (by symbol and side).",
		},
		[]string{"symbol", "side"},
	)

	CyclesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gomat_cycles_total",
			Help: "Strategy cycles evaluated, partitioned by outcome.",
		},
		[]string{"symbol", "outcome"},
	)

	RealizedGain = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "gomat_realized_gain",
			Help: "Cumulative realized gain across all assets, in quote currency.",
		},
	)
)

func init() {
	prometheus.MustRegister(OrdersExecuted, CyclesTotal, RealizedGain)
}
