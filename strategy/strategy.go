// Package strategy contains the per-asset decision engines. Each strategy
// owns the trading context of exactly one asset and is driven by an outer
// polling loop: one Cycle call per tick, producing at most one order.
package strategy

import "context"

// Strategy is the per-asset state machine the runner drives.
type Strategy interface {
	// Asset is the base asset this instance trades.
	Asset() string
	// Bootstrap prepares the strategy before the first cycle: lot filters,
	// persisted context, reconciliation against the live balance.
	Bootstrap(ctx context.Context) error
	// Cycle polls the market once and applies the strategy rules. All
	// failures are reported through the outcome; the loop decides how to
	// log and when to retry.
	Cycle(ctx context.Context) Outcome
}

// Status classifies what a cycle did.
type Status int

const (
	// StatusHeld means the cycle completed without trading.
	StatusHeld Status = iota
	// StatusTraded means an order was executed.
	StatusTraded
	// StatusSkipped means a trigger fired but no order was possible
	// (for example the rounded quantity fell below the minimum lot).
	StatusSkipped
	// StatusRetry means the cycle hit a failure worth retrying on the
	// next tick. No strategy state was mutated by the failed step.
	StatusRetry
)

func (s Status) String() string {
	switch s {
	case StatusHeld:
		return "held"
	case StatusTraded:
		return "traded"
	case StatusSkipped:
		return "skipped"
	case StatusRetry:
		return "retry"
	default:
		return "unknown"
	}
}

// Outcome is the tagged result of one cycle. The runner owns the uniform
// log/retry behavior, keeping operational resilience out of the decision
// logic.
type Outcome struct {
	Status Status
	Reason string
	Err    error
}

func Held(reason string) Outcome    { return Outcome{Status: StatusHeld, Reason: reason} }
func Traded(reason string) Outcome  { return Outcome{Status: StatusTraded, Reason: reason} }
func Skipped(reason string) Outcome { return Outcome{Status: StatusSkipped, Reason: reason} }
func Retry(reason string, err error) Outcome {
	return Outcome{Status: StatusRetry, Reason: reason, Err: err}
}
