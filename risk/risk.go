package risk

import "math"

// AdjustQuantity floors qty to the nearest multiple of the exchange step
// size, then rounds to the decimal precision the step size implies
// (step 0.001 -> 3 decimals). The result never exceeds qty: overshooting
// would violate the exchange lot filter.
func AdjustQuantity(qty, stepSize float64) float64 {
	if stepSize <= 0 || qty <= 0 {
		return 0
	}
	adjusted := math.Floor(qty/stepSize) * stepSize
	decimals := math.Abs(math.Floor(math.Log10(stepSize)))
	pow := math.Pow(10, decimals)
	return math.Round(adjusted*pow) / pow
}

// MaxQuantity sizes a buy from the available quote balance, capped by the
// per-operation quote limit. The caller still adjusts the result to the
// lot step before submitting.
func MaxQuantity(quoteFree, quoteCap, price float64) float64 {
	if price <= 0 {
		return 0
	}
	spend := math.Min(quoteFree, quoteCap)
	if spend <= 0 {
		return 0
	}
	return spend / price
}
