// Package labels assigns the three-level ordinal safety label used to
// supervise the market classifier. It is training-time only: the forward
// fields look up to 90 trading days ahead and are degenerate near the end of
// a series.
package labels

import (
	"math"

	"stocksafe/internal/indicators"
)

// Label values, ordinal by construction.
const (
	Risky    = 0.0
	Moderate = 0.5
	Safe     = 1.0
)

// Fixed policy thresholds. Not configurable at runtime.
const (
	safeMaxDrawdown     = -0.10
	safeMinReturn       = 0.02
	safeMinAlpha        = -0.02
	moderateMaxDrawdown = -0.20
	moderateMinReturn   = -0.05
)

// forwardHorizon and drawdownWindow are the look-ahead spans of the two
// forward statistics.
const (
	forwardHorizon = 90
	drawdownWindow = 30
)

// Future carries the forward-looking fields, segregated from the causal
// indicator columns so they can never leak into inference features.
type Future struct {
	Ret90      []float64 // close[t+90]/close[t] - 1
	Drawdown30 []float64 // (min close over t+1..t+30 - close[t]) / close[t]
}

// ComputeFuture derives the forward statistics for every row. Rows whose
// look-ahead window runs past the end of the series get NaN.
func ComputeFuture(closes []float64) *Future {
	n := len(closes)
	f := &Future{
		Ret90:      make([]float64, n),
		Drawdown30: make([]float64, n),
	}

	for t := 0; t < n; t++ {
		if t+forwardHorizon < n {
			f.Ret90[t] = closes[t+forwardHorizon]/closes[t] - 1
		} else {
			f.Ret90[t] = math.NaN()
		}
	}

	// Minimum close over the 30 days starting at t+1, via the same rolling
	// utility as the causal stats: roll a minimum over the series shifted
	// one step into the future, then pull the window start back to t+1.
	shifted := make([]float64, n)
	for t := 0; t < n; t++ {
		if t+1 < n {
			shifted[t] = closes[t+1]
		} else {
			shifted[t] = math.NaN()
		}
	}
	rolled := indicators.NewRoller(drawdownWindow).Min(shifted)
	for t := 0; t < n; t++ {
		futureMin := math.NaN()
		if t+drawdownWindow-1 < n {
			futureMin = rolled[t+drawdownWindow-1]
		}
		f.Drawdown30[t] = (futureMin - closes[t]) / closes[t]
	}
	return f
}

// Assign converts forward statistics plus the 30d alpha into per-row labels.
// NaN forward fields and NaN alpha are filled with 0 first, which biases the
// final ~90 rows of a series toward moderate/safe; dataset builders drop
// that tail when strict correctness matters.
func Assign(f *Future, alpha30 []float64) []float64 {
	n := len(f.Ret90)
	out := make([]float64, n)
	for t := 0; t < n; t++ {
		dd := zeroIfNaN(f.Drawdown30[t])
		ret := zeroIfNaN(f.Ret90[t])
		a := zeroIfNaN(alpha30[t])

		switch {
		case dd > safeMaxDrawdown && ret > safeMinReturn && a > safeMinAlpha:
			out[t] = Safe
		case dd > moderateMaxDrawdown && ret > moderateMinReturn:
			out[t] = Moderate
		default:
			out[t] = Risky
		}
	}
	return out
}

// TrimTail reports how many trailing rows carry degenerate forward fields.
func TrimTail() int { return forwardHorizon }

func zeroIfNaN(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}
