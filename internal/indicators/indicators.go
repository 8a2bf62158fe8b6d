package indicators

import (
	"math"

	"stocksafe/internal/types"
)

// rsiEpsilon keeps the relative-strength ratio finite when a window has no
// losing days.
const rsiEpsilon = 1e-9

// Set holds one derived column per indicator, index-aligned with the input
// series. Every value at position t depends only on rows 0..t; warmup rows
// are NaN.
type Set struct {
	Return []float64 // close[t]/close[t-1] - 1
	Ret7   []float64
	Ret30  []float64
	Ret90  []float64
	Vol30  []float64
	Vol90  []float64
	SMA20  []float64
	SMA50  []float64
	Mom20  []float64
	Mom50  []float64
	RSI    []float64
	EMA12  []float64
	EMA26  []float64
	MACD   []float64
	Signal []float64
}

// Compute derives the full indicator set for a price series. Short series
// are not an error, the outputs are simply NaN wherever a window has not
// filled.
func Compute(s types.PriceSeries) *Set {
	closes := s.Closes()

	set := &Set{
		Return: Returns(closes, 1),
		Ret7:   Returns(closes, 7),
		Ret30:  Returns(closes, 30),
		Ret90:  Returns(closes, 90),
		SMA20:  NewRoller(20).Mean(closes),
		SMA50:  NewRoller(50).Mean(closes),
		EMA12:  EMA(closes, 12),
		EMA26:  EMA(closes, 26),
	}
	set.Vol30 = NewRoller(30).Std(set.Return)
	set.Vol90 = NewRoller(90).Std(set.Return)
	set.Mom20 = momentum(closes, set.SMA20)
	set.Mom50 = momentum(closes, set.SMA50)
	set.RSI = RSI(closes, 14)

	set.MACD = make([]float64, len(closes))
	for i := range closes {
		set.MACD[i] = set.EMA12[i] - set.EMA26[i]
	}
	set.Signal = EMA(set.MACD, 9)

	return set
}

// Returns computes the k-period fractional return close[t]/close[t-k] - 1.
func Returns(closes []float64, k int) []float64 {
	out := make([]float64, len(closes))
	for t := range closes {
		if t < k {
			out[t] = math.NaN()
			continue
		}
		out[t] = closes[t]/closes[t-k] - 1
	}
	return out
}

// EMA is the exponential moving average with smoothing span n, seeded from
// the first value rather than a bias-corrected weighted average.
func EMA(vals []float64, span int) []float64 {
	out := make([]float64, len(vals))
	if len(vals) == 0 {
		return out
	}
	alpha := 2.0 / (float64(span) + 1.0)
	out[0] = vals[0]
	for t := 1; t < len(vals); t++ {
		out[t] = alpha*vals[t] + (1-alpha)*out[t-1]
	}
	return out
}

// RSI computes the Relative Strength Index over the given period. Gains and
// losses are averaged with a plain rolling mean; the first delta is
// undefined and counts as zero gain and zero loss.
func RSI(closes []float64, period int) []float64 {
	n := len(closes)
	gains := make([]float64, n)
	losses := make([]float64, n)
	for t := 1; t < n; t++ {
		d := closes[t] - closes[t-1]
		if d > 0 {
			gains[t] = d
		} else {
			losses[t] = -d
		}
	}

	r := NewRoller(period)
	avgGain := r.Mean(gains)
	avgLoss := r.Mean(losses)

	out := make([]float64, n)
	for t := range out {
		if math.IsNaN(avgGain[t]) || math.IsNaN(avgLoss[t]) {
			out[t] = math.NaN()
			continue
		}
		rs := avgGain[t] / (avgLoss[t] + rsiEpsilon)
		out[t] = 100 - 100/(1+rs)
	}
	return out
}

// momentum is close/SMA - 1, NaN until the SMA warms up.
func momentum(closes, sma []float64) []float64 {
	out := make([]float64, len(closes))
	for t := range closes {
		if math.IsNaN(sma[t]) {
			out[t] = math.NaN()
			continue
		}
		out[t] = closes[t]/sma[t] - 1
	}
	return out
}
