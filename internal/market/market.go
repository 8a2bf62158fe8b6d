// Package market builds the relative-market feature set: a stock's indicator
// series compared against a benchmark index aligned onto the stock's trading
// calendar.
package market

import (
	"math"
	"time"

	"stocksafe/internal/indicators"
	"stocksafe/internal/types"
)

// Set holds the relative features, index-aligned with the stock series.
type Set struct {
	IndexRet7  []float64
	IndexRet30 []float64
	IndexRet90 []float64
	Alpha30    []float64
	Alpha90    []float64
	Corr30     []float64
	Corr90     []float64
	// RegimeUp30 is 1 when the aligned 30d index return is positive, else 0.
	// A NaN index return is treated as falsy.
	RegimeUp30 []float64
}

// Compute aligns the benchmark onto the stock calendar and derives the
// relative feature set. stockInd must be the indicator set computed from
// stock.
func Compute(stock types.PriceSeries, stockInd *indicators.Set, bench types.PriceSeries) *Set {
	aligned := AlignCloses(stock, bench)

	set := &Set{
		IndexRet7:  indicators.Returns(aligned, 7),
		IndexRet30: indicators.Returns(aligned, 30),
		IndexRet90: indicators.Returns(aligned, 90),
	}

	n := len(stock)
	set.Alpha30 = sub(stockInd.Ret30, set.IndexRet30)
	set.Alpha90 = sub(stockInd.Ret90, set.IndexRet90)

	benchRet := indicators.Returns(aligned, 1)
	set.Corr30 = indicators.NewRoller(30).Corr(stockInd.Return, benchRet)
	set.Corr90 = indicators.NewRoller(90).Corr(stockInd.Return, benchRet)

	set.RegimeUp30 = make([]float64, n)
	for t := 0; t < n; t++ {
		if set.IndexRet30[t] > 0 { // NaN compares false
			set.RegimeUp30[t] = 1
		}
	}
	return set
}

// AlignCloses maps the benchmark close series onto the stock's date index.
// A missing benchmark observation is carried forward from the latest earlier
// benchmark close, never backfilled from the future; stock dates before the
// first benchmark observation stay NaN. Alignment is by calendar day.
func AlignCloses(stock, bench types.PriceSeries) []float64 {
	out := make([]float64, len(stock))
	last := math.NaN()
	j := 0
	for i, bar := range stock {
		for j < len(bench) && dayKey(bench[j].Date) <= dayKey(bar.Date) {
			last = bench[j].Close
			j++
		}
		out[i] = last
	}
	return out
}

func dayKey(t time.Time) int {
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}

func sub(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] - b[i]
	}
	return out
}
