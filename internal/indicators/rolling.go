package indicators

import "math"

// Roller computes trailing-window aggregates over a series. A position gets
// a value only once at least MinPeriods non-NaN observations exist inside
// the trailing Window; until then the output is NaN, never zero.
type Roller struct {
	Window     int
	MinPeriods int
}

// NewRoller returns a Roller whose minimum periods equal the window, the
// policy used by every rolling statistic in this package.
func NewRoller(window int) Roller {
	return Roller{Window: window, MinPeriods: window}
}

func (r Roller) window(vals []float64, t int) []float64 {
	lo := t - r.Window + 1
	if lo < 0 {
		lo = 0
	}
	return vals[lo : t+1]
}

func validCount(w []float64) int {
	n := 0
	for _, v := range w {
		if !math.IsNaN(v) {
			n++
		}
	}
	return n
}

// Mean is the rolling arithmetic mean.
func (r Roller) Mean(vals []float64) []float64 {
	return r.apply(vals, func(w []float64) float64 {
		sum := 0.0
		n := 0
		for _, v := range w {
			if math.IsNaN(v) {
				continue
			}
			sum += v
			n++
		}
		return sum / float64(n)
	})
}

// Std is the rolling sample standard deviation (n-1 denominator).
func (r Roller) Std(vals []float64) []float64 {
	return r.apply(vals, func(w []float64) float64 {
		sum := 0.0
		n := 0
		for _, v := range w {
			if math.IsNaN(v) {
				continue
			}
			sum += v
			n++
		}
		if n < 2 {
			return math.NaN()
		}
		m := sum / float64(n)
		ss := 0.0
		for _, v := range w {
			if math.IsNaN(v) {
				continue
			}
			d := v - m
			ss += d * d
		}
		return math.Sqrt(ss / float64(n-1))
	})
}

// Min is the rolling minimum.
func (r Roller) Min(vals []float64) []float64 {
	return r.apply(vals, func(w []float64) float64 {
		lo := math.Inf(1)
		for _, v := range w {
			if !math.IsNaN(v) && v < lo {
				lo = v
			}
		}
		return lo
	})
}

func (r Roller) apply(vals []float64, f func([]float64) float64) []float64 {
	out := make([]float64, len(vals))
	for t := range vals {
		w := r.window(vals, t)
		if t+1 < r.Window || validCount(w) < r.MinPeriods {
			out[t] = math.NaN()
			continue
		}
		out[t] = f(w)
	}
	return out
}

// Corr is the rolling Pearson correlation between two equal-length series.
// Positions where either side is NaN inside the window are skipped; the
// result is NaN until MinPeriods paired observations exist.
func (r Roller) Corr(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for t := range a {
		if t+1 < r.Window {
			out[t] = math.NaN()
			continue
		}
		lo := t - r.Window + 1
		var sa, sb, saa, sbb, sab float64
		n := 0
		for i := lo; i <= t; i++ {
			if math.IsNaN(a[i]) || math.IsNaN(b[i]) {
				continue
			}
			sa += a[i]
			sb += b[i]
			saa += a[i] * a[i]
			sbb += b[i] * b[i]
			sab += a[i] * b[i]
			n++
		}
		if n < r.MinPeriods {
			out[t] = math.NaN()
			continue
		}
		fn := float64(n)
		cov := sab - sa*sb/fn
		va := saa - sa*sa/fn
		vb := sbb - sb*sb/fn
		if va <= 0 || vb <= 0 {
			out[t] = math.NaN()
			continue
		}
		out[t] = cov / math.Sqrt(va*vb)
	}
	return out
}
