package labels

import (
	"math"
	"testing"
)

func flat(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestComputeFuture(t *testing.T) {
	n := 200
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100 + float64(i) // +1 per day
	}
	f := ComputeFuture(closes)

	t.Run("forward return", func(t *testing.T) {
		want := (closes[90] / closes[0]) - 1
		if math.Abs(f.Ret90[0]-want) > 1e-12 {
			t.Errorf("future_90d_return[0]: want %f, got %f", want, f.Ret90[0])
		}
		if !math.IsNaN(f.Ret90[n-90]) {
			t.Errorf("rows within 90 days of the end must have NaN forward return")
		}
		if math.IsNaN(f.Ret90[n-91]) {
			t.Errorf("row n-91 still has a full forward window")
		}
	})

	t.Run("forward drawdown of rising series", func(t *testing.T) {
		// Future min over t+1..t+30 is close[t+1]; drawdown is +1/close[t].
		want := (closes[1] - closes[0]) / closes[0]
		if math.Abs(f.Drawdown30[0]-want) > 1e-12 {
			t.Errorf("future_max_drawdown_30[0]: want %f, got %f", want, f.Drawdown30[0])
		}
		if !math.IsNaN(f.Drawdown30[n-30]) {
			t.Errorf("rows within 30 days of the end must have NaN forward drawdown")
		}
	})
}

func TestComputeFutureDrawdownOnDip(t *testing.T) {
	n := 60
	closes := flat(n, 100)
	closes[10] = 80 // one-day crash inside row 0's window

	f := ComputeFuture(closes)
	if math.Abs(f.Drawdown30[0]-(-0.20)) > 1e-12 {
		t.Errorf("expected -0.20 drawdown, got %f", f.Drawdown30[0])
	}
}

func TestAssignThresholds(t *testing.T) {
	cases := []struct {
		name            string
		dd, ret, alpha  float64
		want            float64
	}{
		{"safe", -0.05, 0.05, 0.01, Safe},
		{"drawdown breach drops to moderate", -0.15, 0.05, 0.01, Moderate},
		{"weak return drops to moderate", -0.05, 0.01, 0.01, Moderate},
		{"weak alpha drops to moderate", -0.05, 0.05, -0.03, Moderate},
		{"deep drawdown is risky", -0.25, 0.05, 0.01, Risky},
		{"bad return is risky", -0.15, -0.10, 0.01, Risky},
		{"all NaN fills to zero and lands moderate", math.NaN(), math.NaN(), math.NaN(), Moderate},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := &Future{Ret90: []float64{tc.ret}, Drawdown30: []float64{tc.dd}}
			got := Assign(f, []float64{tc.alpha})[0]
			if got != tc.want {
				t.Errorf("want label %v, got %v", tc.want, got)
			}
		})
	}
}
