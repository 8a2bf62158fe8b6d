package features

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"stocksafe/internal/types"
)

type stubSource struct {
	histories map[string]types.PriceSeries
	info      types.Fundamentals
}

func (s *stubSource) History(_ context.Context, symbol, _ string) (types.PriceSeries, error) {
	return s.histories[symbol], nil
}

func (s *stubSource) Info(_ context.Context, _ string) (types.Fundamentals, error) {
	return s.info, nil
}

func series(n int, start float64, step float64) types.PriceSeries {
	out := make(types.PriceSeries, n)
	day := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	price := start
	for i := 0; i < n; i++ {
		out[i] = types.Bar{Date: day, Open: price, High: price, Low: price, Close: price, Volume: 1000}
		day = day.AddDate(0, 0, 1)
		price += step
	}
	return out
}

func TestRowValueCoversEveryColumn(t *testing.T) {
	r := &Row{}
	for _, name := range ColumnNames() {
		if _, ok := r.Value(name); !ok {
			t.Errorf("Value does not serve declared column %q", name)
		}
	}
	if _, ok := r.Value("no_such_column"); ok {
		t.Error("Value accepted an undeclared column")
	}
}

func TestVectorFollowsRequestedOrder(t *testing.T) {
	r := &Row{RSI: 55, Vol30: 0.01}
	vec := r.Vector([]string{"vol_30", "RSI", "bogus"})
	if vec[0] != 0.01 || vec[1] != 55 {
		t.Errorf("vector did not follow column order: %v", vec)
	}
	if !math.IsNaN(vec[2]) {
		t.Errorf("unknown column must yield NaN, got %v", vec[2])
	}
}

func TestBuildAssemblesFrame(t *testing.T) {
	src := &stubSource{
		histories: map[string]types.PriceSeries{
			"TCS":   series(120, 100, 0.5),
			"^NSEI": series(120, 20000, 10),
		},
		info: types.Fundamentals{MarketCap: 1e12, TrailingPE: 25, PriceToBook: 8, Beta: 0.9},
	}
	b := NewBuilder(src, "^NSEI")

	frame, err := b.Build(context.Background(), "TCS", "1y")
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if frame == nil || len(frame.Rows) != 120 {
		t.Fatalf("expected 120 rows, got %+v", frame)
	}

	last := frame.Latest()
	if last == nil {
		t.Fatal("Latest returned nil for populated frame")
	}
	if last.Return <= 0 {
		t.Errorf("rising series must have positive latest return, got %v", last.Return)
	}
	if math.IsNaN(last.Vol30) || math.IsNaN(last.RSI) || math.IsNaN(last.Alpha30) {
		t.Errorf("rolling columns still NaN after 120 rows: vol30=%v rsi=%v alpha30=%v",
			last.Vol30, last.RSI, last.Alpha30)
	}
	if last.MarketCap != 1e12 || last.Beta != 0.9 {
		t.Errorf("fundamentals not carried onto rows: %+v", last)
	}

	first := frame.Rows[0]
	if !math.IsNaN(first.Return) || !math.IsNaN(first.Vol30) {
		t.Errorf("warmup row must hold NaN, got return=%v vol30=%v", first.Return, first.Vol30)
	}
}

func TestBuildEmptyHistoryReturnsNil(t *testing.T) {
	src := &stubSource{histories: map[string]types.PriceSeries{}}
	b := NewBuilder(src, "^NSEI")

	frame, err := b.Build(context.Background(), "NOPE", "1y")
	if err != nil {
		t.Fatalf("Build must not error on empty history: %v", err)
	}
	if frame != nil {
		t.Fatalf("expected nil frame for empty history, got %+v", frame)
	}
}

type faultySource struct {
	stub *stubSource
}

func (f *faultySource) History(ctx context.Context, symbol, period string) (types.PriceSeries, error) {
	if symbol == "^NSEI" {
		return nil, errors.New("benchmark endpoint down")
	}
	return f.stub.History(ctx, symbol, period)
}

func (f *faultySource) Info(context.Context, string) (types.Fundamentals, error) {
	return types.Fundamentals{}, errors.New("quote summary down")
}

func TestBuildDegradesOnCollaboratorErrors(t *testing.T) {
	src := &faultySource{stub: &stubSource{
		histories: map[string]types.PriceSeries{"TCS": series(120, 100, 0.5)},
	}}
	b := NewBuilder(src, "^NSEI")

	frame, err := b.Build(context.Background(), "TCS", "1y")
	if err != nil {
		t.Fatalf("collaborator errors must not abort Build: %v", err)
	}
	if frame == nil || len(frame.Rows) != 120 {
		t.Fatalf("expected a full frame despite degraded collaborators, got %+v", frame)
	}

	last := frame.Latest()
	if !math.IsNaN(last.Alpha30) || !math.IsNaN(last.IndexRet30) {
		t.Errorf("benchmark error must leave relative columns NaN: alpha30=%v indexRet30=%v",
			last.Alpha30, last.IndexRet30)
	}
	if !math.IsNaN(last.MarketCap) || !math.IsNaN(last.Beta) {
		t.Errorf("fundamentals error must leave fundamental columns NaN: %+v", last)
	}
	if math.IsNaN(last.RSI) {
		t.Error("price-only columns must survive degraded collaborators")
	}
}

func TestBuildMissingBenchmarkDegradesMarketColumns(t *testing.T) {
	src := &stubSource{
		histories: map[string]types.PriceSeries{"TCS": series(120, 100, 0.5)},
		info:      types.EmptyFundamentals(),
	}
	b := NewBuilder(src, "^NSEI")

	frame, err := b.Build(context.Background(), "TCS", "1y")
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	last := frame.Latest()
	if !math.IsNaN(last.Alpha30) || !math.IsNaN(last.Corr30) {
		t.Errorf("benchmark-relative columns must be NaN without benchmark data, got alpha30=%v corr30=%v",
			last.Alpha30, last.Corr30)
	}
	if math.IsNaN(last.RSI) {
		t.Error("price-only columns must survive a missing benchmark")
	}
}
