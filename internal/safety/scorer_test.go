package safety

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	"stocksafe/internal/features"
	"stocksafe/internal/model"
	"stocksafe/internal/news"
	"stocksafe/internal/types"
)

type stubSource struct {
	histories map[string]types.PriceSeries
	calls     int
}

func (s *stubSource) History(_ context.Context, symbol, _ string) (types.PriceSeries, error) {
	s.calls++
	return s.histories[symbol], nil
}

func (s *stubSource) Info(context.Context, string) (types.Fundamentals, error) {
	return types.Fundamentals{MarketCap: 5e11, TrailingPE: 20, PriceToBook: 5, Beta: 1.0}, nil
}

type silentFetcher struct{}

func (silentFetcher) Headlines(context.Context, string) []string { return nil }

func risingSeries(n int) types.PriceSeries {
	out := make(types.PriceSeries, n)
	day := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	price := 100.0
	for i := 0; i < n; i++ {
		out[i] = types.Bar{Date: day, Close: price, Open: price, High: price, Low: price, Volume: 1}
		day = day.AddDate(0, 0, 1)
		price *= 1.001
	}
	return out
}

func testRegistry() *model.Registry {
	return &model.Registry{
		// a constant model keeps the fusion arithmetic predictable
		Market: &model.LinearModel{Coefficients: []float64{0}, Intercept: 0.8},
		Meta:   model.Metadata{Features: []string{"RSI"}},
		Vectorizer: &model.Vectorizer{
			Vocabulary: map[string]int{"profit": 0},
			IDF:        []float64{1.0},
		},
		Sentiment: &model.LogisticModel{Coefficients: []float64{1.0}},
	}
}

func newTestScorer(src *stubSource) *Scorer {
	reg := testRegistry()
	svc := news.NewService(news.NewAnalyzer(reg), time.Minute, silentFetcher{})
	builder := features.NewBuilder(src, "^NSEI")
	return NewScorer(builder, svc, reg, "1y", time.Minute)
}

func TestCategorizeScoreBands(t *testing.T) {
	cases := []struct {
		score float64
		want  types.Verdict
	}{
		{0.9, types.VerdictSafe},
		{0.75, types.VerdictSafe},
		{0.749999, types.VerdictModerate},
		{0.5, types.VerdictModerate},
		{0.40, types.VerdictModerate},
		{0.399999, types.VerdictRisky},
		{0.0, types.VerdictRisky},
	}
	for _, tc := range cases {
		if got := categorizeScore(tc.score); got != tc.want {
			t.Errorf("categorizeScore(%v) = %v, want %v", tc.score, got, tc.want)
		}
	}
}

func TestScoreFusesMarketAndNews(t *testing.T) {
	src := &stubSource{histories: map[string]types.PriceSeries{
		"TCS":   risingSeries(120),
		"^NSEI": risingSeries(120),
	}}
	scorer := newTestScorer(src)

	r, err := scorer.Score(context.Background(), "TCS", "Tata Consultancy")
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if r == nil {
		t.Fatal("expected a result for a symbol with history")
	}

	// market 0.8 fixed, news neutral 0.5: 0.65*0.8 + 0.35*0.5 = 0.695
	if math.Abs(r.Safety.Score-0.695) > 1e-9 {
		t.Errorf("fused score = %v, want 0.695", r.Safety.Score)
	}
	if r.Safety.Verdict != types.VerdictModerate {
		t.Errorf("verdict = %v, want MODERATE", r.Safety.Verdict)
	}
	if r.Safety.MarketScore != 0.8 || r.Safety.NewsScore != 0.5 {
		t.Errorf("component scores = %v/%v, want 0.8/0.5", r.Safety.MarketScore, r.Safety.NewsScore)
	}
	if r.Safety.Sentiment != "Neutral" {
		t.Errorf("sentiment = %q, want Neutral", r.Safety.Sentiment)
	}
	if r.Safety.Glyph != types.VerdictModerate.Glyph() {
		t.Errorf("glyph mismatch: %q", r.Safety.Glyph)
	}
}

func TestScoreNoHistoryReturnsNil(t *testing.T) {
	scorer := newTestScorer(&stubSource{histories: map[string]types.PriceSeries{}})

	r, err := scorer.Score(context.Background(), "NOPE", "Nope Ltd")
	if err != nil {
		t.Fatalf("no history must not be an error: %v", err)
	}
	if r != nil {
		t.Fatalf("expected nil result for missing history, got %+v", r)
	}
}

func TestScoreRoundsToThreeDecimals(t *testing.T) {
	src := &stubSource{histories: map[string]types.PriceSeries{
		"TCS":   risingSeries(120),
		"^NSEI": risingSeries(120),
	}}
	reg := testRegistry()
	reg.Market.Intercept = 0.777777
	svc := news.NewService(news.NewAnalyzer(reg), time.Minute, silentFetcher{})
	scorer := NewScorer(features.NewBuilder(src, "^NSEI"), svc, reg, "1y", 0)

	r, err := scorer.Score(context.Background(), "TCS", "TCS")
	if err != nil || r == nil {
		t.Fatalf("Score failed: %v %v", r, err)
	}
	if r.Safety.MarketScore != 0.778 {
		t.Errorf("market score not rounded: %v", r.Safety.MarketScore)
	}
	if got := r.Safety.Score * 1000; math.Abs(got-math.Round(got)) > 1e-9 {
		t.Errorf("fused score not rounded to 3 decimals: %v", r.Safety.Score)
	}
}

func TestVerdictUsesUnroundedFusion(t *testing.T) {
	src := &stubSource{histories: map[string]types.PriceSeries{
		"TCS":   risingSeries(120),
		"^NSEI": risingSeries(120),
	}}

	// market 0.884, neutral news: fused = 0.65*0.884 + 0.35*0.5 = 0.7496.
	// That reports as 0.750 but must stay below the SAFE band.
	reg := testRegistry()
	reg.Market.Intercept = 0.884
	svc := news.NewService(news.NewAnalyzer(reg), time.Minute, silentFetcher{})
	scorer := NewScorer(features.NewBuilder(src, "^NSEI"), svc, reg, "1y", 0)

	r, err := scorer.Score(context.Background(), "TCS", "TCS")
	if err != nil || r == nil {
		t.Fatalf("Score failed: %v %v", r, err)
	}
	if r.Safety.Score != 0.75 {
		t.Errorf("reported score = %v, want rounded 0.75", r.Safety.Score)
	}
	if r.Safety.Verdict != types.VerdictModerate {
		t.Errorf("verdict = %v, want MODERATE for fused 0.7496", r.Safety.Verdict)
	}

	// same shape at the moderate/risky edge: fused 0.39964 reports as 0.400
	// but stays RISKY.
	reg2 := testRegistry()
	reg2.Market.Intercept = 0.3456
	svc2 := news.NewService(news.NewAnalyzer(reg2), time.Minute, silentFetcher{})
	scorer2 := NewScorer(features.NewBuilder(src, "^NSEI"), svc2, reg2, "1y", 0)

	r2, err := scorer2.Score(context.Background(), "TCS", "TCS")
	if err != nil || r2 == nil {
		t.Fatalf("Score failed: %v %v", r2, err)
	}
	if r2.Safety.Score != 0.4 {
		t.Errorf("reported score = %v, want rounded 0.4", r2.Safety.Score)
	}
	if r2.Safety.Verdict != types.VerdictRisky {
		t.Errorf("verdict = %v, want RISKY for fused 0.39964", r2.Safety.Verdict)
	}
}

func TestScoreCachesPerSymbol(t *testing.T) {
	src := &stubSource{histories: map[string]types.PriceSeries{
		"TCS":   risingSeries(120),
		"^NSEI": risingSeries(120),
	}}
	scorer := newTestScorer(src)

	ctx := context.Background()
	first, err := scorer.Score(ctx, "TCS", "TCS")
	if err != nil || first == nil {
		t.Fatalf("Score failed: %v %v", first, err)
	}
	callsAfterFirst := src.calls

	second, err := scorer.Score(ctx, "TCS", "TCS")
	if err != nil || second == nil {
		t.Fatalf("cached Score failed: %v %v", second, err)
	}
	if src.calls != callsAfterFirst {
		t.Errorf("cached score must not refetch history: %d calls then %d", callsAfterFirst, src.calls)
	}
	if first.Safety.Score != second.Safety.Score {
		t.Errorf("cached score differs: %v vs %v", first.Safety.Score, second.Safety.Score)
	}
}

func TestClampKeepsModelOutputInRange(t *testing.T) {
	if clamp01(1.7) != 1 || clamp01(-0.3) != 0 || clamp01(0.4) != 0.4 {
		t.Error("clamp01 broken")
	}
}

func TestAdviseKeywordRouting(t *testing.T) {
	r := &Result{
		Safety: types.SafetyScore{
			Symbol: "TCS", Score: 0.81, Verdict: types.VerdictSafe,
			Glyph: types.VerdictSafe.Glyph(), MarketScore: 0.85, NewsScore: 0.7,
			Sentiment: "Positive",
		},
		News: types.NewsScore{
			Headlines: []string{"Profit beats estimates", "Margins decline on costs"},
			Sentiment: "Positive", FinalScore: 0.7,
			Risks: []string{"Margins decline on costs"},
		},
	}

	if got := Advise("Should I buy this stock?", r); !strings.Contains(got, "SAFE") {
		t.Errorf("buy question must cite the verdict: %q", got)
	}
	if got := Advise("What are the risks?", r); !strings.Contains(got, "Margins decline") {
		t.Errorf("risk question must surface risk headlines: %q", got)
	}
	if got := Advise("How is the news?", r); !strings.Contains(got, "Positive") {
		t.Errorf("news question must cite sentiment: %q", got)
	}
	if got := Advise("tell me everything", r); !strings.Contains(got, "TCS") || !strings.Contains(got, "0.810") {
		t.Errorf("default question must fall back to the summary: %q", got)
	}
}

func TestSummaryShowsFundamentals(t *testing.T) {
	r := &Result{
		Safety: types.SafetyScore{
			Symbol: "TCS", Score: 0.81, Verdict: types.VerdictSafe,
			Glyph: types.VerdictSafe.Glyph(), Sentiment: "Positive",
		},
		Frame: &features.Frame{
			Symbol: "TCS",
			Fundamentals: types.Fundamentals{
				MarketCap:        1.25e13,
				FiftyTwoWeekHigh: 4254.75,
			},
		},
	}

	got := Summary(r)
	if !strings.Contains(got, "market cap ₹1250000.00 Cr") {
		t.Errorf("summary missing market cap: %q", got)
	}
	if !strings.Contains(got, "52w high ₹4.25 K") {
		t.Errorf("summary missing 52-week high: %q", got)
	}

	// without a frame the fundamentals clause is omitted entirely
	bare := Summary(&Result{Safety: r.Safety})
	if strings.Contains(bare, "market cap") {
		t.Errorf("frameless summary must omit fundamentals: %q", bare)
	}
}
