package news

import (
	"context"
	"math"
	"testing"
	"time"

	"stocksafe/internal/model"
)

func testRegistry() *model.Registry {
	return &model.Registry{
		Vectorizer: &model.Vectorizer{
			Vocabulary: map[string]int{"profit": 0, "loss": 1, "growth": 2},
			IDF:        []float64{1.0, 1.0, 1.0},
		},
		Sentiment: &model.LogisticModel{Coefficients: []float64{3.0, -3.0, 2.0}},
	}
}

func TestFuseBlendsBothPasses(t *testing.T) {
	// neutral lexicon, neutral classifier
	if got := Fuse(0, 0.5); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("neutral inputs must fuse to 0.5, got %v", got)
	}
	// fully positive both ways
	if got := Fuse(1, 1); math.Abs(got-1.0) > 1e-12 {
		t.Errorf("maximal inputs must fuse to 1.0, got %v", got)
	}
	// fully negative both ways
	if got := Fuse(-1, 0); got != 0 {
		t.Errorf("minimal inputs must fuse to 0, got %v", got)
	}
}

func TestCategorizeCutoffs(t *testing.T) {
	cases := []struct {
		compound float64
		want     string
	}{
		{0.5, "Positive"},
		{0.21, "Positive"},
		{0.2, "Neutral"},
		{0.0, "Neutral"},
		{-0.2, "Neutral"},
		{-0.21, "Negative"},
		{-0.9, "Negative"},
	}
	for _, tc := range cases {
		if got := Categorize(tc.compound); got != tc.want {
			t.Errorf("Categorize(%v) = %q, want %q", tc.compound, got, tc.want)
		}
	}
}

func TestTagsKeywordMatching(t *testing.T) {
	headlines := []string{
		"Shares FALL on fraud probe",
		"Quarterly profit beats estimates",
		"Board meeting scheduled for October",
		"Revenue growth slows as margins decline",
	}
	risks, opportunities := Tags(headlines)

	if len(risks) != 2 {
		t.Errorf("expected 2 risk headlines, got %v", risks)
	}
	if len(opportunities) != 2 {
		t.Errorf("expected 2 opportunity headlines, got %v", opportunities)
	}
	// the last headline carries both a growth and a decline keyword
	foundBoth := false
	for _, r := range risks {
		for _, o := range opportunities {
			if r == headlines[3] && o == headlines[3] {
				foundBoth = true
			}
		}
	}
	if !foundBoth {
		t.Error("headline with both keyword kinds must appear in both lists")
	}
}

func TestAnalyzerNeutralOnEmpty(t *testing.T) {
	a := NewAnalyzer(testRegistry())
	if got := a.LexiconScore(nil); got != 0 {
		t.Errorf("empty lexicon score = %v, want 0", got)
	}
	if got := a.ModelScore(nil); got != 0.5 {
		t.Errorf("empty model score = %v, want 0.5", got)
	}
}

func TestAnalyzerDirectionality(t *testing.T) {
	a := NewAnalyzer(testRegistry())

	good := []string{"Record profit and strong growth this quarter"}
	bad := []string{"Heavy loss reported, shares plunge"}

	if gl, bl := a.LexiconScore(good), a.LexiconScore(bad); gl <= bl {
		t.Errorf("lexicon must rank good news above bad: good=%v bad=%v", gl, bl)
	}
	if gm, bm := a.ModelScore(good), a.ModelScore(bad); gm <= bm {
		t.Errorf("classifier must rank good news above bad: good=%v bad=%v", gm, bm)
	}
}

type fixedFetcher struct {
	headlines []string
	calls     int
}

func (f *fixedFetcher) Headlines(context.Context, string) []string {
	f.calls++
	return f.headlines
}

func TestServiceFallbackOrder(t *testing.T) {
	empty := &fixedFetcher{}
	backup := &fixedFetcher{headlines: []string{"Profit growth continues"}}
	svc := NewService(NewAnalyzer(testRegistry()), time.Minute, empty, backup)

	score := svc.Analyze(context.Background(), "TCS")
	if len(score.Headlines) != 1 {
		t.Fatalf("expected fallback headlines, got %v", score.Headlines)
	}
	if empty.calls != 1 || backup.calls != 1 {
		t.Errorf("fetchers called %d/%d times, want 1/1", empty.calls, backup.calls)
	}
}

func TestServiceNeutralWithoutHeadlines(t *testing.T) {
	svc := NewService(NewAnalyzer(testRegistry()), time.Minute, &fixedFetcher{})

	score := svc.Analyze(context.Background(), "TCS")
	if score.Sentiment != "Neutral" {
		t.Errorf("sentiment = %q, want Neutral", score.Sentiment)
	}
	if math.Abs(score.FinalScore-0.5) > 1e-12 {
		t.Errorf("final score = %v, want neutral 0.5", score.FinalScore)
	}
}

func TestServiceCachesResults(t *testing.T) {
	f := &fixedFetcher{headlines: []string{"Profit growth continues"}}
	svc := NewService(NewAnalyzer(testRegistry()), time.Minute, f)

	ctx := context.Background()
	first := svc.Analyze(ctx, "TCS")
	second := svc.Analyze(ctx, "TCS")
	if f.calls != 1 {
		t.Errorf("fetcher called %d times, want 1 (cache miss then hit)", f.calls)
	}
	if first.FinalScore != second.FinalScore {
		t.Errorf("cached score differs: %v vs %v", first.FinalScore, second.FinalScore)
	}

	svc.Analyze(ctx, "INFY")
	if f.calls != 2 {
		t.Errorf("distinct company must miss the cache, calls=%d", f.calls)
	}
}
