// Package safety fuses the market model score with the news sentiment score
// into a single safety verdict for a stock.
package safety

import (
	"context"
	"math"
	"sync"
	"time"

	"stocksafe/internal/features"
	"stocksafe/internal/logger"
	"stocksafe/internal/model"
	"stocksafe/internal/news"
	"stocksafe/internal/types"
)

// Blend weights for the final score.
const (
	marketWeight = 0.65
	newsWeight   = 0.35
)

// Verdict cutoffs over the fused score.
const (
	safeCutoff     = 0.75
	moderateCutoff = 0.40
)

// Scorer produces safety scores. It is safe for concurrent use. Results are
// cached per symbol for the configured TTL; a zero TTL disables the cache.
type Scorer struct {
	builder *features.Builder
	news    *news.Service
	models  *model.Registry
	period  string

	ttl   time.Duration
	mu    sync.RWMutex
	cache map[string]cachedResult
}

type cachedResult struct {
	result    *Result
	expiresAt time.Time
}

func NewScorer(builder *features.Builder, newsSvc *news.Service, models *model.Registry, period string, ttl time.Duration) *Scorer {
	return &Scorer{
		builder: builder,
		news:    newsSvc,
		models:  models,
		period:  period,
		ttl:     ttl,
		cache:   make(map[string]cachedResult),
	}
}

// Result pairs the fused score with the news detail that produced it.
type Result struct {
	Safety types.SafetyScore
	News   types.NewsScore
	Frame  *features.Frame
}

// Score computes the safety score for a symbol. company is the display name
// used for news search; pass the symbol itself when no directory entry
// exists. A symbol with no price history returns (nil, nil): there is
// nothing to score, which is not an error.
func (s *Scorer) Score(ctx context.Context, symbol, company string) (*Result, error) {
	if r, ok := s.lookup(symbol); ok {
		logger.Debug(ctx, "safety cache hit", "symbol", symbol)
		return r, nil
	}

	timer := logger.StartOperation(ctx, "safety_score", "symbol", symbol)
	ctx = timer.GetContext()

	frame, err := s.builder.Build(ctx, symbol, s.period)
	if err != nil {
		timer.EndWithError(err)
		return nil, err
	}
	if frame == nil {
		timer.End("outcome", "no_history")
		return nil, nil
	}

	// News runs while the market model scores the latest row.
	newsCh := make(chan types.NewsScore, 1)
	go func() {
		newsCh <- s.news.Analyze(ctx, company)
	}()

	marketScore := s.marketScore(frame)
	newsScore := <-newsCh

	// Categorize before rounding: only the reported score is truncated to
	// 3 decimals, the verdict bands see the exact fusion.
	fused := marketWeight*marketScore + newsWeight*newsScore.FinalScore
	verdict := categorizeScore(fused)
	final := round3(fused)

	result := &Result{
		Safety: types.SafetyScore{
			Symbol:      symbol,
			Score:       final,
			Verdict:     verdict,
			Glyph:       verdict.Glyph(),
			MarketScore: round3(marketScore),
			NewsScore:   round3(newsScore.FinalScore),
			Sentiment:   newsScore.Sentiment,
		},
		News:  newsScore,
		Frame: frame,
	}

	logger.Score(ctx, symbol, final, string(verdict),
		"market_score", result.Safety.MarketScore,
		"news_score", result.Safety.NewsScore)
	timer.End("score", final, "verdict", string(verdict))

	s.store(symbol, result)
	return result, nil
}

func (s *Scorer) lookup(symbol string) (*Result, bool) {
	if s.ttl <= 0 {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.cache[symbol]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.result, true
}

func (s *Scorer) store(symbol string, r *Result) {
	if s.ttl <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[symbol] = cachedResult{result: r, expiresAt: time.Now().Add(s.ttl)}
}

// marketScore runs the latest feature row through the market model in the
// metadata's feature order, imputing anything missing.
func (s *Scorer) marketScore(frame *features.Frame) float64 {
	row := frame.Latest()
	vec := s.models.Impute(row.Vector(s.models.Meta.Features))
	return clamp01(s.models.Market.Predict(vec))
}

// categorizeScore maps a fused score onto its verdict band.
func categorizeScore(score float64) types.Verdict {
	switch {
	case score >= safeCutoff:
		return types.VerdictSafe
	case score >= moderateCutoff:
		return types.VerdictModerate
	default:
		return types.VerdictRisky
	}
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}
