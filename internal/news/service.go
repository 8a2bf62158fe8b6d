package news

import (
	"context"
	"sync"
	"time"

	"stocksafe/internal/interfaces"
	"stocksafe/internal/logger"
	"stocksafe/internal/types"
)

// Service fetches headlines for a company and produces its news score.
// Fetchers are tried in order until one returns headlines; results are
// cached per company so repeated scoring does not hammer the sources.
type Service struct {
	fetchers []interfaces.HeadlineFetcher
	analyzer *Analyzer

	ttl   time.Duration
	mu    sync.RWMutex
	cache map[string]cachedScore
}

type cachedScore struct {
	score     types.NewsScore
	expiresAt time.Time
}

func NewService(analyzer *Analyzer, ttl time.Duration, fetchers ...interfaces.HeadlineFetcher) *Service {
	s := &Service{
		fetchers: fetchers,
		analyzer: analyzer,
		ttl:      ttl,
		cache:    make(map[string]cachedScore),
	}
	go s.cleanupLoop()
	return s
}

// Analyze scores recent news for a company. With no headlines from any
// fetcher the result is neutral rather than an error: market data alone can
// still carry the safety score.
func (s *Service) Analyze(ctx context.Context, company string) types.NewsScore {
	if score, ok := s.lookup(company); ok {
		logger.Debug(ctx, "news cache hit", "company", company)
		return score
	}

	var headlines []string
	for _, f := range s.fetchers {
		headlines = f.Headlines(ctx, company)
		if len(headlines) > 0 {
			break
		}
	}

	score := s.score(headlines)
	if len(headlines) == 0 {
		logger.Warn(ctx, "no headlines found, using neutral news score", "company", company)
	}

	s.store(company, score)
	return score
}

func (s *Service) score(headlines []string) types.NewsScore {
	lexicon := s.analyzer.LexiconScore(headlines)
	learned := s.analyzer.ModelScore(headlines)
	risks, opportunities := Tags(headlines)

	return types.NewsScore{
		Headlines:     headlines,
		Sentiment:     Categorize(lexicon),
		LexiconScore:  lexicon,
		ModelScore:    learned,
		FinalScore:    Fuse(lexicon, learned),
		Risks:         risks,
		Opportunities: opportunities,
	}
}

func (s *Service) lookup(company string) (types.NewsScore, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.cache[company]
	if !ok || time.Now().After(entry.expiresAt) {
		return types.NewsScore{}, false
	}
	return entry.score, true
}

func (s *Service) store(company string, score types.NewsScore) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[company] = cachedScore{score: score, expiresAt: time.Now().Add(s.ttl)}
}

func (s *Service) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		now := time.Now()
		s.mu.Lock()
		for k, entry := range s.cache {
			if now.After(entry.expiresAt) {
				delete(s.cache, k)
			}
		}
		s.mu.Unlock()
	}
}
