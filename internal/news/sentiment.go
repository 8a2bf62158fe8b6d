package news

import (
	"strings"

	"github.com/jonreiter/govader"

	"stocksafe/internal/model"
)

// Blend weights for fusing the learned classifier with the lexicon pass.
// The lexicon compound lives in [-1,1] and is rescaled to [0,1] before
// blending.
const (
	modelWeight   = 0.6
	lexiconWeight = 0.4
)

// Lexicon compound cutoffs for the discrete sentiment category.
const (
	positiveCutoff = 0.2
	negativeCutoff = -0.2
)

var riskKeywords = []string{"fall", "loss", "down", "fraud", "decline", "risk"}

var opportunityKeywords = []string{"rise", "gain", "profit", "growth", "beats", "surge"}

// Analyzer scores headline sentiment two ways and blends the results: a
// VADER lexicon pass and a TF-IDF logistic classifier trained on financial
// headlines.
type Analyzer struct {
	vader      *govader.SentimentIntensityAnalyzer
	vectorizer *model.Vectorizer
	classifier *model.LogisticModel
}

func NewAnalyzer(reg *model.Registry) *Analyzer {
	return &Analyzer{
		vader:      govader.NewSentimentIntensityAnalyzer(),
		vectorizer: reg.Vectorizer,
		classifier: reg.Sentiment,
	}
}

// LexiconScore averages the VADER compound score over the headlines.
// No headlines means a neutral 0.
func (a *Analyzer) LexiconScore(headlines []string) float64 {
	if len(headlines) == 0 {
		return 0
	}
	var sum float64
	for _, h := range headlines {
		sum += a.vader.PolarityScores(h).Compound
	}
	return sum / float64(len(headlines))
}

// ModelScore runs the classifier over the joined headline text and returns
// the positive-class probability. No headlines means a neutral 0.5.
func (a *Analyzer) ModelScore(headlines []string) float64 {
	if len(headlines) == 0 {
		return 0.5
	}
	vec := a.vectorizer.Transform(strings.Join(headlines, ". "))
	return a.classifier.PredictProba(vec)
}

// Fuse blends the two sentiment passes into the final [0,1] news score.
func Fuse(lexicon, modelScore float64) float64 {
	return modelWeight*modelScore + lexiconWeight*(lexicon+1)/2
}

// Categorize maps a lexicon compound to its display category.
func Categorize(compound float64) string {
	switch {
	case compound > positiveCutoff:
		return "Positive"
	case compound < negativeCutoff:
		return "Negative"
	default:
		return "Neutral"
	}
}

// Tags splits the headlines into risk and opportunity mentions by keyword.
// A headline can land in both lists.
func Tags(headlines []string) (risks, opportunities []string) {
	for _, h := range headlines {
		lower := strings.ToLower(h)
		if containsAny(lower, riskKeywords) {
			risks = append(risks, h)
		}
		if containsAny(lower, opportunityKeywords) {
			opportunities = append(opportunities, h)
		}
	}
	return risks, opportunities
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
