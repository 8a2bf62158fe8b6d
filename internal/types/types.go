package types

import (
	"math"
	"time"
)

// Bar is one trading day of OHLCV data.
type Bar struct {
	Date                           time.Time
	Open, High, Low, Close, Volume float64
}

// PriceSeries is a chronologically ordered daily price history with no
// duplicate dates. It is never mutated after fetch.
type PriceSeries []Bar

func (s PriceSeries) Empty() bool { return len(s) == 0 }

// Closes returns the close column.
func (s PriceSeries) Closes() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Close
	}
	return out
}

// Fundamentals holds the static per-company attributes attached to every
// feature row. Numeric fields are NaN when the provider had no value.
type Fundamentals struct {
	MarketCap        float64
	TrailingPE       float64
	PriceToBook      float64
	Beta             float64
	FiftyTwoWeekHigh float64
	Sector           string
	LongName         string
}

// EmptyFundamentals returns a Fundamentals with every numeric field NaN,
// used when the info fetch fails or the provider has no fundamentals.
func EmptyFundamentals() Fundamentals {
	nan := math.NaN()
	return Fundamentals{
		MarketCap:        nan,
		TrailingPE:       nan,
		PriceToBook:      nan,
		Beta:             nan,
		FiftyTwoWeekHigh: nan,
	}
}

// Verdict is the discrete safety category.
type Verdict string

const (
	VerdictSafe     Verdict = "SAFE"
	VerdictModerate Verdict = "MODERATE"
	VerdictRisky    Verdict = "RISKY"
)

// Glyph returns the display marker for a verdict. Presentation only, the
// scoring logic never reads it.
func (v Verdict) Glyph() string {
	switch v {
	case VerdictSafe:
		return "\U0001F7E2"
	case VerdictModerate:
		return "\U0001F7E1"
	default:
		return "\U0001F534"
	}
}

// SafetyScore is the request-scoped result of one safety computation.
type SafetyScore struct {
	Symbol      string  `json:"symbol"`
	Score       float64 `json:"score"`
	Verdict     Verdict `json:"label"`
	Glyph       string  `json:"emoji"`
	MarketScore float64 `json:"market_score"`
	NewsScore   float64 `json:"news_score"`
	Sentiment   string  `json:"sentiment"`
}

// NewsScore is the request-scoped result of one news analysis.
type NewsScore struct {
	Headlines     []string `json:"headlines"`
	Sentiment     string   `json:"sentiment"`
	LexiconScore  float64  `json:"vader_score"`
	ModelScore    float64  `json:"ml_score"`
	FinalScore    float64  `json:"final_score"`
	Risks         []string `json:"risks,omitempty"`
	Opportunities []string `json:"opportunities,omitempty"`
}
