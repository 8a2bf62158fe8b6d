package safety

import (
	"fmt"
	"strings"

	"stocksafe/internal/format"
	"stocksafe/internal/types"
)

// Advise answers a free-text question about a scored stock with a
// rule-based reply. It keys off question keywords and falls back to an
// overall summary.
func Advise(question string, r *Result) string {
	q := strings.ToLower(question)

	switch {
	case strings.Contains(q, "buy") || strings.Contains(q, "invest"):
		return buyAdvice(r)
	case strings.Contains(q, "risk"):
		return riskAdvice(r)
	case strings.Contains(q, "news") || strings.Contains(q, "sentiment"):
		return newsAdvice(r)
	default:
		return Summary(r)
	}
}

func buyAdvice(r *Result) string {
	switch r.Safety.Verdict {
	case types.VerdictSafe:
		return fmt.Sprintf("%s scores %s (%.3f). Indicators and news both look stable; the model sees it as a lower-risk holding right now.",
			r.Safety.Symbol, r.Safety.Verdict, r.Safety.Score)
	case types.VerdictModerate:
		return fmt.Sprintf("%s scores %s (%.3f). Mixed signals; consider position sizing carefully and watch the news flow.",
			r.Safety.Symbol, r.Safety.Verdict, r.Safety.Score)
	default:
		return fmt.Sprintf("%s scores %s (%.3f). The model flags elevated downside risk; this is not a defensive pick.",
			r.Safety.Symbol, r.Safety.Verdict, r.Safety.Score)
	}
}

func riskAdvice(r *Result) string {
	if len(r.News.Risks) == 0 {
		return fmt.Sprintf("No risk-flagged headlines for %s. Market score is %.3f.",
			r.Safety.Symbol, r.Safety.MarketScore)
	}
	return fmt.Sprintf("Risk-flagged headlines for %s: %s",
		r.Safety.Symbol, strings.Join(r.News.Risks, " | "))
}

func newsAdvice(r *Result) string {
	if len(r.News.Headlines) == 0 {
		return fmt.Sprintf("No recent headlines found for %s; news sentiment defaulted to neutral.", r.Safety.Symbol)
	}
	return fmt.Sprintf("News sentiment for %s is %s (blended score %.3f over %d headlines).",
		r.Safety.Symbol, r.News.Sentiment, r.News.FinalScore, len(r.News.Headlines))
}

// Summary renders the one-line verdict with fundamentals when available.
func Summary(r *Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s (score %.3f, market %.3f, news %.3f, sentiment %s)",
		r.Safety.Glyph, r.Safety.Symbol, r.Safety.Verdict,
		r.Safety.Score, r.Safety.MarketScore, r.Safety.NewsScore, r.Safety.Sentiment)
	if r.Frame != nil {
		f := r.Frame.Fundamentals
		fmt.Fprintf(&b, ", market cap %s, 52w high %s", format.Indian(f.MarketCap), format.Indian(f.FiftyTwoWeekHigh))
	}
	return b.String()
}
