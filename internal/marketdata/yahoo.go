package marketdata

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	"stocksafe/internal/interfaces"
	"stocksafe/internal/logger"
	"stocksafe/internal/types"
)

const (
	yahooChartURL   = "https://query1.finance.yahoo.com/v8/finance/chart"
	yahooSummaryURL = "https://query1.finance.yahoo.com/v10/finance/quoteSummary"

	browserUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Yahoo fetches daily history and fundamentals from the Yahoo Finance JSON
// endpoints. Any transport or decode failure degrades to an empty series or
// empty fundamentals; the pipeline never sees the underlying error.
type Yahoo struct {
	client *httpClient
	suffix string
}

var _ interfaces.MarketData = (*Yahoo)(nil)

// NewYahoo creates a Yahoo provider. suffix is the market-specific exchange
// suffix appended to bare symbols (".NS" for NSE listings); index symbols
// starting with '^' are left alone.
func NewYahoo(suffix string) *Yahoo {
	return &Yahoo{
		client: newHTTPClient(withHeader("User-Agent", browserUA)),
		suffix: suffix,
	}
}

// FormatSymbol applies the configured exchange suffix.
func (y *Yahoo) FormatSymbol(symbol string) string {
	if strings.HasPrefix(symbol, "^") || strings.Contains(symbol, ".") {
		return symbol
	}
	return symbol + y.suffix
}

type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error any `json:"error"`
	} `json:"chart"`
}

func (y *Yahoo) History(ctx context.Context, symbol, period string) (types.PriceSeries, error) {
	sym := y.FormatSymbol(symbol)
	u := fmt.Sprintf("%s/%s?range=%s&interval=1d", yahooChartURL, url.PathEscape(sym), url.QueryEscape(period))

	var parsed yahooChart
	if err := y.client.getJSON(ctx, u, &parsed); err != nil {
		logger.Degraded(ctx, "yahoo-chart", sym, err)
		return nil, nil
	}
	if len(parsed.Chart.Result) == 0 || len(parsed.Chart.Result[0].Indicators.Quote) == 0 {
		logger.Degraded(ctx, "yahoo-chart", sym, fmt.Errorf("empty chart result"))
		return nil, nil
	}

	res := parsed.Chart.Result[0]
	quote := res.Indicators.Quote[0]

	series := make(types.PriceSeries, 0, len(res.Timestamp))
	for i, ts := range res.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue // untraded day
		}
		bar := types.Bar{
			Date:  time.Unix(ts, 0).UTC(),
			Close: *quote.Close[i],
		}
		bar.Open = deref(quote.Open, i, bar.Close)
		bar.High = deref(quote.High, i, bar.Close)
		bar.Low = deref(quote.Low, i, bar.Close)
		bar.Volume = deref(quote.Volume, i, 0)
		series = append(series, bar)
	}
	return series, nil
}

type rawValue struct {
	Raw *float64 `json:"raw"`
}

type yahooSummary struct {
	QuoteSummary struct {
		Result []struct {
			Price struct {
				LongName  string   `json:"longName"`
				MarketCap rawValue `json:"marketCap"`
			} `json:"price"`
			SummaryDetail struct {
				TrailingPE       rawValue `json:"trailingPE"`
				Beta             rawValue `json:"beta"`
				FiftyTwoWeekHigh rawValue `json:"fiftyTwoWeekHigh"`
			} `json:"summaryDetail"`
			DefaultKeyStatistics struct {
				PriceToBook rawValue `json:"priceToBook"`
			} `json:"defaultKeyStatistics"`
			AssetProfile struct {
				Sector string `json:"sector"`
			} `json:"assetProfile"`
		} `json:"result"`
		Error any `json:"error"`
	} `json:"quoteSummary"`
}

func (y *Yahoo) Info(ctx context.Context, symbol string) (types.Fundamentals, error) {
	sym := y.FormatSymbol(symbol)
	u := fmt.Sprintf("%s/%s?modules=price,summaryDetail,defaultKeyStatistics,assetProfile",
		yahooSummaryURL, url.PathEscape(sym))

	var parsed yahooSummary
	if err := y.client.getJSON(ctx, u, &parsed); err != nil {
		logger.Degraded(ctx, "yahoo-summary", sym, err)
		return types.EmptyFundamentals(), nil
	}
	if len(parsed.QuoteSummary.Result) == 0 {
		logger.Degraded(ctx, "yahoo-summary", sym, fmt.Errorf("empty summary result"))
		return types.EmptyFundamentals(), nil
	}

	res := parsed.QuoteSummary.Result[0]
	f := types.Fundamentals{
		MarketCap:        rawOrNaN(res.Price.MarketCap),
		TrailingPE:       rawOrNaN(res.SummaryDetail.TrailingPE),
		PriceToBook:      rawOrNaN(res.DefaultKeyStatistics.PriceToBook),
		Beta:             rawOrNaN(res.SummaryDetail.Beta),
		FiftyTwoWeekHigh: rawOrNaN(res.SummaryDetail.FiftyTwoWeekHigh),
		Sector:           res.AssetProfile.Sector,
		LongName:         res.Price.LongName,
	}
	return f, nil
}

func deref(vals []*float64, i int, fallback float64) float64 {
	if i < len(vals) && vals[i] != nil {
		return *vals[i]
	}
	return fallback
}

func rawOrNaN(v rawValue) float64 {
	if v.Raw == nil {
		return math.NaN()
	}
	return *v.Raw
}
