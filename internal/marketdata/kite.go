package marketdata

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"

	"stocksafe/internal/interfaces"
	"stocksafe/internal/logger"
	"stocksafe/internal/types"
)

// KiteParams configures the Kite Connect provider.
type KiteParams struct {
	APIKey      string
	AccessToken string
	Exchange    string
}

// Kite fetches daily candles through the Kite Connect REST API. It carries
// no fundamentals: Info always returns the empty mapping and the pipeline
// proceeds with NaN fundamental features (partial degradation).
type Kite struct {
	kc       *kiteconnect.Client
	exchange string

	once   sync.Once
	tokens map[string]int
}

var _ interfaces.MarketData = (*Kite)(nil)

func NewKite(p KiteParams) *Kite {
	kc := kiteconnect.New(p.APIKey)
	kc.SetAccessToken(p.AccessToken)
	return &Kite{
		kc:       kc,
		exchange: p.Exchange,
		tokens:   make(map[string]int),
	}
}

// loadInstruments resolves tradingsymbol to instrument token once per
// process; the instrument dump is large and effectively static intraday.
func (k *Kite) loadInstruments(ctx context.Context) {
	k.once.Do(func() {
		instruments, err := k.kc.GetInstruments()
		if err != nil {
			logger.Degraded(ctx, "kite-instruments", k.exchange, err)
			return
		}
		for _, inst := range instruments {
			if inst.Exchange == k.exchange {
				k.tokens[strings.ToUpper(inst.Tradingsymbol)] = inst.InstrumentToken
			}
		}
		logger.Info(ctx, "Kite instruments loaded", "exchange", k.exchange, "count", len(k.tokens))
	})
}

func (k *Kite) History(ctx context.Context, symbol, period string) (types.PriceSeries, error) {
	k.loadInstruments(ctx)

	token, ok := k.tokens[strings.ToUpper(strings.TrimSuffix(symbol, ".NS"))]
	if !ok {
		logger.Degraded(ctx, "kite-history", symbol, fmt.Errorf("unknown instrument"))
		return nil, nil
	}

	days, err := periodDays(period)
	if err != nil {
		logger.Degraded(ctx, "kite-history", symbol, err)
		return nil, nil
	}

	to := time.Now()
	from := to.AddDate(0, 0, -days)
	candles, err := k.kc.GetHistoricalData(token, "day", from, to, false, false)
	if err != nil {
		logger.Degraded(ctx, "kite-history", symbol, err)
		return nil, nil
	}

	series := make(types.PriceSeries, 0, len(candles))
	for _, c := range candles {
		series = append(series, types.Bar{
			Date:   c.Date.Time,
			Open:   c.Open,
			High:   c.High,
			Low:    c.Low,
			Close:  c.Close,
			Volume: float64(c.Volume),
		})
	}
	return series, nil
}

// Info is a no-op for Kite: the API exposes no valuation fundamentals.
func (k *Kite) Info(ctx context.Context, symbol string) (types.Fundamentals, error) {
	return types.EmptyFundamentals(), nil
}

// periodDays converts a period string ("90d", "6mo", "1y") to calendar days.
func periodDays(period string) (int, error) {
	var unit string
	switch {
	case strings.HasSuffix(period, "mo"):
		unit = "mo"
	case strings.HasSuffix(period, "y"):
		unit = "y"
	case strings.HasSuffix(period, "d"):
		unit = "d"
	default:
		return 0, fmt.Errorf("unsupported period %q", period)
	}

	n, err := strconv.Atoi(strings.TrimSuffix(period, unit))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("unsupported period %q", period)
	}

	switch unit {
	case "y":
		return n * 365, nil
	case "mo":
		return n * 30, nil
	default:
		return n, nil
	}
}
