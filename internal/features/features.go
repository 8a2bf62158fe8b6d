// Package features assembles the per-day feature rows the safety model
// consumes: price and momentum indicators, benchmark-relative market
// context, and fundamental ratios, all under the column names the model
// artifacts were trained against.
package features

import (
	"context"
	"math"
	"time"

	"stocksafe/internal/indicators"
	"stocksafe/internal/interfaces"
	"stocksafe/internal/logger"
	"stocksafe/internal/market"
	"stocksafe/internal/types"
)

// columnNames is the full set of feature columns a Row can serve, in their
// canonical order. Model metadata may select any subset, in any order.
var columnNames = []string{
	"return", "7d_return", "30d_return", "90d_return",
	"vol_30", "vol_90",
	"SMA_20", "SMA_50", "mom_20", "mom_50",
	"RSI", "EMA_12", "EMA_26", "MACD", "Signal",
	"index_7d_ret", "index_30d_ret", "index_90d_ret",
	"alpha_30d", "alpha_90d", "corr_30", "corr_90",
	"market_regime_30_up",
	"marketCap", "trailingPE", "priceToBook", "beta",
}

// ColumnNames returns the canonical feature column names.
func ColumnNames() []string {
	out := make([]string, len(columnNames))
	copy(out, columnNames)
	return out
}

// KnownColumn reports whether name is a column the assembler produces.
func KnownColumn(name string) bool {
	for _, c := range columnNames {
		if c == name {
			return true
		}
	}
	return false
}

// Row is one trading day's feature values. Fields that could not be
// computed, warmup windows and missing fundamentals included, hold NaN.
type Row struct {
	Date  time.Time
	Close float64

	Return float64
	Ret7   float64
	Ret30  float64
	Ret90  float64
	Vol30  float64
	Vol90  float64
	SMA20  float64
	SMA50  float64
	Mom20  float64
	Mom50  float64
	RSI    float64
	EMA12  float64
	EMA26  float64
	MACD   float64
	Signal float64

	IndexRet7  float64
	IndexRet30 float64
	IndexRet90 float64
	Alpha30    float64
	Alpha90    float64
	Corr30     float64
	Corr90     float64
	RegimeUp30 float64

	MarketCap   float64
	TrailingPE  float64
	PriceToBook float64
	Beta        float64
}

// Value returns the row's value for a named column and whether the name is
// one the row serves.
func (r *Row) Value(name string) (float64, bool) {
	switch name {
	case "return":
		return r.Return, true
	case "7d_return":
		return r.Ret7, true
	case "30d_return":
		return r.Ret30, true
	case "90d_return":
		return r.Ret90, true
	case "vol_30":
		return r.Vol30, true
	case "vol_90":
		return r.Vol90, true
	case "SMA_20":
		return r.SMA20, true
	case "SMA_50":
		return r.SMA50, true
	case "mom_20":
		return r.Mom20, true
	case "mom_50":
		return r.Mom50, true
	case "RSI":
		return r.RSI, true
	case "EMA_12":
		return r.EMA12, true
	case "EMA_26":
		return r.EMA26, true
	case "MACD":
		return r.MACD, true
	case "Signal":
		return r.Signal, true
	case "index_7d_ret":
		return r.IndexRet7, true
	case "index_30d_ret":
		return r.IndexRet30, true
	case "index_90d_ret":
		return r.IndexRet90, true
	case "alpha_30d":
		return r.Alpha30, true
	case "alpha_90d":
		return r.Alpha90, true
	case "corr_30":
		return r.Corr30, true
	case "corr_90":
		return r.Corr90, true
	case "market_regime_30_up":
		return r.RegimeUp30, true
	case "marketCap":
		return r.MarketCap, true
	case "trailingPE":
		return r.TrailingPE, true
	case "priceToBook":
		return r.PriceToBook, true
	case "beta":
		return r.Beta, true
	}
	return math.NaN(), false
}

// Vector materializes the row as an ordered slice following cols. Columns
// the row does not serve come back as NaN; the model layer imputes them.
func (r *Row) Vector(cols []string) []float64 {
	out := make([]float64, len(cols))
	for i, c := range cols {
		v, ok := r.Value(c)
		if !ok {
			v = math.NaN()
		}
		out[i] = v
	}
	return out
}

// Frame is the assembled feature table for one symbol.
type Frame struct {
	Symbol       string
	Rows         []Row
	Fundamentals types.Fundamentals
}

// Latest returns the most recent row, or nil when the frame is empty.
func (f *Frame) Latest() *Row {
	if f == nil || len(f.Rows) == 0 {
		return nil
	}
	return &f.Rows[len(f.Rows)-1]
}

// Builder turns raw market data into feature frames.
type Builder struct {
	source    interfaces.MarketData
	benchmark string
}

func NewBuilder(source interfaces.MarketData, benchmark string) *Builder {
	return &Builder{source: source, benchmark: benchmark}
}

// Build fetches history and fundamentals for symbol and assembles one Row
// per trading day. It returns nil when no history is available; fundamental
// or benchmark failures degrade the affected columns to NaN instead.
func (b *Builder) Build(ctx context.Context, symbol, period string) (*Frame, error) {
	series, err := b.source.History(ctx, symbol, period)
	if err != nil {
		return nil, err
	}
	if series.Empty() {
		return nil, nil
	}

	// Benchmark and fundamentals failures are partial degradation: the
	// affected columns go NaN and the rest of the frame still builds.
	bench, err := b.source.History(ctx, b.benchmark, period)
	if err != nil {
		logger.Degraded(ctx, "benchmark", b.benchmark, err)
		bench = nil
	}
	fund, err := b.source.Info(ctx, symbol)
	if err != nil {
		logger.Degraded(ctx, "fundamentals", symbol, err)
		fund = types.EmptyFundamentals()
	}

	ind := indicators.Compute(series)
	mkt := market.Compute(series, ind, bench)

	frame := &Frame{Symbol: symbol, Fundamentals: fund, Rows: make([]Row, len(series))}
	for i, bar := range series {
		frame.Rows[i] = Row{
			Date:  bar.Date,
			Close: bar.Close,

			Return: ind.Return[i],
			Ret7:   ind.Ret7[i],
			Ret30:  ind.Ret30[i],
			Ret90:  ind.Ret90[i],
			Vol30:  ind.Vol30[i],
			Vol90:  ind.Vol90[i],
			SMA20:  ind.SMA20[i],
			SMA50:  ind.SMA50[i],
			Mom20:  ind.Mom20[i],
			Mom50:  ind.Mom50[i],
			RSI:    ind.RSI[i],
			EMA12:  ind.EMA12[i],
			EMA26:  ind.EMA26[i],
			MACD:   ind.MACD[i],
			Signal: ind.Signal[i],

			IndexRet7:  mkt.IndexRet7[i],
			IndexRet30: mkt.IndexRet30[i],
			IndexRet90: mkt.IndexRet90[i],
			Alpha30:    mkt.Alpha30[i],
			Alpha90:    mkt.Alpha90[i],
			Corr30:     mkt.Corr30[i],
			Corr90:     mkt.Corr90[i],
			RegimeUp30: mkt.RegimeUp30[i],

			MarketCap:   fund.MarketCap,
			TrailingPE:  fund.TrailingPE,
			PriceToBook: fund.PriceToBook,
			Beta:        fund.Beta,
		}
	}
	return frame, nil
}
