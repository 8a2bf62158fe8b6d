package interfaces

import (
	"context"

	"stocksafe/internal/types"
)

// MarketData supplies raw price history and fundamentals for one symbol.
// Implementations translate provider failures into an empty series or empty
// fundamentals rather than surfacing transport errors to the pipeline.
type MarketData interface {
	// History returns daily OHLCV bars for the period (e.g. "1y", "3y"),
	// oldest first. An empty series means no data, not an error.
	History(ctx context.Context, symbol, period string) (types.PriceSeries, error)

	// Info returns the fundamentals mapping for the symbol. Missing numeric
	// values are NaN.
	Info(ctx context.Context, symbol string) (types.Fundamentals, error)
}
