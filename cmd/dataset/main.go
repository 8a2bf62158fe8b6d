// Command dataset builds the labeled training CSV: one row per symbol per
// trading day, feature columns alongside the forward-looking label fields.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"time"

	"stocksafe/internal/features"
	"stocksafe/internal/labels"
	"stocksafe/internal/logger"
	"stocksafe/internal/trace"

	"github.com/joho/godotenv"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	outPath := flag.String("out", "dataset.csv", "output CSV path")
	keepTail := flag.Bool("keep-tail", false, "keep trailing rows whose forward windows are incomplete")
	flag.Parse()

	_ = godotenv.Load()
	if err := logger.Init(); err != nil {
		log.Fatal(err)
	}
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	cfg, err := loadConfig(ctx, *configPath)
	if err != nil {
		os.Exit(1)
	}

	source := initializeMarketData(ctx, cfg)
	builder := features.NewBuilder(source, cfg.BenchmarkSymbol)

	symbols := flag.Args()
	if len(symbols) == 0 {
		dir := loadDirectory(ctx, cfg)
		if dir == nil {
			logger.Error(ctx, "No symbols given and no company listing available")
			os.Exit(1)
		}
		symbols = dir.Symbols()
	}

	f, err := os.Create(*outPath)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to create output file", err, "path", *outPath)
		os.Exit(1)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	cols := features.ColumnNames()
	header := append([]string{"symbol", "date"}, cols...)
	header = append(header, "future_return_90d", "future_drawdown_30d", "label")
	if err := w.Write(header); err != nil {
		log.Fatal(err)
	}

	written := 0
	for _, symbol := range symbols {
		n, err := writeSymbol(ctx, w, builder, cfg.HistoryPeriod, symbol, cols, *keepTail)
		if err != nil {
			logger.ErrorWithErr(ctx, "Failed to build rows", err, "symbol", symbol)
			continue
		}
		written += n
	}

	w.Flush()
	if err := w.Error(); err != nil {
		log.Fatal(err)
	}
	logger.Info(ctx, "Dataset written", "path", *outPath, "rows", written, "symbols", len(symbols))
}

func writeSymbol(ctx context.Context, w *csv.Writer, builder *features.Builder, period, symbol string, cols []string, keepTail bool) (int, error) {
	frame, err := builder.Build(ctx, symbol, period)
	if err != nil {
		return 0, err
	}
	if frame == nil {
		logger.Warn(ctx, "No price history, skipping", "symbol", symbol)
		return 0, nil
	}

	closes := make([]float64, len(frame.Rows))
	alpha30 := make([]float64, len(frame.Rows))
	for i, row := range frame.Rows {
		closes[i] = row.Close
		alpha30[i] = row.Alpha30
	}

	future := labels.ComputeFuture(closes)
	assigned := labels.Assign(future, alpha30)

	limit := len(frame.Rows)
	if !keepTail {
		limit -= labels.TrimTail()
	}

	n := 0
	for t := 0; t < limit; t++ {
		row := &frame.Rows[t]
		record := make([]string, 0, len(cols)+5)
		record = append(record, frame.Symbol, row.Date.Format("2006-01-02"))
		for _, v := range row.Vector(cols) {
			record = append(record, formatCell(v))
		}
		record = append(record,
			formatCell(future.Ret90[t]),
			formatCell(future.Drawdown30[t]),
			formatCell(assigned[t]))
		if err := w.Write(record); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// formatCell renders a value for CSV; NaN becomes an empty cell.
func formatCell(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
