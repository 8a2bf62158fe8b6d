package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"stocksafe/internal/logger"
	"stocksafe/internal/safety"
	"stocksafe/internal/trace"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	ask := flag.String("ask", "", "free-text question answered per symbol")
	asJSON := flag.Bool("json", true, "print scores as JSON")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: scorer [flags] SYMBOL_OR_COMPANY...")
		flag.PrintDefaults()
		os.Exit(2)
	}

	if err := initializeSystem(); err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = trace.Shutdown(shutdownCtx)
	}()

	cfg, err := loadConfig(ctx, *configPath)
	if err != nil {
		os.Exit(1)
	}

	reg, err := loadModels(ctx, cfg)
	if err != nil {
		os.Exit(1)
	}

	dir := loadDirectory(ctx, cfg)
	source := initializeMarketData(ctx, cfg)
	newsSvc := initializeNews(ctx, cfg, reg)
	scorer := initializeScorer(cfg, source, newsSvc, reg)

	exitCode := 0
	for _, query := range flag.Args() {
		symbol, company := query, query
		if dir != nil {
			if c, ok := dir.Resolve(query); ok {
				symbol, company = c.Symbol, c.Name
			}
		}

		result, err := scorer.Score(ctx, symbol, company)
		if err != nil {
			logger.ErrorWithErr(ctx, "Scoring failed", err, "symbol", symbol)
			exitCode = 1
			continue
		}
		if result == nil {
			logger.Warn(ctx, "No price history, nothing to score", "symbol", symbol)
			exitCode = 1
			continue
		}

		if *asJSON {
			b, _ := json.Marshal(result.Safety)
			fmt.Println(string(b))
		} else {
			fmt.Println(safety.Summary(result))
		}
		if *ask != "" {
			fmt.Println(safety.Advise(*ask, result))
		}
	}
	os.Exit(exitCode)
}
