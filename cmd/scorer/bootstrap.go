package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"stocksafe/internal/directory"
	"stocksafe/internal/features"
	"stocksafe/internal/interfaces"
	"stocksafe/internal/logger"
	"stocksafe/internal/marketdata"
	"stocksafe/internal/model"
	"stocksafe/internal/news"
	"stocksafe/internal/safety"
	"stocksafe/internal/store"
	"stocksafe/internal/trace"

	"github.com/joho/godotenv"
)

// initializeSystem initializes env, logger and tracer
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	return nil
}

// loadConfig loads and returns the configuration
func loadConfig(ctx context.Context, path string) (*store.Config, error) {
	cfg, err := store.LoadConfig(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", path)
		return nil, err
	}
	return cfg, nil
}

// loadModels loads the inference artifacts; any missing artifact is fatal
func loadModels(ctx context.Context, cfg *store.Config) (*model.Registry, error) {
	reg, err := model.Load(cfg.ModelsDir, features.KnownColumn)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load model artifacts", err, "dir", cfg.ModelsDir)
		return nil, err
	}
	logger.Info(ctx, "Model artifacts loaded",
		"dir", cfg.ModelsDir, "features", len(reg.Meta.Features), "vocab", len(reg.Vectorizer.Vocabulary))
	return reg, nil
}

// loadDirectory loads the company listing; scoring works without it, names
// just fall back to raw symbols
func loadDirectory(ctx context.Context, cfg *store.Config) *directory.Directory {
	dir, err := directory.Load(cfg.CompaniesFile)
	if err != nil {
		logger.Warn(ctx, "Company listing unavailable, using raw symbols", "file", cfg.CompaniesFile, "error", err)
		return nil
	}
	logger.Info(ctx, "Company listing loaded", "file", cfg.CompaniesFile, "companies", len(dir.Symbols()))
	return dir
}

// initializeMarketData builds the configured provider wrapped in the TTL cache
func initializeMarketData(ctx context.Context, cfg *store.Config) interfaces.MarketData {
	var provider interfaces.MarketData
	switch cfg.Provider {
	case "KITE":
		provider = marketdata.NewKite(marketdata.KiteParams{
			APIKey:      os.Getenv(cfg.Kite.APIKeyEnv),
			AccessToken: os.Getenv(cfg.Kite.AccessTokenEnv),
			Exchange:    cfg.Kite.Exchange,
		})
		logger.Info(ctx, "Using Kite Connect market data", "exchange", cfg.Kite.Exchange)
	default:
		provider = marketdata.NewYahoo(cfg.ExchangeSuffix)
		logger.Info(ctx, "Using Yahoo Finance market data", "suffix", cfg.ExchangeSuffix)
	}

	return marketdata.NewCached(provider, marketdata.CacheTTLs{
		Price: time.Duration(cfg.Cache.PriceTTLMinutes) * time.Minute,
		Info:  time.Duration(cfg.Cache.InfoTTLMinutes) * time.Minute,
	})
}

// initializeNews wires the headline fetchers per config; with news disabled
// the service still runs and returns neutral scores
func initializeNews(ctx context.Context, cfg *store.Config, reg *model.Registry) *news.Service {
	fetchers := []interfaces.HeadlineFetcher{}
	if cfg.News.Enabled {
		fetchers = append(fetchers, news.NewAPIFetcher(cfg.News.APIURL, cfg.News.APIKeyEnv, cfg.News.MaxHeadlines))
		if cfg.News.ScrapeFallback {
			fetchers = append(fetchers, news.NewScraper(cfg.News.MaxHeadlines, 15*time.Second))
		}
	} else {
		logger.Warn(ctx, "News analysis disabled - news scores will be neutral")
	}

	ttl := time.Duration(cfg.News.CacheTTLMinutes) * time.Minute
	return news.NewService(news.NewAnalyzer(reg), ttl, fetchers...)
}

// initializeScorer assembles the full scoring pipeline
func initializeScorer(cfg *store.Config, source interfaces.MarketData, newsSvc *news.Service, reg *model.Registry) *safety.Scorer {
	builder := features.NewBuilder(source, cfg.BenchmarkSymbol)
	ttl := time.Duration(cfg.Cache.SafetyTTLMinutes) * time.Minute
	return safety.NewScorer(builder, newsSvc, reg, cfg.HistoryPeriod, ttl)
}
