package main

import (
	"context"
	"os"
	"time"

	"stocksafe/internal/directory"
	"stocksafe/internal/interfaces"
	"stocksafe/internal/logger"
	"stocksafe/internal/marketdata"
	"stocksafe/internal/store"
)

func loadConfig(ctx context.Context, path string) (*store.Config, error) {
	cfg, err := store.LoadConfig(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", path)
		return nil, err
	}
	return cfg, nil
}

func loadDirectory(ctx context.Context, cfg *store.Config) *directory.Directory {
	dir, err := directory.Load(cfg.CompaniesFile)
	if err != nil {
		logger.Warn(ctx, "Company listing unavailable", "file", cfg.CompaniesFile, "error", err)
		return nil
	}
	return dir
}

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
