package store

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

var periodRe = regexp.MustCompile(`^[0-9]+(d|mo|y)$`)

type Config struct {
	// Provider selects the market-data collaborator: YAHOO or KITE.
	Provider        string `yaml:"provider"`
	ExchangeSuffix  string `yaml:"exchange_suffix"`
	BenchmarkSymbol string `yaml:"benchmark_symbol"`
	HistoryPeriod   string `yaml:"history_period"`
	ModelsDir       string `yaml:"models_dir"`
	CompaniesFile   string `yaml:"companies_file"`

	News struct {
		Enabled         bool   `yaml:"enabled"`
		APIURL          string `yaml:"api_url"`
		APIKeyEnv       string `yaml:"api_key_env"`
		MaxHeadlines    int    `yaml:"max_headlines"`
		CacheTTLMinutes int    `yaml:"cache_ttl_minutes"`
		ScrapeFallback  bool   `yaml:"scrape_fallback"`
	} `yaml:"news"`

	Cache struct {
		PriceTTLMinutes  int `yaml:"price_ttl_minutes"`
		InfoTTLMinutes   int `yaml:"info_ttl_minutes"`
		SafetyTTLMinutes int `yaml:"safety_ttl_minutes"`
	} `yaml:"cache"`

	Kite struct {
		APIKeyEnv      string `yaml:"api_key_env"`
		AccessTokenEnv string `yaml:"access_token_env"`
		Exchange       string `yaml:"exchange"`
	} `yaml:"kite"`
}

func (c *Config) Validate() error {
	if c.Provider != "YAHOO" && c.Provider != "KITE" {
		return fmt.Errorf("invalid provider '%s': must be 'YAHOO' or 'KITE'", c.Provider)
	}
	if c.BenchmarkSymbol == "" {
		return fmt.Errorf("benchmark_symbol cannot be empty")
	}
	if !periodRe.MatchString(c.HistoryPeriod) {
		return fmt.Errorf("invalid history_period '%s': expected forms like '90d', '6mo', '1y'", c.HistoryPeriod)
	}
	if c.News.MaxHeadlines <= 0 || c.News.MaxHeadlines > 50 {
		return fmt.Errorf("news.max_headlines must be between 1-50, got %d", c.News.MaxHeadlines)
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if c.Provider == "" {
		c.Provider = "YAHOO"
	}
	if c.ExchangeSuffix == "" {
		c.ExchangeSuffix = ".NS"
	}
	if c.BenchmarkSymbol == "" {
		c.BenchmarkSymbol = "^NSEI"
	}
	if c.HistoryPeriod == "" {
		c.HistoryPeriod = "1y"
	}
	if c.ModelsDir == "" {
		c.ModelsDir = "models"
	}
	if c.CompaniesFile == "" {
		c.CompaniesFile = "companies.csv"
	}
	if c.News.MaxHeadlines == 0 {
		c.News.MaxHeadlines = 5
	}
	if c.News.APIKeyEnv == "" {
		c.News.APIKeyEnv = "NEWS_API_KEY"
	}
	if c.News.APIURL == "" {
		c.News.APIURL = "https://newsapi.org/v2/everything"
	}
	if c.News.CacheTTLMinutes == 0 {
		c.News.CacheTTLMinutes = 30
	}
	if c.Cache.PriceTTLMinutes == 0 {
		c.Cache.PriceTTLMinutes = 60
	}
	if c.Cache.InfoTTLMinutes == 0 {
		c.Cache.InfoTTLMinutes = 60
	}
	if c.Cache.SafetyTTLMinutes == 0 {
		c.Cache.SafetyTTLMinutes = 60
	}
	if c.Kite.APIKeyEnv == "" {
		c.Kite.APIKeyEnv = "KITE_API_KEY"
	}
	if c.Kite.AccessTokenEnv == "" {
		c.Kite.AccessTokenEnv = "KITE_ACCESS_TOKEN"
	}
	if c.Kite.Exchange == "" {
		c.Kite.Exchange = "NSE"
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}
