// Package news fetches recent headlines for a company and scores their
// sentiment with a lexicon pass and a learned classifier.
package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"stocksafe/internal/interfaces"
	"stocksafe/internal/logger"
)

// APIFetcher pulls headlines from a NewsAPI-compatible endpoint. Every
// failure mode, missing key included, degrades to an empty headline list so
// scoring can continue on market data alone.
type APIFetcher struct {
	baseURL      string
	apiKeyEnv    string
	maxHeadlines int
	client       *http.Client
}

var _ interfaces.HeadlineFetcher = (*APIFetcher)(nil)

func NewAPIFetcher(baseURL, apiKeyEnv string, maxHeadlines int) *APIFetcher {
	return &APIFetcher{
		baseURL:      baseURL,
		apiKeyEnv:    apiKeyEnv,
		maxHeadlines: maxHeadlines,
		client:       &http.Client{Timeout: 10 * time.Second},
	}
}

type apiResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Title string `json:"title"`
	} `json:"articles"`
}

func (f *APIFetcher) Headlines(ctx context.Context, company string) []string {
	apiKey := os.Getenv(f.apiKeyEnv)
	if apiKey == "" {
		logger.Debug(ctx, "news api key not set, skipping api fetch", "env", f.apiKeyEnv)
		return nil
	}

	q := url.Values{}
	q.Set("q", company)
	q.Set("sortBy", "publishedAt")
	q.Set("language", "en")
	q.Set("pageSize", fmt.Sprintf("%d", f.maxHeadlines))
	q.Set("apiKey", apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		logger.Degraded(ctx, "newsapi", company, err)
		return nil
	}

	resp, err := f.client.Do(req)
	if err != nil {
		logger.Degraded(ctx, "newsapi", company, err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Degraded(ctx, "newsapi", company, fmt.Errorf("status %d", resp.StatusCode))
		return nil
	}

	var parsed apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		logger.Degraded(ctx, "newsapi", company, err)
		return nil
	}

	titles := make([]string, 0, f.maxHeadlines)
	for _, a := range parsed.Articles {
		if a.Title == "" {
			continue
		}
		titles = append(titles, a.Title)
		if len(titles) >= f.maxHeadlines {
			break
		}
	}
	return titles
}
