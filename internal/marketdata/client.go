package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"stocksafe/internal/logger"
)

// httpClient is a thin JSON-over-HTTP client shared by the providers.
type httpClient struct {
	client  *http.Client
	headers map[string]string
}

type clientOption func(*httpClient)

func withTimeout(timeout time.Duration) clientOption {
	return func(c *httpClient) {
		c.client.Timeout = timeout
	}
}

func withHeader(key, value string) clientOption {
	return func(c *httpClient) {
		c.headers[key] = value
	}
}

func newHTTPClient(opts ...clientOption) *httpClient {
	c := &httpClient{
		client:  &http.Client{Timeout: 30 * time.Second},
		headers: make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// getJSON fetches url and decodes the response body into v.
func (c *httpClient) getJSON(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	logger.Debug(ctx, "HTTP response", "url", url, "status", resp.StatusCode,
		"duration", time.Since(start), "bodySize", len(body))

	if resp.StatusCode >= 400 {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
