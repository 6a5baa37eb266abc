// Package fetch retrieves raw feed payloads over HTTP with retry, backoff
// and a shared outbound rate limit.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const retryBackoff = 2 * time.Second

// Client wraps an http.Client with the politeness rules all watch targets
// share: one User-Agent, a request rate cap and bounded retries.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
}

func NewClient(httpClient *http.Client, userAgent string, ratePerSec float64) *Client {
	if ratePerSec <= 0 {
		ratePerSec = 1
	}
	return &Client{
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(ratePerSec), 1),
		userAgent:  userAgent,
	}
}

// Get fetches url with the given timeout, retrying transient failures with a
// fixed backoff. A 200 response with an empty body counts as a failure: feeds
// never legitimately serve zero bytes.
func (c *Client) Get(ctx context.Context, url string, timeout time.Duration, headers map[string]string, maxRetries int) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("fetch URL is empty")
	}
	if maxRetries < 1 {
		maxRetries = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryBackoff):
			}
			slog.Debug("Retrying fetch", "url", url, "attempt", attempt)
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		data, err := c.fetch(ctx, url, timeout, headers)
		if err == nil {
			return data, nil
		}
		lastErr = err
		slog.Warn("Fetch attempt failed", "url", url, "attempt", attempt, "error", err)
	}

	return nil, fmt.Errorf("fetch failed after %d attempts: %w", maxRetries, lastErr)
}

func (c *Client) fetch(ctx context.Context, url string, timeout time.Duration, headers map[string]string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("empty response body")
	}

	return data, nil
}
