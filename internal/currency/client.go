// Package currency fetches a USD-based exchange-rate table and converts
// monetary amounts to USD. The table is fetched at most once per session:
// concurrent callers collapse into a single in-flight request, a failed
// fetch is never cached, and only an explicit invalidation drops a
// previously fetched table.
package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultEndpoint serves a JSON body with a "rates" object keyed by
// currency code, quoted as units per 1 USD.
const DefaultEndpoint = "https://open.er-api.com/v6/latest/USD"

// Rates maps an uppercase currency code to units of that currency per USD.
// USD itself is always present with rate 1.
type Rates map[string]float64

// Client owns the session-wide rate cache.
type Client struct {
	endpoint string
	httpc    *http.Client
	logger   *slog.Logger

	group  singleflight.Group
	mu     sync.RWMutex
	cached Rates
}

// NewClient creates a rate client. An empty endpoint falls back to
// DefaultEndpoint; a zero timeout means no bound on the fetch.
func NewClient(endpoint string, timeout time.Duration, logger *slog.Logger) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint: endpoint,
		httpc:    &http.Client{Timeout: timeout},
		logger:   logger.With(slog.String("component", "currency_client")),
	}
}

// Rates returns the cached table, or fetches it. All concurrent callers
// during a fetch share the same result; after a failure the next caller
// gets a fresh attempt.
func (c *Client) Rates(ctx context.Context) (Rates, error) {
	c.mu.RLock()
	cached := c.cached
	c.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	v, err, _ := c.group.Do("rates", func() (interface{}, error) {
		// A caller that lost the race may arrive after the winning
		// flight already populated the cache.
		c.mu.RLock()
		cached := c.cached
		c.mu.RUnlock()
		if cached != nil {
			return cached, nil
		}

		rates, err := c.fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.cached = rates
		c.mu.Unlock()
		return rates, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Rates), nil
}

// Cached returns the table without triggering a fetch; nil if none yet.
func (c *Client) Cached() Rates {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cached
}

// InvalidateCache drops the cached table so the next Rates call refetches.
func (c *Client) InvalidateCache() {
	c.mu.Lock()
	c.cached = nil
	c.mu.Unlock()
	c.logger.Info("exchange rate cache invalidated")
}

func (c *Client) fetch(ctx context.Context) (Rates, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build rate request: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch exchange rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch exchange rates: unexpected status %s", resp.Status)
	}

	var payload struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode exchange rates: %w", err)
	}
	if len(payload.Rates) == 0 {
		return nil, fmt.Errorf("invalid exchange rate payload: missing rates")
	}

	rates := Rates(payload.Rates)
	rates["USD"] = 1

	c.logger.Info("exchange rates fetched", slog.Int("currencies", len(rates)))
	return rates, nil
}
