// Package museum contains one search adapter per museum collection API.
// Each adapter translates generic search filters into its source's native
// query parameters, applies client-side filtering the upstream API cannot do,
// and converts native records into the common artifact shape.
package museum

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"relic-search/internal/resilience/circuitbreaker"
	"relic-search/internal/resilience/retry"
)

const userAgent = "RelicSearchBot/1.0"

// maxResponseBytes caps one upstream response body. Museum APIs serve
// catalog records, not media; anything larger is malformed.
const maxResponseBytes = 10 << 20

// Client is a shared JSON GET client for one upstream museum API. Requests
// pass through a per-source rate limiter, a circuit breaker, and retry with
// backoff, in that order. Safe for concurrent use.
type Client struct {
	http     *http.Client
	limiter  *rate.Limiter
	breaker  *circuitbreaker.CircuitBreaker
	retryCfg retry.Config
}

// ClientConfig tunes one source's client.
type ClientConfig struct {
	// Source names the upstream for breaker and log labels.
	Source string

	// Timeout bounds a single HTTP request.
	Timeout time.Duration

	// RequestsPerSecond throttles calls to the upstream. Open-access museum
	// APIs document limits around 60-80 requests per second; staying well
	// under avoids bans on the shared anonymous tier.
	RequestsPerSecond float64

	// Burst is the limiter burst size.
	Burst int
}

// DefaultClientConfig returns conservative settings for a museum API.
func DefaultClientConfig(source string) ClientConfig {
	return ClientConfig{
		Source:            source,
		Timeout:           15 * time.Second,
		RequestsPerSecond: 10,
		Burst:             20,
	}
}

// NewClient creates a client for one upstream museum API.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 10
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 20
	}
	return &Client{
		http: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
				TLSClientConfig: &tls.Config{
					MinVersion: tls.VersionTLS12,
				},
			},
		},
		limiter:  rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		breaker:  circuitbreaker.New(circuitbreaker.MuseumAPIConfig(cfg.Source)),
		retryCfg: retry.MuseumAPIConfig(),
	}
}

// GetJSON issues a GET request and decodes the JSON response into out.
func (c *Client) GetJSON(ctx context.Context, url string, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("GetJSON: rate limit wait: %w", err)
	}

	return retry.WithBackoff(ctx, c.retryCfg, func() error {
		_, err := c.breaker.Execute(func() (interface{}, error) {
			return nil, c.doGet(ctx, url, out)
		})
		return err
	})
}

func (c *Client) doGet(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("doGet: create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("doGet: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return &retry.HTTPError{StatusCode: resp.StatusCode, Message: resp.Status}
	}

	body := io.LimitReader(resp.Body, maxResponseBytes)
	if err := json.NewDecoder(body).Decode(out); err != nil {
		return fmt.Errorf("doGet: decode response: %w", err)
	}
	return nil
}
