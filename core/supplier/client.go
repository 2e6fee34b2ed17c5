package supplier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"price-sync/core/sku"
)

// PriceRecord is one resolved supplier price. The feed returns more fields
// than we consume; only the lookup key and the threshold price matter here.
type PriceRecord struct {
	// SKU is the supplier lookup key the record is filed under.
	SKU string `json:"sku"`
	// ThresholdPrice is the price field driving the formula input.
	// Nil when the feed has no price for the SKU.
	ThresholdPrice *decimal.Decimal `json:"lessThanCasePrice"`
}

// APIError describes a failed bulk lookup. It aborts the run.
type APIError struct {
	// StatusCode is the HTTP status, or 0 for transport failures.
	StatusCode int
	// Err is the underlying failure.
	Err error
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("supplier API returned status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("supplier API request failed: %v", e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Client performs bulk price lookups against the supplier feed.
type Client struct {
	url        string
	token      string
	httpClient *http.Client
}

// NewClient creates a supplier client with bounded transport timeouts.
func NewClient(cfg Config) *Client {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	timeoutDuration := time.Duration(timeout) * time.Second

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeoutDuration,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		TLSHandshakeTimeout:   timeoutDuration,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeoutDuration,
	}

	return &Client{
		url:   cfg.URL,
		token: cfg.Token,
		httpClient: &http.Client{
			Timeout:   timeoutDuration,
			Transport: transport,
		},
	}
}

type lookupRequest struct {
	Token string   `json:"token"`
	SKUs  []string `json:"skus"`
}

// Lookup resolves prices for the given supplier keys in a single bulk request.
// The returned map is keyed by supplier key; keys absent from the response are
// absent from the map. Any transport or response failure returns *APIError.
func (c *Client) Lookup(ctx context.Context, keys []sku.Key) (map[sku.Key]PriceRecord, error) {
	payload := lookupRequest{Token: c.token, SKUs: make([]string, 0, len(keys))}
	for _, k := range keys {
		payload.SKUs = append(payload.SKUs, string(k))
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &APIError{Err: fmt.Errorf("failed to encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, &APIError{Err: fmt.Errorf("failed to build request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain a bounded amount of the body for the error message.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected response: %s", string(snippet)),
		}
	}

	var records []PriceRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, &APIError{StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	result := make(map[sku.Key]PriceRecord, len(records))
	for _, rec := range records {
		result[sku.Key(rec.SKU)] = rec
	}
	return result, nil
}
