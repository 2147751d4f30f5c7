// Package api provides a minimal client for the tasking opportunities API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"overpass/internal/domain"
	"overpass/internal/query"
)

const (
	defaultTimeout  = 15 * time.Second
	productCacheTTL = 5 * time.Minute
	productCacheKey = "products"
)

// Client is a minimal HTTP client for the opportunities and products
// endpoints. Transient failures (network errors, 5xx) are retried with
// exponential backoff; 4xx responses are returned as-is.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client

	backoff Backoff
	cache   *Cache
}

// New returns a new client. If httpClient is nil, a default with 15s timeout is used.
func New(baseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTP:    httpClient,
		backoff: NewBackoff(200*time.Millisecond, 2),
		cache:   NewCache(),
	}
}

type opportunitiesResponse struct {
	Opportunities []domain.Opportunity `json:"opportunities"`
}

type productsResponse struct {
	Products []domain.Product `json:"products"`
}

// SearchOpportunities POSTs the derived query to /opportunities and returns
// the matching acquisition windows.
func (c *Client) SearchOpportunities(ctx context.Context, q *query.DerivedQuery) ([]domain.Opportunity, error) {
	if q == nil {
		return nil, fmt.Errorf("nil query")
	}

	body, err := json.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf("encode search request: %w", err)
	}

	var out opportunitiesResponse
	if err := c.doJSON(ctx, http.MethodPost, "/opportunities", body, &out); err != nil {
		return nil, fmt.Errorf("search opportunities: %w", err)
	}
	return out.Opportunities, nil
}

// ListProducts GETs the static product list from /products. Results are
// cached for a few minutes since the list changes rarely.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	if v, ok := c.cache.Get(productCacheKey); ok {
		return v.([]domain.Product), nil
	}

	var out productsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/products", nil, &out); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	c.cache.Set(productCacheKey, out.Products, productCacheTTL)
	return out.Products, nil
}

// doJSON performs one request with retry on transient failures and decodes
// the JSON response into v.
func (c *Client) doJSON(ctx context.Context, method, path string, body []byte, v any) error {
	return c.backoff.Do(func(i int) (bool, error) {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
		if err != nil {
			return false, err
		}
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.Token != "" {
			req.Header.Set("Authorization", "Bearer "+c.Token)
		}

		resp, err := c.HTTP.Do(req)
		if err != nil {
			// Network errors are worth retrying unless the caller gave up
			return ctx.Err() == nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			return true, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			return false, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}

		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			return false, fmt.Errorf("decode response: %w", err)
		}
		return false, nil
	})
}
