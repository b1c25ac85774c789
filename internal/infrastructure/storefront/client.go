package storefront

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/chargematch/backend/internal/domain"
)

const maxAttempts = 3

// ProductPage is one page of the storefront product listing
type ProductPage struct {
	Products   []Product `json:"products"`
	Page       int       `json:"page"`
	TotalPages int       `json:"total_pages"`
}

// Product is a storefront product as served by the listing API
type Product struct {
	ID       string   `json:"id"`
	Slug     string   `json:"slug"`
	Title    string   `json:"title"`
	BodyHTML string   `json:"body_html"`
	Category string   `json:"category"`
	SKU      string   `json:"sku"`
	Price    *float64 `json:"price"`
	ImageURL string   `json:"image_url"`
	Specs    *Specs   `json:"specs"`
}

// Specs holds the optional structured charger columns
type Specs struct {
	Voltage  *int   `json:"voltage"`
	Amperage *int   `json:"amperage"`
	Phase    string `json:"phase"`
}

// Client handles communication with the storefront product API
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	pageSize    int
	rateLimiter *rate.Limiter
	backoff     func(attempt int) time.Duration
	debug       bool
}

// NewClient creates a new storefront API client
func NewClient(apiKey, baseURL string, pageSize int, requestsPerSecond float64) *Client {
	if pageSize <= 0 {
		pageSize = 100
	}
	if requestsPerSecond <= 0 {
		requestsPerSecond = 2
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiKey:      apiKey,
		baseURL:     baseURL,
		pageSize:    pageSize,
		rateLimiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 5),
		backoff:     exponentialBackoff,
	}
}

// SetDebug enables per-page logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// exponentialBackoff returns 500ms, 1s, 2s, ... for attempts 1, 2, 3, ...
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// FetchAllProducts walks every listing page and maps the products to catalog records
func (c *Client) FetchAllProducts(ctx context.Context) ([]domain.ProductRecord, error) {
	var out []domain.ProductRecord

	for page := 1; ; page++ {
		resp, err := c.fetchPage(ctx, page)
		if err != nil {
			return nil, err
		}

		for _, p := range resp.Products {
			record, err := MapProduct(p)
			if err != nil {
				log.Printf("[STOREFRONT] Skipping product %q: %v", p.ID, err)
				continue
			}
			out = append(out, record)
		}

		if c.debug {
			log.Printf("[STOREFRONT] Page %d/%d: %d products", page, resp.TotalPages, len(resp.Products))
		}

		if page >= resp.TotalPages || len(resp.Products) == 0 {
			break
		}
	}

	log.Printf("[STOREFRONT] Fetched %d products", len(out))
	return out, nil
}

// fetchPage retrieves one listing page, retrying transient failures
func (c *Client) fetchPage(ctx context.Context, page int) (*ProductPage, error) {
	params := url.Values{}
	params.Add("page", strconv.Itoa(page))
	params.Add("per_page", strconv.Itoa(c.pageSize))
	reqURL := fmt.Sprintf("%s/products?%s", c.baseURL, params.Encode())

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		body, status, err := c.doRequest(ctx, reqURL)
		switch {
		case err != nil:
			log.Printf("[STOREFRONT] Request error (page %d, attempt %d): %v", page, attempt, err)
			lastErr = err
		case status == http.StatusNotFound && page == 1:
			// no listing at all is an empty catalog
			return &ProductPage{Page: 1, TotalPages: 1}, nil
		case status == http.StatusOK:
			var resp ProductPage
			if err := json.Unmarshal(body, &resp); err != nil {
				return nil, fmt.Errorf("%w: decode page %d: %v", domain.ErrStorefrontFailure, page, err)
			}
			return &resp, nil
		case status >= 400 && status < 500 && status != http.StatusTooManyRequests:
			return nil, fmt.Errorf("%w: status %d", domain.ErrStorefrontFailure, status)
		default:
			log.Printf("[STOREFRONT] API error (page %d, attempt %d) - Status: %d", page, attempt, status)
			lastErr = fmt.Errorf("%w: status %d", domain.ErrStorefrontFailure, status)
		}

		if attempt < maxAttempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.backoff(attempt)):
			}
		}
	}

	return nil, lastErr
}

// doRequest executes an HTTP GET request and returns the body and status code
func (c *Client) doRequest(ctx context.Context, reqURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "ChargeMatch/1.0")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", domain.ErrStorefrontFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: read body: %v", domain.ErrStorefrontFailure, err)
	}
	return body, resp.StatusCode, nil
}
