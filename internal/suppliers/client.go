package suppliers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"arcana_backend/platform/config"
	"arcana_backend/platform/logger"
)

// tokenSafetyWindow is subtracted from the reported token lifetime so a
// token is refreshed before it actually expires mid-request.
const tokenSafetyWindow = 60 * time.Second

// Client talks to the third-party dropshipping API: token authentication,
// product search and freight quotes. All supplier-side rate limiting and the
// token cache live here, as explicit state with an injected clock, never as
// package globals.
type Client struct {
	baseURL string
	email   string
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter
	log     *logger.Logger
	now     func() time.Time

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewClient creates a supplier API client from configuration.
func NewClient(cfg config.SupplierAPIConfig, log *logger.Logger) *Client {
	perSec := cfg.GetSupplierAPIRatePerSec()
	if perSec <= 0 {
		perSec = 1
	}

	return &Client{
		baseURL: cfg.GetSupplierAPIBaseURL(),
		email:   cfg.GetSupplierAPIEmail(),
		apiKey:  cfg.GetSupplierAPIKey(),
		http:    &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(perSec), 1),
		log:     log,
		now:     time.Now,
	}
}

type tokenRequest struct {
	Email  string `json:"email"`
	APIKey string `json:"apiKey"`
}

type tokenResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int    `json:"expiresIn"`
}

// SearchProduct is one product hit from the supplier API.
type SearchProduct struct {
	SKU      string  `json:"sku"`
	Name     string  `json:"name"`
	UnitCost float64 `json:"unitCost"`
	MOQ      int     `json:"moq"`
	InStock  bool    `json:"inStock"`
}

type searchResponse struct {
	Products []SearchProduct `json:"products"`
}

// FreightQuote is the shipping estimate for one SKU to the destination country.
type FreightQuote struct {
	SKU         string  `json:"sku"`
	Amount      float64 `json:"amount"`
	MinDays     int     `json:"minDays"`
	MaxDays     int     `json:"maxDays"`
	CarrierName string  `json:"carrierName"`
}

// token returns a valid access token, requesting a new one when the cached
// token is missing or about to expire.
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && c.now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	var resp tokenResponse
	if err := c.doRequest(ctx, http.MethodPost, "/auth/token", "", tokenRequest{Email: c.email, APIKey: c.apiKey}, &resp); err != nil {
		return "", fmt.Errorf("authenticate: %w", err)
	}
	if resp.AccessToken == "" {
		return "", fmt.Errorf("authenticate: empty access token")
	}

	lifetime := time.Duration(resp.ExpiresIn) * time.Second
	if lifetime > tokenSafetyWindow {
		lifetime -= tokenSafetyWindow
	}

	c.accessToken = resp.AccessToken
	c.tokenExpiry = c.now().Add(lifetime)
	return c.accessToken, nil
}

// SearchProducts queries the supplier API by keyword.
func (c *Client) SearchProducts(ctx context.Context, keyword string) ([]SearchProduct, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	endpoint := "/products?" + url.Values{"keyword": {keyword}}.Encode()
	if err := c.doRequest(ctx, http.MethodGet, endpoint, token, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

// FreightCost returns the shipping quote for one SKU.
func (c *Client) FreightCost(ctx context.Context, sku, countryCode string) (FreightQuote, error) {
	token, err := c.token(ctx)
	if err != nil {
		return FreightQuote{}, err
	}

	payload := map[string]string{"sku": sku, "countryCode": countryCode}
	var quote FreightQuote
	if err := c.doRequest(ctx, http.MethodPost, "/freight/quote", token, payload, &quote); err != nil {
		return FreightQuote{}, err
	}
	return quote, nil
}

// doRequest executes one rate-limited JSON request against the supplier API.
func (c *Client) doRequest(ctx context.Context, method, endpoint, token string, requestBody, response interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var bodyReader io.Reader
	if requestBody != nil {
		bodyBytes, err := json.Marshal(requestBody)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if c.log != nil {
			c.log.SupplierAPIError(endpoint, resp.StatusCode, fmt.Errorf("unexpected status"))
		}
		return fmt.Errorf("supplier api %s: status %d", endpoint, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}
	if err := json.Unmarshal(body, response); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}

	return nil
}
