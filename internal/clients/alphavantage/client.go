// Package alphavantage implements the secondary live market data source.
package alphavantage

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

const defaultBaseURL = "https://www.alphavantage.co/query"

// Client is an Alpha Vantage API client
type Client struct {
	client  *http.Client
	baseURL string
	apiKey  string
	log     zerolog.Logger
}

// Option customizes the client.
type Option func(*Client)

// WithBaseURL overrides the API base URL (tests point this at a stub).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.client = h }
}

// NewClient creates a new Alpha Vantage client
func NewClient(apiKey string, log zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		log:     log.With().Str("client", "alphavantage").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// globalQuoteResponse mirrors the GLOBAL_QUOTE payload. All numeric fields
// arrive as strings.
type globalQuoteResponse struct {
	GlobalQuote struct {
		Symbol string `json:"01. symbol"`
		Price  string `json:"05. price"`
		Volume string `json:"06. volume"`
	} `json:"Global Quote"`
	Note         string `json:"Note"`
	ErrorMessage string `json:"Error Message"`
}

// GetQuote fetches a single current quote for a (possibly suffixed) ticker.
// Returns an error on network failure, rate limiting, or an empty result.
func (c *Client) GetQuote(ticker string) (float64, error) {
	params := url.Values{}
	params.Add("function", "GLOBAL_QUOTE")
	params.Add("symbol", ticker)
	params.Add("apikey", c.apiKey)

	reqURL := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequest("GET", reqURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch quote: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("Alpha Vantage API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read response body: %w", err)
	}

	var result globalQuoteResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return 0, fmt.Errorf("failed to parse response: %w", err)
	}

	if result.ErrorMessage != "" {
		return 0, fmt.Errorf("Alpha Vantage API error: %s", result.ErrorMessage)
	}
	if result.Note != "" {
		// Rate-limit notice arrives as a 200 with a "Note" body
		return 0, fmt.Errorf("Alpha Vantage rate limited: %s", result.Note)
	}
	if result.GlobalQuote.Price == "" {
		return 0, fmt.Errorf("no quote data returned for %s", ticker)
	}

	price, err := strconv.ParseFloat(result.GlobalQuote.Price, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse price %q: %w", result.GlobalQuote.Price, err)
	}
	if price <= 0 {
		return 0, fmt.Errorf("non-positive price %f for %s", price, ticker)
	}

	c.log.Debug().Str("ticker", ticker).Float64("price", price).Msg("Fetched quote")

	return price, nil
}
