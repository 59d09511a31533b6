// Package exchangerate provides a client for the ExchangeRate-API v6 service,
// which supplies both the currency catalog and per-pair conversions.
package exchangerate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/the-spice-must-convert/internal/common"
	"github.com/Veraticus/the-spice-must-convert/internal/model"
	"github.com/Veraticus/the-spice-must-convert/internal/service"
	"github.com/sony/gobreaker"
)

// DefaultBaseURL is the public v6 endpoint.
const DefaultBaseURL = "https://v6.exchangerate-api.com/v6"

// Config configures the client.
type Config struct {
	HTTPClient  *http.Client
	BaseURL     string
	APIKey      string
	Retry       service.RetryOptions
	Timeout     time.Duration
	MaxFailures uint32
	Cooldown    time.Duration
}

// Client implements service.RateProvider over HTTP.
type Client struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	baseURL    string
	apiKey     string
	retry      service.RetryOptions
}

// Ensure we implement the interface.
var _ service.RateProvider = (*Client)(nil)

// APIError is a well-formed error reply from the service. These are caller
// mistakes (bad key, unsupported code) and are neither retried nor counted
// against the circuit breaker.
type APIError struct {
	Type       string
	StatusCode int
}

func (e *APIError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("exchange rate API error (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("exchange rate API error: %s", e.Type)
}

// envelope is implemented by every reply body; result reports the
// "result" and "error-type" fields.
type envelope interface {
	result() (string, string)
}

type codesResponse struct {
	Result         string      `json:"result"`
	ErrorType      string      `json:"error-type"`
	SupportedCodes [][2]string `json:"supported_codes"`
}

type pairResponse struct {
	Result           string  `json:"result"`
	ErrorType        string  `json:"error-type"`
	BaseCode         string  `json:"base_code"`
	TargetCode       string  `json:"target_code"`
	ConversionRate   float64 `json:"conversion_rate"`
	ConversionResult float64 `json:"conversion_result"`
}

// NewClient creates a new exchange-rate client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: exchange rate API key is required", common.ErrMissingConfig)
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}

	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}

	cooldown := cfg.Cooldown
	if cooldown == 0 {
		cooldown = 30 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "exchangerate",
		Timeout: cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: func(err error) bool {
			var apiErr *APIError
			return err == nil || errors.As(err, &apiErr)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("Circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return &Client{
		httpClient: httpClient,
		breaker:    breaker,
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		retry:      cfg.Retry,
	}, nil
}

// ListCurrencies implements service.RateProvider. Transient failures are
// retried with backoff since the catalog is fetched once per session.
func (c *Client) ListCurrencies(ctx context.Context) ([]model.Currency, error) {
	var resp codesResponse
	err := common.WithRetry(ctx, func() error {
		resp = codesResponse{}
		return c.get(ctx, "codes", &resp)
	}, c.retry)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrCatalogLoad, err)
	}

	currencies := make([]model.Currency, 0, len(resp.SupportedCodes))
	for _, pair := range resp.SupportedCodes {
		code, err := model.ParseCurrencyCode(pair[0])
		if err != nil {
			slog.Debug("Skipping malformed currency code", "code", pair[0])
			continue
		}
		currencies = append(currencies, model.Currency{Code: code, Name: pair[1]})
	}

	if len(currencies) == 0 {
		return nil, fmt.Errorf("%w: no supported codes returned", common.ErrCatalogLoad)
	}

	return currencies, nil
}

// Convert implements service.RateProvider. Each call performs exactly one
// lookup.
func (c *Client) Convert(ctx context.Context, from, to model.CurrencyCode, amount float64) (float64, error) {
	path := fmt.Sprintf("pair/%s/%s/%s",
		url.PathEscape(string(from)),
		url.PathEscape(string(to)),
		strconv.FormatFloat(amount, 'f', -1, 64))

	var resp pairResponse
	if err := c.get(ctx, path, &resp); err != nil {
		slog.Warn("Conversion lookup failed", "from", from, "to", to, "transient", common.IsRetryable(err), "error", err)
		return 0, fmt.Errorf("%w: %w", common.ErrConversionLookup, err)
	}

	return resp.ConversionResult, nil
}

// get performs one breaker-guarded GET and decodes the JSON reply into out.
func (c *Client) get(ctx context.Context, path string, out envelope) error {
	_, err := c.breaker.Execute(func() (any, error) {
		return nil, c.do(ctx, path, out)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &common.RetryableError{Err: fmt.Errorf("exchange rate service unavailable: %w", err), Retryable: false}
	}
	return err
}

func (c *Client) do(ctx context.Context, path string, out envelope) error {
	endpoint := fmt.Sprintf("%s/%s/%s", c.baseURL, url.PathEscape(c.apiKey), path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &common.RetryableError{Err: fmt.Errorf("failed to create request: %w", err), Retryable: false}
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	slog.Debug("Exchange rate API call",
		"endpoint", redact(path),
		"status", resp.StatusCode,
		"duration", time.Since(start))

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("exchange rate API error (status %d)", resp.StatusCode)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w (status %d)", common.ErrRateLimit, resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		if resp.StatusCode != http.StatusOK {
			return &common.RetryableError{Err: &APIError{StatusCode: resp.StatusCode}, Retryable: false}
		}
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if result, errType := out.result(); result != "success" {
		return &common.RetryableError{Err: &APIError{Type: errType, StatusCode: resp.StatusCode}, Retryable: false}
	}

	return nil
}

func (r *codesResponse) result() (string, string) { return r.Result, r.ErrorType }

func (r *pairResponse) result() (string, string) { return r.Result, r.ErrorType }

// redact keeps the path shape in logs; the key is never part of path.
func redact(path string) string {
	if i := strings.Index(path, "/"); i > 0 {
		return path[:i]
	}
	return path
}
