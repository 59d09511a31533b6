package exchangerate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Veraticus/the-spice-must-convert/internal/common"
	"github.com/Veraticus/the-spice-must-convert/internal/model"
	"github.com/Veraticus/the-spice-must-convert/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...func(*Config)) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := Config{
		BaseURL: server.URL + "/v6",
		APIKey:  "test-key",
		Retry: service.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: time.Millisecond,
			MaxDelay:     5 * time.Millisecond,
		},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	client, err := NewClient(cfg)
	require.NoError(t, err)
	return client
}

func TestNewClient_RequiresKey(t *testing.T) {
	_, err := NewClient(Config{})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrMissingConfig)
}

func TestListCurrencies(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v6/test-key/codes", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"result": "success",
			"supported_codes": [["USD", "United States Dollar"], ["pkr", "Pakistani Rupee"], ["??", "Broken"], ["EUR", "Euro"]]
		}`))
	})

	currencies, err := client.ListCurrencies(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.Currency{
		{Code: "USD", Name: "United States Dollar"},
		{Code: "PKR", Name: "Pakistani Rupee"},
		{Code: "EUR", Name: "Euro"},
	}, currencies)
}

func TestListCurrencies_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"result":"success","supported_codes":[["USD","United States Dollar"]]}`))
	})

	currencies, err := client.ListCurrencies(context.Background())
	require.NoError(t, err)
	assert.Len(t, currencies, 1)
	assert.Equal(t, int32(3), calls.Load())
}

func TestListCurrencies_APIErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"result":"error","error-type":"invalid-key"}`))
	})

	_, err := client.ListCurrencies(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrCatalogLoad)
	assert.Contains(t, err.Error(), "invalid-key")
	assert.Equal(t, int32(1), calls.Load())
}

func TestListCurrencies_Empty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"result":"success","supported_codes":[]}`))
	})

	_, err := client.ListCurrencies(context.Background())
	assert.ErrorIs(t, err, common.ErrCatalogLoad)
}

func TestConvert(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v6/test-key/pair/USD/PKR/12.5", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"result": "success",
			"base_code": "USD",
			"target_code": "PKR",
			"conversion_rate": 280.2,
			"conversion_result": 3502.5
		}`))
	})

	got, err := client.Convert(context.Background(), "USD", "PKR", 12.5)
	require.NoError(t, err)
	assert.InDelta(t, 3502.5, got, 1e-9)
}

func TestConvert_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantMsg string
	}{
		{
			name: "unsupported code",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"result":"error","error-type":"unsupported-code"}`))
			},
			wantMsg: "unsupported-code",
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantMsg: "status 500",
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`not json`))
			},
			wantMsg: "failed to parse response",
		},
		{
			name: "rate limited",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
			},
			wantMsg: "rate limit exceeded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.handler)
			_, err := client.Convert(context.Background(), "USD", "PKR", 1)
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrConversionLookup)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestConvert_CircuitBreakerOpens(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}, func(cfg *Config) {
		cfg.MaxFailures = 2
		cfg.Cooldown = time.Minute
	})

	for i := 0; i < 2; i++ {
		_, err := client.Convert(context.Background(), "USD", "PKR", 1)
		require.Error(t, err)
	}

	_, err := client.Convert(context.Background(), "USD", "PKR", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exchange rate service unavailable")
	assert.Equal(t, int32(2), calls.Load(), "open breaker must not reach the server")
}

func TestConvert_APIErrorsDoNotTripBreaker(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"result":"error","error-type":"unsupported-code"}`))
	}, func(cfg *Config) {
		cfg.MaxFailures = 1
	})

	for i := 0; i < 3; i++ {
		_, err := client.Convert(context.Background(), "USD", "XXX", 1)
		require.Error(t, err)
	}
	assert.Equal(t, int32(3), calls.Load())
}

func TestMockClient(t *testing.T) {
	mock := NewMockClient()
	currencies, err := mock.ListCurrencies(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, currencies)

	got, err := mock.Convert(context.Background(), "USD", "EUR", 3)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, got, 1e-9)
	assert.Equal(t, []ConvertCall{{From: "USD", To: "EUR", Amount: 3}}, mock.ConvertCalls())
	assert.Equal(t, 1, mock.ListCurrenciesCalls())
}
