package exchangerate

import (
	"context"
	"sync"

	"github.com/Veraticus/the-spice-must-convert/internal/model"
	"github.com/Veraticus/the-spice-must-convert/internal/service"
)

// MockClient is a mock implementation of service.RateProvider for testing.
type MockClient struct {
	// Functions that can be set by tests to control behavior
	ListCurrenciesFn func(ctx context.Context) ([]model.Currency, error)
	ConvertFn        func(ctx context.Context, from, to model.CurrencyCode, amount float64) (float64, error)

	// Call tracking
	convertCalls        []ConvertCall
	listCurrenciesCalls int
	mu                  sync.Mutex
}

// ConvertCall records the parameters of a Convert call.
type ConvertCall struct {
	From   model.CurrencyCode
	To     model.CurrencyCode
	Amount float64
}

var _ service.RateProvider = (*MockClient)(nil)

// NewMockClient creates a new mock client.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// ListCurrencies implements service.RateProvider.
func (m *MockClient) ListCurrencies(ctx context.Context) ([]model.Currency, error) {
	m.mu.Lock()
	m.listCurrenciesCalls++
	fn := m.ListCurrenciesFn
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx)
	}

	// Default behavior: a small fixed catalog
	return []model.Currency{
		{Code: "USD", Name: "United States Dollar"},
		{Code: "PKR", Name: "Pakistani Rupee"},
		{Code: "EUR", Name: "Euro"},
	}, nil
}

// Convert implements service.RateProvider.
func (m *MockClient) Convert(ctx context.Context, from, to model.CurrencyCode, amount float64) (float64, error) {
	m.mu.Lock()
	m.convertCalls = append(m.convertCalls, ConvertCall{From: from, To: to, Amount: amount})
	fn := m.ConvertFn
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, from, to, amount)
	}

	// Default behavior: identity rate
	return amount, nil
}

// ConvertCalls returns a copy of the recorded Convert calls.
func (m *MockClient) ConvertCalls() []ConvertCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ConvertCall, len(m.convertCalls))
	copy(out, m.convertCalls)
	return out
}

// ListCurrenciesCalls returns how many times the catalog was requested.
func (m *MockClient) ListCurrenciesCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listCurrenciesCalls
}
