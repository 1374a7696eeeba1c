package testutil

import (
	"context"
	"fmt"

	"github.com/mvdbosch/stock-portfolio-tracker/internal/yahoo"
)

// MockMarketClient is a mock implementation of yahoo.Client for testing.
// It returns predefined quotes instead of making actual API calls.
type MockMarketClient struct {
	// Quotes maps symbol to the quote returned for it
	Quotes map[string]yahoo.QuoteResult
	// MockError is returned from query methods when set
	MockError error
	// QueryCount tracks how many times a query method was called
	QueryCount int
}

// NewMockMarketClient creates a new mock market client with no quotes.
// Unknown symbols behave like unknown tickers at the provider.
func NewMockMarketClient() *MockMarketClient {
	return &MockMarketClient{
		Quotes: make(map[string]yahoo.QuoteResult),
	}
}

// QueryYahooQuote mocks the quote query with predefined test data.
func (m *MockMarketClient) QueryYahooQuote(_ context.Context, symbol string) (yahoo.QuoteResult, error) {
	m.QueryCount++
	if m.MockError != nil {
		return yahoo.QuoteResult{}, m.MockError
	}
	if q, ok := m.Quotes[symbol]; ok {
		return q, nil
	}
	return yahoo.QuoteResult{}, fmt.Errorf("%w for symbol %s", yahoo.ErrNoResults, symbol)
}

// WithQuote configures the mock to return a full quote for a symbol.
func (m *MockMarketClient) WithQuote(symbol string, price, previousClose, marketCap float64) *MockMarketClient {
	m.Quotes[symbol] = yahoo.QuoteResult{
		Symbol:                     symbol,
		RegularMarketPrice:         &price,
		RegularMarketPreviousClose: &previousClose,
		MarketCap:                  &marketCap,
		Currency:                   "USD",
	}
	return m
}

// WithPrice configures the mock to return only a current price for a symbol.
func (m *MockMarketClient) WithPrice(symbol string, price float64) *MockMarketClient {
	m.Quotes[symbol] = yahoo.QuoteResult{
		Symbol:             symbol,
		RegularMarketPrice: &price,
		Currency:           "USD",
	}
	return m
}

// WithError configures the mock to fail every query with the specified error.
func (m *MockMarketClient) WithError(err error) *MockMarketClient {
	m.MockError = err
	return m
}
