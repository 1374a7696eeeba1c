package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// ErrNoResults indicates that the API answered successfully but returned
// no quote for the requested symbol (unknown or delisted ticker).
var ErrNoResults = errors.New("no results returned")

// Client defines the interface for fetching market data from Yahoo Finance.
// This interface enables dependency injection and testing with mock implementations.
type Client interface {
	QueryYahooQuote(ctx context.Context, symbol string) (QuoteResult, error)
}

// FinanceClient provides methods for fetching financial data from the Yahoo
// Finance API. It wraps an HTTP client and provides convenient methods for
// querying current market data for a symbol.
type FinanceClient struct {
	httpClient *http.Client
}

// NewFinanceClient creates a new Yahoo Finance client with default HTTP settings.
// The client uses a standard http.Client for making requests to Yahoo Finance endpoints.
//
// Returns:
//   - *FinanceClient: A new client instance ready for use
func NewFinanceClient() *FinanceClient {
	return &FinanceClient{
		httpClient: &http.Client{},
	}
}

// QueryYahooQuote fetches the current market data for a symbol: last traded
// price, previous close and market capitalization. The caller's context
// bounds the request; a timed-out context surfaces as a fetch error.
//
// Parameters:
//   - ctx: request context, normally carrying a deadline
//   - symbol: stock ticker symbol (e.g., "AAPL", "MSFT")
//
// Returns:
//   - QuoteResult: market data for the symbol
//   - error: if the HTTP request fails, the API returns an error, or no
//     result is returned for the symbol
func (c *FinanceClient) QueryYahooQuote(ctx context.Context, symbol string) (QuoteResult, error) {
	queryURL := fmt.Sprintf(
		"https://query1.finance.yahoo.com/v7/finance/quote?symbols=%s",
		url.QueryEscape(symbol),
	)

	result, err := c.queryYahoo(ctx, queryURL)
	if err != nil {
		return QuoteResult{}, err
	}
	if len(result.QuoteResponse.Result) == 0 {
		return QuoteResult{}, fmt.Errorf("%w for symbol %s", ErrNoResults, symbol)
	}

	return result.QuoteResponse.Result[0], nil
}

// queryYahoo is an internal helper that executes HTTP requests to the Yahoo
// Finance API. It handles the common logic for making requests, reading
// responses, parsing JSON, and checking for API errors.
//
// The method sets required headers:
//   - User-Agent: mimics a browser to avoid API blocking
//   - Accept: requests JSON response format
func (c *FinanceClient) queryYahoo(ctx context.Context, queryURL string) (Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, queryURL, nil)
	if err != nil {
		return Response{}, err
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, err
	}

	if resp.StatusCode != http.StatusOK {
		return Response{}, fmt.Errorf("yahoo returned status %d", resp.StatusCode)
	}

	var response Response
	if err := json.Unmarshal(data, &response); err != nil {
		return Response{}, err
	}

	if response.QuoteResponse.Error != nil {
		return response, fmt.Errorf("yahoo error: %s", *response.QuoteResponse.Error)
	}

	return response, nil
}
