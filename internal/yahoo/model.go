package yahoo

// Response represents the raw JSON response structure from the Yahoo
// Finance quote API. The structure contains an array of quote results
// (typically one element per requested symbol) and an optional error
// message from the API.
type Response struct {
	QuoteResponse QuoteResponse `json:"quoteResponse"`
}

// QuoteResponse is the envelope around quote results.
type QuoteResponse struct {
	Result []QuoteResult `json:"result"`
	Error  *string       `json:"error"`
}

// QuoteResult represents the market data for a single symbol. Price
// fields are pointers because Yahoo omits them for symbols without a
// live market (delisted tickers, indices without a market cap, etc.).
type QuoteResult struct {
	Symbol                     string   `json:"symbol"`
	RegularMarketPrice         *float64 `json:"regularMarketPrice"`
	RegularMarketPreviousClose *float64 `json:"regularMarketPreviousClose"`
	MarketCap                  *float64 `json:"marketCap"`
	Currency                   string   `json:"currency"`
	ShortName                  string   `json:"shortName"`
	FullExchangeName           string   `json:"fullExchangeName"`
}
