package request

import "encoding/json"

// TradeRequest is the body for buy and sell operations. Quantity is a
// json.Number so that non-numeric input is rejected during validation
// with a field error instead of a generic decode failure.
type TradeRequest struct {
	Ticker   string      `json:"ticker"`
	Quantity json.Number `json:"quantity"`
}

// ReviewRequest is the body for the portfolio review operation. The
// client sends the structured summary it wants reviewed, mirroring the
// portfolio view payload.
type ReviewRequest struct {
	PortfolioData ReviewPortfolioData `json:"portfolio_data"`
}

// ReviewPortfolioData carries the bought and sold stock lists to review.
type ReviewPortfolioData struct {
	BoughtStocks []ReviewStock `json:"bought_stocks"`
	SoldStocks   []ReviewStock `json:"sold_stocks"`
}

// ReviewStock is one line of a review summary.
type ReviewStock struct {
	Ticker     string `json:"ticker"`
	Quantity   int64  `json:"quantity"`
	DateBought string `json:"date_bought,omitempty"`
	DateSold   string `json:"date_sold,omitempty"`
}
