package model

import "time"

// Position represents a stock currently held in the portfolio.
// There is at most one row per ticker; quantity is always positive,
// a position that reaches zero is deleted rather than kept at zero.
type Position struct {
	ID         string    `json:"id"`
	Ticker     string    `json:"ticker"`
	Quantity   int64     `json:"quantity"`
	DateBought time.Time `json:"date_bought"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
}

// ClosedPosition represents a completed sale. The log is append-only:
// each sell produces exactly one entry, whether the position was fully
// or partially closed.
type ClosedPosition struct {
	ID       string    `json:"id"`
	Ticker   string    `json:"ticker"`
	Quantity int64     `json:"quantity"`
	DateSold time.Time `json:"date_sold"`
}

// PositionValue is a current position enriched with its market valuation.
type PositionValue struct {
	Ticker       string  `json:"ticker"`
	Quantity     int64   `json:"quantity"`
	DateBought   string  `json:"date_bought"`
	CurrentPrice float64 `json:"current_price"`
	StockValue   float64 `json:"stock_value"`
}

// ClosedPositionView is the API representation of a closed position.
type ClosedPositionView struct {
	Ticker   string `json:"ticker"`
	Quantity int64  `json:"quantity"`
	DateSold string `json:"date_sold"`
}

// PortfolioView is the full valuation of the portfolio: every held
// position priced, every closed position enumerated, and the total
// market value of current holdings.
type PortfolioView struct {
	BoughtStocks []PositionValue      `json:"bought_stocks"`
	SoldStocks   []ClosedPositionView `json:"sold_stocks"`
	TotalValue   float64              `json:"total_value"`
}

// PortfolioSnapshot is the payload broadcast to websocket subscribers
// after a buy or sell mutates the ledger. Sold positions are omitted;
// subscribers only track live holdings.
type PortfolioSnapshot struct {
	BoughtStocks []PositionValue `json:"bought_stocks"`
	TotalValue   float64         `json:"total_value"`
}
