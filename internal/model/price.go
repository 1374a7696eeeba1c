package model

import "time"

// PriceRecord is the cached market data for a single ticker. At most one
// record exists per symbol; refreshes mutate the row in place. Price
// fields are pointers because the provider may omit any of them.
type PriceRecord struct {
	ID            string    `json:"id"`
	Symbol        string    `json:"symbol"`
	CurrentPrice  *float64  `json:"current_price"`
	PreviousClose *float64  `json:"previous_close"`
	MarketCap     *float64  `json:"market_cap"`
	LastUpdated   time.Time `json:"last_updated"`
}

// Quote is the API representation of a full quote lookup. DailyChange is
// only present when the previous close is known and non-zero.
type Quote struct {
	Symbol        string   `json:"symbol"`
	CurrentPrice  *float64 `json:"currentPrice"`
	PreviousClose *float64 `json:"previousClose"`
	MarketCap     *float64 `json:"marketCap"`
	DailyChange   *float64 `json:"dailyChange"`
}
