package model

// ReviewSummary is the structured portfolio summary handed to the
// narrative review generator: what is held and what has been sold,
// with quantities and dates.
type ReviewSummary struct {
	BoughtStocks []PositionValue      `json:"bought_stocks"`
	SoldStocks   []ClosedPositionView `json:"sold_stocks"`
}

// Review is the generated free-text commentary on a portfolio.
type Review struct {
	Review string `json:"review"`
}
