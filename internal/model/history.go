package model

import "time"

// ValuationSample is one point in the portfolio value time series.
// Samples are append-only and ordered by date; repeated valuations at
// the same instant produce multiple rows.
type ValuationSample struct {
	ID         string    `json:"-"`
	Date       time.Time `json:"date"`
	TotalValue float64   `json:"value"`
}
