package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/mvdbosch/stock-portfolio-tracker/internal/model"
)

// PositionBuilder provides a fluent interface for creating test positions.
//
// Example usage:
//
//	// Simple creation with defaults
//	position := testutil.NewPosition("AAPL").Build(t, db)
//
//	// Customized position
//	position := testutil.NewPosition("MSFT").
//	    WithQuantity(25).
//	    WithDateBought(someTime).
//	    Build(t, db)
type PositionBuilder struct {
	ID         string
	Ticker     string
	Quantity   int64
	DateBought time.Time
	CreatedAt  time.Time
}

// NewPosition creates a PositionBuilder with sensible defaults.
func NewPosition(ticker string) *PositionBuilder {
	now := time.Now().UTC()
	return &PositionBuilder{
		ID:         MakeID(),
		Ticker:     ticker,
		Quantity:   10,
		DateBought: now,
		CreatedAt:  now,
	}
}

// WithQuantity sets a custom quantity.
func (b *PositionBuilder) WithQuantity(quantity int64) *PositionBuilder {
	b.Quantity = quantity
	return b
}

// WithDateBought sets a custom purchase timestamp.
func (b *PositionBuilder) WithDateBought(at time.Time) *PositionBuilder {
	b.DateBought = at
	return b
}

// WithCreatedAt sets a custom creation timestamp, which controls the
// position's place in ledger insertion order.
func (b *PositionBuilder) WithCreatedAt(at time.Time) *PositionBuilder {
	b.CreatedAt = at
	return b
}

// Build creates the position in the database and returns it.
func (b *PositionBuilder) Build(t *testing.T, db *sql.DB) model.Position {
	t.Helper()

	query := `
		INSERT INTO position (id, ticker, quantity, date_bought, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		b.ID,
		b.Ticker,
		b.Quantity,
		b.DateBought.UTC().Format(time.RFC3339),
		b.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		t.Fatalf("Failed to create test position: %v", err)
	}

	return model.Position{
		ID:         b.ID,
		Ticker:     b.Ticker,
		Quantity:   b.Quantity,
		DateBought: b.DateBought.UTC(),
		CreatedAt:  b.CreatedAt.UTC(),
	}
}

// ClosedPositionBuilder provides a fluent interface for creating test
// closed positions.
type ClosedPositionBuilder struct {
	ID       string
	Ticker   string
	Quantity int64
	DateSold time.Time
}

// NewClosedPosition creates a ClosedPositionBuilder with sensible defaults.
func NewClosedPosition(ticker string) *ClosedPositionBuilder {
	return &ClosedPositionBuilder{
		ID:       MakeID(),
		Ticker:   ticker,
		Quantity: 5,
		DateSold: time.Now().UTC(),
	}
}

// WithQuantity sets a custom quantity.
func (b *ClosedPositionBuilder) WithQuantity(quantity int64) *ClosedPositionBuilder {
	b.Quantity = quantity
	return b
}

// WithDateSold sets a custom sale timestamp.
func (b *ClosedPositionBuilder) WithDateSold(at time.Time) *ClosedPositionBuilder {
	b.DateSold = at
	return b
}

// Build creates the closed position in the database and returns it.
func (b *ClosedPositionBuilder) Build(t *testing.T, db *sql.DB) model.ClosedPosition {
	t.Helper()

	query := `
		INSERT INTO closed_position (id, ticker, quantity, date_sold)
		VALUES (?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		b.ID,
		b.Ticker,
		b.Quantity,
		b.DateSold.UTC().Format(time.RFC3339),
	)
	if err != nil {
		t.Fatalf("Failed to create test closed position: %v", err)
	}

	return model.ClosedPosition{
		ID:       b.ID,
		Ticker:   b.Ticker,
		Quantity: b.Quantity,
		DateSold: b.DateSold.UTC(),
	}
}

// PriceRecordBuilder provides a fluent interface for creating cached
// price records.
type PriceRecordBuilder struct {
	ID            string
	Symbol        string
	CurrentPrice  *float64
	PreviousClose *float64
	MarketCap     *float64
	LastUpdated   time.Time
}

// NewPriceRecord creates a PriceRecordBuilder with a current price and no
// previous close or market cap.
func NewPriceRecord(symbol string, price float64) *PriceRecordBuilder {
	return &PriceRecordBuilder{
		ID:           MakeID(),
		Symbol:       symbol,
		CurrentPrice: &price,
		LastUpdated:  time.Now().UTC(),
	}
}

// WithoutPrice clears the current price, modeling a record whose last
// refresh failed to produce one.
func (b *PriceRecordBuilder) WithoutPrice() *PriceRecordBuilder {
	b.CurrentPrice = nil
	return b
}

// WithPreviousClose sets the previous close.
func (b *PriceRecordBuilder) WithPreviousClose(price float64) *PriceRecordBuilder {
	b.PreviousClose = &price
	return b
}

// WithMarketCap sets the market cap.
func (b *PriceRecordBuilder) WithMarketCap(cap float64) *PriceRecordBuilder {
	b.MarketCap = &cap
	return b
}

// Build creates the price record in the database and returns it.
func (b *PriceRecordBuilder) Build(t *testing.T, db *sql.DB) model.PriceRecord {
	t.Helper()

	query := `
		INSERT INTO stock_data (id, symbol, current_price, previous_close, market_cap, last_updated)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		b.ID,
		b.Symbol,
		nullable(b.CurrentPrice),
		nullable(b.PreviousClose),
		nullable(b.MarketCap),
		b.LastUpdated.UTC().Format(time.RFC3339),
	)
	if err != nil {
		t.Fatalf("Failed to create test price record: %v", err)
	}

	return model.PriceRecord{
		ID:            b.ID,
		Symbol:        b.Symbol,
		CurrentPrice:  b.CurrentPrice,
		PreviousClose: b.PreviousClose,
		MarketCap:     b.MarketCap,
		LastUpdated:   b.LastUpdated.UTC(),
	}
}

// ValuationSampleBuilder provides a fluent interface for creating history
// samples.
type ValuationSampleBuilder struct {
	ID         string
	Date       time.Time
	TotalValue float64
}

// NewValuationSample creates a ValuationSampleBuilder for the given value
// dated now.
func NewValuationSample(totalValue float64) *ValuationSampleBuilder {
	return &ValuationSampleBuilder{
		ID:         MakeID(),
		Date:       time.Now().UTC(),
		TotalValue: totalValue,
	}
}

// WithDate sets a custom sample timestamp.
func (b *ValuationSampleBuilder) WithDate(at time.Time) *ValuationSampleBuilder {
	b.Date = at
	return b
}

// Build creates the sample in the database and returns it.
func (b *ValuationSampleBuilder) Build(t *testing.T, db *sql.DB) model.ValuationSample {
	t.Helper()

	query := `
		INSERT INTO portfolio_history (id, date, total_value)
		VALUES (?, ?, ?)
	`

	_, err := db.Exec(query,
		b.ID,
		b.Date.UTC().Format(time.RFC3339),
		b.TotalValue,
	)
	if err != nil {
		t.Fatalf("Failed to create test valuation sample: %v", err)
	}

	return model.ValuationSample{
		ID:         b.ID,
		Date:       b.Date.UTC(),
		TotalValue: b.TotalValue,
	}
}

// nullable converts an optional float into a driver-friendly value.
func nullable(f *float64) interface{} {
	if f == nil {
		return nil
	}
	return *f
}
