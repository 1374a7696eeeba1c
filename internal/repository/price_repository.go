package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mvdbosch/stock-portfolio-tracker/internal/model"
)

// PriceRepository provides data access methods for the stock_data table.
// The table holds at most one record per symbol; refreshes mutate the
// record in place.
type PriceRepository struct {
	db *sql.DB
}

// NewPriceRepository creates a new PriceRepository with the provided database connection.
func NewPriceRepository(db *sql.DB) *PriceRepository {
	return &PriceRepository{db: db}
}

// GetBySymbol retrieves the cached market data for a symbol.
// Returns sql.ErrNoRows when the symbol has never been queried.
func (r *PriceRepository) GetBySymbol(symbol string) (model.PriceRecord, error) {
	query := `
		SELECT id, symbol, current_price, previous_close, market_cap, last_updated
		FROM stock_data
		WHERE symbol = ?
	`

	var rec model.PriceRecord
	var currentPrice, previousClose, marketCap sql.NullFloat64
	var lastUpdatedStr sql.NullString

	err := r.db.QueryRow(query, symbol).Scan(
		&rec.ID,
		&rec.Symbol,
		&currentPrice,
		&previousClose,
		&marketCap,
		&lastUpdatedStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.PriceRecord{}, err
		}
		return model.PriceRecord{}, fmt.Errorf("failed to scan stock_data table results: %w", err)
	}

	if currentPrice.Valid {
		rec.CurrentPrice = &currentPrice.Float64
	}
	if previousClose.Valid {
		rec.PreviousClose = &previousClose.Float64
	}
	if marketCap.Valid {
		rec.MarketCap = &marketCap.Float64
	}
	if lastUpdatedStr.Valid {
		rec.LastUpdated, err = ParseTime(lastUpdatedStr.String)
		if err != nil {
			return model.PriceRecord{}, fmt.Errorf("failed to parse date: %w", err)
		}
	}

	return rec, nil
}

// UpsertCurrentPrice creates or overwrites the cached current price for a
// symbol and bumps last_updated. Previous close and market cap are left
// untouched for an existing record; only the full quote path replaces them.
func (r *PriceRepository) UpsertCurrentPrice(ctx context.Context, symbol string, price float64, at time.Time) error {
	query := `
		INSERT INTO stock_data (id, symbol, current_price, last_updated)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(symbol) DO UPDATE SET
			current_price = excluded.current_price,
			last_updated = excluded.last_updated
	`

	_, err := r.db.ExecContext(ctx, query,
		uuid.New().String(),
		symbol,
		price,
		at.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert stock data: %w", err)
	}

	return nil
}

// UpsertQuote creates or overwrites the full cached quote for a symbol:
// current price, previous close and market cap are all replaced
// unconditionally, absent fields included, and last_updated is bumped.
func (r *PriceRepository) UpsertQuote(ctx context.Context, symbol string, current, previousClose, marketCap *float64, at time.Time) error {
	query := `
		INSERT INTO stock_data (id, symbol, current_price, previous_close, market_cap, last_updated)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(symbol) DO UPDATE SET
			current_price = excluded.current_price,
			previous_close = excluded.previous_close,
			market_cap = excluded.market_cap,
			last_updated = excluded.last_updated
	`

	_, err := r.db.ExecContext(ctx, query,
		uuid.New().String(),
		symbol,
		nullableFloat(current),
		nullableFloat(previousClose),
		nullableFloat(marketCap),
		at.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert stock data: %w", err)
	}

	return nil
}

// nullableFloat converts an optional float into a driver-friendly value.
func nullableFloat(f *float64) interface{} {
	if f == nil {
		return nil
	}
	return *f
}
