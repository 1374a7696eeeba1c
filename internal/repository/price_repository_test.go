package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/mvdbosch/stock-portfolio-tracker/internal/repository"
	"github.com/mvdbosch/stock-portfolio-tracker/internal/testutil"
)

// TestPriceRepository_Upserts tests the two cache refresh paths.
//
// WHY: The table holds one row per symbol with two distinct update shapes:
// the price-only upsert must leave previous close and market cap untouched,
// while the full-quote upsert replaces all three fields, clearing any the
// provider no longer reports. Mixing those up silently corrupts quotes.
func TestPriceRepository_Upserts(t *testing.T) {
	t.Run("returns sql.ErrNoRows for a never-queried symbol", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		repo := repository.NewPriceRepository(db)

		// Execute
		_, err := repo.GetBySymbol("AAPL")

		// Assert
		if !errors.Is(err, sql.ErrNoRows) {
			t.Errorf("Expected sql.ErrNoRows, got %v", err)
		}
	})

	t.Run("price-only upsert preserves previous close and market cap", func(t *testing.T) {
		// Setup: a full record from an earlier quote
		db := testutil.SetupTestDB(t)
		repo := repository.NewPriceRepository(db)

		testutil.NewPriceRecord("AAPL", 150.00).
			WithPreviousClose(148.00).
			WithMarketCap(2.8e12).
			Build(t, db)

		// Execute
		if err := repo.UpsertCurrentPrice(context.Background(), "AAPL", 155.00, time.Now()); err != nil {
			t.Fatalf("UpsertCurrentPrice() returned unexpected error: %v", err)
		}

		// Assert
		rec, err := repo.GetBySymbol("AAPL")
		if err != nil {
			t.Fatalf("GetBySymbol() returned unexpected error: %v", err)
		}
		if rec.CurrentPrice == nil || *rec.CurrentPrice != 155.00 {
			t.Errorf("Expected updated price 155.00, got %v", rec.CurrentPrice)
		}
		if rec.PreviousClose == nil || *rec.PreviousClose != 148.00 {
			t.Errorf("Expected previous close preserved at 148.00, got %v", rec.PreviousClose)
		}
		if rec.MarketCap == nil || *rec.MarketCap != 2.8e12 {
			t.Errorf("Expected market cap preserved at 2.8e12, got %v", rec.MarketCap)
		}

		testutil.AssertRowCount(t, db, "stock_data", 1)
	})

	t.Run("full-quote upsert replaces all fields", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		repo := repository.NewPriceRepository(db)

		testutil.NewPriceRecord("AAPL", 150.00).
			WithPreviousClose(148.00).
			WithMarketCap(2.8e12).
			Build(t, db)

		// Execute: the provider reported no market cap this time
		price := 155.00
		previousClose := 150.00
		if err := repo.UpsertQuote(context.Background(), "AAPL", &price, &previousClose, nil, time.Now()); err != nil {
			t.Fatalf("UpsertQuote() returned unexpected error: %v", err)
		}

		// Assert: absent fields are cleared, not carried over
		rec, err := repo.GetBySymbol("AAPL")
		if err != nil {
			t.Fatalf("GetBySymbol() returned unexpected error: %v", err)
		}
		if rec.CurrentPrice == nil || *rec.CurrentPrice != 155.00 {
			t.Errorf("Expected price 155.00, got %v", rec.CurrentPrice)
		}
		if rec.PreviousClose == nil || *rec.PreviousClose != 150.00 {
			t.Errorf("Expected previous close 150.00, got %v", rec.PreviousClose)
		}
		if rec.MarketCap != nil {
			t.Errorf("Expected market cap cleared, got %v", *rec.MarketCap)
		}
	})
}
