package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/mvdbosch/stock-portfolio-tracker/internal/apperrors"
	"github.com/mvdbosch/stock-portfolio-tracker/internal/model"
	"github.com/mvdbosch/stock-portfolio-tracker/internal/repository"
	"github.com/mvdbosch/stock-portfolio-tracker/internal/yahoo"
)

// PricingService implements the price cache. A price fetched once is
// considered valid indefinitely: CurrentPrice only reaches out to the
// provider on a cache miss, while Quote always refreshes. Provider
// failures degrade to a zero price on the cache path and are only
// surfaced on the explicit quote path.
type PricingService struct {
	priceRepo *repository.PriceRepository
	market    yahoo.Client
	timeout   time.Duration

	// group deduplicates concurrent provider fetches for the same ticker,
	// so simultaneous valuations do not fan out into redundant API calls.
	group singleflight.Group
}

// NewPricingService creates a new PricingService with the provided
// repository, market data client and per-call provider timeout.
func NewPricingService(priceRepo *repository.PriceRepository, market yahoo.Client, timeout time.Duration) *PricingService {
	return &PricingService{
		priceRepo: priceRepo,
		market:    market,
		timeout:   timeout,
	}
}

// CurrentPrice returns the price used for valuing a position.
//
// If a cached record exists with a present current price, that price is
// returned without consulting the provider; there is no time-based expiry.
// On a miss the provider is called, the record upserted, and the fetched
// price returned. Any provider failure, including a timed-out call, is
// logged and reported as a zero price; it never fails the caller.
func (s *PricingService) CurrentPrice(ctx context.Context, ticker string) float64 {
	rec, err := s.priceRepo.GetBySymbol(ticker)
	if err == nil && rec.CurrentPrice != nil {
		return *rec.CurrentPrice
	}
	if err != nil && err != sql.ErrNoRows {
		log.Printf("Error reading cached price for %s: %v", ticker, err)
		return 0
	}

	price, err := s.fetchAndCachePrice(ctx, ticker)
	if err != nil {
		log.Printf("Error fetching data for %s: %v", ticker, err)
		return 0
	}

	return price
}

// fetchAndCachePrice calls the provider for a current price and upserts the
// result. Concurrent calls for the same ticker share a single provider
// request.
func (s *PricingService) fetchAndCachePrice(ctx context.Context, ticker string) (float64, error) {
	v, err, _ := s.group.Do(ticker, func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		result, err := s.market.QueryYahooQuote(fetchCtx, ticker)
		if err != nil {
			return nil, err
		}
		if result.RegularMarketPrice == nil {
			return nil, fmt.Errorf("%w for %s", apperrors.ErrPriceUnavailable, ticker)
		}

		price := *result.RegularMarketPrice
		if err := s.priceRepo.UpsertCurrentPrice(ctx, ticker, price, time.Now()); err != nil {
			return nil, err
		}

		return price, nil
	})
	if err != nil {
		return 0, err
	}

	return v.(float64), nil
}

// Quote performs the explicit quote lookup. Unlike CurrentPrice it always
// calls the provider regardless of cache state, unconditionally replaces
// current price, previous close and market cap in the cache, and computes
// the daily change percentage when the previous close is present and
// non-zero.
//
// Provider failures here are surfaced to the caller: an empty result maps
// to apperrors.ErrSymbolNotFound, everything else is wrapped and returned.
func (s *PricingService) Quote(ctx context.Context, ticker string) (model.Quote, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.market.QueryYahooQuote(fetchCtx, ticker)
	if err != nil {
		if errors.Is(err, yahoo.ErrNoResults) {
			return model.Quote{}, fmt.Errorf("%w: %s", apperrors.ErrSymbolNotFound, ticker)
		}
		return model.Quote{}, fmt.Errorf("%w: %v", apperrors.ErrFailedToFetchQuote, err)
	}

	symbol := result.Symbol
	if symbol == "" {
		symbol = ticker
	}

	if err := s.priceRepo.UpsertQuote(ctx, symbol, result.RegularMarketPrice, result.RegularMarketPreviousClose, result.MarketCap, time.Now()); err != nil {
		return model.Quote{}, fmt.Errorf("failed to cache quote: %w", err)
	}

	quote := model.Quote{
		Symbol:        symbol,
		CurrentPrice:  result.RegularMarketPrice,
		PreviousClose: result.RegularMarketPreviousClose,
		MarketCap:     result.MarketCap,
	}

	if quote.CurrentPrice != nil && quote.PreviousClose != nil && *quote.PreviousClose != 0 {
		change := (*quote.CurrentPrice - *quote.PreviousClose) / *quote.PreviousClose * 100
		quote.DailyChange = &change
	}

	return quote, nil
}
