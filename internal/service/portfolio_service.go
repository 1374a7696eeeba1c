package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mvdbosch/stock-portfolio-tracker/internal/apperrors"
	"github.com/mvdbosch/stock-portfolio-tracker/internal/model"
	"github.com/mvdbosch/stock-portfolio-tracker/internal/repository"
)

// Publisher is the broadcast capability the portfolio service depends on.
// Publish is fire and forget; the service never waits on delivery.
type Publisher interface {
	Publish(snapshot model.PortfolioSnapshot)
}

// PortfolioService implements the holdings ledger and the valuation
// engine. Buy and sell mutate the ledger atomically; after each
// successful mutation a fresh valuation snapshot is broadcast to
// subscribers.
type PortfolioService struct {
	db           *sql.DB
	positionRepo *repository.PositionRepository
	pricing      *PricingService
	broadcaster  Publisher
}

// NewPortfolioService creates a new PortfolioService with the provided
// database handle, repository, pricing service and broadcaster.
func NewPortfolioService(
	db *sql.DB,
	positionRepo *repository.PositionRepository,
	pricing *PricingService,
	broadcaster Publisher,
) *PortfolioService {
	return &PortfolioService{
		db:           db,
		positionRepo: positionRepo,
		pricing:      pricing,
		broadcaster:  broadcaster,
	}
}

// Buy adds quantity shares of ticker to the portfolio. The ticker is
// normalized to uppercase and matched case-insensitively against existing
// positions. An existing position gains the quantity and has its
// date_bought overwritten (last-buy-wins, not weighted-average cost
// basis); otherwise a new position is created.
//
// The purchase price is warmed into the cache as a side effect, but an
// unavailable price never fails the buy: a zero price is accepted.
func (s *PortfolioService) Buy(ctx context.Context, ticker string, quantity int64) (model.Position, error) {
	if quantity <= 0 {
		return model.Position{}, apperrors.ErrInvalidQuantity
	}

	ticker = strings.ToUpper(ticker)
	dateBought := time.Now()

	// Warm the price cache so the post-buy snapshot has a price to use.
	// A provider failure degrades to zero and is deliberately ignored.
	s.pricing.CurrentPrice(ctx, ticker)

	existing, err := s.positionRepo.GetPositionByTicker(ticker)
	notFound := errors.Is(err, sql.ErrNoRows)
	if err != nil && !notFound {
		return model.Position{}, fmt.Errorf("%w: %v", apperrors.ErrFailedToBuyStock, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Position{}, fmt.Errorf("%w: %v", apperrors.ErrFailedToBuyStock, err)
	}
	defer tx.Rollback()

	var position model.Position
	if notFound {
		position = model.Position{
			ID:         uuid.New().String(),
			Ticker:     ticker,
			Quantity:   quantity,
			DateBought: dateBought,
			CreatedAt:  time.Now(),
		}
		if err := s.positionRepo.InsertPosition(ctx, tx, &position); err != nil {
			return model.Position{}, fmt.Errorf("%w: %v", apperrors.ErrFailedToBuyStock, err)
		}
	} else {
		position = existing
		position.Quantity += quantity
		position.DateBought = dateBought
		if err := s.positionRepo.UpdatePositionForBuy(ctx, tx, position.ID, position.Quantity, dateBought); err != nil {
			return model.Position{}, fmt.Errorf("%w: %v", apperrors.ErrFailedToBuyStock, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return model.Position{}, fmt.Errorf("%w: %v", apperrors.ErrFailedToBuyStock, err)
	}

	s.publishSnapshot(ctx)

	return position, nil
}

// Sell removes quantity shares of ticker from the portfolio. The ticker is
// normalized to uppercase, matching the buy path. Fails with
// ErrPositionNotFound when no position is held and ErrInsufficientQuantity
// when the requested quantity exceeds the held quantity; sells are never
// clamped or shorted.
//
// On success the position is decremented, deleted entirely when it reaches
// exactly zero, and exactly one closed-position log entry is appended.
// Both writes commit in one transaction or not at all.
func (s *PortfolioService) Sell(ctx context.Context, ticker string, quantity int64) (model.ClosedPosition, error) {
	if quantity <= 0 {
		return model.ClosedPosition{}, apperrors.ErrInvalidQuantity
	}

	ticker = strings.ToUpper(ticker)
	dateSold := time.Now()

	position, err := s.positionRepo.GetPositionByTicker(ticker)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.ClosedPosition{}, apperrors.ErrPositionNotFound
		}
		return model.ClosedPosition{}, fmt.Errorf("%w: %v", apperrors.ErrFailedToSellStock, err)
	}

	if position.Quantity < quantity {
		return model.ClosedPosition{}, apperrors.ErrInsufficientQuantity
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.ClosedPosition{}, fmt.Errorf("%w: %v", apperrors.ErrFailedToSellStock, err)
	}
	defer tx.Rollback()

	remaining := position.Quantity - quantity
	if remaining == 0 {
		if err := s.positionRepo.DeletePosition(ctx, tx, position.ID); err != nil {
			return model.ClosedPosition{}, fmt.Errorf("%w: %v", apperrors.ErrFailedToSellStock, err)
		}
	} else {
		if err := s.positionRepo.UpdatePositionQuantity(ctx, tx, position.ID, remaining); err != nil {
			return model.ClosedPosition{}, fmt.Errorf("%w: %v", apperrors.ErrFailedToSellStock, err)
		}
	}

	closed := model.ClosedPosition{
		ID:       uuid.New().String(),
		Ticker:   position.Ticker,
		Quantity: quantity,
		DateSold: dateSold,
	}
	if err := s.positionRepo.InsertClosedPosition(ctx, tx, &closed); err != nil {
		return model.ClosedPosition{}, fmt.Errorf("%w: %v", apperrors.ErrFailedToSellStock, err)
	}

	if err := tx.Commit(); err != nil {
		return model.ClosedPosition{}, fmt.Errorf("%w: %v", apperrors.ErrFailedToSellStock, err)
	}

	s.publishSnapshot(ctx)

	return closed, nil
}

// Valuation computes the full portfolio view: every held position priced
// through the cache (zero when the provider is unavailable), every closed
// position enumerated unchanged, and the total market value of current
// holdings. Positions appear in ledger insertion order.
//
// Valuation itself is a pure read. Recording the total into the history
// time series is an explicit second step owned by the caller, so the
// append is visible in the contract rather than hidden inside a getter.
func (s *PortfolioService) Valuation(ctx context.Context) (model.PortfolioView, error) {
	positions, err := s.positionRepo.GetPositions()
	if err != nil {
		return model.PortfolioView{}, fmt.Errorf("%w: %v", apperrors.ErrFailedToGetPortfolio, err)
	}

	closed, err := s.positionRepo.GetClosedPositions()
	if err != nil {
		return model.PortfolioView{}, fmt.Errorf("%w: %v", apperrors.ErrFailedToGetPortfolio, err)
	}

	view := model.PortfolioView{
		BoughtStocks: make([]model.PositionValue, 0, len(positions)),
		SoldStocks:   make([]model.ClosedPositionView, 0, len(closed)),
	}

	for _, p := range positions {
		price := s.pricing.CurrentPrice(ctx, p.Ticker)
		stockValue := price * float64(p.Quantity)
		view.TotalValue += stockValue

		view.BoughtStocks = append(view.BoughtStocks, model.PositionValue{
			Ticker:       p.Ticker,
			Quantity:     p.Quantity,
			DateBought:   p.DateBought.UTC().Format("2006-01-02 15:04:05"),
			CurrentPrice: price,
			StockValue:   stockValue,
		})
	}

	for _, cp := range closed {
		view.SoldStocks = append(view.SoldStocks, model.ClosedPositionView{
			Ticker:   cp.Ticker,
			Quantity: cp.Quantity,
			DateSold: cp.DateSold.UTC().Format("2006-01-02 15:04:05"),
		})
	}

	return view, nil
}

// publishSnapshot computes a fresh valuation of current holdings and hands
// it to the broadcaster. Best effort: a failed valuation is logged and the
// broadcast skipped, never failing the mutation that triggered it.
func (s *PortfolioService) publishSnapshot(ctx context.Context) {
	if s.broadcaster == nil {
		return
	}

	view, err := s.Valuation(ctx)
	if err != nil {
		log.Printf("Failed to compute snapshot for broadcast: %v", err)
		return
	}

	s.broadcaster.Publish(model.PortfolioSnapshot{
		BoughtStocks: view.BoughtStocks,
		TotalValue:   view.TotalValue,
	})
}
