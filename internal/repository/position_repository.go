package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mvdbosch/stock-portfolio-tracker/internal/model"
)

// PositionRepository provides data access methods for the position and
// closed_position tables. Mutations take an *sql.Tx so the service layer
// can commit a ledger change and its closed-position log entry atomically.
type PositionRepository struct {
	db *sql.DB
}

// NewPositionRepository creates a new PositionRepository with the provided database connection.
func NewPositionRepository(db *sql.DB) *PositionRepository {
	return &PositionRepository{db: db}
}

// GetPositions retrieves all currently held positions in insertion order.
// Insertion order is the canonical presentation order for the portfolio
// view; rowid is monotonic per insert, so positions created within the
// same second still come back in the order they were bought.
func (r *PositionRepository) GetPositions() ([]model.Position, error) {
	query := `
		SELECT id, ticker, quantity, date_bought, created_at
		FROM position
		ORDER BY rowid ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query position table: %w", err)
	}
	defer rows.Close()

	positions := []model.Position{}

	for rows.Next() {
		var dateBoughtStr, createdAtStr string
		var p model.Position

		err := rows.Scan(&p.ID, &p.Ticker, &p.Quantity, &dateBoughtStr, &createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("failed to scan position table results: %w", err)
		}

		p.DateBought, err = ParseTime(dateBoughtStr)
		if err != nil || p.DateBought.IsZero() {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}

		p.CreatedAt, err = ParseTime(createdAtStr)
		if err != nil || p.CreatedAt.IsZero() {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}

		positions = append(positions, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating position table: %w", err)
	}

	return positions, nil
}

// GetPositionByTicker retrieves the position for a ticker, matched
// case-insensitively. Returns sql.ErrNoRows when no position is held.
func (r *PositionRepository) GetPositionByTicker(ticker string) (model.Position, error) {
	query := `
		SELECT id, ticker, quantity, date_bought, created_at
		FROM position
		WHERE LOWER(ticker) = LOWER(?)
	`

	var dateBoughtStr, createdAtStr string
	var p model.Position

	err := r.db.QueryRow(query, ticker).Scan(&p.ID, &p.Ticker, &p.Quantity, &dateBoughtStr, &createdAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.Position{}, err
		}
		return model.Position{}, fmt.Errorf("failed to scan position table results: %w", err)
	}

	p.DateBought, err = ParseTime(dateBoughtStr)
	if err != nil || p.DateBought.IsZero() {
		return model.Position{}, fmt.Errorf("failed to parse date: %w", err)
	}

	p.CreatedAt, err = ParseTime(createdAtStr)
	if err != nil || p.CreatedAt.IsZero() {
		return model.Position{}, fmt.Errorf("failed to parse date: %w", err)
	}

	return p, nil
}

// InsertPosition inserts a new position inside the given transaction.
func (r *PositionRepository) InsertPosition(ctx context.Context, tx *sql.Tx, p *model.Position) error {
	query := `
		INSERT INTO position (id, ticker, quantity, date_bought, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := tx.ExecContext(ctx, query,
		p.ID,
		p.Ticker,
		p.Quantity,
		p.DateBought.UTC().Format(time.RFC3339),
		p.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert position: %w", err)
	}

	return nil
}

// UpdatePositionForBuy sets the new quantity and overwrites date_bought
// (last-buy-wins) for an existing position inside the given transaction.
func (r *PositionRepository) UpdatePositionForBuy(ctx context.Context, tx *sql.Tx, id string, quantity int64, dateBought time.Time) error {
	query := `UPDATE position SET quantity = ?, date_bought = ? WHERE id = ?`

	_, err := tx.ExecContext(ctx, query, quantity, dateBought.UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("failed to update position: %w", err)
	}

	return nil
}

// UpdatePositionQuantity sets the quantity for an existing position inside
// the given transaction. Used by sell for partial closes.
func (r *PositionRepository) UpdatePositionQuantity(ctx context.Context, tx *sql.Tx, id string, quantity int64) error {
	query := `UPDATE position SET quantity = ? WHERE id = ?`

	_, err := tx.ExecContext(ctx, query, quantity, id)
	if err != nil {
		return fmt.Errorf("failed to update position quantity: %w", err)
	}

	return nil
}

// DeletePosition removes a position inside the given transaction. Used by
// sell when the held quantity reaches exactly zero.
func (r *PositionRepository) DeletePosition(ctx context.Context, tx *sql.Tx, id string) error {
	query := `DELETE FROM position WHERE id = ?`

	_, err := tx.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete position: %w", err)
	}

	return nil
}

// GetClosedPositions retrieves the append-only log of sales in the order
// they were recorded. Same rowid ordering as GetPositions, so same-second
// sells keep their append order.
func (r *PositionRepository) GetClosedPositions() ([]model.ClosedPosition, error) {
	query := `
		SELECT id, ticker, quantity, date_sold
		FROM closed_position
		ORDER BY rowid ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query closed_position table: %w", err)
	}
	defer rows.Close()

	closed := []model.ClosedPosition{}

	for rows.Next() {
		var dateSoldStr string
		var cp model.ClosedPosition

		err := rows.Scan(&cp.ID, &cp.Ticker, &cp.Quantity, &dateSoldStr)
		if err != nil {
			return nil, fmt.Errorf("failed to scan closed_position table results: %w", err)
		}

		cp.DateSold, err = ParseTime(dateSoldStr)
		if err != nil || cp.DateSold.IsZero() {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}

		closed = append(closed, cp)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating closed_position table: %w", err)
	}

	return closed, nil
}

// InsertClosedPosition appends a closed-position log entry inside the given
// transaction. One entry is written per sell, regardless of whether the
// position was fully or partially closed.
func (r *PositionRepository) InsertClosedPosition(ctx context.Context, tx *sql.Tx, cp *model.ClosedPosition) error {
	query := `
		INSERT INTO closed_position (id, ticker, quantity, date_sold)
		VALUES (?, ?, ?, ?)
	`

	_, err := tx.ExecContext(ctx, query,
		cp.ID,
		cp.Ticker,
		cp.Quantity,
		cp.DateSold.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert closed position: %w", err)
	}

	return nil
}
