package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wonny/tradex/internal/contracts"
)

// PositionRepository mirrors broker positions locally for the API and
// for sizing when the broker is briefly unreachable.
type PositionRepository struct {
	pool *pgxpool.Pool
}

// NewPositionRepository creates a new position repository
func NewPositionRepository(pool *pgxpool.Pool) *PositionRepository {
	return &PositionRepository{pool: pool}
}

// Upsert replaces the stored snapshot for a symbol.
func (r *PositionRepository) Upsert(ctx context.Context, p *contracts.Position) error {
	query := `
		INSERT INTO positions (symbol, qty, avg_price, current_price, unrealized_pnl, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (symbol) DO UPDATE SET
			qty = EXCLUDED.qty,
			avg_price = EXCLUDED.avg_price,
			current_price = EXCLUDED.current_price,
			unrealized_pnl = EXCLUDED.unrealized_pnl,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.pool.Exec(ctx, query,
		p.Symbol, p.Qty, p.AvgPrice, p.CurrentPrice, p.UnrealizedPnL, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert position: %w", err)
	}

	return nil
}

// Get returns the stored position for a symbol, nil when flat.
func (r *PositionRepository) Get(ctx context.Context, symbol string) (*contracts.Position, error) {
	query := `
		SELECT symbol, qty, avg_price, current_price, unrealized_pnl, updated_at
		FROM positions
		WHERE symbol = $1
	`

	var p contracts.Position
	err := r.pool.QueryRow(ctx, query, symbol).Scan(
		&p.Symbol, &p.Qty, &p.AvgPrice, &p.CurrentPrice, &p.UnrealizedPnL, &p.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get position: %w", err)
	}

	return &p, nil
}

// List returns all stored positions.
func (r *PositionRepository) List(ctx context.Context) ([]contracts.Position, error) {
	query := `
		SELECT symbol, qty, avg_price, current_price, unrealized_pnl, updated_at
		FROM positions
		ORDER BY symbol ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query positions: %w", err)
	}
	defer rows.Close()

	positions := make([]contracts.Position, 0)
	for rows.Next() {
		var p contracts.Position
		err := rows.Scan(&p.Symbol, &p.Qty, &p.AvgPrice, &p.CurrentPrice, &p.UnrealizedPnL, &p.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		positions = append(positions, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return positions, nil
}

// Delete removes a symbol's snapshot (position closed at the broker).
func (r *PositionRepository) Delete(ctx context.Context, symbol string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM positions WHERE symbol = $1`, symbol)
	if err != nil {
		return fmt.Errorf("failed to delete position: %w", err)
	}
	return nil
}
