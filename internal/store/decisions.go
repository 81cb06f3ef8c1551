package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wonny/tradex/internal/contracts"
)

// DecisionRepository handles trade decision persistence.
type DecisionRepository struct {
	pool *pgxpool.Pool
}

// NewDecisionRepository creates a new decision repository
func NewDecisionRepository(pool *pgxpool.Pool) *DecisionRepository {
	return &DecisionRepository{pool: pool}
}

// Save inserts a decision and returns its id. The (symbol, window_id)
// unique constraint makes this the durable at-most-once guard; a
// conflict returns ErrDuplicateWindowDecision.
func (r *DecisionRepository) Save(ctx context.Context, d *contracts.TradeDecision) (int64, error) {
	query := `
		INSERT INTO trade_decisions (
			window_id, symbol, action, score, post_count, rationale, decided_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (symbol, window_id) DO NOTHING
		RETURNING id
	`

	var id int64
	err := r.pool.QueryRow(ctx, query,
		d.WindowID, d.Symbol, d.Action, d.Score, d.PostCount, d.Rationale, d.DecidedAt,
	).Scan(&id)

	if errors.Is(err, pgx.ErrNoRows) {
		return 0, contracts.ErrDuplicateWindowDecision
	}
	if err != nil {
		return 0, fmt.Errorf("failed to save decision: %w", err)
	}

	return id, nil
}

// Get retrieves a decision by id.
func (r *DecisionRepository) Get(ctx context.Context, id int64) (*contracts.TradeDecision, error) {
	query := `
		SELECT id, window_id, symbol, action, score, post_count, rationale, decided_at
		FROM trade_decisions
		WHERE id = $1
	`

	var d contracts.TradeDecision
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.WindowID, &d.Symbol, &d.Action, &d.Score, &d.PostCount, &d.Rationale, &d.DecidedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("decision not found: %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get decision: %w", err)
	}

	return &d, nil
}

// ListRecent returns the newest decisions for a symbol, newest first.
func (r *DecisionRepository) ListRecent(ctx context.Context, symbol string, limit int) ([]contracts.TradeDecision, error) {
	query := `
		SELECT id, window_id, symbol, action, score, post_count, rationale, decided_at
		FROM trade_decisions
		WHERE symbol = $1
		ORDER BY decided_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query decisions: %w", err)
	}
	defer rows.Close()

	decisions := make([]contracts.TradeDecision, 0, limit)
	for rows.Next() {
		var d contracts.TradeDecision
		err := rows.Scan(&d.ID, &d.WindowID, &d.Symbol, &d.Action, &d.Score, &d.PostCount, &d.Rationale, &d.DecidedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan decision: %w", err)
		}
		decisions = append(decisions, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return decisions, nil
}
