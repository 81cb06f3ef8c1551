package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wonny/tradex/internal/contracts"
)

// OrderRepository handles order and fill persistence.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// SaveOrder persists a sized order, vetoed or not. Vetoed orders are
// recorded for audit with their reason.
func (r *OrderRepository) SaveOrder(ctx context.Context, o *contracts.OrderSpec) error {
	query := `
		INSERT INTO orders (
			id, decision_id, window_id, symbol, side, qty,
			ref_price, veto_reason, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		o.ID, o.DecisionID, o.WindowID, o.Symbol, o.Side, o.Qty,
		o.RefPrice, o.VetoReason, o.Status, o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}

	return nil
}

// UpdateStatus updates the order status after broker interaction.
func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID string, status contracts.Status) error {
	query := `UPDATE orders SET status = $1 WHERE id = $2`

	_, err := r.pool.Exec(ctx, query, status, orderID)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	return nil
}

// SaveFill records the broker response for an order and syncs the
// order status in one transaction.
func (r *OrderRepository) SaveFill(ctx context.Context, f *contracts.Fill) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO fills (order_id, broker_id, status, filled_qty, filled_price, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = tx.Exec(ctx, query,
		f.OrderID, f.BrokerID, f.Status, f.FilledQty, f.FilledPrice, f.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save fill: %w", err)
	}

	_, err = tx.Exec(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, f.Status, f.OrderID)
	if err != nil {
		return fmt.Errorf("failed to sync order status: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit fill: %w", err)
	}

	return nil
}

// ListRecent returns the newest orders for a symbol, newest first.
func (r *OrderRepository) ListRecent(ctx context.Context, symbol string, limit int) ([]contracts.OrderSpec, error) {
	query := `
		SELECT id, decision_id, window_id, symbol, side, qty,
		       ref_price, veto_reason, status, created_at
		FROM orders
		WHERE symbol = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := make([]contracts.OrderSpec, 0, limit)
	for rows.Next() {
		var o contracts.OrderSpec
		err := rows.Scan(&o.ID, &o.DecisionID, &o.WindowID, &o.Symbol, &o.Side, &o.Qty,
			&o.RefPrice, &o.VetoReason, &o.Status, &o.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return orders, nil
}
