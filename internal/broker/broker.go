// Package broker defines the brokerage boundary. The pipeline only
// sees this interface; Alpaca lives in the subpackage.
package broker

import (
	"context"

	"github.com/wonny/tradex/internal/contracts"
)

// Broker is the order execution and account state boundary.
type Broker interface {
	// Account returns the current account snapshot used for sizing.
	Account(ctx context.Context) (contracts.Account, error)

	// Position returns the holding for symbol, nil when flat.
	Position(ctx context.Context, symbol string) (*contracts.Position, error)

	// Positions returns all open holdings.
	Positions(ctx context.Context) ([]contracts.Position, error)

	// Submit sends a market order. The returned fill carries the
	// broker-assigned id and the status at submission time; a terminal
	// status may arrive later via OrderStatus or the stream.
	Submit(ctx context.Context, order *contracts.OrderSpec) (*contracts.Fill, error)

	// OrderStatus fetches the current state of a submitted order.
	OrderStatus(ctx context.Context, localID, brokerID string) (*contracts.Fill, error)
}
