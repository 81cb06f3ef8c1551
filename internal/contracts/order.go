package contracts

import "time"

// Side represents buy or sell
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Status represents order status
type Status string

const (
	StatusPending   Status = "pending"
	StatusSubmitted Status = "submitted"
	StatusFilled    Status = "filled"
	StatusCanceled  Status = "canceled"
	StatusRejected  Status = "rejected"
	StatusVetoed    Status = "vetoed" // never reached the broker
)

// OrderSpec is the sized order produced from a trade decision.
// Quantity 0 means the trade was vetoed; VetoReason carries the
// human-readable explanation.
type OrderSpec struct {
	ID         string    `json:"id"`
	DecisionID int64     `json:"decision_id"`
	WindowID   string    `json:"window_id"`
	Symbol     string    `json:"symbol"`
	Side       Side      `json:"side"`
	Qty        int       `json:"qty"`
	RefPrice   float64   `json:"ref_price"` // price used for sizing
	VetoReason string    `json:"veto_reason,omitempty"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// IsVetoed reports whether the order was blocked by a risk check
func (o *OrderSpec) IsVetoed() bool {
	return o.Qty == 0
}

// Notional returns the order value at the reference price
func (o *OrderSpec) Notional() float64 {
	return float64(o.Qty) * o.RefPrice
}

// Fill records the broker's response to a submitted order. Recorded as
// returned, never mutated by the pipeline.
type Fill struct {
	OrderID     string    `json:"order_id"`     // local OrderSpec id
	BrokerID    string    `json:"broker_id"`    // broker-assigned order id
	Status      Status    `json:"status"`
	FilledQty   int       `json:"filled_qty"`
	FilledPrice float64   `json:"filled_price"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Position is a current holding for a symbol
type Position struct {
	Symbol        string    `json:"symbol"`
	Qty           int       `json:"qty"`
	AvgPrice      float64   `json:"avg_price"`
	CurrentPrice  float64   `json:"current_price"`
	UnrealizedPnL float64   `json:"unrealized_pnl"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Account is a brokerage account snapshot used for sizing
type Account struct {
	Equity      float64 `json:"equity"`
	Cash        float64 `json:"cash"`
	BuyingPower float64 `json:"buying_power"`
}
