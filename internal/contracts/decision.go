package contracts

import "time"

// Action is the three-way trade decision
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
	ActionHold Action = "HOLD"
)

// TradeDecision is the output of the decision engine for one
// aggregation window. HOLD decisions are terminal; BUY/SELL decisions
// are consumed exactly once by the position sizer.
type TradeDecision struct {
	ID        int64     `json:"id"`
	WindowID  string    `json:"window_id"`
	Symbol    string    `json:"symbol"`
	Action    Action    `json:"action"`
	Score     float64   `json:"score"`     // triggering aggregate mean
	PostCount int       `json:"post_count"`
	Rationale string    `json:"rationale"` // human-readable, for audit
	DecidedAt time.Time `json:"decided_at"`
}

// IsActionable reports whether the decision requires sizing
func (d *TradeDecision) IsActionable() bool {
	return d.Action == ActionBuy || d.Action == ActionSell
}
