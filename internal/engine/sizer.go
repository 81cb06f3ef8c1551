package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/wonny/tradex/internal/contracts"
	"github.com/wonny/tradex/internal/strategyconfig"
)

// Sizer converts an actionable decision into an order, applying the
// risk checks in a fixed sequence. A veto produces an OrderSpec with
// Qty 0 and a reason; it is an outcome, not an error.
//
// Check order matters: the kill switch runs before any sizing
// arithmetic so a disabled system never computes a quantity at all.
type Sizer struct {
	enabled bool
	maxPos  float64
	riskPct float64
}

// NewSizer builds the sizer from a validated strategy.
func NewSizer(strategy *strategyconfig.Config) *Sizer {
	return &Sizer{
		enabled: strategy.Trading.Enabled,
		maxPos:  strategy.Risk.MaxPositionSize,
		riskPct: strategy.Risk.RiskPercentage,
	}
}

// Size produces the order for a BUY/SELL decision.
//
// BUY: budget = min(maxPositionSize, equity*riskPct), qty =
// floor(budget/price); a budget below one share vetoes.
//
// SELL: quantity sized like a buy, then clamped to the held quantity;
// no position vetoes.
//
// HOLD decisions are a caller bug and return a vetoed spec with a
// reason rather than panic.
func (s *Sizer) Size(decision *contracts.TradeDecision, account contracts.Account, position *contracts.Position, price float64) contracts.OrderSpec {
	spec := contracts.OrderSpec{
		ID:         uuid.NewString(),
		DecisionID: decision.ID,
		WindowID:   decision.WindowID,
		Symbol:     decision.Symbol,
		RefPrice:   price,
		Status:     contracts.StatusVetoed,
		CreatedAt:  time.Now().UTC(),
	}

	if !decision.IsActionable() {
		spec.VetoReason = "decision is not actionable"
		return spec
	}

	if !s.enabled {
		spec.VetoReason = contracts.ErrTradingDisabled.Error()
		return spec
	}

	if price <= 0 {
		spec.VetoReason = fmt.Sprintf("invalid reference price %v", price)
		return spec
	}

	budget := math.Min(s.maxPos, account.Equity*s.riskPct)
	qty := int(math.Floor(budget / price))

	switch decision.Action {
	case contracts.ActionBuy:
		spec.Side = contracts.SideBuy
		if qty < 1 {
			spec.VetoReason = contracts.ErrRiskTooSmall.Error()
			return spec
		}

	case contracts.ActionSell:
		spec.Side = contracts.SideSell
		if position == nil || position.Qty <= 0 {
			spec.VetoReason = contracts.ErrNoPositionToSell.Error()
			return spec
		}
		if qty < 1 {
			spec.VetoReason = contracts.ErrRiskTooSmall.Error()
			return spec
		}
		if qty > position.Qty {
			qty = position.Qty
		}
	}

	spec.Qty = qty
	spec.Status = contracts.StatusPending
	return spec
}
