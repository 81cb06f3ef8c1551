// Package engine turns aggregate sentiment into trade decisions and
// sized orders. Everything here is deterministic given its inputs;
// all I/O lives in the adapters.
package engine

import (
	"fmt"
	"time"

	"github.com/wonny/tradex/internal/contracts"
	"github.com/wonny/tradex/internal/strategyconfig"
)

// DecisionEngine maps one window's aggregate signal onto BUY, SELL or
// HOLD using the strategy thresholds.
type DecisionEngine struct {
	symbol   string
	positive float64
	negative float64
}

// NewDecisionEngine builds the engine from a validated strategy.
func NewDecisionEngine(strategy *strategyconfig.Config) *DecisionEngine {
	return &DecisionEngine{
		symbol:   strategy.Symbol,
		positive: strategy.Decision.PositiveThreshold,
		negative: strategy.Decision.NegativeThreshold,
	}
}

// Decide produces the decision for one aggregate signal. Open
// intervals: a mean exactly at either threshold holds. A nil or empty
// signal returns ErrInsufficientSignal.
func (e *DecisionEngine) Decide(signal *contracts.AggregateSignal) (*contracts.TradeDecision, error) {
	if signal == nil || signal.Count == 0 {
		return nil, contracts.ErrInsufficientSignal
	}

	action := contracts.ActionHold
	switch {
	case signal.MeanScore > e.positive:
		action = contracts.ActionBuy
	case signal.MeanScore < e.negative:
		action = contracts.ActionSell
	}

	d := &contracts.TradeDecision{
		WindowID:  signal.WindowID,
		Symbol:    e.symbol,
		Action:    action,
		Score:     signal.MeanScore,
		PostCount: signal.Count,
		Rationale: rationale(action, signal),
		DecidedAt: time.Now().UTC(),
	}
	return d, nil
}

func rationale(action contracts.Action, s *contracts.AggregateSignal) string {
	base := fmt.Sprintf("%s: mean score %.4f over %d posts (%d+/%d-/%d~)",
		action, s.MeanScore, s.Count, s.Positive, s.Negative, s.Neutral)
	if s.Degraded > 0 {
		base += fmt.Sprintf(", %d scored lexicon-only", s.Degraded)
	}
	return base
}
