package contracts

import "errors"

// Pipeline error taxonomy. Recoverable conditions degrade locally
// (ErrInferenceUnavailable falls back to lexicon-only scoring); vetoes
// are decision outcomes, not failures; ErrDuplicateWindowDecision
// indicates a scheduling bug upstream and is surfaced to the caller.
var (
	ErrInferenceUnavailable    = errors.New("inference unavailable")
	ErrInsufficientSignal      = errors.New("insufficient signal: no sentiment results in window")
	ErrRiskTooSmall            = errors.New("risk budget below one share")
	ErrNoPositionToSell        = errors.New("no position to sell")
	ErrTradingDisabled         = errors.New("trading disabled")
	ErrDuplicatePost           = errors.New("duplicate post")
	ErrDuplicateWindowDecision = errors.New("window already decided")
)
