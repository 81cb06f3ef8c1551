package strategyconfig

import (
	"fmt"
	"math"
	"time"
)

const weightEpsilon = 1e-9

// Validate checks strategy invariants. A config that fails here is a
// startup error; the pipeline never runs with malformed weights.
func Validate(cfg *Config) error {
	if cfg.Meta.StrategyID == "" {
		return fmt.Errorf("meta.strategy_id is required")
	}

	if cfg.Symbol == "" {
		return fmt.Errorf("symbol is required")
	}

	s := cfg.Sentiment
	if s.LexiconWeight < 0 || s.LexiconWeight > 1 {
		return fmt.Errorf("sentiment.lexicon_weight must be in [0,1], got %v", s.LexiconWeight)
	}
	if s.ModelWeight < 0 || s.ModelWeight > 1 {
		return fmt.Errorf("sentiment.model_weight must be in [0,1], got %v", s.ModelWeight)
	}
	if math.Abs(s.LexiconWeight+s.ModelWeight-1.0) > weightEpsilon {
		return fmt.Errorf("sentiment weights must sum to 1, got %v", s.LexiconWeight+s.ModelWeight)
	}
	if s.LabelThreshold <= 0 || s.LabelThreshold >= 1 {
		return fmt.Errorf("sentiment.label_threshold must be in (0,1), got %v", s.LabelThreshold)
	}

	d := cfg.Decision
	if d.PositiveThreshold <= 0 {
		return fmt.Errorf("decision.positive_threshold must be > 0, got %v", d.PositiveThreshold)
	}
	if d.NegativeThreshold >= 0 {
		return fmt.Errorf("decision.negative_threshold must be < 0, got %v", d.NegativeThreshold)
	}

	r := cfg.Risk
	if r.MaxPositionSize <= 0 {
		return fmt.Errorf("risk.max_position_size must be > 0, got %v", r.MaxPositionSize)
	}
	if r.RiskPercentage <= 0 || r.RiskPercentage > 1 {
		return fmt.Errorf("risk.risk_percentage must be in (0,1], got %v", r.RiskPercentage)
	}

	sc := cfg.Scoring
	if sc.Concurrency < 1 {
		return fmt.Errorf("scoring.concurrency must be >= 1, got %d", sc.Concurrency)
	}
	if _, err := time.ParseDuration(sc.InferenceTimeout); err != nil {
		return fmt.Errorf("scoring.inference_timeout invalid: %w", err)
	}

	return nil
}

// InferenceTimeout returns the parsed per-item inference timeout.
// Validate guarantees the string parses.
func (c *Config) InferenceTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Scoring.InferenceTimeout)
	return d
}
