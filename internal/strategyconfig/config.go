package strategyconfig

// Config is the full strategy configuration loaded from YAML.
// Product-level tunables (blend weights, decision thresholds, risk
// limits) live here, not in code.
type Config struct {
	Meta      Meta      `yaml:"meta" json:"meta"`
	Symbol    string    `yaml:"symbol" json:"symbol"`
	Trading   Trading   `yaml:"trading" json:"trading"`
	Sentiment Sentiment `yaml:"sentiment" json:"sentiment"`
	Decision  Decision  `yaml:"decision" json:"decision"`
	Risk      Risk      `yaml:"risk" json:"risk"`
	Scoring   Scoring   `yaml:"scoring" json:"scoring"`
}

// Meta identifies the strategy revision
type Meta struct {
	StrategyID string `yaml:"strategy_id" json:"strategy_id"`
	Version    int    `yaml:"version" json:"version"`
}

// Trading holds the global execution switches
type Trading struct {
	// Enabled is the kill switch. When false every sizing request is
	// vetoed before any arithmetic; nothing else can override it.
	Enabled bool `yaml:"enabled" json:"enabled"`
}

// Sentiment holds the hybrid blend parameters
type Sentiment struct {
	LexiconWeight float64 `yaml:"lexicon_weight" json:"lexicon_weight"` // 0..1
	ModelWeight   float64 `yaml:"model_weight" json:"model_weight"`     // 0..1, sums to 1 with lexicon
	// LabelThreshold separates positive/negative from neutral on the
	// combined score. Open interval: a score exactly at the threshold
	// is neutral.
	LabelThreshold float64 `yaml:"label_threshold" json:"label_threshold"`
}

// Decision holds the aggregate-to-action thresholds
type Decision struct {
	PositiveThreshold float64 `yaml:"positive_threshold" json:"positive_threshold"`
	NegativeThreshold float64 `yaml:"negative_threshold" json:"negative_threshold"`
}

// Risk holds position sizing limits
type Risk struct {
	MaxPositionSize float64 `yaml:"max_position_size" json:"max_position_size"` // currency units
	RiskPercentage  float64 `yaml:"risk_percentage" json:"risk_percentage"`     // of equity, 0..1
}

// Scoring holds pipeline execution parameters
type Scoring struct {
	Concurrency      int    `yaml:"concurrency" json:"concurrency"`
	InferenceTimeout string `yaml:"inference_timeout" json:"inference_timeout"` // duration string
}

// Default returns the built-in strategy used when no YAML file is
// configured. Values mirror config/strategy/sentiment_v1.yaml.
func Default() *Config {
	return &Config{
		Meta:   Meta{StrategyID: "sentiment_v1", Version: 1},
		Symbol: "TSLA",
		Trading: Trading{
			Enabled: false, // safety: off by default
		},
		Sentiment: Sentiment{
			LexiconWeight:  0.4,
			ModelWeight:    0.6,
			LabelThreshold: 0.1,
		},
		Decision: Decision{
			PositiveThreshold: 0.1,
			NegativeThreshold: -0.1,
		},
		Risk: Risk{
			MaxPositionSize: 5000,
			RiskPercentage:  0.02,
		},
		Scoring: Scoring{
			Concurrency:      4,
			InferenceTimeout: "5s",
		},
	}
}
