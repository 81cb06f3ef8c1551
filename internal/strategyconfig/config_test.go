package strategyconfig

import (
	"os"
	"testing"
)

func TestLoad(t *testing.T) {
	path := "../../config/strategy/sentiment_v1.yaml"

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Skip("strategy file not found")
	}

	cfg, yamlData, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Meta.StrategyID != "sentiment_v1" {
		t.Errorf("expected strategy_id=sentiment_v1, got %s", cfg.Meta.StrategyID)
	}

	if cfg.Symbol != "TSLA" {
		t.Errorf("expected symbol=TSLA, got %s", cfg.Symbol)
	}

	// Safety default
	if cfg.Trading.Enabled {
		t.Error("trading must ship disabled")
	}

	hash, err := Hash(cfg)
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if len(hash) != 64 {
		t.Errorf("expected 64 char hash, got %d", len(hash))
	}

	// Same config -> same hash
	hash2, _ := Hash(cfg)
	if hash != hash2 {
		t.Error("hash not deterministic")
	}

	t.Logf("config hash: %s", hash)
	t.Logf("yaml size: %d bytes", len(yamlData))
}

func TestValidate_Weights(t *testing.T) {
	cfg := Default()
	if err := Validate(cfg); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}

	cfg.Sentiment.LexiconWeight = 0.5
	cfg.Sentiment.ModelWeight = 0.6
	if err := Validate(cfg); err == nil {
		t.Error("weights not summing to 1 should fail validation")
	}
}

func TestValidate_Thresholds(t *testing.T) {
	cfg := Default()
	cfg.Decision.NegativeThreshold = 0.1
	if err := Validate(cfg); err == nil {
		t.Error("non-negative negative_threshold should fail validation")
	}

	cfg = Default()
	cfg.Decision.PositiveThreshold = 0
	if err := Validate(cfg); err == nil {
		t.Error("zero positive_threshold should fail validation")
	}
}

func TestValidate_Risk(t *testing.T) {
	cfg := Default()
	cfg.Risk.RiskPercentage = 1.5
	if err := Validate(cfg); err == nil {
		t.Error("risk_percentage > 1 should fail validation")
	}

	cfg = Default()
	cfg.Risk.MaxPositionSize = 0
	if err := Validate(cfg); err == nil {
		t.Error("zero max_position_size should fail validation")
	}
}

func TestValidate_InferenceTimeout(t *testing.T) {
	cfg := Default()
	cfg.Scoring.InferenceTimeout = "soon"
	if err := Validate(cfg); err == nil {
		t.Error("unparseable inference_timeout should fail validation")
	}

	cfg.Scoring.InferenceTimeout = "250ms"
	if err := Validate(cfg); err != nil {
		t.Errorf("valid duration rejected: %v", err)
	}
	if cfg.InferenceTimeout().Milliseconds() != 250 {
		t.Errorf("InferenceTimeout = %v, want 250ms", cfg.InferenceTimeout())
	}
}
