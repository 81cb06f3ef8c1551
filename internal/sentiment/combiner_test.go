package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wonny/tradex/internal/contracts"
)

func defaultWeights() Weights {
	return Weights{Lexicon: 0.4, Model: 0.6}
}

func TestCombine_Blend(t *testing.T) {
	w := defaultWeights()

	got := Combine(w, 0.1, 0.5, Guess{Label: contracts.LabelPositive, Confidence: 0.9})
	// 0.4*0.5 + 0.6*0.9 = 0.74
	assert.InDelta(t, 0.74, got.Score, 1e-9)
	assert.Equal(t, contracts.LabelPositive, got.Label)

	got = Combine(w, 0.1, -0.5, Guess{Label: contracts.LabelNegative, Confidence: 0.8})
	// 0.4*-0.5 + 0.6*-0.8 = -0.68
	assert.InDelta(t, -0.68, got.Score, 1e-9)
	assert.Equal(t, contracts.LabelNegative, got.Label)
}

func TestCombine_NeutralModelContributesZero(t *testing.T) {
	w := defaultWeights()

	got := Combine(w, 0.1, 0.5, Guess{Label: contracts.LabelNeutral, Confidence: 0.99})
	assert.InDelta(t, 0.2, got.Score, 1e-9) // 0.4*0.5 only
}

func TestCombine_BoundaryIsNeutral(t *testing.T) {
	// scores exactly at +-threshold map to neutral, strictly beyond
	// map to positive/negative
	w := Weights{Lexicon: 1, Model: 0}
	neutral := Guess{Label: contracts.LabelNeutral}

	cases := []struct {
		lexicon float64
		want    contracts.Label
	}{
		{0.1, contracts.LabelNeutral},
		{-0.1, contracts.LabelNeutral},
		{0.10000001, contracts.LabelPositive},
		{-0.10000001, contracts.LabelNegative},
		{0, contracts.LabelNeutral},
	}
	for _, tc := range cases {
		got := Combine(w, 0.1, tc.lexicon, neutral)
		assert.Equal(t, tc.want, got.Label, "lexicon=%v", tc.lexicon)
	}
}

func TestCombine_Pure(t *testing.T) {
	w := defaultWeights()
	g := Guess{Label: contracts.LabelPositive, Confidence: 0.7}

	first := Combine(w, 0.1, 0.3, g)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Combine(w, 0.1, 0.3, g))
	}
}

func TestCombineDegraded(t *testing.T) {
	got := CombineDegraded(0.1, 0.42)
	assert.Equal(t, 0.42, got.Score)
	assert.Equal(t, contracts.LabelPositive, got.Label)

	got = CombineDegraded(0.1, -0.05)
	assert.Equal(t, contracts.LabelNeutral, got.Label)
}

func TestGuess_Signed(t *testing.T) {
	assert.Equal(t, 0.9, Guess{Label: contracts.LabelPositive, Confidence: 0.9}.Signed())
	assert.Equal(t, -0.9, Guess{Label: contracts.LabelNegative, Confidence: 0.9}.Signed())
	assert.Equal(t, 0.0, Guess{Label: contracts.LabelNeutral, Confidence: 0.9}.Signed())
}
