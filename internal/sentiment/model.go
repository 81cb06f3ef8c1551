package sentiment

import (
	"context"
	"strings"

	"github.com/wonny/tradex/internal/contracts"
)

// Guess is a model classification: a label plus the model's confidence
// in that label.
type Guess struct {
	Label      contracts.Label `json:"label"`
	Confidence float64         `json:"confidence"` // [0, 1]
}

// Signed maps the guess onto [-1, 1]: confidence with the label's
// sign, zero for neutral.
func (g Guess) Signed() float64 {
	switch g.Label {
	case contracts.LabelPositive:
		return g.Confidence
	case contracts.LabelNegative:
		return -g.Confidence
	default:
		return 0
	}
}

// ModelScorer classifies text with a transformer-backed model.
// Implementations must return contracts.ErrInferenceUnavailable
// (possibly wrapped) when the backend cannot serve, so the caller can
// fall back to lexicon-only scoring.
type ModelScorer interface {
	Score(ctx context.Context, text string) (Guess, error)
}

// StaticModel is a deterministic keyword model used in tests and in
// the analyze command when no inference backend is configured.
type StaticModel struct {
	// Err, when set, is returned on every call.
	Err error
}

func (m *StaticModel) Score(_ context.Context, text string) (Guess, error) {
	if m.Err != nil {
		return Guess{}, m.Err
	}

	lower := strings.ToLower(text)
	pos := strings.Count(lower, "good") + strings.Count(lower, "great") + strings.Count(lower, "love")
	neg := strings.Count(lower, "bad") + strings.Count(lower, "terrible") + strings.Count(lower, "hate")

	switch {
	case pos > neg:
		return Guess{Label: contracts.LabelPositive, Confidence: 0.9}, nil
	case neg > pos:
		return Guess{Label: contracts.LabelNegative, Confidence: 0.9}, nil
	default:
		return Guess{Label: contracts.LabelNeutral, Confidence: 0.6}, nil
	}
}
