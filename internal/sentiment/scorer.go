package sentiment

import (
	"context"
	"errors"
	"time"

	"github.com/wonny/tradex/internal/contracts"
	"github.com/wonny/tradex/pkg/logger"
)

// Scorer is the hybrid scoring service: lexicon plus model, blended by
// the configured weights. When the model cannot serve, the result is
// produced lexicon-only and flagged degraded instead of failing the
// post.
type Scorer struct {
	lexicon   *Lexicon
	model     ModelScorer
	weights   Weights
	threshold float64
	timeout   time.Duration
	log       *logger.Logger
}

// NewScorer wires the hybrid scorer. timeout bounds each model call;
// zero means no per-item deadline beyond the caller's context.
func NewScorer(model ModelScorer, weights Weights, threshold float64, timeout time.Duration, log *logger.Logger) *Scorer {
	return &Scorer{
		lexicon:   NewLexicon(),
		model:     model,
		weights:   weights,
		threshold: threshold,
		timeout:   timeout,
		log:       log,
	}
}

// ScorePost analyzes one post and returns its immutable result.
// The lexicon always runs. Model failure or timeout degrades to
// lexicon-only; any other error is not expected from ModelScorer
// implementations and is treated the same way, logged at warn.
func (s *Scorer) ScorePost(ctx context.Context, post contracts.Post) contracts.SentimentResult {
	lexScore := s.lexicon.Score(post.Text)

	result := contracts.SentimentResult{
		PostID:       post.ID,
		SourceID:     post.SourceID,
		Author:       post.Author,
		LexiconScore: lexScore,
		ScoredAt:     time.Now().UTC(),
	}

	guess, err := s.scoreModel(ctx, post.Text)
	if err != nil {
		combined := CombineDegraded(s.threshold, lexScore)
		result.CombinedScore = combined.Score
		result.CombinedLabel = combined.Label
		result.ModelLabel = contracts.LabelNeutral
		result.Degraded = true
		result.DegradedReason = degradedReason(err)

		s.log.WithError(err).WithFields(map[string]interface{}{
			"source_id": post.SourceID,
			"author":    post.Author,
		}).Warn("model unavailable, scored lexicon-only")
		return result
	}

	combined := Combine(s.weights, s.threshold, lexScore, guess)
	result.ModelLabel = guess.Label
	result.ModelConfidence = guess.Confidence
	result.CombinedScore = combined.Score
	result.CombinedLabel = combined.Label
	return result
}

func (s *Scorer) scoreModel(ctx context.Context, text string) (Guess, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return s.model.Score(ctx, text)
}

func degradedReason(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "inference timeout"
	case errors.Is(err, contracts.ErrInferenceUnavailable):
		return "inference unavailable"
	default:
		return err.Error()
	}
}
