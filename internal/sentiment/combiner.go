package sentiment

import "github.com/wonny/tradex/internal/contracts"

// Weights blends the two analyzers. Callers load these from strategy
// config; the combiner itself never reads configuration.
type Weights struct {
	Lexicon float64
	Model   float64
}

// Combined is the blended output for one post.
type Combined struct {
	Score float64
	Label contracts.Label
}

// Combine blends the lexicon score with the model guess:
//
//	score = w.Lexicon*lexicon + w.Model*guess.Signed()
//
// Labeling uses open intervals: score > threshold is positive,
// score < -threshold is negative, anything else (the boundaries
// included) is neutral.
//
// Pure function: no I/O, no clock, no state.
func Combine(w Weights, threshold, lexicon float64, guess Guess) Combined {
	score := w.Lexicon*lexicon + w.Model*guess.Signed()
	return Combined{
		Score: clamp(score, -1, 1),
		Label: labelFor(score, threshold),
	}
}

// CombineDegraded produces the lexicon-only result used when the model
// is unavailable. The full lexicon score passes through unweighted so
// a model outage does not systematically shrink every score toward
// zero.
func CombineDegraded(threshold, lexicon float64) Combined {
	return Combined{
		Score: clamp(lexicon, -1, 1),
		Label: labelFor(lexicon, threshold),
	}
}

func labelFor(score, threshold float64) contracts.Label {
	switch {
	case score > threshold:
		return contracts.LabelPositive
	case score < -threshold:
		return contracts.LabelNegative
	default:
		return contracts.LabelNeutral
	}
}
