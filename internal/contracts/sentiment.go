package contracts

import "time"

// Label is a three-way sentiment classification
type Label string

const (
	LabelPositive Label = "positive"
	LabelNegative Label = "negative"
	LabelNeutral  Label = "neutral"
)

// SentimentResult holds the scores derived from a single post. Created
// once per post and immutable thereafter; recomputing on identical
// inputs yields identical values.
type SentimentResult struct {
	ID       int64  `json:"id"`
	PostID   int64  `json:"post_id"`
	SourceID string `json:"source_id"`
	Author   string `json:"author"`

	// Per-analyzer scores
	LexiconScore    float64 `json:"lexicon_score"`    // [-1, 1]
	ModelLabel      Label   `json:"model_label"`
	ModelConfidence float64 `json:"model_confidence"` // [0, 1]

	// Blended result
	CombinedScore float64 `json:"combined_score"` // [-1, 1]
	CombinedLabel Label   `json:"combined_label"`

	// Degraded is set when the model scorer was unavailable and the
	// combined score is lexicon-only.
	Degraded       bool   `json:"degraded"`
	DegradedReason string `json:"degraded_reason,omitempty"`

	ScoredAt time.Time `json:"scored_at"`
}

// AggregateSignal summarizes the sentiment results inside one
// aggregation window. Recomputed each decision cycle, never persisted
// mutably.
type AggregateSignal struct {
	WindowID  string             `json:"window_id"`
	Count     int                `json:"count"`
	MeanScore float64            `json:"mean_score"`
	Positive  int                `json:"positive"`
	Negative  int                `json:"negative"`
	Neutral   int                `json:"neutral"`
	Degraded  int                `json:"degraded"`  // results scored lexicon-only
	ByAuthor  map[string]float64 `json:"by_author"` // author -> mean combined score
	From      time.Time          `json:"from"`
	To        time.Time          `json:"to"`
}

// Aggregate builds an AggregateSignal from a set of results. Returns
// ErrInsufficientSignal when the set is empty.
func Aggregate(windowID string, results []SentimentResult) (*AggregateSignal, error) {
	if len(results) == 0 {
		return nil, ErrInsufficientSignal
	}

	agg := &AggregateSignal{
		WindowID: windowID,
		Count:    len(results),
		ByAuthor: make(map[string]float64),
	}

	authorSums := make(map[string]float64)
	authorCounts := make(map[string]int)

	var sum float64
	for i, r := range results {
		sum += r.CombinedScore

		switch r.CombinedLabel {
		case LabelPositive:
			agg.Positive++
		case LabelNegative:
			agg.Negative++
		default:
			agg.Neutral++
		}

		if r.Degraded {
			agg.Degraded++
		}

		authorSums[r.Author] += r.CombinedScore
		authorCounts[r.Author]++

		if i == 0 || r.ScoredAt.Before(agg.From) {
			agg.From = r.ScoredAt
		}
		if r.ScoredAt.After(agg.To) {
			agg.To = r.ScoredAt
		}
	}

	agg.MeanScore = sum / float64(len(results))
	for author, s := range authorSums {
		agg.ByAuthor[author] = s / float64(authorCounts[author])
	}

	return agg, nil
}
