package sentiment

import (
	"math"
	"strings"
	"unicode"
)

const (
	// normAlpha flattens the summed valence into [-1, 1]. Larger sums
	// asymptote toward the extremes instead of clipping hard.
	normAlpha = 15.0

	// negScalar is the factor applied when a scored token sits inside
	// the lookback window of a negator. Flips and dampens.
	negScalar = -0.74

	// capsBoost is added to (or subtracted from) the valence of an
	// all-caps token when the rest of the text is mixed case.
	capsBoost = 0.733

	// exclBoost is the per-exclamation-mark amplification, capped.
	exclBoost    = 0.292
	exclMaxCount = 4

	// negLookback is how many tokens back a negator still applies.
	negLookback = 3

	// contrastDampen / contrastAmplify reweight the clauses around a
	// "but": the trailing clause carries the intended sentiment.
	contrastDampen  = 0.5
	contrastAmplify = 1.5
)

// Lexicon scores raw post text against the valence dictionary. It is
// stateless and deterministic; concurrent use is safe.
type Lexicon struct{}

// NewLexicon returns a ready lexicon scorer.
func NewLexicon() *Lexicon {
	return &Lexicon{}
}

// Score computes a compound sentiment score in [-1, 1] for text.
// Empty or token-free text scores exactly 0. Identical input always
// produces an identical score.
func (l *Lexicon) Score(text string) float64 {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return 0
	}

	mixedCase := hasMixedCase(tokens)
	butIdx := indexOfBut(tokens)

	var sum float64
	for i, tok := range tokens {
		lower := tok.lower

		if negators[lower] {
			continue
		}
		if _, isBooster := boosters[lower]; isBooster {
			continue
		}

		v, ok := valence[lower]
		if !ok {
			// emoji and other symbols are stored as-is
			v, ok = valence[tok.raw]
			if !ok {
				continue
			}
		}

		if mixedCase && tok.allCaps {
			if v > 0 {
				v += capsBoost
			} else {
				v -= capsBoost
			}
		}

		// boosters in the preceding window, nearest first
		for back := 1; back <= negLookback && i-back >= 0; back++ {
			prev := tokens[i-back].lower
			if inc, ok := boosters[prev]; ok {
				scaled := inc * (1 - 0.05*float64(back-1))
				if v > 0 {
					v += scaled
				} else if v < 0 {
					v -= scaled
				}
			}
		}

		for back := 1; back <= negLookback && i-back >= 0; back++ {
			if negators[tokens[i-back].lower] {
				v *= negScalar
				break
			}
		}

		if butIdx >= 0 {
			if i < butIdx {
				v *= contrastDampen
			} else if i > butIdx {
				v *= contrastAmplify
			}
		}

		sum += v
	}

	if sum != 0 {
		excl := strings.Count(text, "!")
		if excl > exclMaxCount {
			excl = exclMaxCount
		}
		amp := float64(excl) * exclBoost
		if sum > 0 {
			sum += amp
		} else {
			sum -= amp
		}
	}

	score := sum / math.Sqrt(sum*sum+normAlpha)
	return clamp(score, -1, 1)
}

type token struct {
	raw     string
	lower   string
	allCaps bool
}

func tokenize(text string) []token {
	fields := strings.Fields(text)
	tokens := make([]token, 0, len(fields))
	for _, f := range fields {
		raw := strings.TrimFunc(f, func(r rune) bool {
			return unicode.IsPunct(r) && r != '\''
		})
		if raw == "" {
			continue
		}
		tokens = append(tokens, token{
			raw:     raw,
			lower:   strings.ToLower(raw),
			allCaps: isAllCaps(raw),
		})
	}
	return tokens
}

func isAllCaps(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

// hasMixedCase reports whether the text contains both all-caps and
// non-all-caps word tokens. An entirely shouted post gets no caps
// emphasis because nothing stands out.
func hasMixedCase(tokens []token) bool {
	caps, normal := 0, 0
	for _, t := range tokens {
		if !containsLetter(t.raw) {
			continue
		}
		if t.allCaps {
			caps++
		} else {
			normal++
		}
	}
	return caps > 0 && normal > 0
}

func containsLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func indexOfBut(tokens []token) int {
	for i, t := range tokens {
		if t.lower == "but" {
			return i
		}
	}
	return -1
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
