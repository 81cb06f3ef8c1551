package sentiment

import (
	"strings"
	"testing"
)

func TestLexicon_Empty(t *testing.T) {
	l := NewLexicon()

	for _, text := range []string{"", "   ", "\n\t", "... !!!"} {
		if got := l.Score(text); got != 0 {
			t.Errorf("Score(%q) = %v, want 0", text, got)
		}
	}
}

func TestLexicon_Bounds(t *testing.T) {
	l := NewLexicon()

	texts := []string{
		"amazing great best love win incredible " + strings.Repeat("awesome ", 30),
		"terrible worst hate disaster fail " + strings.Repeat("horrible ", 30),
		"the quick brown fox",
		"TSLA to the moon 🚀🚀🚀!!!",
	}
	for _, text := range texts {
		got := l.Score(text)
		if got < -1 || got > 1 {
			t.Errorf("Score(%q) = %v, outside [-1, 1]", text, got)
		}
	}
}

func TestLexicon_Deterministic(t *testing.T) {
	l := NewLexicon()
	text := "Really great earnings, stock is mooning 🚀 but margins look weak"

	first := l.Score(text)
	for i := 0; i < 5; i++ {
		if got := l.Score(text); got != first {
			t.Fatalf("run %d: Score = %v, want %v", i, got, first)
		}
	}
}

func TestLexicon_Polarity(t *testing.T) {
	l := NewLexicon()

	cases := []struct {
		text string
		sign int // -1, 0, +1
	}{
		{"this is great news, love it", 1},
		{"absolute disaster, terrible quarter", -1},
		{"the meeting is on tuesday", 0},
		{"bullish on deliveries, expecting a rally", 1},
		{"bearish, this will crash and burn", -1},
		{"🚀🚀 to the moon", 1},
		{"📉 dumping my shares", -1},
	}

	for _, tc := range cases {
		got := l.Score(tc.text)
		switch {
		case tc.sign > 0 && got <= 0:
			t.Errorf("Score(%q) = %v, want positive", tc.text, got)
		case tc.sign < 0 && got >= 0:
			t.Errorf("Score(%q) = %v, want negative", tc.text, got)
		case tc.sign == 0 && got != 0:
			t.Errorf("Score(%q) = %v, want 0", tc.text, got)
		}
	}
}

func TestLexicon_Negation(t *testing.T) {
	l := NewLexicon()

	plain := l.Score("this product is great")
	negated := l.Score("this product is not great")

	if plain <= 0 {
		t.Fatalf("baseline should be positive, got %v", plain)
	}
	if negated >= 0 {
		t.Errorf("negated phrase should flip negative, got %v", negated)
	}
}

func TestLexicon_BoosterIntensifies(t *testing.T) {
	l := NewLexicon()

	plain := l.Score("the results are good")
	boosted := l.Score("the results are extremely good")

	if boosted <= plain {
		t.Errorf("booster should intensify: plain=%v boosted=%v", plain, boosted)
	}
}

func TestLexicon_CapsEmphasis(t *testing.T) {
	l := NewLexicon()

	plain := l.Score("this stock is great today")
	shouted := l.Score("this stock is GREAT today")

	if shouted <= plain {
		t.Errorf("caps should add emphasis: plain=%v shouted=%v", plain, shouted)
	}

	// an entirely shouted post gets no emphasis
	allCaps := l.Score("THIS STOCK IS GREAT TODAY")
	if allCaps != plain {
		t.Errorf("all-caps text should score like plain: plain=%v allCaps=%v", plain, allCaps)
	}
}

func TestLexicon_ExclamationAmplifies(t *testing.T) {
	l := NewLexicon()

	plain := l.Score("earnings beat expectations")
	excited := l.Score("earnings beat expectations!!!")

	if excited <= plain {
		t.Errorf("exclamations should amplify: plain=%v excited=%v", plain, excited)
	}
}

func TestLexicon_ButClause(t *testing.T) {
	l := NewLexicon()

	// trailing clause dominates
	got := l.Score("the numbers look good but the guidance is terrible")
	if got >= 0 {
		t.Errorf("post-but negative clause should dominate, got %v", got)
	}
}
