package sentiment

// Valence dictionary for the lexicon scorer. Raw valences are on a
// [-4, 4] scale; the scorer normalizes the summed valence to [-1, 1].
// Entries skew toward the vocabulary that actually shows up in the
// monitored feeds: market slang, product talk, and the emoji people
// attach to both.
var valence = map[string]float64{
	// general positive
	"good":        1.9,
	"great":       3.1,
	"greatest":    3.2,
	"awesome":     3.1,
	"amazing":     2.8,
	"excellent":   2.7,
	"fantastic":   2.6,
	"incredible":  2.4,
	"love":        3.2,
	"loved":       2.9,
	"like":        1.5,
	"best":        3.2,
	"better":      1.9,
	"win":         2.8,
	"winning":     2.4,
	"winner":      2.8,
	"happy":       2.7,
	"excited":     2.3,
	"exciting":    2.2,
	"nice":        1.8,
	"cool":        1.3,
	"beautiful":   2.9,
	"perfect":     2.7,
	"impressive":  2.3,
	"insane":      1.2,
	"huge":        1.4,
	"strong":      2.3,
	"stronger":    2.1,
	"success":     2.7,
	"successful":  2.6,
	"proud":       2.1,
	"wow":         2.8,
	"yes":         1.7,
	"thanks":      1.9,
	"thank":       1.9,
	"congrats":    2.4,
	"hope":        1.9,
	"hopeful":     2.0,
	"optimistic":  1.7,
	"easy":        1.9,
	"fun":         2.3,
	"free":        2.3,
	"safe":        1.8,
	"safer":       1.9,
	"innovative":  2.1,
	"revolution":  1.6,
	"record":      1.5,
	"milestone":   1.8,
	"ahead":       1.3,
	"fast":        1.2,
	"faster":      1.3,

	// general negative
	"bad":          -2.5,
	"worse":        -2.1,
	"worst":        -3.1,
	"terrible":     -2.1,
	"horrible":     -2.5,
	"awful":        -2.0,
	"hate":         -2.7,
	"hated":        -2.4,
	"sad":          -2.1,
	"angry":        -2.3,
	"fear":         -2.2,
	"afraid":       -2.2,
	"scary":        -2.2,
	"scared":       -2.2,
	"fail":         -2.5,
	"failed":       -2.3,
	"failure":      -2.6,
	"failing":      -2.3,
	"broken":       -2.1,
	"broke":        -1.9,
	"problem":      -1.7,
	"problems":     -1.7,
	"issue":        -1.1,
	"issues":       -1.2,
	"bug":          -1.4,
	"bugs":         -1.5,
	"wrong":        -2.1,
	"lost":         -1.3,
	"lose":         -2.2,
	"losing":       -2.0,
	"loser":        -2.4,
	"disaster":     -3.1,
	"catastrophe":  -2.9,
	"crisis":       -2.6,
	"risk":         -1.1,
	"risky":        -1.3,
	"danger":       -2.4,
	"dangerous":    -2.4,
	"dead":         -3.3,
	"die":          -2.9,
	"dying":        -2.7,
	"kill":         -3.0,
	"fraud":        -2.8,
	"scam":         -2.6,
	"lawsuit":      -1.8,
	"recall":       -1.6,
	"delay":        -1.3,
	"delayed":      -1.3,
	"delays":       -1.4,
	"cut":          -1.1,
	"cuts":         -1.2,
	"layoff":       -2.2,
	"layoffs":      -2.3,
	"miss":         -1.4,
	"missed":       -1.5,
	"weak":         -1.9,
	"weaker":       -1.8,
	"no":           -1.2,
	"not":          -0.7,
	"never":        -1.3,
	"doubt":        -1.5,
	"worried":      -1.9,
	"worry":        -1.8,
	"disappointed": -2.2,
	"disappointing": -2.2,
	"ugly":         -2.3,
	"stupid":       -2.4,
	"dumb":         -2.3,
	"garbage":      -2.2,
	"trash":        -2.1,
	"joke":         -1.1,
	"overvalued":   -1.7,
	"overpriced":   -1.6,

	// market slang
	"bull":      1.9,
	"bullish":   2.4,
	"bulls":     1.6,
	"bear":      -1.9,
	"bearish":   -2.4,
	"bears":     -1.6,
	"moon":      2.6,
	"mooning":   2.7,
	"rocket":    2.2,
	"rally":     2.0,
	"rallying":  2.0,
	"surge":     1.9,
	"surging":   2.0,
	"soar":      2.1,
	"soaring":   2.2,
	"breakout":  1.8,
	"pump":      1.3,
	"pumping":   1.4,
	"gains":     2.1,
	"gain":      1.8,
	"profit":    2.1,
	"profits":   2.1,
	"profitable": 2.2,
	"growth":    1.9,
	"growing":   1.7,
	"beat":      1.5,
	"beats":     1.6,
	"upgrade":   1.7,
	"upgraded":  1.7,
	"buy":       1.4,
	"buying":    1.3,
	"long":      0.9,
	"hold":      0.4,
	"hodl":      1.2,
	"undervalued": 1.5,
	"crash":     -2.9,
	"crashing":  -2.9,
	"crashed":   -2.8,
	"dump":      -1.9,
	"dumping":   -2.0,
	"tank":      -2.1,
	"tanking":   -2.2,
	"tanked":    -2.1,
	"plunge":    -2.2,
	"plunging":  -2.3,
	"plummet":   -2.4,
	"collapse":  -2.6,
	"selloff":   -2.0,
	"sell":      -1.1,
	"selling":   -1.2,
	"short":     -1.2,
	"shorting":  -1.4,
	"downgrade": -1.7,
	"downgraded": -1.7,
	"bubble":    -1.5,
	"bagholder": -2.1,
	"rekt":      -2.4,
	"drill":     -1.3,
	"drilling":  -1.5,
	"red":       -1.0,
	"green":     1.0,
	"dip":       -0.8,
	"puts":      -1.0,
	"calls":     1.0,

	// emoji
	"🚀":  2.6,
	"📈":  2.1,
	"📉":  -2.1,
	"🌙":  1.8,
	"💎":  1.9,
	"🙌":  1.8,
	"🔥":  1.6,
	"💪":  1.9,
	"👍":  1.6,
	"👎":  -1.6,
	"❤️": 2.2,
	"😍":  2.5,
	"🎉":  2.2,
	"😂":  1.3,
	"🤣":  1.4,
	"😡":  -2.3,
	"😢":  -1.9,
	"😭":  -2.0,
	"💀":  -1.8,
	"🤡":  -1.9,
	"🩸":  -1.8,
	"🐻":  -1.7,
	"🐂":  1.7,
}

// negators flip the valence of the next scored token within the
// lookback window.
var negators = map[string]bool{
	"not":     true,
	"no":      true,
	"never":   true,
	"neither": true,
	"nobody":  true,
	"nothing": true,
	"without": true,
	"wont":    true,
	"won't":   true,
	"cant":    true,
	"can't":   true,
	"cannot":  true,
	"dont":    true,
	"don't":   true,
	"doesnt":  true,
	"doesn't": true,
	"didnt":   true,
	"didn't":  true,
	"isnt":    true,
	"isn't":   true,
	"wasnt":   true,
	"wasn't":  true,
	"aint":    true,
	"ain't":   true,
	"hardly":  true,
	"barely":  true,
}

// boosters scale the valence of the token they precede. Positive
// increments intensify, negative ones dampen.
var boosters = map[string]float64{
	"very":       0.293,
	"really":     0.293,
	"extremely":  0.293,
	"absolutely": 0.293,
	"completely": 0.293,
	"totally":    0.293,
	"incredibly": 0.293,
	"insanely":   0.293,
	"super":      0.293,
	"so":         0.293,
	"hugely":     0.293,
	"massively":  0.293,
	"fucking":    0.293,
	"damn":       0.293,
	"slightly":   -0.293,
	"somewhat":   -0.293,
	"kinda":      -0.293,
	"kind":       -0.293,
	"sorta":      -0.293,
	"marginally": -0.293,
	"barely":     -0.293,
	"almost":     -0.293,
	"mildly":     -0.293,
}
