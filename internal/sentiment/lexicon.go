package sentiment

// lexicon maps lowercase tokens to valences on roughly a [-4, 4] scale,
// weighted toward the financial and real-estate vocabulary the pipeline
// actually sees.
var lexicon = map[string]float64{
	// Positive
	"accelerate":    1.2,
	"accelerating":  1.2,
	"achievement":   1.8,
	"advance":       1.1,
	"award":         1.9,
	"awarded":       1.9,
	"beat":          1.4,
	"benefit":       1.3,
	"boom":          2.1,
	"booming":       2.1,
	"boost":         1.5,
	"breakthrough":  2.2,
	"bullish":       1.9,
	"confident":     1.5,
	"contract":      0.6,
	"delivered":     0.9,
	"demand":        0.8,
	"efficient":     1.2,
	"excellent":     2.7,
	"expand":        1.3,
	"expansion":     1.3,
	"gain":          1.4,
	"gains":         1.4,
	"good":          1.9,
	"great":         2.4,
	"grow":          1.4,
	"growing":       1.4,
	"growth":        1.4,
	"high":          0.9,
	"improve":       1.5,
	"improved":      1.5,
	"improvement":   1.5,
	"innovative":    1.6,
	"launch":        0.8,
	"launched":      0.8,
	"leader":        1.3,
	"leading":       1.3,
	"milestone":     1.4,
	"momentum":      1.1,
	"opportunity":   1.5,
	"opportunities": 1.5,
	"outperform":    1.8,
	"positive":      1.8,
	"profit":        1.6,
	"profitable":    1.8,
	"progress":      1.3,
	"promising":     1.6,
	"rally":         1.5,
	"record":        1.2,
	"recovery":      1.3,
	"resilient":     1.3,
	"robust":        1.6,
	"secured":       1.1,
	"strong":        1.7,
	"succeed":       1.9,
	"success":       2.0,
	"successful":    2.0,
	"surge":         1.6,
	"surged":        1.6,
	"sustainable":   1.1,
	"top":           1.0,
	"upbeat":        1.6,
	"upgrade":       1.4,
	"upgraded":      1.4,
	"win":           1.9,
	"wins":          1.9,
	"won":           1.9,

	// Negative
	"bankrupt":      -3.0,
	"bankruptcy":    -3.0,
	"bearish":       -1.9,
	"collapse":      -2.4,
	"concern":       -1.2,
	"concerns":      -1.2,
	"crash":         -2.6,
	"crisis":        -2.3,
	"cut":           -1.0,
	"cuts":          -1.0,
	"debt":          -1.1,
	"decline":       -1.5,
	"declined":      -1.5,
	"default":       -2.2,
	"deficit":       -1.4,
	"delay":         -1.2,
	"delayed":       -1.2,
	"downgrade":     -1.6,
	"downgraded":    -1.6,
	"downturn":      -1.8,
	"drop":          -1.4,
	"dropped":       -1.4,
	"fail":          -2.1,
	"failed":        -2.1,
	"failure":       -2.1,
	"fall":          -1.3,
	"fell":          -1.3,
	"fine":          0.8,
	"fined":         -1.8,
	"fraud":         -2.9,
	"halt":          -1.5,
	"halted":        -1.5,
	"investigation": -1.4,
	"lawsuit":       -1.7,
	"layoff":        -1.9,
	"layoffs":       -1.9,
	"litigation":    -1.5,
	"loss":          -1.7,
	"losses":        -1.7,
	"miss":          -1.3,
	"missed":        -1.3,
	"negative":      -1.8,
	"penalty":       -1.6,
	"plunge":        -2.1,
	"plunged":       -2.1,
	"poor":          -1.9,
	"probe":         -1.3,
	"recall":        -1.4,
	"recession":     -2.2,
	"risk":          -1.0,
	"risks":         -1.0,
	"scandal":       -2.4,
	"shortage":      -1.3,
	"shrink":        -1.4,
	"slowdown":      -1.5,
	"slump":         -1.8,
	"stall":         -1.3,
	"stalled":       -1.3,
	"struggle":      -1.6,
	"struggling":    -1.6,
	"uncertain":     -1.2,
	"uncertainty":   -1.2,
	"volatile":      -1.1,
	"warning":       -1.3,
	"weak":          -1.6,
	"weakness":      -1.6,
	"worst":         -2.6,
}

// negators flip the valence of a nearby lexicon hit.
var negators = map[string]bool{
	"no":      true,
	"not":     true,
	"never":   true,
	"neither": true,
	"nor":     true,
	"without": true,
	"lack":    true,
	"lacking": true,
	"hardly":  true,
	"barely":  true,
	"n't":     true,
	"isn't":   true,
	"wasn't":  true,
	"won't":   true,
	"didn't":  true,
	"doesn't": true,
	"cannot":  true,
	"can't":   true,
}

// boosters scale a nearby valence up (+1) or down (-1).
var boosters = map[string]float64{
	"very":          1,
	"extremely":     1,
	"significantly": 1,
	"sharply":       1,
	"strongly":      1,
	"highly":        1,
	"substantially": 1,
	"massively":     1,
	"slightly":      -1,
	"marginally":    -1,
	"somewhat":      -1,
	"mildly":        -1,
	"barely":        -1,
}
