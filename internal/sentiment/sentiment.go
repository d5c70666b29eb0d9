// Package sentiment implements a lexicon-based polarity scorer for short
// business text (news summaries, trend descriptions). Scores land in [-1, 1]
// and are deterministic for identical input.
package sentiment

import (
	"math"
	"strings"
	"unicode"

	"github.com/sells-group/market-intel/internal/model"
)

const (
	// Label cutoffs. Scores within (-0.05, 0.05) are neutral.
	positiveThreshold = 0.05
	negativeThreshold = -0.05

	// negationDamp flips and dampens a valence when a negator precedes it.
	negationDamp = -0.74
	// boosterStep is the valence adjustment contributed by an intensifier.
	boosterStep = 0.293
	// normalizationAlpha flattens the raw valence sum into [-1, 1].
	normalizationAlpha = 15.0
	// negationScope is how many preceding tokens are checked for a negator.
	negationScope = 3
)

// Result is a scored piece of text.
type Result struct {
	Score float64
	Label model.SentimentLabel
}

// Score rates the polarity of text. Empty or lexicon-free text scores 0
// (neutral).
func Score(text string) Result {
	tokens := tokenize(text)

	var sum float64
	for i, tok := range tokens {
		valence, ok := lexicon[tok]
		if !ok {
			continue
		}
		if boost := precedingBoost(tokens, i); boost != 0 {
			if valence < 0 {
				valence -= boost
			} else {
				valence += boost
			}
		}
		if negatedBefore(tokens, i) {
			valence *= negationDamp
		}
		sum += valence
	}

	score := normalize(sum)
	return Result{Score: score, Label: Label(score)}
}

// Label maps a score in [-1, 1] to its three-way label.
func Label(score float64) model.SentimentLabel {
	switch {
	case score > positiveThreshold:
		return model.SentimentPositive
	case score < negativeThreshold:
		return model.SentimentNegative
	default:
		return model.SentimentNeutral
	}
}

// normalize maps an unbounded valence sum into [-1, 1].
func normalize(sum float64) float64 {
	if sum == 0 {
		return 0
	}
	n := sum / math.Sqrt(sum*sum+normalizationAlpha)
	return math.Max(-1, math.Min(1, n))
}

// precedingBoost sums intensifier contributions from the tokens immediately
// before position i.
func precedingBoost(tokens []string, i int) float64 {
	var boost float64
	for j := i - 1; j >= 0 && j >= i-negationScope; j-- {
		if b, ok := boosters[tokens[j]]; ok {
			boost += b * boosterStep
		}
	}
	return boost
}

// negatedBefore reports whether a negator appears within the scope window
// before position i.
func negatedBefore(tokens []string, i int) bool {
	for j := i - 1; j >= 0 && j >= i-negationScope; j-- {
		if negators[tokens[j]] {
			return true
		}
	}
	return false
}

// tokenize lowercases and splits on anything that is not a letter, digit or
// apostrophe.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}
