package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/market-intel/internal/model"
)

func TestScore_Positive(t *testing.T) {
	r := Score("Acme reported strong growth and record profit this quarter")
	assert.Greater(t, r.Score, 0.05)
	assert.Equal(t, model.SentimentPositive, r.Label)
}

func TestScore_Negative(t *testing.T) {
	r := Score("Shares plunged after the company warned of heavy losses and layoffs")
	assert.Less(t, r.Score, -0.05)
	assert.Equal(t, model.SentimentNegative, r.Label)
}

func TestScore_NeutralWhenNoLexiconHits(t *testing.T) {
	r := Score("The board will meet on Tuesday to review the quarterly filing")
	assert.InDelta(t, 0, r.Score, 0.05)
	assert.Equal(t, model.SentimentNeutral, r.Label)
}

func TestScore_EmptyText(t *testing.T) {
	r := Score("")
	assert.Zero(t, r.Score)
	assert.Equal(t, model.SentimentNeutral, r.Label)
}

func TestScore_NegationFlips(t *testing.T) {
	plain := Score("the quarter was a success")
	negated := Score("the quarter was not a success")
	assert.Positive(t, plain.Score)
	assert.Negative(t, negated.Score)
}

func TestScore_BoosterIntensifies(t *testing.T) {
	base := Score("results were strong")
	boosted := Score("results were extremely strong")
	damped := Score("results were slightly strong")
	assert.Greater(t, boosted.Score, base.Score)
	assert.Less(t, damped.Score, base.Score)
}

func TestScore_Deterministic(t *testing.T) {
	text := "Regulator fined the developer after the project stalled amid litigation"
	first := Score(text)
	second := Score(text)
	assert.Equal(t, first, second)
}

func TestScore_Bounded(t *testing.T) {
	texts := []string{
		"growth growth growth profit profit success win surge boom rally excellent",
		"crash crisis fraud bankruptcy collapse scandal losses plunge recession worst",
		"mixed quarter with gains in one segment and losses in another",
	}
	for _, text := range texts {
		r := Score(text)
		assert.GreaterOrEqual(t, r.Score, -1.0, text)
		assert.LessOrEqual(t, r.Score, 1.0, text)
	}
}

func TestLabelThresholds(t *testing.T) {
	assert.Equal(t, model.SentimentNeutral, Label(0.05))
	assert.Equal(t, model.SentimentNeutral, Label(-0.05))
	assert.Equal(t, model.SentimentPositive, Label(0.051))
	assert.Equal(t, model.SentimentNegative, Label(-0.051))
	assert.Equal(t, model.SentimentNeutral, Label(0))
}
