package discard

import (
	"testing"

	"github.com/lox/fivedraw/internal/deck"
	"github.com/lox/fivedraw/internal/evaluator"
	"github.com/lox/fivedraw/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvise(t *testing.T) {
	tests := []struct {
		name     string
		hand     string
		discards string
	}{
		{name: "royal straight flush stands pat", hand: "AsKsQsJsTs", discards: ""},
		{name: "straight flush stands pat", hand: "9h8h7h6h5h", discards: ""},
		{name: "full house stands pat", hand: "QsQhQd4c4h", discards: ""},
		{name: "flush stands pat", hand: "As9s6s3s2s", discards: ""},
		{name: "straight stands pat", hand: "9sTdJhQcKd", discards: ""},
		{name: "one pair keeps pair only", hand: "KsKh9d5c2h", discards: "9d5c2h"},
		{name: "one pair keeps ace kicker", hand: "8s8hAd5c2h", discards: "5c2h"},
		{name: "one pair keeps queen kicker", hand: "3s3hQd9c6h", discards: "9c6h"},
		{name: "two pair discards kicker", hand: "KsKh9d9c2h", discards: "2h"},
		{name: "trips discard both kickers", hand: "7s7h7dKc2h", discards: "Kc2h"},
		{name: "quads discard kicker", hand: "9s9h9d9c3h", discards: "3h"},
		{name: "flush draw keeps four suited", hand: "As9s6s3sKd", discards: "Kd"},
		{name: "low straight draw", hand: "5s6d7c8hKd", discards: "Kd"},
		{name: "high straight draw", hand: "2c9sTdJhQc", discards: "2c"},
		{name: "high card keeps no kicker", hand: "AsKhQd8c3h", discards: "AsKhQd8c3h"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Advise(deck.MustParseCards(tt.hand))
			require.NoError(t, err)
			assert.Equal(t, tt.discards, join(got))
		})
	}
}

func TestAdviseRejectsInvalidHand(t *testing.T) {
	_, err := Advise(deck.MustParseCards("AsKs"))
	assert.ErrorIs(t, err, evaluator.ErrInvalidHandSize)
}

func TestChooseRoyalAlwaysEmpty(t *testing.T) {
	for _, suit := range []string{"s", "h", "d", "c"} {
		hand := deck.MustParseCards("A" + suit + "K" + suit + "Q" + suit + "J" + suit + "T" + suit)
		res := evaluator.MustEvaluate(hand)
		require.Equal(t, evaluator.RoyalStraightFlush, res.Category)
		assert.Empty(t, Choose(hand, res.Category, res.Counts))
	}
}

func TestDiscardsAreSubsetOfHand(t *testing.T) {
	rng := randutil.New(3)
	for i := 0; i < 1000; i++ {
		d := deck.New(rng)
		hand, err := d.DrawN(evaluator.HandSize)
		require.NoError(t, err)

		discards, err := Advise(hand)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(discards), len(hand))
		for _, c := range discards {
			assert.Contains(t, hand, c)
		}

		res := evaluator.MustEvaluate(hand)
		if res.Category.IsMade() {
			assert.Empty(t, discards, "made hand %s", deck.FormatCards(hand))
		}
		for _, c := range discards {
			assert.Less(t, res.Counts.Of(c.Rank), 2, "paired card %s discarded", c)
		}
	}
}

func join(cards []deck.Card) string {
	s := ""
	for _, c := range cards {
		s += c.String()
	}
	return s
}
