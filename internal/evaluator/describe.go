package evaluator

import (
	"fmt"

	"github.com/lox/fivedraw/internal/deck"
	"github.com/paulhankin/poker"
)

// Describe returns a detailed label for a hand such as "pair of kings".
// The label is informational only; comparisons use the category.
func Describe(hand []deck.Card) (string, error) {
	if len(hand) != HandSize {
		return "", fmt.Errorf("%w: got %d cards, want %d", ErrInvalidHandSize, len(hand), HandSize)
	}
	cards := make([]poker.Card, len(hand))
	for i, c := range hand {
		pc, err := toLibraryCard(c)
		if err != nil {
			return "", err
		}
		cards[i] = pc
	}
	return poker.Describe(cards)
}

// Label returns the detailed description when available and falls back to
// the category name.
func Label(hand []deck.Card, res Result) string {
	if desc, err := Describe(hand); err == nil && desc != "" {
		return desc
	}
	return res.Category.String()
}

// toLibraryCard converts a deck card. The library numbers ranks 1..13 with
// the ace as 1.
func toLibraryCard(c deck.Card) (poker.Card, error) {
	var s poker.Suit
	switch c.Suit {
	case deck.Clubs:
		s = poker.Club
	case deck.Diamonds:
		s = poker.Diamond
	case deck.Hearts:
		s = poker.Heart
	case deck.Spades:
		s = poker.Spade
	default:
		var zero poker.Card
		return zero, fmt.Errorf("unknown suit %d", c.Suit)
	}
	r := poker.Rank(c.Rank)
	if c.Rank == deck.Ace {
		r = poker.Rank(1)
	}
	return poker.MakeCard(s, r)
}
