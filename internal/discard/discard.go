// Package discard decides which cards the computer player throws away
// before the exchange round.
//
// The rules are a fixed heuristic, not strength-optimal play: made hands are
// stood pat, paired cards and four-card flush or straight draws are kept,
// and with one pair the computer also holds an ace, king or queen kicker.
package discard

import (
	"sort"

	"github.com/lox/fivedraw/internal/deck"
	"github.com/lox/fivedraw/internal/evaluator"
)

// Advise evaluates hand and returns the cards to discard
func Advise(hand []deck.Card) ([]deck.Card, error) {
	res, err := evaluator.Evaluate(hand)
	if err != nil {
		return nil, err
	}
	return Choose(hand, res.Category, res.Counts), nil
}

// Choose returns the cards of hand to discard given its category and rank
// counts. An empty result means the player stands pat.
func Choose(hand []deck.Card, category evaluator.Category, counts evaluator.RankCounts) []deck.Card {
	if category.IsMade() {
		return nil
	}

	ranks := sortedRanks(hand)
	var discards []deck.Card
	for _, card := range hand {
		if shouldDiscard(card, hand, category, counts, ranks) {
			discards = append(discards, card)
		}
	}
	return discards
}

func shouldDiscard(card deck.Card, hand []deck.Card, category evaluator.Category, counts evaluator.RankCounts, ranks []int) bool {
	if counts.Of(card.Rank) >= 2 {
		return false
	}
	if partOfFlushDraw(card, hand) {
		return false
	}
	if partOfStraightDraw(int(card.Rank), ranks) {
		return false
	}
	if (category == evaluator.FullHouse || category == evaluator.OnePair) && isHighKicker(card.Rank) {
		return false
	}
	return true
}

// partOfFlushDraw reports whether card is one of four cards sharing a suit
func partOfFlushDraw(card deck.Card, hand []deck.Card) bool {
	same := 0
	for _, c := range hand {
		if c.Suit == card.Suit {
			same++
		}
	}
	return same == 4
}

// partOfStraightDraw checks the two four-card windows of the sorted ranks.
// A window spanning exactly three ranks is a run one card short of a
// straight; a card adjacent to its neighbour inside that window is kept.
func partOfStraightDraw(rank int, ranks []int) bool {
	if len(ranks) != evaluator.HandSize {
		return false
	}
	i := sort.SearchInts(ranks, rank)
	last := len(ranks) - 1

	if ranks[3]-ranks[0] == 3 {
		if i >= 3 && ranks[i]-ranks[i-1] == 1 {
			return true
		}
		if i < last && ranks[i+1]-ranks[i] == 1 {
			return true
		}
	}

	if ranks[4]-ranks[1] == 3 {
		if i <= 2 && ranks[i+1]-ranks[i] == 1 {
			return true
		}
		if i >= 1 && ranks[i]-ranks[i-1] == 1 {
			return true
		}
	}
	return false
}

func isHighKicker(r deck.Rank) bool {
	return r == deck.Ace || r == deck.King || r == deck.Queen
}

func sortedRanks(hand []deck.Card) []int {
	ranks := make([]int, len(hand))
	for i, c := range hand {
		ranks[i] = int(c.Rank)
	}
	sort.Ints(ranks)
	return ranks
}
