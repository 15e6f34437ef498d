// Package evaluator ranks five-card poker hands.
//
// Evaluate is a pure function and safe to call concurrently. Hands are
// compared by category only; two hands of the same category tie.
package evaluator

import (
	"errors"
	"fmt"
	"sort"

	"github.com/lox/fivedraw/internal/deck"
)

// HandSize is the number of cards in a draw poker hand
const HandSize = 5

var (
	// ErrInvalidHandSize is returned when a hand does not hold exactly 5 cards
	ErrInvalidHandSize = errors.New("invalid hand size")
	// ErrDuplicateCard is returned when the same card appears twice in a hand
	ErrDuplicateCard = errors.New("duplicate card")
	// ErrInvalidCard is returned for a card outside the standard deck
	ErrInvalidCard = errors.New("invalid card")
)

// RankCounts holds how many cards of each rank a hand contains, indexed by
// deck.Rank (indices 0 and 1 are unused).
type RankCounts [deck.Ace + 1]int

// Of returns the count for rank r
func (rc RankCounts) Of(r deck.Rank) int {
	return rc[r]
}

// Result is the outcome of evaluating a hand
type Result struct {
	Category Category
	Counts   RankCounts
	// Ranks holds the card values sorted ascending
	Ranks [HandSize]int
}

// Score returns the comparison score of the result's category
func (r Result) Score() int {
	return r.Category.Score()
}

// String returns the category name
func (r Result) String() string {
	return r.Category.String()
}

// Evaluate ranks a five-card hand
func Evaluate(hand []deck.Card) (Result, error) {
	if len(hand) != HandSize {
		return Result{}, fmt.Errorf("%w: got %d cards, want %d", ErrInvalidHandSize, len(hand), HandSize)
	}

	var res Result
	var suitCounts [4]int
	seen := make(map[deck.Card]bool, HandSize)
	for i, c := range hand {
		if !c.Valid() {
			return Result{}, fmt.Errorf("%w: suit %d rank %d", ErrInvalidCard, c.Suit, c.Rank)
		}
		if seen[c] {
			return Result{}, fmt.Errorf("%w: %s", ErrDuplicateCard, c)
		}
		seen[c] = true
		res.Counts[c.Rank]++
		suitCounts[c.Suit]++
		res.Ranks[i] = int(c.Rank)
	}
	sort.Ints(res.Ranks[:])

	flush := suitCounts[hand[0].Suit] == HandSize
	straight, high := checkStraight(res.Ranks)

	switch {
	case straight && flush && high == int(deck.Ace):
		res.Category = RoyalStraightFlush
	case straight && flush:
		res.Category = StraightFlush
	default:
		res.Category = categorizeCounts(res.Counts, flush, straight)
	}
	return res, nil
}

// MustEvaluate is like Evaluate but panics on error. Intended for tests.
func MustEvaluate(hand []deck.Card) Result {
	res, err := Evaluate(hand)
	if err != nil {
		panic(err)
	}
	return res
}

// categorizeCounts classifies a hand from its rank count distribution once
// straight flushes have been ruled out.
func categorizeCounts(counts RankCounts, flush, straight bool) Category {
	var pairs, trips, quads int
	for _, n := range counts {
		switch n {
		case 2:
			pairs++
		case 3:
			trips++
		case 4:
			quads++
		}
	}

	switch {
	case quads == 1:
		return FourOfAKind
	case trips == 1 && pairs == 1:
		return FullHouse
	case flush:
		return Flush
	case straight:
		return Straight
	case trips == 1:
		return ThreeOfAKind
	case pairs == 2:
		return TwoPair
	case pairs == 1:
		return OnePair
	default:
		return HighCard
	}
}

// checkStraight reports whether sorted ranks form five consecutive values
// and returns the high card. A-2-3-4-5 counts as a five-high straight.
func checkStraight(ranks [HandSize]int) (bool, int) {
	for i := 1; i < HandSize; i++ {
		if ranks[i] == ranks[i-1] {
			return false, 0
		}
	}
	if ranks[4]-ranks[0] == 4 {
		return true, ranks[4]
	}
	wheel := [HandSize]int{int(deck.Two), int(deck.Three), int(deck.Four), int(deck.Five), int(deck.Ace)}
	if ranks == wheel {
		return true, int(deck.Five)
	}
	return false, 0
}
