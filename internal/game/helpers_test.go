package game

import (
	"testing"

	"github.com/lox/fivedraw/internal/deck"
)

// stackedDeck puts the given cards on top of the deck, followed by the
// rest of a standard deck in order
func stackedDeck(t *testing.T, top string) deck.Deck {
	t.Helper()
	cards, err := deck.ParseCards(top)
	if err != nil {
		t.Fatalf("bad stacked deck %q: %v", top, err)
	}
	used := make(map[deck.Card]bool, len(cards))
	for _, c := range cards {
		if used[c] {
			t.Fatalf("duplicate card %s in stacked deck", c)
		}
		used[c] = true
	}
	for _, c := range deck.Standard() {
		if !used[c] {
			cards = append(cards, c)
		}
	}
	return deck.FromCards(cards...)
}

// mustT returns a helper that unwraps a transition result, failing the
// test on error
func mustT(t *testing.T) func(RoundState, []Event, error) RoundState {
	return func(s RoundState, _ []Event, err error) RoundState {
		t.Helper()
		if err != nil {
			t.Fatalf("unexpected transition error: %v", err)
		}
		return s
	}
}

// startRound resets, antes and deals, leaving the human to act
func startRound(t *testing.T, top string, opts ...RoundOption) RoundState {
	t.Helper()
	must := mustT(t)
	s := NewRoundState(opts...)
	s = must(s.ResetRound("test", stackedDeck(t, top)))
	s = must(s.PostAnte())
	s = must(s.DealInitialCards())
	return s
}

var alwaysCall = PolicyFunc(func(DecisionView) Action { return Call })

func findEvent[T Event](events []Event) (T, bool) {
	for _, e := range events {
		if typed, ok := e.(T); ok {
			return typed, true
		}
	}
	var zero T
	return zero, false
}

func countEvents[T Event](events []Event) int {
	n := 0
	for _, e := range events {
		if _, ok := e.(T); ok {
			n++
		}
	}
	return n
}
