package deck

import (
	"errors"
	rand "math/rand/v2"
)

// ErrDeckExhausted is returned when drawing from an empty deck. With fixed
// hand and exchange sizes this indicates a logic error.
var ErrDeckExhausted = errors.New("deck exhausted")

// Size is the number of cards in a standard deck
const Size = 52

// Deck is an ordered sequence of cards consumed from the top
type Deck struct {
	cards []Card
}

// New creates a standard 52-card deck shuffled with rng
func New(rng *rand.Rand) Deck {
	d := Deck{cards: Standard()}
	d.Shuffle(rng)
	return d
}

// FromCards creates a deck that deals the given cards in order. Used to stack
// the deck for deterministic play.
func FromCards(cards ...Card) Deck {
	c := make([]Card, len(cards))
	copy(c, cards)
	return Deck{cards: c}
}

// Standard returns the 52 cards in suit then rank order
func Standard() []Card {
	cards := make([]Card, 0, Size)
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			cards = append(cards, NewCard(suit, rank))
		}
	}
	return cards
}

// Shuffle randomizes the order of the remaining cards (Fisher-Yates)
func (d *Deck) Shuffle(rng *rand.Rand) {
	if rng == nil {
		panic("rng is required to shuffle")
	}
	for i := len(d.cards) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw removes and returns the top card
func (d *Deck) Draw() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrDeckExhausted
	}
	card := d.cards[0]
	d.cards = d.cards[1:]
	return card, nil
}

// DrawN draws n cards. On exhaustion no cards are consumed.
func (d *Deck) DrawN(n int) ([]Card, error) {
	if n > len(d.cards) {
		return nil, ErrDeckExhausted
	}
	cards := make([]Card, n)
	copy(cards, d.cards[:n])
	d.cards = d.cards[n:]
	return cards, nil
}

// Remaining returns the number of cards left in the deck
func (d Deck) Remaining() int {
	return len(d.cards)
}

// Clone returns an independent copy of the deck
func (d Deck) Clone() Deck {
	return FromCards(d.cards...)
}
