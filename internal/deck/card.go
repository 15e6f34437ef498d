package deck

import (
	"fmt"
	"strings"
)

// Suit represents a card suit
type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

// Letter returns the single character code used in card notation ("s", "h", "d", "c")
func (s Suit) Letter() string {
	switch s {
	case Spades:
		return "s"
	case Hearts:
		return "h"
	case Diamonds:
		return "d"
	case Clubs:
		return "c"
	default:
		return "?"
	}
}

// Symbol returns the unicode suit symbol for display
func (s Suit) Symbol() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	default:
		return "?"
	}
}

// IsRed returns true if the suit is red (Hearts or Diamonds)
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank represents a card rank. Values run 2..14 with the ace high.
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

const rankChars = "23456789TJQKA"

// String returns the single character rank code
func (r Rank) String() string {
	if r < Two || r > Ace {
		return "?"
	}
	return string(rankChars[r-Two])
}

// Card is a single playing card. Cards are immutable values.
type Card struct {
	Suit Suit
	Rank Rank
}

// NewCard creates a new card
func NewCard(suit Suit, rank Rank) Card {
	return Card{Suit: suit, Rank: rank}
}

// Valid reports whether the card has a known suit and rank
func (c Card) Valid() bool {
	return c.Suit >= Spades && c.Suit <= Clubs && c.Rank >= Two && c.Rank <= Ace
}

// String returns the two character notation of the card (e.g. "As", "Td")
func (c Card) String() string {
	return c.Rank.String() + c.Suit.Letter()
}

// Display returns the card with its suit symbol (e.g. "A♠")
func (c Card) Display() string {
	return c.Rank.String() + c.Suit.Symbol()
}

// IsRed returns true if the card is red
func (c Card) IsRed() bool {
	return c.Suit.IsRed()
}

// MarshalText encodes the card in two character notation
func (c Card) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes a card from two character notation
func (c *Card) UnmarshalText(text []byte) error {
	parsed, err := ParseCard(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCard parses a two character card such as "As" or "td"
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return Card{}, fmt.Errorf("invalid card %q: want 2 characters", s)
	}
	idx := strings.IndexByte(rankChars, upper(s[0]))
	if idx < 0 {
		return Card{}, fmt.Errorf("invalid rank in card %q", s)
	}
	var suit Suit
	switch lower(s[1]) {
	case 's':
		suit = Spades
	case 'h':
		suit = Hearts
	case 'd':
		suit = Diamonds
	case 'c':
		suit = Clubs
	default:
		return Card{}, fmt.Errorf("invalid suit in card %q", s)
	}
	return Card{Suit: suit, Rank: Two + Rank(idx)}, nil
}

// ParseCards parses concatenated or space separated cards ("AsKs", "As Ks")
func ParseCards(s string) ([]Card, error) {
	s = strings.Join(strings.Fields(s), "")
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("invalid card string %q: odd length", s)
	}
	cards := make([]Card, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		c, err := ParseCard(s[i : i+2])
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// MustParseCards is like ParseCards but panics on error. Intended for tests.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}

// FormatCards joins cards with spaces using their two character notation
func FormatCards(cards []Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}

func lower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b - 'A' + 'a'
	}
	return b
}
