package evaluator

// Category is a five-card hand category. Scores strictly increase with
// hand strength so categories compare with the usual operators.
type Category int

const (
	Unranked Category = iota
	HighCard
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalStraightFlush
)

// Categories lists every ranked category from weakest to strongest
var Categories = []Category{
	HighCard, OnePair, TwoPair, ThreeOfAKind, Straight,
	Flush, FullHouse, FourOfAKind, StraightFlush, RoyalStraightFlush,
}

// Score returns the numeric comparison score (1 for high card up to 10)
func (c Category) Score() int {
	return int(c)
}

// Compare returns -1 if c is weaker, 0 if equal, 1 if c is stronger
func (c Category) Compare(other Category) int {
	switch {
	case c > other:
		return 1
	case c < other:
		return -1
	default:
		return 0
	}
}

// IsMade reports whether the category is a complete five-card hand
// (straight or better, excluding quads) that should be kept intact.
func (c Category) IsMade() bool {
	switch c {
	case Straight, Flush, FullHouse, StraightFlush, RoyalStraightFlush:
		return true
	}
	return false
}

// MarshalText encodes the category by name
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// String returns the readable name of the category
func (c Category) String() string {
	switch c {
	case Unranked:
		return "Unranked"
	case HighCard:
		return "High Card"
	case OnePair:
		return "One Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	case RoyalStraightFlush:
		return "Royal Straight Flush"
	default:
		return "Unknown"
	}
}
