package phh

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lox/fivedraw/internal/deck"
	"github.com/lox/fivedraw/internal/game"
)

// Encode writes the hand as numbered section n of a session file
func Encode(w io.Writer, n int, hand *HandHistory) error {
	if hand == nil {
		return fmt.Errorf("phh: hand history is nil")
	}

	enc := toml.NewEncoder(w)
	// Use tabs for arrays to match human expectations
	enc.Indent = "\t"
	return enc.Encode(map[string]*HandHistory{strconv.Itoa(n): hand})
}

// Decode reads every section of a session file in section order
func Decode(r io.Reader) ([]HandHistory, error) {
	var sections map[string]HandHistory
	if _, err := toml.NewDecoder(r).Decode(&sections); err != nil {
		return nil, fmt.Errorf("phh: %w", err)
	}

	keys := make([]int, 0, len(sections))
	for k := range sections {
		n, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("phh: section %q is not a number", k)
		}
		keys = append(keys, n)
	}
	sort.Ints(keys)

	hands := make([]HandHistory, 0, len(keys))
	for _, n := range keys {
		hands = append(hands, sections[strconv.Itoa(n)])
	}
	return hands, nil
}

func player(seat int) string {
	return fmt.Sprintf("p%d", seat+1)
}

func cards(cs []deck.Card) string {
	return strings.ReplaceAll(deck.FormatCards(cs), " ", "")
}

// FormatAction converts a betting action to its PHH action string. Raises
// carry the bet the player raised to.
func FormatAction(seat int, action game.Action, currentBet int) (string, bool) {
	switch action {
	case game.Fold:
		return player(seat) + " f", true
	case game.Check, game.Call:
		return player(seat) + " cc", true
	case game.Raise:
		if currentBet <= 0 {
			return "", false
		}
		return fmt.Sprintf("%s cbr %d", player(seat), currentBet), true
	}
	return "", false
}

// FormatDeal is the dealer action giving seat its cards
func FormatDeal(seat int, dealt []deck.Card) string {
	return fmt.Sprintf("d dh %s %s", player(seat), cards(dealt))
}

// FormatDiscard is the stand pat or discard action. Standing pat has no
// cards.
func FormatDiscard(seat int, discarded []deck.Card) string {
	if len(discarded) == 0 {
		return player(seat) + " sd"
	}
	return fmt.Sprintf("%s sd %s", player(seat), cards(discarded))
}

// FormatShow is the showdown action revealing seat's hand
func FormatShow(seat int, hand []deck.Card) string {
	return fmt.Sprintf("%s sm %s", player(seat), cards(hand))
}
