package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lox/fivedraw/internal/deck"
	"github.com/lox/fivedraw/internal/game"
)

// CommandKind identifies what a line of input asks for
type CommandKind int

const (
	CommandAdvance CommandKind = iota
	CommandAction
	CommandDiscard
	CommandRestart
	CommandHint
	CommandHelp
	CommandQuit
)

// Command is a parsed line of player input
type Command struct {
	Kind    CommandKind
	Action  game.Action
	Discard []deck.Card
}

var errEmptyDraw = errors.New("name the cards to draw, e.g. 'draw 1 4' or 'draw As Td', or 'pat'")

// ParseCommand parses a line typed into the action pane. Discards may be
// given as card codes or as 1-based positions in hand.
func ParseCommand(input string, hand []deck.Card) (Command, error) {
	fields := strings.Fields(strings.ToLower(input))
	if len(fields) == 0 {
		return Command{Kind: CommandAdvance}, nil
	}

	switch fields[0] {
	case "next", "n":
		return Command{Kind: CommandAdvance}, nil
	case "new", "restart":
		return Command{Kind: CommandRestart}, nil
	case "hint":
		return Command{Kind: CommandHint}, nil
	case "help", "?":
		return Command{Kind: CommandHelp}, nil
	case "quit", "q", "exit":
		return Command{Kind: CommandQuit}, nil
	case "pat", "stand":
		return Command{Kind: CommandDiscard, Discard: []deck.Card{}}, nil
	case "draw", "discard", "d":
		if len(fields) == 1 {
			return Command{}, errEmptyDraw
		}
		cards, err := parseDiscards(fields[1:], hand)
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: CommandDiscard, Discard: cards}, nil
	}

	action, err := game.ParseAction(fields[0])
	if err != nil || action == game.NoAction {
		return Command{}, fmt.Errorf("unknown command %q, type 'help' for commands", fields[0])
	}
	if len(fields) > 1 {
		return Command{}, fmt.Errorf("%s takes no amount, raises are fixed", action)
	}
	return Command{Kind: CommandAction, Action: action}, nil
}

func parseDiscards(fields []string, hand []deck.Card) ([]deck.Card, error) {
	cards := make([]deck.Card, 0, len(fields))
	for _, f := range fields {
		if n, err := strconv.Atoi(f); err == nil {
			if n < 1 || n > len(hand) {
				return nil, fmt.Errorf("position %d is not in your hand", n)
			}
			cards = append(cards, hand[n-1])
			continue
		}
		card, err := deck.ParseCard(f)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}
