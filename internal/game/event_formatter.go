package game

import (
	"fmt"
	"strings"

	"github.com/lox/fivedraw/internal/deck"
)

// FormattingOptions controls how events are formatted for different contexts
type FormattingOptions struct {
	Perspective   int  // Seat whose cards are always shown
	ShowAllCards  bool // Reveal every hand as it is dealt (simulations, debugging)
	ShowChipMoves bool // Include stack, bet and pot updates
	Color         bool // Wrap red suits and headings in ANSI codes
}

// EventFormatter turns round events into log lines
type EventFormatter struct {
	opts FormattingOptions
}

// NewEventFormatter creates a new event formatter with the given options
func NewEventFormatter(opts FormattingOptions) *EventFormatter {
	return &EventFormatter{opts: opts}
}

// Format returns the log line for an event, or "" if the event is not
// shown with the current options
func (ef *EventFormatter) Format(event Event) string {
	switch e := event.(type) {
	case RoundPhaseChangedEvent:
		return ef.formatPhase(e)
	case CardsDealtEvent:
		if e.Seat != ef.opts.Perspective && !ef.opts.ShowAllCards {
			return fmt.Sprintf("%s: dealt 5 cards", e.Name)
		}
		return fmt.Sprintf("%s: dealt %s", e.Name, ef.formatCards(e.Cards))
	case ActionTakenEvent:
		return ef.formatAction(e)
	case CardsExchangedEvent:
		return ef.formatExchange(e)
	case HandRankRevealedEvent:
		return fmt.Sprintf("%s: shows %s (%s)", e.Name, ef.formatCards(e.Hand), e.Label)
	case RoundResultEvent:
		return ef.formatResult(e.Result)
	case GameOverEvent:
		return ef.bold(fmt.Sprintf("GAME OVER: %s (%s has %d)", e.Reason, e.Name, e.Stack))
	case PotChangedEvent:
		if ef.opts.ShowChipMoves {
			return fmt.Sprintf("pot: %d", e.Amount)
		}
	case PlayerStackChangedEvent:
		if ef.opts.ShowChipMoves {
			return fmt.Sprintf("%s: stack %d", e.Name, e.Stack)
		}
	case PlayerBetChangedEvent:
		if ef.opts.ShowChipMoves {
			return fmt.Sprintf("%s: bet %d", e.Name, e.Bet)
		}
	}
	return ""
}

func (ef *EventFormatter) formatPhase(e RoundPhaseChangedEvent) string {
	switch e.Phase {
	case PhaseAnte:
		return ef.bold(fmt.Sprintf("\n*** ROUND %d ***", e.Round))
	case PhaseFirstBetting:
		return ef.bold("*** FIRST BETTING ***")
	case PhaseChangeHand:
		return ef.bold("*** DRAW ***")
	case PhaseSecondBetting:
		return ef.bold("*** SECOND BETTING ***")
	case PhaseShowdown:
		return ef.bold("*** SHOWDOWN ***")
	}
	return ""
}

func (ef *EventFormatter) formatAction(e ActionTakenEvent) string {
	switch e.Action {
	case Check:
		return fmt.Sprintf("%s: checks", e.Name)
	case Call:
		if e.Amount == 0 {
			return fmt.Sprintf("%s: calls", e.Name)
		}
		return fmt.Sprintf("%s: calls %d", e.Name, e.Amount)
	case Raise:
		return fmt.Sprintf("%s: raises to %d", e.Name, e.CurrentBet)
	case Fold:
		return fmt.Sprintf("%s: folds", e.Name)
	}
	return fmt.Sprintf("%s: %s %d", e.Name, e.Action, e.Amount)
}

func (ef *EventFormatter) formatExchange(e CardsExchangedEvent) string {
	n := len(e.Discarded)
	switch {
	case n == 0:
		return fmt.Sprintf("%s: stands pat", e.Name)
	case e.Seat == ef.opts.Perspective || ef.opts.ShowAllCards:
		return fmt.Sprintf("%s: discards %s, draws %s", e.Name, ef.formatCards(e.Discarded), ef.formatCards(e.Drawn))
	case n == 1:
		return fmt.Sprintf("%s: draws 1 card", e.Name)
	default:
		return fmt.Sprintf("%s: draws %d cards", e.Name, n)
	}
}

func (ef *EventFormatter) formatResult(r RoundResult) string {
	switch {
	case r.NoContest:
		return ef.bold(fmt.Sprintf("Round %d: %s, pot %d uncontested", r.Round, r.Outcome, r.Pot))
	case r.Outcome == OutcomePush:
		return ef.bold(fmt.Sprintf("Round %d: PUSH, pot %d split", r.Round, r.Pot))
	}
	return ef.bold(fmt.Sprintf("Round %d: %s, pot %d", r.Round, r.Outcome, r.Pot))
}

func (ef *EventFormatter) formatCards(cards []deck.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = ef.formatCard(c)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func (ef *EventFormatter) formatCard(c deck.Card) string {
	if ef.opts.Color && c.IsRed() {
		return "\033[31m" + c.Display() + "\033[0m"
	}
	return c.Display()
}

func (ef *EventFormatter) bold(s string) string {
	if ef.opts.Color {
		return "\033[1m" + s + "\033[0m"
	}
	return s
}
