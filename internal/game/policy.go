package game

import (
	"slices"

	"github.com/lox/fivedraw/internal/deck"
)

// DecisionView is what a computer policy sees when asked to bet
type DecisionView struct {
	Seat           int
	Phase          RoundPhase
	Hand           []deck.Card
	Stack          int
	Bet            int
	ToCall         int
	CurrentBet     int
	Pot            int
	Raises         int
	MaxRaises      int
	OpponentAction Action
	Valid          []Action
}

// CanTake reports whether a is among the valid actions
func (v DecisionView) CanTake(a Action) bool {
	return slices.Contains(v.Valid, a)
}

// Policy decides the computer's betting action
type Policy interface {
	Decide(view DecisionView) Action
}

// PolicyFunc adapts a function to Policy
type PolicyFunc func(DecisionView) Action

func (f PolicyFunc) Decide(view DecisionView) Action { return f(view) }

// View builds the betting decision view for seat
func (s RoundState) View(seat int) DecisionView {
	p := s.Players[seat]
	hand := make([]deck.Card, len(p.Hand))
	copy(hand, p.Hand)

	opponent := NoAction
	for other := range s.Players {
		if other != seat {
			opponent = s.Players[other].LastAction
		}
	}

	return DecisionView{
		Seat:           seat,
		Phase:          s.Phase,
		Hand:           hand,
		Stack:          p.Stack,
		Bet:            p.Bet,
		ToCall:         s.ToCall(seat),
		CurrentBet:     s.CurrentBet,
		Pot:            s.Pot.Amount(),
		Raises:         s.Raises,
		MaxRaises:      s.Rules.MaxRaises,
		OpponentAction: opponent,
		Valid:          s.ValidActions(seat),
	}
}
