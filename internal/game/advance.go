package game

import (
	"fmt"

	"github.com/lox/fivedraw/internal/discard"
)

// Step is the kind of work the round needs next
type Step int

const (
	StepAwaitHuman Step = iota
	StepAnte
	StepDeal
	StepComputerBet
	StepComputerExchange
	StepReset
)

func (s Step) String() string {
	return [...]string{"await_human", "ante", "deal", "computer_bet", "computer_exchange", "reset"}[s]
}

// NextStep reports what Advance would do from this state
func (s RoundState) NextStep() Step {
	switch s.Phase {
	case PhaseComplete:
		return StepReset
	case PhaseAnte, PhaseDeal:
		if !s.AntePosted {
			return StepAnte
		}
		return StepDeal
	case PhaseFirstBetting, PhaseSecondBetting:
		if s.computerToAct() {
			return StepComputerBet
		}
	case PhaseChangeHand:
		if s.computerToAct() {
			return StepComputerExchange
		}
	}
	return StepAwaitHuman
}

func (s RoundState) computerToAct() bool {
	return s.Turn != NoSeat && !s.Players[s.Turn].IsHuman()
}

// Advance performs the next automatic step: the ante, the deal, or the
// computer's turn. It returns ErrAwaitingHuman when the human must act and
// ErrRoundComplete when only ResetRound can follow.
func (s RoundState) Advance(policy Policy) (RoundState, []Event, error) {
	switch s.NextStep() {
	case StepAnte:
		return s.PostAnte()
	case StepDeal:
		return s.DealInitialCards()
	case StepComputerBet, StepComputerExchange:
		return s.ComputerAct(policy)
	case StepReset:
		return s, nil, ErrRoundComplete
	default:
		return s, nil, ErrAwaitingHuman
	}
}

// ComputerAct takes the computer's turn. Betting decisions come from the
// policy; the exchange uses the discard advisor. The computer always acts
// second, so a check is played as a call to close the round. A decision
// that is not legal falls back to a call, then a fold.
func (s RoundState) ComputerAct(policy Policy) (RoundState, []Event, error) {
	if !s.computerToAct() {
		return s, nil, fmt.Errorf("%w: computer is not to act", ErrIllegalAction)
	}
	seat := s.Turn

	switch s.Phase {
	case PhaseChangeHand:
		discards, err := discard.Advise(s.Players[seat].Hand)
		if err != nil {
			return s, nil, fmt.Errorf("advise discards: %w", err)
		}
		return s.SubmitDiscards(seat, discards)

	case PhaseFirstBetting, PhaseSecondBetting:
		choice := Call
		if policy != nil {
			choice = policy.Decide(s.View(seat))
		}
		if choice == Check {
			choice = Call
		}
		for _, a := range []Action{choice, Call, Fold} {
			if s.legal(seat, a) == nil {
				return s.SubmitAction(seat, a)
			}
		}
	}
	return s, nil, fmt.Errorf("%w: computer cannot act during %s", ErrIllegalAction, s.Phase)
}
