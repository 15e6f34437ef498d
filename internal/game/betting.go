package game

import (
	"fmt"
	"strings"
)

// Action is a betting decision
type Action int

const (
	NoAction Action = iota
	Check
	Call
	Raise
	Fold
)

func (a Action) String() string {
	return [...]string{"none", "check", "call", "raise", "fold"}[a]
}

// ParseAction converts a command word into an Action
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none":
		return NoAction, nil
	case "check", "k":
		return Check, nil
	case "call", "c":
		return Call, nil
	case "raise", "r":
		return Raise, nil
	case "fold", "f":
		return Fold, nil
	}
	return NoAction, fmt.Errorf("unknown action %q", s)
}

// RoundPhase is the stage the round as a whole is in
type RoundPhase int

const (
	PhaseAnte RoundPhase = iota
	PhaseDeal
	PhaseFirstBetting
	PhaseChangeHand
	PhaseSecondBetting
	PhaseShowdown
	PhaseComplete
)

func (p RoundPhase) String() string {
	return [...]string{"ante", "deal", "first_betting", "change_hand", "second_betting", "showdown", "complete"}[p]
}

// IsBetting reports whether players may check, call, raise or fold
func (p RoundPhase) IsBetting() bool {
	return p == PhaseFirstBetting || p == PhaseSecondBetting
}

// IsBettingEnd reports whether the current betting round is closed.
//
// Every player still contesting the pot must have acted and matched the
// current bet. A check with nothing wagered only closes the round once
// another contesting player has called or raised to the current bet, so a
// lone check always hands the turn on.
func (s RoundState) IsBettingEnd() bool {
	for seat := range s.Players {
		p := &s.Players[seat]
		switch p.LastAction {
		case Fold:
			continue
		case NoAction:
			return false
		case Check:
			if p.Bet == 0 && !s.closedByOther(seat) {
				return false
			}
		case Call:
			if p.Bet != s.CurrentBet {
				return false
			}
		case Raise:
			if p.Bet == 0 || p.Bet != s.CurrentBet {
				return false
			}
		}
	}
	return true
}

func (s RoundState) closedByOther(seat int) bool {
	for other := range s.Players {
		if other == seat {
			continue
		}
		p := &s.Players[other]
		if (p.LastAction == Call || p.LastAction == Raise) && p.Bet == s.CurrentBet {
			return true
		}
	}
	return false
}

// ToCall returns the chips seat must add to match the current bet
func (s RoundState) ToCall(seat int) int {
	owed := s.CurrentBet - s.Players[seat].Bet
	if owed < 0 {
		return 0
	}
	return owed
}

// ValidActions returns the actions seat may take right now, in display
// order. It is empty when seat is not the player to act.
func (s RoundState) ValidActions(seat int) []Action {
	var actions []Action
	for _, a := range []Action{Check, Call, Raise, Fold} {
		if s.legal(seat, a) == nil {
			actions = append(actions, a)
		}
	}
	return actions
}

// legal returns nil when seat may take action a, otherwise an error
// wrapping ErrIllegalAction
func (s RoundState) legal(seat int, a Action) error {
	if !s.Phase.IsBetting() {
		return fmt.Errorf("%w: no betting during %s", ErrIllegalAction, s.Phase)
	}
	if seat < 0 || seat >= len(s.Players) || seat != s.Turn {
		return fmt.Errorf("%w: seat %d is not to act", ErrIllegalAction, seat)
	}

	p := &s.Players[seat]
	toCall := s.ToCall(seat)

	switch a {
	case Check:
		if toCall > 0 {
			return fmt.Errorf("%w: cannot check facing %d", ErrIllegalAction, toCall)
		}
	case Call:
		// a short stack may always call all in
	case Raise:
		if s.Rules.MaxRaises > 0 && s.Raises >= s.Rules.MaxRaises {
			return fmt.Errorf("%w: raise cap of %d reached", ErrIllegalAction, s.Rules.MaxRaises)
		}
		cost := s.CurrentBet + s.Rules.RaiseIncrement - p.Bet
		if p.Stack < cost {
			return fmt.Errorf("%w: %s cannot cover %d to raise", ErrIllegalAction, p.Name, cost)
		}
	case Fold:
	default:
		return fmt.Errorf("%w: %s", ErrIllegalAction, a)
	}
	return nil
}

// MarshalText encodes the action by name
func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText decodes an action name such as "raise"
func (a *Action) UnmarshalText(text []byte) error {
	parsed, err := ParseAction(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// MarshalText encodes the phase by name
func (p RoundPhase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}
