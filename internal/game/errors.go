package game

import "errors"

var (
	// ErrIllegalAction is returned when a command arrives for a player who
	// may not act, or the action is not allowed right now. State is unchanged.
	ErrIllegalAction = errors.New("illegal action")

	// ErrInsufficientChips is returned when a stack cannot cover the ante
	ErrInsufficientChips = errors.New("insufficient chips")

	// ErrAwaitingHuman is returned by Advance when the human must act
	ErrAwaitingHuman = errors.New("awaiting human decision")

	// ErrRoundComplete is returned by Advance when only a reset can follow
	ErrRoundComplete = errors.New("round complete")
)
